package operators

import "math/rand"

// Tournament returns the index of the lowest-energy entrant among size
// indices drawn uniformly with replacement from energies. Ties keep the
// earlier entrant. size < 1 is treated as 1 (uniform random pick), so every
// index has nonzero selection probability for any size.
//
// Complexity: O(size).
func Tournament(energies []int, size int, rng *rand.Rand) (int, error) {
	if len(energies) == 0 {
		return 0, ErrEmptyPool
	}
	if rng == nil {
		return 0, ErrNilRand
	}
	if size < 1 {
		size = 1
	}

	best := rng.Intn(len(energies))
	var cand int
	for i := 1; i < size; i++ {
		cand = rng.Intn(len(energies))
		if energies[cand] < energies[best] {
			best = cand
		}
	}

	return best, nil
}

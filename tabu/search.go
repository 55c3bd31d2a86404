package tabu

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/katalvlaran/labsearch/sequence"
)

// Search runs a tabu walk from s and returns the best state visited.
//
// On context cancellation the best state found so far is returned together
// with ctx.Err(); Result.Stop is StopCanceled.
//
// Errors: sequence.ErrInvalidSequence (wrapped), ErrNilRand, ErrInvalidOptions.
//
// Complexity: O(MaxMoves·N²) time, O(N + MaxTenure·N) space.
func Search(ctx context.Context, s sequence.Sequence, rng *rand.Rand, opts Options) (Result, error) {
	if err := sequence.Validate(s, 0); err != nil {
		return Result{}, fmt.Errorf("tabu: %w", err)
	}
	if rng == nil {
		return Result{}, ErrNilRand
	}
	n := len(s)
	cfg, err := opts.resolve(n)
	if err != nil {
		return Result{}, err
	}

	cur := s.Clone()
	corr := sequence.Autocorrelations(cur)
	curE := sequence.EnergyFromCorrelations(corr)

	res := Result{Best: cur.Clone(), Energy: curE, Stop: StopBudget}
	if cfg.target >= 0 && curE <= cfg.target {
		res.Stop = StopTarget

		return res, nil
	}

	mem := newMemory(cfg.maxTenure)
	mem.remember(sequence.Key(cur), 0, tenure(cfg, rng))

	var (
		move    int    // moves performed so far
		stale   int    // consecutive moves without a new best
		j       int    // candidate flip position
		e       int    // candidate energy
		pickJ   int    // chosen flip position, −1 if none
		pickE   int    // chosen energy
		ties    int    // equal-energy candidates seen for reservoir sampling
		key     string // canonical key of the candidate
		pickKey string // canonical key of the chosen neighbour
	)
	for move = 0; move < cfg.maxMoves; move++ {
		if err = ctx.Err(); err != nil {
			res.Stop = StopCanceled

			return res, err
		}

		pickJ, pickE, ties = -1, math.MaxInt, 0
		for j = 0; j < n; j++ {
			e = sequence.FlipEnergy(cur, corr, j)
			res.Evaluations++
			if e > pickE {
				continue
			}
			cur[j] = -cur[j]
			key = sequence.Key(cur)
			cur[j] = -cur[j]
			if e >= res.Energy && mem.isTabu(key, move) {
				continue
			}
			if e < pickE {
				pickJ, pickE, pickKey, ties = j, e, key, 1
				continue
			}
			ties++
			if rng.Intn(ties) == 0 {
				pickJ, pickKey = j, key
			}
		}
		if pickJ < 0 {
			res.Stop = StopStuck
			break
		}

		sequence.ApplyFlip(cur, corr, pickJ)
		curE = pickE
		res.Moves++
		mem.remember(pickKey, move+1, tenure(cfg, rng))

		if curE < res.Energy {
			res.Energy = curE
			copy(res.Best, cur)
			res.Improved++
			stale = 0
			if cfg.target >= 0 && curE <= cfg.target {
				res.Stop = StopTarget
				break
			}
		} else {
			stale++
			if cfg.patience > 0 && stale >= cfg.patience {
				res.Stop = StopPatience
				break
			}
		}
	}

	return res, nil
}

// tenure draws a tenure uniformly from [minTenure, maxTenure].
func tenure(cfg resolved, rng *rand.Rand) int {
	if cfg.maxTenure == cfg.minTenure {
		return cfg.minTenure
	}

	return cfg.minTenure + rng.Intn(cfg.maxTenure-cfg.minTenure+1)
}

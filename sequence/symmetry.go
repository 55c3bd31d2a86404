package sequence

// Symmetry is one of the four energy-preserving transforms of a LABS
// sequence. Together they form the group {e, n, r, n∘r} ≅ Z2×Z2.
type Symmetry int

const (
	// SymIdentity leaves the sequence unchanged.
	SymIdentity Symmetry = iota
	// SymNegate flips every sign: s[i] → −s[i].
	SymNegate
	// SymReverse reads the sequence backwards: s[i] → s[N−1−i].
	SymReverse
	// SymNegateReverse applies SymReverse then SymNegate.
	SymNegateReverse
)

// symmetryCount is the order of the LABS symmetry group.
const symmetryCount = 4

// Symmetries returns all four transforms in canonical order.
func Symmetries() []Symmetry {
	return []Symmetry{SymIdentity, SymNegate, SymReverse, SymNegateReverse}
}

// String returns a short name for the transform.
func (sym Symmetry) String() string {
	switch sym {
	case SymIdentity:
		return "identity"
	case SymNegate:
		return "negate"
	case SymReverse:
		return "reverse"
	case SymNegateReverse:
		return "negate-reverse"
	default:
		return "unknown"
	}
}

// Apply returns the image of s under sym as a new slice. Unknown values
// behave as SymIdentity.
//
// Complexity: O(N).
func (sym Symmetry) Apply(s Sequence) Sequence {
	switch sym {
	case SymNegate:
		return negate(s)
	case SymReverse:
		return reverse(s)
	case SymNegateReverse:
		return negateReverse(s)
	default:
		return s.Clone()
	}
}

// Negate returns −s.
func Negate(s Sequence) Sequence { return negate(s) }

// Reverse returns s read backwards.
func Reverse(s Sequence) Sequence { return reverse(s) }

// NegateReverse returns −reverse(s).
func NegateReverse(s Sequence) Sequence { return negateReverse(s) }

func negate(s Sequence) Sequence {
	out := make(Sequence, len(s))
	for i, v := range s {
		out[i] = -v
	}

	return out
}

func reverse(s Sequence) Sequence {
	n := len(s)
	out := make(Sequence, n)
	for i, v := range s {
		out[n-1-i] = v
	}

	return out
}

func negateReverse(s Sequence) Sequence {
	n := len(s)
	out := make(Sequence, n)
	for i, v := range s {
		out[n-1-i] = -v
	}

	return out
}

// Orbit returns the distinct images of s under the symmetry group, starting
// with s itself. Palindromes and antipalindromes have orbits of size 2.
//
// Complexity: O(N).
func Orbit(s Sequence) []Sequence {
	out := make([]Sequence, 0, symmetryCount)
	for _, sym := range Symmetries() {
		img := sym.Apply(s)
		dup := false
		for _, seen := range out {
			if Equal(seen, img) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, img)
		}
	}

	return out
}

// Canonical returns the lexicographically smallest image of s (with −1 < +1).
// Two sequences share a canonical form iff they are symmetry-equivalent, and
// they then share the same energy.
//
// Complexity: O(N) time; one allocation for the result.
func Canonical(s Sequence) Sequence {
	best := canonicalSymmetry(s)

	return best.Apply(s)
}

// Key is the text form of Canonical(s), suitable as a map key for
// deduplication and tabu memories.
//
// Complexity: O(N).
func Key(s Sequence) string {
	n := len(s)
	sym := canonicalSymmetry(s)
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		if imageAt(s, sym, i) > 0 {
			buf[i] = upRune
		} else {
			buf[i] = downRune
		}
	}

	return string(buf)
}

// canonicalSymmetry selects the transform whose image is lexicographically
// smallest, comparing images position by position without materialising them.
func canonicalSymmetry(s Sequence) Symmetry {
	best := SymIdentity
	for _, sym := range Symmetries()[1:] {
		if compareImages(s, sym, best) < 0 {
			best = sym
		}
	}

	return best
}

// compareImages compares a(s) and b(s) lexicographically.
func compareImages(s Sequence, a, b Symmetry) int {
	var va, vb int8
	for i := range s {
		va = imageAt(s, a, i)
		vb = imageAt(s, b, i)
		if va != vb {
			if va < vb {
				return -1
			}

			return 1
		}
	}

	return 0
}

// imageAt returns position i of sym(s).
func imageAt(s Sequence, sym Symmetry, i int) int8 {
	n := len(s)
	switch sym {
	case SymNegate:
		return -s[i]
	case SymReverse:
		return s[n-1-i]
	case SymNegateReverse:
		return -s[n-1-i]
	default:
		return s[i]
	}
}

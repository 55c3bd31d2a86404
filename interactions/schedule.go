package interactions

import (
	"fmt"
	"math"
)

// Coupling weights of the two- and four-body terms in the energy expansion.
const (
	twoBodyWeight  = 2.0
	fourBodyWeight = 4.0
)

// Topology summarizes G2/G4 for the gauge coefficient: term counts and
// site-resolved overlaps Σ_v deg_a(v)·deg_b(v), where deg_x(v) is the number
// of tuples of set x containing site v.
type Topology struct {
	N         int
	Pairs     int // |G2|
	Quartets  int // |G4|
	Overlap22 int // Σ_v deg2(v)²
	Overlap44 int // Σ_v deg4(v)²
	Overlap24 int // Σ_v deg2(v)·deg4(v)
}

// NewTopology computes the Topology of the given sets for length n.
//
// Complexity: O(N + |G2| + |G4|).
func NewTopology(n int, g2 []Pair, g4 []Quartet) (Topology, error) {
	if n < 1 {
		return Topology{}, fmt.Errorf("%w: N=%d", ErrInvalidSize, n)
	}
	if err := checkIndices(n, g2, g4); err != nil {
		return Topology{}, err
	}

	deg2 := make([]int, n)
	deg4 := make([]int, n)
	for _, p := range g2 {
		deg2[p[0]]++
		deg2[p[1]]++
	}
	for _, q := range g4 {
		for _, v := range q {
			deg4[v]++
		}
	}

	tp := Topology{N: n, Pairs: len(g2), Quartets: len(g4)}
	for v := 0; v < n; v++ {
		tp.Overlap22 += deg2[v] * deg2[v]
		tp.Overlap44 += deg4[v] * deg4[v]
		tp.Overlap24 += deg2[v] * deg4[v]
	}

	return tp, nil
}

// Gamma1 is the numerator of the gauge coefficient; it depends only on the
// term counts.
func (tp Topology) Gamma1() float64 {
	w2 := twoBodyWeight * twoBodyWeight
	w4 := fourBodyWeight * fourBodyWeight

	return 4 * (w2*float64(tp.Pairs) + w4*float64(tp.Quartets))
}

// Gamma2 is the (non-positive) denominator of the gauge coefficient at
// schedule position lambda ∈ [0,1]. The transverse-field part decays with
// (1−λ)², the problem part grows with λ² through the overlaps.
func (tp Topology) Gamma2(lambda float64) float64 {
	w2 := twoBodyWeight * twoBodyWeight
	w4 := fourBodyWeight * fourBodyWeight
	field := 4 * (2*w2*float64(tp.Pairs) + 4*w4*float64(tp.Quartets))
	problem := 4 * (w2*float64(tp.Overlap22) + w4*float64(tp.Overlap44) +
		2*twoBodyWeight*fourBodyWeight*float64(tp.Overlap24))
	mu := 1 - lambda

	return -(mu*mu*field + lambda*lambda*problem)
}

// Alpha returns α(λ) = −Γ1/Γ2, or 0 when there are no interactions.
func (tp Topology) Alpha(lambda float64) float64 {
	g2 := tp.Gamma2(lambda)
	if g2 == 0 {
		return 0
	}

	return -tp.Gamma1() / g2
}

// Lambda is the sin² annealing ramp λ(t) = sin²(πt / 2T).
func Lambda(t, total float64) float64 {
	s := math.Sin(math.Pi * t / (2 * total))

	return s * s
}

// LambdaDot is dλ/dt = (π / 2T)·sin(πt / T).
func LambdaDot(t, total float64) float64 {
	return math.Pi / (2 * total) * math.Sin(math.Pi*t/total)
}

// Theta returns the angle θ(t) = dt·α(λ(t))·λ̇(t) for the given time point of
// a schedule of total duration total discretized into steps of size dt.
//
// Errors:
//   - ErrInvalidSchedule  — total ≤ 0, dt ≤ 0 or any non-finite input.
//   - ErrInvalidSize / ErrIndexOutOfRange — bad n or tuples.
//   - ErrNonFiniteResult  — the evaluation overflowed to NaN/±Inf.
//
// Complexity: O(N + |G2| + |G4|); use Schedule to amortize the topology.
func Theta(t, dt, total float64, n int, g2 []Pair, g4 []Quartet) (float64, error) {
	if err := checkTimes(t, dt, total); err != nil {
		return 0, err
	}
	tp, err := NewTopology(n, g2, g4)
	if err != nil {
		return 0, err
	}

	return tp.theta(t, dt, total)
}

func (tp Topology) theta(t, dt, total float64) (float64, error) {
	v := dt * tp.Alpha(Lambda(t, total)) * LambdaDot(t, total)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: theta(t=%g, dt=%g, T=%g)", ErrNonFiniteResult, t, dt, total)
	}

	return v, nil
}

func checkTimes(t, dt, total float64) error {
	for _, v := range []float64{t, dt, total} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite input", ErrInvalidSchedule)
		}
	}
	if total <= 0 {
		return fmt.Errorf("%w: total time %g", ErrInvalidSchedule, total)
	}
	if dt <= 0 {
		return fmt.Errorf("%w: step %g", ErrInvalidSchedule, dt)
	}

	return nil
}

// Schedule precomputes the topology for one N and a discretization of the
// total time into Steps equal steps.
type Schedule struct {
	N     int
	Total float64
	Steps int

	topo Topology
	g2   []Pair
	g4   []Quartet
}

// NewSchedule builds the interaction sets for n and returns a schedule over
// total time split into steps.
//
// Complexity: O(N³) once (enumeration of G4).
func NewSchedule(n int, total float64, steps int) (*Schedule, error) {
	if steps < 1 {
		return nil, fmt.Errorf("%w: steps %d", ErrInvalidSchedule, steps)
	}
	if err := checkTimes(0, total/float64(steps), total); err != nil {
		return nil, err
	}
	g2, g4, err := Get(n)
	if err != nil {
		return nil, err
	}
	tp, err := NewTopology(n, g2, g4)
	if err != nil {
		return nil, err
	}

	return &Schedule{N: n, Total: total, Steps: steps, topo: tp, g2: g2, g4: g4}, nil
}

// Topology returns the cached topology.
func (s *Schedule) Topology() Topology { return s.topo }

// Interactions returns the G2/G4 sets the schedule was built from. The
// slices are shared; callers must not modify them.
func (s *Schedule) Interactions() ([]Pair, []Quartet) { return s.g2, s.g4 }

// Dt returns the step size T/Steps.
func (s *Schedule) Dt() float64 { return s.Total / float64(s.Steps) }

// At returns θ at t = step·dt for step in [1, Steps].
func (s *Schedule) At(step int) (float64, error) {
	if step < 1 || step > s.Steps {
		return 0, fmt.Errorf("%w: step %d outside [1,%d]", ErrInvalidSchedule, step, s.Steps)
	}
	dt := s.Dt()

	return s.topo.theta(float64(step)*dt, dt, s.Total)
}

// Angles returns θ for every step 1..Steps.
//
// Complexity: O(Steps).
func (s *Schedule) Angles() ([]float64, error) {
	out := make([]float64, s.Steps)
	for step := 1; step <= s.Steps; step++ {
		v, err := s.At(step)
		if err != nil {
			return nil, err
		}
		out[step-1] = v
	}

	return out, nil
}

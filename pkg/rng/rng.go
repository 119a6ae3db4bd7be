package rng

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// RNG provides deterministic random number generation for one pipeline
// stage of one stochastic iteration. Each stage derives its own seed from
// the master seed to ensure isolation and reproducibility. The derivation
// follows the formula:
//
//	seed_stage = H(masterSeed, stageName, configHash)
//
// where H is SHA-256 and the first 8 bytes are used as the uint64 seed.
//
// All methods are deterministic given the same initial seed, making
// simulation runs reproducible across processes and platforms.
type RNG struct {
	seed      uint64
	stageName string
	src       rand.Source // mutable entropy source, shared with distuv draws
	source    *rand.Rand  // wraps src for stdlib-style draws
}

// NewRNG creates a stage-specific RNG by deriving a sub-seed from the master
// seed. The derivation uses SHA-256 to combine:
//   - masterSeed: the top-level seed for this iteration
//   - stageName: identifies the pipeline stage (e.g. "contamination")
//   - configHash: hash of the configuration, so config changes shift the
//     stream (sensitivity)
func NewRNG(masterSeed uint64, stageName string, configHash []byte) *RNG {
	h := sha256.New()

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], masterSeed)
	h.Write(buf[:])
	h.Write([]byte(stageName))
	h.Write(configHash)

	hash := h.Sum(nil)
	derivedSeed := binary.BigEndian.Uint64(hash[:8])

	src := rand.NewSource(int64(derivedSeed))
	return &RNG{
		seed:      derivedSeed,
		stageName: stageName,
		src:       src,
		source:    rand.New(src),
	}
}

// Seed returns the derived seed for this RNG.
func (r *RNG) Seed() uint64 { return r.seed }

// StageName returns the stage name this RNG was created for.
func (r *RNG) StageName() string { return r.stageName }

// Uint64 returns a pseudo-random 64-bit unsigned integer.
func (r *RNG) Uint64() uint64 {
	return r.source.Uint64()
}

// Intn returns a pseudo-random integer in [0, n). Panics if n <= 0.
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn argument must be positive")
	}
	return r.source.Intn(n)
}

// Float64 returns a pseudo-random float64 in [0.0, 1.0).
func (r *RNG) Float64() float64 {
	return r.source.Float64()
}

// Shuffle pseudo-randomizes the order of elements in a collection of size n.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	r.source.Shuffle(n, swap)
}

// IntRange returns a pseudo-random integer in [lo, hi]. Panics if lo > hi.
func (r *RNG) IntRange(lo, hi int) int {
	if lo > hi {
		panic("rng: IntRange lo must be <= hi")
	}
	if lo == hi {
		return lo
	}
	return lo + r.source.Intn(hi-lo+1)
}

// Float64Range returns a pseudo-random float64 in [lo, hi). Panics if lo >= hi.
func (r *RNG) Float64Range(lo, hi float64) float64 {
	if lo >= hi {
		panic("rng: Float64Range lo must be < hi")
	}
	return lo + r.source.Float64()*(hi-lo)
}

// Bool returns a pseudo-random boolean value.
func (r *RNG) Bool() bool {
	return r.source.Intn(2) == 1
}

// Bernoulli draws a single boolean trial that succeeds with probability p.
// p is clamped to [0,1].
func (r *RNG) Bernoulli(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.source.Float64() < p
}

// Binomial draws a sample from Binomial(n, p) using gonum's distuv, sharing
// this RNG's entropy source so the draw takes its place in the fixed
// per-consignment draw order (I5).
func (r *RNG) Binomial(n int, p float64) int {
	if n <= 0 {
		return 0
	}
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return n
	}
	d := distuv.Binomial{N: float64(n), P: p, Src: r.src}
	return int(d.Rand())
}

// Beta draws a single sample from Beta(a, b). Panics if a <= 0 or b <= 0.
func (r *RNG) Beta(a, b float64) float64 {
	if a <= 0 || b <= 0 {
		panic("rng: Beta shape parameters must be positive")
	}
	d := distuv.Beta{Alpha: a, Beta: b, Src: r.src}
	return d.Rand()
}

// Gamma draws a single sample from Gamma(shape, rate). Panics if shape <= 0
// or rate <= 0.
func (r *RNG) Gamma(shape, rate float64) float64 {
	if shape <= 0 || rate <= 0 {
		panic("rng: Gamma parameters must be positive")
	}
	d := distuv.Gamma{Alpha: shape, Beta: rate, Src: r.src}
	return d.Rand()
}

// Hypergeometric draws the number of "marked" items found in a sample of
// size n drawn without replacement from a population of size N containing K
// marked items. Implemented as a sequence of conditional Bernoulli draws
// over the shrinking urn, which is exact and does not require materializing
// the population. Clamped so 0 <= n <= N and 0 <= K <= N.
func (r *RNG) Hypergeometric(N, K, n int) int {
	if N <= 0 || n <= 0 || K <= 0 {
		return 0
	}
	if n > N {
		n = N
	}
	if K > N {
		K = N
	}
	remainingPop := N
	remainingMarked := K
	drawn := 0
	for i := 0; i < n; i++ {
		if remainingPop <= 0 {
			break
		}
		p := float64(remainingMarked) / float64(remainingPop)
		if r.Bernoulli(p) {
			drawn++
			remainingMarked--
		}
		remainingPop--
	}
	return drawn
}

// ChoiceWithoutReplacement selects k distinct indices uniformly from
// [0, n), in selection order. Uses a sparse partial Fisher-Yates shuffle
// (a map records only the indices that have been swapped) so the cost is
// O(k) regardless of how large n is — important since a consignment can
// carry up to ~500,000 items (spec.md §9). Panics if k > n.
func (r *RNG) ChoiceWithoutReplacement(n, k int) []int {
	if k > n {
		panic("rng: ChoiceWithoutReplacement k must be <= n")
	}
	if k <= 0 {
		return nil
	}
	overrides := make(map[int]int, k)
	result := make([]int, 0, k)

	valueAt := func(i int) int {
		if v, ok := overrides[i]; ok {
			return v
		}
		return i
	}

	for i := 0; i < k; i++ {
		j := i + r.Intn(n-i)
		vi, vj := valueAt(i), valueAt(j)
		result = append(result, vj)
		overrides[j] = vi
		overrides[i] = vj
	}
	return result
}

// ChoiceWithReplacement selects k indices uniformly from [0, n), with
// repeats allowed.
func (r *RNG) ChoiceWithReplacement(n, k int) []int {
	if k <= 0 {
		return nil
	}
	result := make([]int, k)
	for i := range result {
		result[i] = r.Intn(n)
	}
	return result
}

// WeightedChoice selects an index from weights using weighted random
// selection. Weights must be non-negative. Returns -1 if all weights are
// zero or weights is empty.
func (r *RNG) WeightedChoice(weights []float64) int {
	if len(weights) == 0 {
		return -1
	}

	total := 0.0
	for _, w := range weights {
		if w < 0 {
			panic("rng: WeightedChoice weights must be non-negative")
		}
		total += w
	}
	if total == 0 {
		return -1
	}

	randVal := r.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if randVal < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

package vmath

// Source yields uniform floats in [0,1)
// Animation code takes a Source so tests can substitute a seeded or scripted sequence
type Source interface {
	Float64() float64
}

// FastRand is a xorshift64 generator, not safe for concurrent use
type FastRand struct {
	state uint64
}

// NewFastRand creates a generator, zero seed is remapped since xorshift sticks at zero
func NewFastRand(seed uint64) *FastRand {
	if seed == 0 {
		seed = 1
	}
	return &FastRand{state: seed}
}

func (r *FastRand) Next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

func (r *FastRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n))
}

// Float64 returns a float in [0,1) from the top 53 bits
func (r *FastRand) Float64() float64 {
	return float64(r.Next()>>11) / (1 << 53)
}

// Seed resets the generator state
func (r *FastRand) Seed(seed uint64) {
	if seed == 0 {
		seed = 1
	}
	r.state = seed
}

// Uniform returns a float in [lo,hi) drawn from src
func Uniform(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Chance reports whether an event with probability p fires
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

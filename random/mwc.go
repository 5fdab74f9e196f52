// Package random implements the deterministic multiply-with-carry generator
// used for stochastic sampling. The sequence for a given seed is part of the
// renderer's output contract: changing any constant or bit operation changes
// every sampled path.
package random

const (
	// Default lane seeds, used when a zero seed is supplied.
	DefaultSeed0 uint32 = 521288629
	DefaultSeed1 uint32 = 362436069

	// Per-lane multipliers.
	multiplier0 uint32 = 18000
	multiplier1 uint32 = 30903

	// 2^32 as a float32 divisor.
	uint32Range float32 = 4294967296.0

	// The largest float32 strictly below 1.
	belowOne float32 = 1 - 1.0/(1<<24)
)

// Mwc is a two-lane multiply-with-carry generator. A generator is not safe
// for concurrent use; create one per worker or per sampling path.
type Mwc struct {
	seeds [2]uint32
}

// Create a new generator. A zero seed selects the default lane seeds, any
// other value seeds both lanes.
func New(seed uint32) *Mwc {
	g := &Mwc{}
	g.Seed(seed)
	return g
}

// Reset the generator state.
func (g *Mwc) Seed(seed uint32) {
	if seed != 0 {
		g.seeds = [2]uint32{seed, seed}
		return
	}
	g.seeds = [2]uint32{DefaultSeed0, DefaultSeed1}
}

// Get the current lane state.
func (g *Mwc) Seeds() [2]uint32 {
	return g.seeds
}

// Get the next 32-bit draw.
func (g *Mwc) Uint32() uint32 {
	g.seeds[0] = multiplier0*(g.seeds[0]&0xFFFF) + (g.seeds[0] >> 16)
	g.seeds[1] = multiplier1*(g.seeds[1]&0xFFFF) + (g.seeds[1] >> 16)

	return (g.seeds[0] << 16) + (g.seeds[1] & 0xFFFF)
}

// Get the next float in [0, 1).
//
// Draws within 128 of 2^32 round up to 2^32 when converted to float32; those
// are mapped to the largest float32 below 1 so the range stays half-open.
func (g *Mwc) Float32() float32 {
	f := float32(g.Uint32()) / uint32Range
	if f >= 1 {
		return belowOne
	}
	return f
}

package tracer

import (
	"time"

	"github.com/achilleasa/minilight/scene/index"
	"github.com/achilleasa/minilight/types"
)

type UpdateType uint8

const (
	// Replace the scene data; the payload is a *Scene.
	UpdateScene UpdateType = iota

	// Toggle brute-force verification of index queries; the payload is a bool.
	UpdateVerification
)

// Scene data shared by all tracers. It must not be modified once uploaded.
type Scene struct {
	Index *index.Index
	Eye   types.Vec3

	// Indices of the emissive triangles.
	Emitters []int
}

// Wrap an index and collect its emissive triangles.
func NewScene(ix *index.Index, eye types.Vec3) *Scene {
	sc := &Scene{
		Index: ix,
		Eye:   eye,
	}
	for i := 0; i < ix.Len(); i++ {
		if ix.Triangle(i).IsEmissive() {
			sc.Emitters = append(sc.Emitters, i)
		}
	}
	return sc
}

// Ray query counters.
type Counters struct {
	// Primary rays cast from the eye and the number of them that hit.
	Rays uint64
	Hits uint64

	// Sum of primary hit distances.
	HitDistance float64

	// Shadow rays cast from hit points towards emitters and the number of
	// them that were blocked.
	ShadowRays uint64
	Occluded   uint64

	// Queries whose index answer differed from a brute-force scan.
	Mismatches uint64
}

// Accumulate the counters in other.
func (c *Counters) Add(other Counters) {
	c.Rays += other.Rays
	c.Hits += other.Hits
	c.HitDistance += other.HitDistance
	c.ShadowRays += other.ShadowRays
	c.Occluded += other.Occluded
	c.Mismatches += other.Mismatches
}

// A unit of work that is processed by a tracer.
type BlockRequest struct {
	// Block index within the frame.
	Index uint32

	// The number of primary rays to trace.
	Rays uint32

	// A random seed value for the tracer's random number generator.
	Seed uint32

	// A channel to signal on block completion.
	DoneChan chan<- BlockResult

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// The result of tracing a block.
type BlockResult struct {
	Index uint32
	Counters
}

// Tracer statistics.
type Stats struct {
	// Blocks processed in the last frame.
	Blocks uint32

	// Counters for the last frame.
	Counters

	// Time spent tracing blocks in the last frame.
	RenderTime time.Duration

	// Time spent applying updates.
	UpdateTime time.Duration
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Get a speed estimate relative to other tracers.
	Speed() uint32

	// Start the tracer.
	Init() error

	// Shutdown and cleanup tracer.
	Close()

	// Enqueue block request. Blocks until the tracer accepts the request.
	Enqueue(BlockRequest)

	// Queue an update that is applied before the next block is traced.
	Update(UpdateType, interface{})

	// Reset the statistics before a new frame.
	ResetStats()

	// Retrieve last frame statistics.
	Stats() *Stats
}

// Derive the seed for a block so that every block of every frame draws an
// independent sequence regardless of the tracer that processes it.
func BlockSeed(seed, frame, block uint32) uint32 {
	h := seed ^ 0x9E3779B9
	for _, v := range [2]uint32{frame, block} {
		h ^= v + 0x7F4A7C15 + (h << 6) + (h >> 2)
		h *= 0x85EBCA6B
		h ^= h >> 13
	}
	if h == 0 {
		h = 1
	}
	return h
}

package tracer

import "math"

// The BlockScheduler interface is implemented by all block scheduling algorithms.
type BlockScheduler interface {
	// Split a frame of blocks among the pool of tracers.
	//
	// This function returns the number of blocks assigned to each tracer
	// in the input list.
	Schedule(tracers []Tracer, blocks uint32) []uint32
}

type naiveScheduler struct{}

// Create a scheduler that splits blocks according to the tracer speed estimates.
func NaiveScheduler() BlockScheduler {
	return &naiveScheduler{}
}

func (sch *naiveScheduler) Schedule(tracers []Tracer, blocks uint32) []uint32 {
	assignment := make([]uint32, len(tracers))

	var total float64
	for _, tr := range tracers {
		total += float64(tr.Speed())
	}

	var scheduled uint32
	if total > 0 {
		scaler := float64(blocks) / total
		for idx, tr := range tracers {
			assignment[idx] = uint32(math.Floor(float64(tr.Speed()) * scaler))
			scheduled += assignment[idx]
		}
	}

	// Blocks that don't add up go to the first tracer
	if len(assignment) > 0 {
		assignment[0] += blocks - scheduled
	}
	return assignment
}

// The perfect scheduler assumes that the amount of work per block is
// approximately the same across subsequent frames.
type perfectScheduler struct {
	naive           BlockScheduler
	blockAssignment []uint32
}

// Create a new perfect scheduler instance.
func PerfectScheduler() BlockScheduler {
	return &perfectScheduler{
		naive: NaiveScheduler(),
	}
}

// Split frame blocks among the pool of tracers using feedback collected from
// the previous frame.
//
// When previous frame information is available the scheduler uses the
// following formula for estimating the workload for tracer w and frame i+1:
// w_i, f_i+1 = (blocks,w_i / time,w_i) / Σ(blocks_i-1 / time,i-1)
func (sch *perfectScheduler) Schedule(tracers []Tracer, blocks uint32) []uint32 {
	// If this is the first time we try to schedule or the number of tracers
	// has changed we need to reset the block assignments
	if len(sch.blockAssignment) != len(tracers) {
		sch.blockAssignment = sch.naive.Schedule(tracers, blocks)
		return sch.blockAssignment
	}

	// Use last frame statistics
	var total float64
	var stats *Stats
	for _, tr := range tracers {
		stats = tr.Stats()
		if stats.RenderTime <= 0 {
			// No usable timing info; fall back to speed estimates
			sch.blockAssignment = sch.naive.Schedule(tracers, blocks)
			return sch.blockAssignment
		}
		total += float64(stats.Blocks) / float64(stats.RenderTime)
	}

	if total == 0 {
		sch.blockAssignment = sch.naive.Schedule(tracers, blocks)
		return sch.blockAssignment
	}

	scaler := float64(blocks) / total
	var scheduled uint32
	for idx, tr := range tracers {
		stats = tr.Stats()
		sch.blockAssignment[idx] = uint32(math.Max(1.0, math.Floor(float64(stats.Blocks)/float64(stats.RenderTime)*scaler)))
		scheduled += sch.blockAssignment[idx]
	}

	// Trim or pad the first tracer so that the assignment adds up to the
	// block count.
	for idx := 0; scheduled > blocks && idx < len(tracers); idx++ {
		excess := scheduled - blocks
		if excess > sch.blockAssignment[idx] {
			excess = sch.blockAssignment[idx]
		}
		sch.blockAssignment[idx] -= excess
		scheduled -= excess
	}
	sch.blockAssignment[0] += blocks - scheduled

	return sch.blockAssignment
}

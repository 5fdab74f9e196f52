package renderer

import (
	"time"

	"github.com/achilleasa/minilight/tracer"
)

type TracerStat struct {
	// The tracer id.
	Id string

	// The number of blocks and the percentage of the frame they represent.
	Blocks       uint32
	FramePercent float32

	// Render time for assigned blocks.
	RenderTime time.Duration

	tracer.Counters
}

type FrameStats struct {
	// Frame number, starting at 0.
	Frame uint32

	// Individual tracer stats.
	Tracers []TracerStat

	// Counters accumulated over all blocks in block order.
	Totals tracer.Counters

	// Total render time for entire frame.
	RenderTime time.Duration
}

// Get the primary ray throughput for the frame.
func (fs FrameStats) RaysPerSecond() float64 {
	if fs.RenderTime <= 0 {
		return 0
	}
	return float64(fs.Totals.Rays) / fs.RenderTime.Seconds()
}

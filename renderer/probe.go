package renderer

import (
	"sync"
	"time"

	"github.com/achilleasa/minilight/log"
	"github.com/achilleasa/minilight/tracer"
)

// A renderer that casts probe rays from the eye through the index. Frames are
// split into blocks which are distributed among the attached tracers.
type probeRenderer struct {
	logger log.Logger

	scene     *tracer.Scene
	tracers   []tracer.Tracer
	scheduler tracer.BlockScheduler
	opts      Options

	frame uint32
	stats FrameStats
}

// Create a probe renderer and upload the scene to every tracer. The renderer
// takes ownership of the tracers and closes them when it is closed.
func NewProbe(sc *tracer.Scene, scheduler tracer.BlockScheduler, tracers []tracer.Tracer, opts Options) (Renderer, error) {
	if sc == nil || sc.Index == nil {
		return nil, ErrSceneNotDefined
	}
	if len(tracers) == 0 {
		return nil, ErrNoTracers
	}
	if opts.RaysPerFrame == 0 {
		return nil, ErrNoRays
	}
	if opts.BlockSize == 0 {
		opts.BlockSize = DefaultBlockSize
	}
	if scheduler == nil {
		scheduler = tracer.PerfectScheduler()
	}

	r := &probeRenderer{
		logger:    log.New("probe renderer"),
		scene:     sc,
		scheduler: scheduler,
		opts:      opts,
	}

	for _, tr := range tracers {
		if err := tr.Init(); err != nil {
			r.Close()
			return nil, err
		}
		r.tracers = append(r.tracers, tr)

		tr.Update(tracer.UpdateScene, sc)
		tr.Update(tracer.UpdateVerification, opts.Verify)
	}

	return r, nil
}

// Shutdown renderer and any attached tracer.
func (r *probeRenderer) Close() {
	for _, tr := range r.tracers {
		tr.Close()
	}
	r.tracers = nil
}

// Get render statistics for the last frame.
func (r *probeRenderer) Stats() FrameStats {
	return r.stats
}

// Render a frame. Results are identical for any number of tracers as every
// block draws from its own generator and totals are accumulated in block order.
func (r *probeRenderer) Render() error {
	if len(r.tracers) == 0 {
		return ErrNoTracers
	}

	start := time.Now()
	blocks := (r.opts.RaysPerFrame + r.opts.BlockSize - 1) / r.opts.BlockSize
	assignment := r.scheduler.Schedule(r.tracers, blocks)

	// Both channels can hold a reply for every block so tracers never stall
	doneChan := make(chan tracer.BlockResult, blocks)
	errChan := make(chan error, blocks)

	var wg sync.WaitGroup
	var nextBlock uint32
	for idx, tr := range r.tracers {
		tr.ResetStats()

		first, count := nextBlock, assignment[idx]
		nextBlock += count
		if count == 0 {
			continue
		}

		wg.Add(1)
		go func(tr tracer.Tracer, first, count uint32) {
			defer wg.Done()
			for block := first; block < first+count; block++ {
				tr.Enqueue(tracer.BlockRequest{
					Index:    block,
					Rays:     r.blockRays(block, blocks),
					Seed:     tracer.BlockSeed(r.opts.Seed, r.frame, block),
					DoneChan: doneChan,
					ErrChan:  errChan,
				})
			}
		}(tr, first, count)
	}

	results := make([]tracer.BlockResult, blocks)
	var err error
	for pending := blocks; pending > 0; pending-- {
		select {
		case res := <-doneChan:
			results[res.Index] = res
		case blockErr := <-errChan:
			if err == nil {
				err = blockErr
			}
		}
	}
	wg.Wait()

	if err != nil {
		return err
	}

	stats := FrameStats{
		Frame:   r.frame,
		Tracers: make([]TracerStat, len(r.tracers)),
	}
	for _, res := range results {
		stats.Totals.Add(res.Counters)
	}
	for idx, tr := range r.tracers {
		trStats := tr.Stats()
		stats.Tracers[idx] = TracerStat{
			Id:           tr.Id(),
			Blocks:       trStats.Blocks,
			FramePercent: 100.0 * float32(trStats.Blocks) / float32(blocks),
			RenderTime:   trStats.RenderTime,
			Counters:     trStats.Counters,
		}
	}
	stats.RenderTime = time.Since(start)
	r.stats = stats
	r.frame++

	r.logger.Debugf(
		"frame %d: %d blocks, %d rays, %d hits, %d shadow rays in %d ms",
		stats.Frame, blocks, stats.Totals.Rays, stats.Totals.Hits, stats.Totals.ShadowRays,
		stats.RenderTime.Nanoseconds()/1e6,
	)
	if stats.Totals.Mismatches > 0 {
		r.logger.Warningf("frame %d: %d index queries differ from a brute-force scan", stats.Frame, stats.Totals.Mismatches)
	}

	return nil
}

// Get the number of rays for a block. The last block receives the remainder.
func (r *probeRenderer) blockRays(block, blocks uint32) uint32 {
	if block == blocks-1 {
		return r.opts.RaysPerFrame - r.opts.BlockSize*(blocks-1)
	}
	return r.opts.BlockSize
}

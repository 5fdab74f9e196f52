package renderer

import (
	"errors"
	"math"
	"testing"

	"github.com/achilleasa/minilight/random"
	"github.com/achilleasa/minilight/scene"
	"github.com/achilleasa/minilight/scene/index"
	"github.com/achilleasa/minilight/tracer"
	"github.com/achilleasa/minilight/tracer/cpu"
	"github.com/achilleasa/minilight/types"
)

func mockScene(t testing.TB) *tracer.Scene {
	tris := scene.RandomTriangles(random.New(11), 400, types.XYZ(0, 0, 0), types.XYZ(10, 10, 10), 2)
	eye := types.XYZ(5, 5, 5)
	ix, err := index.Build(eye, tris)
	if err != nil {
		t.Fatal(err)
	}
	return tracer.NewScene(ix, eye)
}

func cpuTracers(count int) []tracer.Tracer {
	tracers := make([]tracer.Tracer, count)
	for idx := range tracers {
		tracers[idx] = cpu.NewTracer(string(rune('a' + idx)))
	}
	return tracers
}

func renderFrame(t *testing.T, sc *tracer.Scene, tracerCount int, opts Options) FrameStats {
	r, err := NewProbe(sc, tracer.NaiveScheduler(), cpuTracers(tracerCount), opts)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if err = r.Render(); err != nil {
		t.Fatal(err)
	}
	return r.Stats()
}

func TestProbeResultsIndependentOfTracerCount(t *testing.T) {
	sc := mockScene(t)
	opts := Options{RaysPerFrame: 5000, BlockSize: 256, Seed: 7}

	single := renderFrame(t, sc, 1, opts)
	multi := renderFrame(t, sc, 3, opts)

	if single.Totals != multi.Totals {
		t.Fatalf("expected identical totals; got %+v and %+v", single.Totals, multi.Totals)
	}
	if single.Totals.Rays != 5000 {
		t.Fatalf("expected 5000 rays; got %d", single.Totals.Rays)
	}
	if single.Totals.Hits == 0 {
		t.Fatal("expected some rays to hit the scene")
	}
}

func TestProbeStats(t *testing.T) {
	sc := mockScene(t)
	opts := Options{RaysPerFrame: 1000, BlockSize: 100, Seed: 1, Verify: true}

	stats := renderFrame(t, sc, 3, opts)
	if stats.Totals.Mismatches != 0 {
		t.Fatalf("expected no mismatches; got %d", stats.Totals.Mismatches)
	}
	if len(stats.Tracers) != 3 {
		t.Fatalf("expected stats for 3 tracers; got %d", len(stats.Tracers))
	}

	var blocks uint32
	var percent float64
	var rays uint64
	for _, trStat := range stats.Tracers {
		blocks += trStat.Blocks
		percent += float64(trStat.FramePercent)
		rays += trStat.Rays
	}
	if blocks != 10 {
		t.Fatalf("expected 10 blocks in total; got %d", blocks)
	}
	if math.Abs(percent-100) > 1e-3 {
		t.Fatalf("expected frame percentages to add up to 100; got %f", percent)
	}
	if rays != stats.Totals.Rays {
		t.Fatalf("expected per-tracer rays to add up to %d; got %d", stats.Totals.Rays, rays)
	}
}

func TestProbeUnevenBlocks(t *testing.T) {
	sc := mockScene(t)
	stats := renderFrame(t, sc, 2, Options{RaysPerFrame: 1001, BlockSize: 100})
	if stats.Totals.Rays != 1001 {
		t.Fatalf("expected 1001 rays; got %d", stats.Totals.Rays)
	}
}

func TestProbeFrames(t *testing.T) {
	sc := mockScene(t)
	r, err := NewProbe(sc, nil, cpuTracers(2), Options{RaysPerFrame: 2000, BlockSize: 128})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	var prev FrameStats
	for frame := uint32(0); frame < 3; frame++ {
		if err = r.Render(); err != nil {
			t.Fatal(err)
		}
		stats := r.Stats()
		if stats.Frame != frame {
			t.Fatalf("expected frame %d; got %d", frame, stats.Frame)
		}
		if stats.Totals.Rays != 2000 {
			t.Fatalf("[frame %d] expected 2000 rays; got %d", frame, stats.Totals.Rays)
		}
		if frame > 0 && stats.Totals == prev.Totals {
			t.Fatalf("[frame %d] expected each frame to trace different rays", frame)
		}
		prev = stats
	}
}

func TestProbeErrors(t *testing.T) {
	sc := mockScene(t)

	type spec struct {
		scene    *tracer.Scene
		tracers  []tracer.Tracer
		opts     Options
		expError error
	}
	specs := []spec{
		{nil, cpuTracers(1), Options{RaysPerFrame: 1}, ErrSceneNotDefined},
		{&tracer.Scene{}, cpuTracers(1), Options{RaysPerFrame: 1}, ErrSceneNotDefined},
		{sc, nil, Options{RaysPerFrame: 1}, ErrNoTracers},
		{sc, cpuTracers(1), Options{}, ErrNoRays},
	}

	for idx, s := range specs {
		_, err := NewProbe(s.scene, nil, s.tracers, s.opts)
		if err != s.expError {
			t.Fatalf("[spec %d] expected error %v; got %v", idx, s.expError, err)
		}
	}
}

func TestProbeTracerError(t *testing.T) {
	sc := mockScene(t)
	tracers := append(cpuTracers(1), &failingTracer{})

	r, err := NewProbe(sc, tracer.NaiveScheduler(), tracers, Options{RaysPerFrame: 1000, BlockSize: 100})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if err = r.Render(); err != errTracerFailed {
		t.Fatalf("expected error %v; got %v", errTracerFailed, err)
	}
}

var errTracerFailed = errors.New("tracer failed")

// A tracer that fails every block.
type failingTracer struct {
	stats tracer.Stats
}

func (ft *failingTracer) Id() string {
	return "failing"
}

func (ft *failingTracer) Speed() uint32 {
	return 1
}

func (ft *failingTracer) Init() error {
	return nil
}

func (ft *failingTracer) Close() {
}

func (ft *failingTracer) Enqueue(req tracer.BlockRequest) {
	req.ErrChan <- errTracerFailed
}

func (ft *failingTracer) Update(_ tracer.UpdateType, _ interface{}) {
}

func (ft *failingTracer) ResetStats() {
	ft.stats = tracer.Stats{}
}

func (ft *failingTracer) Stats() *tracer.Stats {
	return &ft.stats
}

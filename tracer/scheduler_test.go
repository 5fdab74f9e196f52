package tracer

import (
	"testing"
	"time"
)

func TestNaiveScheduler(t *testing.T) {
	type spec struct {
		speed1     uint32
		speed2     uint32
		blocks     uint32
		expBlocks1 uint32
		expBlocks2 uint32
	}
	specs := []spec{
		{1, 2, 10, 4, 6},
		{2, 1, 10, 7, 3},
		{1, 1000, 10, 1, 9},
		{0, 0, 10, 10, 0},
	}

	for index, s := range specs {
		tr1 := makeMockTracer("mock-1", s.speed1)
		tr2 := makeMockTracer("mock-2", s.speed2)
		tracers := []Tracer{tr1, tr2}

		sch := NaiveScheduler()
		blockAssignment := sch.Schedule(tracers, s.blocks)

		if blockAssignment[0] != s.expBlocks1 {
			t.Fatalf("[spec %d] expected tracer 0 to be assigned %d blocks; got %d", index, s.expBlocks1, blockAssignment[0])
		}

		if blockAssignment[1] != s.expBlocks2 {
			t.Fatalf("[spec %d] expected tracer 1 to be assigned %d blocks; got %d", index, s.expBlocks2, blockAssignment[1])
		}
	}
}

func TestPerfectScheduler(t *testing.T) {
	type spec struct {
		blocks     uint32
		rTime1     time.Duration
		rTime2     time.Duration
		expBlocks1 uint32
		expBlocks2 uint32
	}
	specs := []spec{
		// First call always behaves like the naive scheduler
		{10, time.Duration(1), time.Duration(5), 5, 5},
		// Second call should use the render times to assign blocks
		{10, time.Duration(1), time.Duration(5), 9, 1},
		// This time tracer 2 performed much better
		{10, time.Duration(5), time.Duration(1), 7, 3},
	}

	// Tracers have same speed
	tr1 := makeMockTracer("mock-1", 1)
	tr2 := makeMockTracer("mock-2", 1)
	tracers := []Tracer{tr1, tr2}

	sch := PerfectScheduler()
	for index, s := range specs {
		tr1.stats.RenderTime = s.rTime1
		tr2.stats.RenderTime = s.rTime2

		blockAssignment := sch.Schedule(tracers, s.blocks)

		if blockAssignment[0] != s.expBlocks1 {
			t.Fatalf("[spec %d] expected tracer 0 to be assigned %d blocks; got %d", index, s.expBlocks1, blockAssignment[0])
		}

		if blockAssignment[1] != s.expBlocks2 {
			t.Fatalf("[spec %d] expected tracer 1 to be assigned %d blocks; got %d", index, s.expBlocks2, blockAssignment[1])
		}

		tr1.stats.Blocks = blockAssignment[0]
		tr2.stats.Blocks = blockAssignment[1]
	}
}

func TestPerfectSchedulerFewBlocks(t *testing.T) {
	tracers := []Tracer{
		makeMockTracer("mock-1", 1),
		makeMockTracer("mock-2", 1),
		makeMockTracer("mock-3", 1),
	}
	for _, tr := range tracers {
		tr.(*mockTracer).stats.Blocks = 4
		tr.(*mockTracer).stats.RenderTime = time.Second
	}

	sch := PerfectScheduler()
	sch.Schedule(tracers, 12)

	blockAssignment := sch.Schedule(tracers, 2)
	var total uint32
	for _, blocks := range blockAssignment {
		total += blocks
	}
	if total != 2 {
		t.Fatalf("expected assignment to add up to 2 blocks; got %v", blockAssignment)
	}
}

func TestBlockSeed(t *testing.T) {
	seen := make(map[uint32]bool)
	for frame := uint32(0); frame < 4; frame++ {
		for block := uint32(0); block < 256; block++ {
			seed := BlockSeed(42, frame, block)
			if seed == 0 {
				t.Fatalf("[frame %d, block %d] expected a non-zero seed", frame, block)
			}
			if seen[seed] {
				t.Fatalf("[frame %d, block %d] seed %d already used by another block", frame, block, seed)
			}
			seen[seed] = true
		}
	}

	if BlockSeed(42, 1, 2) != BlockSeed(42, 1, 2) {
		t.Fatal("expected block seeds to be deterministic")
	}
	if BlockSeed(42, 1, 2) == BlockSeed(43, 1, 2) {
		t.Fatal("expected block seeds to depend on the base seed")
	}
}

func TestCountersAdd(t *testing.T) {
	c := Counters{Rays: 1, Hits: 1, HitDistance: 0.5}
	c.Add(Counters{Rays: 2, Hits: 1, HitDistance: 1.5, ShadowRays: 3, Occluded: 2, Mismatches: 1})

	exp := Counters{Rays: 3, Hits: 2, HitDistance: 2, ShadowRays: 3, Occluded: 2, Mismatches: 1}
	if c != exp {
		t.Fatalf("expected %+v; got %+v", exp, c)
	}
}

type mockTracer struct {
	id    string
	speed uint32
	stats *Stats
}

func makeMockTracer(id string, speed uint32) *mockTracer {
	return &mockTracer{
		id:    id,
		speed: speed,
		stats: &Stats{},
	}
}

func (mt *mockTracer) Id() string {
	return mt.id
}

func (mt *mockTracer) Speed() uint32 {
	return mt.speed
}

func (mt *mockTracer) Init() error {
	return nil
}

func (mt *mockTracer) Close() {
}

func (mt *mockTracer) Enqueue(_ BlockRequest) {
}

func (mt *mockTracer) Update(_ UpdateType, _ interface{}) {
}

func (mt *mockTracer) ResetStats() {
	*mt.stats = Stats{}
}

func (mt *mockTracer) Stats() *Stats {
	return mt.stats
}

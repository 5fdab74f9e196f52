package cmd

import (
	"bytes"
	"fmt"
	"runtime"

	"github.com/achilleasa/minilight/renderer"
	"github.com/achilleasa/minilight/tracer"
	"github.com/achilleasa/minilight/tracer/cpu"
	"github.com/olekukonko/tablewriter"
	cpuinfo "github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"github.com/urfave/cli"
)

// Cast random probe rays from the eye and report query throughput.
func ProbeScene(ctx *cli.Context) error {
	setupLogging(ctx)
	logHostInfo()

	sc, err := loadScene(ctx)
	if err != nil {
		logger.Error(err)
		return err
	}

	ix, err := buildIndex(ctx, sc)
	if err != nil {
		logger.Error(err)
		return err
	}

	workers := ctx.Int("workers")
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	tracers := make([]tracer.Tracer, workers)
	for idx := range tracers {
		tracers[idx] = cpu.NewTracer(fmt.Sprintf("cpu-%02d", idx))
	}

	opts := renderer.Options{
		RaysPerFrame: uint32(ctx.Int("rays")),
		BlockSize:    uint32(ctx.Int("block-size")),
		Seed:         uint32(ctx.Int("seed")),
		Verify:       ctx.Bool("verify"),
	}
	r, err := renderer.NewProbe(tracer.NewScene(ix, sc.Eye), tracer.PerfectScheduler(), tracers, opts)
	if err != nil {
		logger.Error(err)
		return err
	}
	defer r.Close()

	frames := ctx.Int("frames")
	for frame := 0; frame < frames; frame++ {
		if err = r.Render(); err != nil {
			logger.Error(err)
			return err
		}
		displayFrameStats(r.Stats())
	}

	return nil
}

func logHostInfo() {
	infos, err := cpuinfo.Info()
	if err != nil || len(infos) == 0 {
		logger.Infof("could not query cpu info: %v", err)
	} else {
		logger.Infof("cpu: %s (%d logical cores, %.0f MHz)", infos[0].ModelName, runtime.NumCPU(), infos[0].Mhz)
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		logger.Infof("could not query memory info: %v", err)
		return
	}
	logger.Infof("memory: %d MiB total, %d MiB available", vm.Total>>20, vm.Available>>20)
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Blocks", "% of frame", "Rays", "Hits", "Shadow rays", "Occluded", "Mismatches", "Render time"})
	for _, stat := range stats.Tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%d", stat.Blocks),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			fmt.Sprintf("%d", stat.Rays),
			fmt.Sprintf("%d", stat.Hits),
			fmt.Sprintf("%d", stat.ShadowRays),
			fmt.Sprintf("%d", stat.Occluded),
			fmt.Sprintf("%d", stat.Mismatches),
			fmt.Sprintf("%s", stat.RenderTime),
		})
	}

	totals := stats.Totals
	var meanDist float64
	if totals.Hits > 0 {
		meanDist = totals.HitDistance / float64(totals.Hits)
	}
	table.SetFooter([]string{
		"TOTAL", "", "",
		fmt.Sprintf("%d", totals.Rays),
		fmt.Sprintf("%d", totals.Hits),
		fmt.Sprintf("%d", totals.ShadowRays),
		fmt.Sprintf("%d", totals.Occluded),
		fmt.Sprintf("%d", totals.Mismatches),
		fmt.Sprintf("%s", stats.RenderTime),
	})
	table.Render()

	logger.Noticef(
		"frame %d statistics (mean hit distance %.4f, %.0f rays/s)\n%s",
		stats.Frame, meanDist, stats.RaysPerSecond(), buf.String(),
	)
}

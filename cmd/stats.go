package cmd

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/minilight/scene/index"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Per-level cell counts collected by walking an index.
type levelStats struct {
	Depth      int
	Branches   int
	Leaves     int
	References int
}

// Build the index for a scene and display its statistics.
func ShowIndexStats(ctx *cli.Context) error {
	setupLogging(ctx)

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

	displayIndexStats(ix)
	return nil
}

func displayIndexStats(ix *index.Index) {
	stats := ix.Stats()
	bound := ix.Bound()

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Property", "Value"})
	table.AppendBulk([][]string{
		{"Triangles", fmt.Sprintf("%d", stats.Triangles)},
		{"Root min", fmt.Sprintf("%v", bound.Min())},
		{"Root max", fmt.Sprintf("%v", bound.Max())},
		{"Cells", fmt.Sprintf("%d", stats.Cells)},
		{"Branches", fmt.Sprintf("%d", stats.Branches)},
		{"Leaves", fmt.Sprintf("%d", stats.Leaves)},
		{"References", fmt.Sprintf("%d", stats.References)},
		{"Max depth", fmt.Sprintf("%d", stats.MaxDepth)},
		{"Max leaf items", fmt.Sprintf("%d", stats.MaxLeafItems)},
		{"Oversized leaves", fmt.Sprintf("%d", stats.OversizedLeaves)},
		{"Build time", fmt.Sprintf("%s", stats.BuildTime)},
	})
	table.Render()
	logger.Noticef("index statistics\n%s", buf.String())

	buf.Reset()
	table = tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Depth", "Branches", "Leaves", "References"})
	var total levelStats
	for _, level := range collectLevelStats(ix) {
		table.Append([]string{
			fmt.Sprintf("%d", level.Depth),
			fmt.Sprintf("%d", level.Branches),
			fmt.Sprintf("%d", level.Leaves),
			fmt.Sprintf("%d", level.References),
		})
		total.Branches += level.Branches
		total.Leaves += level.Leaves
		total.References += level.References
	}
	table.SetFooter([]string{
		"TOTAL",
		fmt.Sprintf("%d", total.Branches),
		fmt.Sprintf("%d", total.Leaves),
		fmt.Sprintf("%d", total.References),
	})
	table.Render()
	logger.Noticef("cells per level\n%s", buf.String())
}

// Count branches, leaves and leaf references for each tree level.
func collectLevelStats(ix *index.Index) []levelStats {
	levels := make([]levelStats, ix.Depth())
	ix.Walk(func(info index.CellInfo) bool {
		level := &levels[info.Depth-1]
		level.Depth = info.Depth
		if info.Branch {
			level.Branches++
		} else {
			level.Leaves++
			level.References += len(info.Items)
		}
		return true
	})
	return levels
}

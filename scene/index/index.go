// Package index implements an octree over a static triangle list that
// answers nearest-hit and occlusion ray queries.
//
// An Index is built once and never modified afterwards, so any number of
// goroutines may query it concurrently without synchronization. The index
// holds references (slice indices) into the triangle list supplied to Build;
// the caller owns that list and must not modify it while the index is in use.
package index

import (
	"time"

	"github.com/achilleasa/minilight/scene"
)

// Sentinel for absent children.
const noCell int32 = -1

var noChildren = [8]int32{noCell, noCell, noCell, noCell, noCell, noCell, noCell, noCell}

// An octree cell. Branches address their children by octant (bit i of the
// octant selects the upper half of axis i); leaves reference a range of the
// shared item list.
type cell struct {
	bound scene.Bound

	// The bound grown by the triangle padding; used by ray traversal so that
	// hits on cell faces survive float32 rounding.
	slab scene.Bound

	depth    int32
	branch   bool
	children [8]int32

	first int32
	count int32
}

// Build statistics.
type Stats struct {
	Triangles int

	Cells    int
	Branches int
	Leaves   int

	// Total number of triangle references stored in leaves.
	References int

	// Number of tree levels; a root-only tree has depth 1.
	MaxDepth int

	MaxLeafItems int

	// Leaves holding more than the per-leaf target because they could not
	// be subdivided further.
	OversizedLeaves int

	BuildTime time.Duration
}

// Index is an immutable octree over a triangle list.
type Index struct {
	tris  []scene.Triangle
	cells []cell
	items []int32
	stats Stats
}

// CellInfo describes a cell visited by Walk.
type CellInfo struct {
	Bound scene.Bound
	Depth int

	// Set for branches.
	Branch   bool
	Children int

	// Triangle indices referenced by a leaf. The slice aliases index
	// storage and must not be modified.
	Items []int32
}

// Get the root bound. It contains the eye position and every padded
// triangle bound and has equal extents on all axes.
func (ix *Index) Bound() scene.Bound {
	return ix.cells[0].bound
}

// Get the number of indexed triangles.
func (ix *Index) Len() int {
	return len(ix.tris)
}

// Get the triangle with the given index.
func (ix *Index) Triangle(i int) *scene.Triangle {
	return &ix.tris[i]
}

// Get the build statistics.
func (ix *Index) Stats() Stats {
	return ix.stats
}

// Get the number of tree levels.
func (ix *Index) Depth() int {
	return ix.stats.MaxDepth
}

// Visit cells in depth-first order, children in octant order. Returning
// false from fn skips the subtree below the visited cell.
func (ix *Index) Walk(fn func(CellInfo) bool) {
	ix.walk(0, fn)
}

func (ix *Index) walk(cellIndex int32, fn func(CellInfo) bool) {
	c := &ix.cells[cellIndex]
	info := CellInfo{
		Bound:  c.bound,
		Depth:  int(c.depth),
		Branch: c.branch,
	}

	if c.branch {
		for _, child := range c.children {
			if child != noCell {
				info.Children++
			}
		}
	} else {
		info.Items = ix.items[c.first : c.first+c.count : c.first+c.count]
	}

	if !fn(info) || !c.branch {
		return
	}

	for _, child := range c.children {
		if child != noCell {
			ix.walk(child, fn)
		}
	}
}

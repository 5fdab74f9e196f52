package index

import (
	"fmt"
	"math"
	"time"

	"github.com/achilleasa/minilight/log"
	"github.com/achilleasa/minilight/scene"
	"github.com/achilleasa/minilight/types"
	"github.com/chewxy/math32"
)

type builder struct {
	logger log.Logger
	opts   Options

	// Padded triangle bounds, computed once.
	itemBounds []scene.Bound

	// Cells stored as a contiguous list; the root is cells[0].
	cells []cell
	items []int32

	stats Stats
}

// Build an index with the default options.
func Build(eye types.Vec3, tris []scene.Triangle) (*Index, error) {
	return BuildWithOptions(eye, tris, DefaultOptions())
}

// Build an index over tris. The root bound covers the eye position and every
// padded triangle bound and is then made cubical so that all cells split
// into equal octants.
//
// Cells are subdivided top-down while they hold more than opts.MaxItems
// triangles and are above opts.MaxLevels. Triangles straddling a split plane
// are referenced from every octant they overlap; empty octants are omitted.
// Octants that shrink below the triangle padding, or that lie entirely inside
// the bound of every triangle they receive, become leaves since no further
// split could separate their triangles. Only those leaves and leaves at the
// depth limit may exceed the per-leaf target.
func BuildWithOptions(eye types.Vec3, tris []scene.Triangle, opts Options) (*Index, error) {
	if int64(len(tris)) > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d triangles", ErrTooManyTriangles, len(tris))
	}
	if !isFinite(eye) {
		return nil, fmt.Errorf("%w: eye position %v", ErrNonFinite, eye)
	}

	b := &builder{
		logger:     log.New("octree"),
		opts:       opts.normalize(),
		itemBounds: make([]scene.Bound, len(tris)),
		cells:      make([]cell, 0, 1+len(tris)/2),
		items:      make([]int32, 0, len(tris)),
		stats: Stats{
			Triangles: len(tris),
		},
	}

	start := time.Now()

	// Accommodate the eye position so that camera rays always start inside
	// the root cell, then every item.
	bound := scene.PointBound(eye)
	workList := make([]int32, len(tris))
	for i := range tris {
		for _, v := range tris[i].Vertices() {
			if !isFinite(v) {
				return nil, fmt.Errorf("%w: triangle %d vertex %v", ErrNonFinite, i, v)
			}
		}

		b.itemBounds[i] = tris[i].Bound()
		bound = bound.Union(b.itemBounds[i])
		workList[i] = int32(i)
	}

	if _, err := b.partition(bound.Cubical(), workList, 1, false); err != nil {
		return nil, err
	}

	b.stats.BuildTime = time.Since(start)
	b.logger.Debugf(
		"octree build time: %d ms, triangles: %d, depth: %d, cells: %d, leaves: %d, references: %d",
		b.stats.BuildTime.Nanoseconds()/1e6,
		b.stats.Triangles, b.stats.MaxDepth, b.stats.Cells, b.stats.Leaves, b.stats.References,
	)
	if b.stats.OversizedLeaves > 0 {
		b.logger.Debugf("octree has %d leaves above the %d item target (largest: %d)",
			b.stats.OversizedLeaves, b.opts.MaxItems, b.stats.MaxLeafItems)
	}

	return &Index{
		tris:  tris,
		cells: b.cells,
		items: b.items,
		stats: b.stats,
	}, nil
}

// Create a cell for the given bound and work list and return its index in
// the cell list. If leafOnly is set the cell is not subdivided.
func (b *builder) partition(bound scene.Bound, workList []int32, depth int, leafOnly bool) (int32, error) {
	if depth > b.stats.MaxDepth {
		b.stats.MaxDepth = depth
	}

	cellIndex := int32(len(b.cells))
	b.cells = append(b.cells, cell{
		bound:    bound,
		slab:     padBound(bound),
		depth:    int32(depth),
		children: noChildren,
	})
	b.stats.Cells++

	if leafOnly || len(workList) <= b.opts.MaxItems || depth >= b.opts.MaxLevels {
		return cellIndex, b.createLeaf(cellIndex, workList)
	}

	b.cells[cellIndex].branch = true
	b.stats.Branches++

	var subBounds [8]scene.Bound
	var subLists [8][]int32
	for s := 0; s < 8; s++ {
		subBounds[s] = bound.Octant(s)
		for _, item := range workList {
			if b.itemBounds[item].Overlaps(subBounds[s]) {
				subLists[s] = append(subLists[s], item)
			}
		}
	}

	for s := 0; s < 8; s++ {
		if len(subLists[s]) == 0 {
			continue
		}

		// Octants below the padding size cannot separate items any further.
		tooSmall := subBounds[s][3]-subBounds[s][0] < 4*scene.Tolerance
		child, err := b.partition(subBounds[s], subLists[s], depth+1, tooSmall || b.allEnclose(subLists[s], subBounds[s]))
		if err != nil {
			return noCell, err
		}
		b.cells[cellIndex].children[s] = child
	}

	return cellIndex, nil
}

// Returns true if every item bound encloses the cell. Subdividing such a
// cell would copy every item into every octant.
func (b *builder) allEnclose(workList []int32, cell scene.Bound) bool {
	for _, item := range workList {
		if !b.itemBounds[item].Encloses(cell) {
			return false
		}
	}
	return true
}

// Setup the cell as a leaf referencing every item in the work list.
func (b *builder) createLeaf(cellIndex int32, workList []int32) error {
	b.stats.Leaves++
	b.stats.References += len(workList)

	if b.opts.MaxReferences > 0 && b.stats.References > b.opts.MaxReferences {
		return fmt.Errorf("%w: more than %d references after %d cells", ErrIndexTooLarge, b.opts.MaxReferences, b.stats.Cells)
	}
	if int64(len(b.items))+int64(len(workList)) > math.MaxInt32 {
		return fmt.Errorf("%w: reference list exceeds addressable range", ErrIndexTooLarge)
	}

	if len(workList) > b.stats.MaxLeafItems {
		b.stats.MaxLeafItems = len(workList)
	}
	if len(workList) > b.opts.MaxItems {
		b.stats.OversizedLeaves++
	}

	c := &b.cells[cellIndex]
	c.first = int32(len(b.items))
	c.count = int32(len(workList))
	b.items = append(b.items, workList...)

	return nil
}

// Pad a cell bound with the same proportional and fixed terms used for
// triangle bounds.
func padBound(bound scene.Bound) scene.Bound {
	for j := 0; j < 6; j++ {
		pad := math32.Abs(bound[j])*scene.Epsilon + scene.Tolerance
		if j < 3 {
			bound[j] -= pad
		} else {
			bound[j] += pad
		}
	}
	return bound
}

func isFinite(v types.Vec3) bool {
	for _, c := range v {
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return false
		}
	}
	return true
}

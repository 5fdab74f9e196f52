package index

const (
	// Target number of triangles per leaf.
	MaxItems = 8

	// Maximum number of tree levels including the root.
	MaxLevels = 44
)

// Options control index construction.
type Options struct {
	// A cell holding more than this many triangles is subdivided.
	MaxItems int

	// Cells at this depth (counted from 1 at the root) are never subdivided.
	MaxLevels int

	// Upper limit for the total number of triangle references stored in
	// leaves. Triangles straddling split planes are counted once per leaf.
	// A build that exceeds it fails with ErrIndexTooLarge. Zero disables
	// the check.
	MaxReferences int
}

// Get the default build options.
func DefaultOptions() Options {
	return Options{
		MaxItems:  MaxItems,
		MaxLevels: MaxLevels,
	}
}

// Replace out-of-range values with defaults.
func (o Options) normalize() Options {
	if o.MaxItems <= 0 {
		o.MaxItems = MaxItems
	}
	if o.MaxLevels <= 0 || o.MaxLevels > MaxLevels {
		o.MaxLevels = MaxLevels
	}
	if o.MaxReferences < 0 {
		o.MaxReferences = 0
	}
	return o
}

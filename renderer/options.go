package renderer

// The default number of primary rays per block.
const DefaultBlockSize uint32 = 1024

type Options struct {
	// Primary rays traced per frame.
	RaysPerFrame uint32

	// Primary rays per block. Defaults to DefaultBlockSize.
	BlockSize uint32

	// Base seed for the per-block random number generators.
	Seed uint32

	// Cross-check every index query against a brute-force scan.
	Verify bool
}

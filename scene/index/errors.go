package index

import "errors"

var (
	ErrIndexTooLarge    = errors.New("index: triangle reference budget exceeded")
	ErrTooManyTriangles = errors.New("index: triangle count exceeds addressable range")
	ErrNonFinite        = errors.New("index: eye position or triangle vertex is not finite")
)

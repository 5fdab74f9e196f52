// Package writer stores scenes as compressed scene archives that can be read
// back by the reader package.
package writer

import "github.com/achilleasa/minilight/scene/reader"

// The Writer interface is implemented by all scene writers.
type Writer interface {
	// Write scene definition
	Write(*reader.Scene) error
}

// Write scene to a compressed archive.
func WriteScene(sc *reader.Scene, filename string) error {
	writer := newZipSceneWriter(filename)
	return writer.Write(sc)
}

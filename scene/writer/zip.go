package writer

import (
	"archive/zip"
	"encoding/gob"
	"os"
	"time"

	"github.com/achilleasa/minilight/log"
	"github.com/achilleasa/minilight/scene/reader"
)

type zipSceneWriter struct {
	logger    log.Logger
	sceneFile string
}

// Create a new zip scene writer
func newZipSceneWriter(sceneFile string) *zipSceneWriter {
	return &zipSceneWriter{
		logger:    log.New("zip writer"),
		sceneFile: sceneFile,
	}
}

// Write scene definition to zip file.
func (w *zipSceneWriter) Write(sc *reader.Scene) error {
	w.logger.Infof("writing compressed scene to %s", w.sceneFile)
	start := time.Now()

	zipFile, err := os.Create(w.sceneFile)
	if err != nil {
		return err
	}
	defer zipFile.Close()

	zw := zip.NewWriter(zipFile)
	cw, err := zw.Create(reader.ArchiveDataFile)
	if err != nil {
		zw.Close()
		return err
	}
	if err = gob.NewEncoder(cw).Encode(reader.NewSceneArchive(sc)); err != nil {
		zw.Close()
		return err
	}

	// Flush the central directory before reporting success
	if err = zw.Close(); err != nil {
		return err
	}

	w.logger.Infof("compressed %d triangles in %d ms", len(sc.Triangles), time.Since(start).Nanoseconds()/1e6)
	return nil
}

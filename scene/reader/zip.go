package reader

import (
	"archive/zip"
	"bytes"
	"encoding/gob"
	"fmt"
	"io/ioutil"
	"time"

	"github.com/achilleasa/minilight/log"
)

type zipSceneReader struct {
	logger log.Logger
}

// Create a new zip scene reader.
func newZipSceneReader() *zipSceneReader {
	return &zipSceneReader{
		logger: log.New("zip reader"),
	}
}

// Read scene definition from a scene archive.
func (p *zipSceneReader) Read(sceneRes *Resource) (*Scene, error) {
	p.logger.Infof(`parsing scene archive "%s"`, sceneRes.Path())
	start := time.Now()

	// zip package requires a reader implementing ReaderAt. To work around
	// this requirement we read the entire zip file into memory and create
	// a reader from the bytes package that implements ReaderAt
	data, err := ioutil.ReadAll(sceneRes)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("zip reader: %s: %w", sceneRes.Path(), err)
	}

	var archive *SceneArchive
	for _, f := range zr.File {
		if f.Name != ArchiveDataFile {
			p.logger.Warningf("unknown file %s in scene archive; skipping", f.Name)
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		archive = &SceneArchive{}
		err = gob.NewDecoder(rc).Decode(archive)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("zip reader: failed to load %s: %w", f.Name, err)
		}
	}

	if archive == nil {
		return nil, fmt.Errorf("zip reader: %s: missing %s entry", sceneRes.Path(), ArchiveDataFile)
	}

	sc := archive.Scene()
	p.logger.Infof("loaded %d triangles in %d ms", len(sc.Triangles), time.Since(start).Nanoseconds()/1e6)
	return sc, nil
}

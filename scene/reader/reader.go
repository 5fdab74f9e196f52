// Package reader loads triangle scenes from wavefront object files and
// scene archives.
package reader

import (
	"errors"
	"strings"

	"github.com/achilleasa/minilight/scene"
	"github.com/achilleasa/minilight/types"
)

var (
	ErrUnsupportedFormat = errors.New("reader: unsupported scene file format")
)

// A scene as loaded by a reader: the eye position and a flat triangle list.
type Scene struct {
	Eye types.Vec3

	// Set if the scene file defines the eye position. Otherwise Eye is the
	// centre of the triangle bounds.
	EyeDefined bool

	Triangles []scene.Triangle
}

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read scene definition from a resource.
	Read(*Resource) (*Scene, error)
}

// Read scene from a local file or http(s) URL. The format is selected by the
// file extension.
func ReadScene(filename string) (*Scene, error) {
	var reader Reader
	switch {
	case strings.HasSuffix(strings.ToLower(filename), ".obj"):
		reader = newWavefrontReader()
	case strings.HasSuffix(strings.ToLower(filename), ".zip"):
		reader = newZipSceneReader()
	default:
		return nil, ErrUnsupportedFormat
	}

	res, err := NewResource(filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return reader.Read(res)
}

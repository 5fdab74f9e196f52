package reader

import (
	"github.com/achilleasa/minilight/scene"
	"github.com/achilleasa/minilight/types"
)

// The name of the scene data entry in scene archives.
const ArchiveDataFile = "scene.bin"

// The gob-encoded form of a scene stored in scene archives.
type SceneArchive struct {
	Eye        types.Vec3
	EyeDefined bool
	Triangles  []ArchivedTriangle
}

type ArchivedTriangle struct {
	Vertices     [3]types.Vec3
	Reflectivity types.Vec3
	Emissivity   types.Vec3
}

// Convert a scene to its archived form.
func NewSceneArchive(sc *Scene) *SceneArchive {
	archive := &SceneArchive{
		Eye:        sc.Eye,
		EyeDefined: sc.EyeDefined,
		Triangles:  make([]ArchivedTriangle, len(sc.Triangles)),
	}
	for i := range sc.Triangles {
		tri := &sc.Triangles[i]
		archive.Triangles[i] = ArchivedTriangle{
			Vertices:     tri.Vertices(),
			Reflectivity: tri.Reflectivity(),
			Emissivity:   tri.Emissivity(),
		}
	}
	return archive
}

// Restore the archived scene.
func (a *SceneArchive) Scene() *Scene {
	sc := &Scene{
		Eye:        a.Eye,
		EyeDefined: a.EyeDefined,
		Triangles:  make([]scene.Triangle, len(a.Triangles)),
	}
	for i, tri := range a.Triangles {
		sc.Triangles[i] = scene.NewTriangle(tri.Vertices[0], tri.Vertices[1], tri.Vertices[2], tri.Reflectivity, tri.Emissivity)
	}
	return sc
}

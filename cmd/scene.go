package cmd

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/minilight/random"
	"github.com/achilleasa/minilight/scene"
	"github.com/achilleasa/minilight/scene/index"
	"github.com/achilleasa/minilight/scene/reader"
	"github.com/achilleasa/minilight/types"
	"github.com/shirou/gopsutil/mem"
	"github.com/urfave/cli"
)

const (
	// Extent of the box that random scenes are generated in.
	randomSceneExtent float32 = 10

	// Bytes of leaf storage per triangle reference.
	referenceSize = 4

	// Reference budget when the available memory cannot be queried.
	fallbackReferenceBudget = 1 << 26
)

// Get the flags shared by all commands that load a scene.
func SceneFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{
			Name:  "random",
			Usage: "generate a scene with this many random triangles instead of reading a scene file",
		},
		cli.IntFlag{
			Name:  "seed",
			Value: 1,
			Usage: "random generator seed",
		},
		cli.Float64Flag{
			Name:  "size",
			Value: 1.0,
			Usage: "edge length of the cube enclosing each random triangle",
		},
		cli.StringFlag{
			Name:  "eye",
			Usage: "override the eye position (x,y,z)",
		},
		cli.IntFlag{
			Name:  "max-refs",
			Usage: "upper limit for triangle references stored in the index (default: derived from available memory)",
		},
	}
}

// Load the scene selected by the command line and apply any eye override.
func loadScene(ctx *cli.Context) (*reader.Scene, error) {
	var sc *reader.Scene
	if count := ctx.Int("random"); count > 0 {
		seed := uint32(ctx.Int("seed"))
		extent := types.XYZ(randomSceneExtent, randomSceneExtent, randomSceneExtent)
		sc = &reader.Scene{
			Eye:       extent.Mul(0.5),
			Triangles: scene.RandomTriangles(random.New(seed), count, types.Vec3{}, extent, float32(ctx.Float64("size"))),
		}
		logger.Noticef("generated %d random triangles (seed %d)", count, seed)
	} else {
		if ctx.NArg() != 1 {
			return nil, errors.New("missing scene file argument")
		}

		var err error
		sc, err = reader.ReadScene(ctx.Args().First())
		if err != nil {
			return nil, err
		}
	}

	if eyeSpec := ctx.String("eye"); eyeSpec != "" {
		eye, err := parseVec3(eyeSpec)
		if err != nil {
			return nil, err
		}
		sc.Eye = eye
		sc.EyeDefined = true
	}

	return sc, nil
}

// Build the index for a loaded scene.
func buildIndex(ctx *cli.Context, sc *reader.Scene) (*index.Index, error) {
	opts := index.DefaultOptions()
	opts.MaxReferences = ctx.Int("max-refs")
	if opts.MaxReferences <= 0 {
		opts.MaxReferences = referenceBudget()
	}

	logger.Noticef("indexing %d triangles (eye %v, reference budget %d)", len(sc.Triangles), sc.Eye, opts.MaxReferences)
	start := time.Now()
	ix, err := index.BuildWithOptions(sc.Eye, sc.Triangles, opts)
	if err != nil {
		return nil, err
	}
	logger.Noticef("index built in %d ms", time.Since(start).Nanoseconds()/1e6)

	return ix, nil
}

// Allow leaf references to use up to a quarter of the available memory.
func referenceBudget() int {
	vm, err := mem.VirtualMemory()
	if err != nil {
		logger.Warningf("could not query available memory: %v", err)
		return fallbackReferenceBudget
	}
	return budgetForMemory(vm.Available)
}

func budgetForMemory(available uint64) int {
	budget := available / 4 / referenceSize
	if budget > math.MaxInt32 {
		budget = math.MaxInt32
	}
	if budget == 0 {
		return fallbackReferenceBudget
	}
	return int(budget)
}

// Parse a vector in x,y,z format.
func parseVec3(input string) (types.Vec3, error) {
	var v types.Vec3
	parts := strings.Split(input, ",")
	if len(parts) != 3 {
		return v, fmt.Errorf("invalid vector %q: expected x,y,z", input)
	}
	for axis, part := range parts {
		val, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return v, fmt.Errorf("invalid vector %q: %v", input, err)
		}
		v[axis] = float32(val)
	}
	return v, nil
}

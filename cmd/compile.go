package cmd

import (
	"strings"

	"github.com/achilleasa/minilight/scene/reader"
	"github.com/achilleasa/minilight/scene/writer"
	"github.com/urfave/cli"
)

// Compile wavefront scenes into compressed scene archives. With --random a
// generated scene is written to the file selected by --out instead.
func CompileScene(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.Int("random") > 0 {
		sc, err := loadScene(ctx)
		if err != nil {
			logger.Error(err)
			return err
		}
		return writeArchive(sc, ctx.String("out"))
	}

	for idx := 0; idx < ctx.NArg(); idx++ {
		sceneFile := ctx.Args().Get(idx)
		if !strings.HasSuffix(strings.ToLower(sceneFile), ".obj") {
			logger.Warningf("skipping unsupported file %s", sceneFile)
			continue
		}

		logger.Noticef("compiling scene: %s", sceneFile)
		sc, err := reader.ReadScene(sceneFile)
		if err != nil {
			logger.Error(err)
			return err
		}

		if err = writeArchive(sc, sceneFile[:len(sceneFile)-len(".obj")]+".zip"); err != nil {
			return err
		}
	}

	return nil
}

func writeArchive(sc *reader.Scene, filename string) error {
	if err := writer.WriteScene(sc, filename); err != nil {
		logger.Error(err)
		return err
	}
	logger.Noticef("wrote %d triangles to %s", len(sc.Triangles), filename)
	return nil
}

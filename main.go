package main

import (
	"os"

	"github.com/achilleasa/minilight/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "minilight"
	app.Usage = "build octree indices over triangle scenes and probe them with rays"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "compile",
			Usage: "compile wavefront scenes into compressed scene archives",
			Description: `
Parse scene definitions from wavefront obj files and write the triangles and
eye position to zip archives next to each input file. Archives can be supplied
to the stats and probe commands in place of the source scene.

With --random a generated scene is written to the --out file instead.`,
			ArgsUsage: "scene_file1.obj scene_file2.obj ...",
			Flags: append(cmd.SceneFlags(),
				cli.StringFlag{
					Name:  "out, o",
					Value: "random.zip",
					Usage: "archive filename for generated scenes",
				},
			),
			Action: cmd.CompileScene,
		},
		{
			Name:  "stats",
			Usage: "build the spatial index for a scene and display its statistics",
			Description: `
Read a scene from a wavefront obj file or scene archive (local path or
http(s) URL) or generate a random one with --random and build an octree over
its triangles. The root cell is extended to include the eye position.`,
			ArgsUsage: "scene_file.obj",
			Flags:     cmd.SceneFlags(),
			Action:    cmd.ShowIndexStats,
		},
		{
			Name:  "probe",
			Usage: "cast random rays from the eye and measure query throughput",
			Description: `
Trace frames of rays leaving the eye in random directions. Every ray that hits
a surface casts a shadow ray towards a random emissive triangle. Frames are
split into blocks which are processed concurrently by a pool of workers; the
results do not depend on the number of workers.

With --verify every query is repeated with a brute-force scan and any
disagreement is reported.`,
			ArgsUsage: "scene_file.obj",
			Flags: append(cmd.SceneFlags(),
				cli.IntFlag{
					Name:  "rays",
					Value: 1 << 20,
					Usage: "rays per frame",
				},
				cli.IntFlag{
					Name:  "block-size",
					Value: 1024,
					Usage: "rays per block",
				},
				cli.IntFlag{
					Name:  "frames",
					Value: 1,
					Usage: "number of frames to trace",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "number of tracing workers (default: number of cpus)",
				},
				cli.BoolFlag{
					Name:  "verify",
					Usage: "cross-check every query against a brute-force scan",
				},
			),
			Action: cmd.ProbeScene,
		},
	}

	app.Run(os.Args)
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Carmen-Shannon/oxy-probe/engine/log"
	"github.com/urfave/cli"
)

var logger = log.New("probectl")

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "probectl"
	app.Usage = "drive reflection probes through activation, culling and realtime capture"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringSliceFlag{
			Name:  "debug",
			Usage: "enable debug logging for one package (probe, probe_system, capture, profiler, probectl); repeatable",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "cull",
			Usage: "simulate frames over a grid of probes",
			Description: `
Build a square grid of probes, activate them against a probe system and run a
number of frames from a viewer circling the grid. Each frame culls the registered probes
against the viewer frustum and captures the visible realtime probes.

The visible probes of the last frame and the registry are printed as tables.`,
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "grid",
					Value: 4,
					Usage: "probes per grid side",
				},
				cli.Float64Flag{
					Name:  "spacing",
					Value: 12,
					Usage: "distance between neighbouring probes",
				},
				cli.IntFlag{
					Name:  "realtime",
					Value: 2,
					Usage: "number of probes switched to realtime mode",
				},
				cli.IntFlag{
					Name:  "planar",
					Value: 1,
					Usage: "number of planar probes added to the grid",
				},
				cli.IntFlag{
					Name:  "frames",
					Value: 3,
					Usage: "number of frames to simulate",
				},
				cli.Float64Flag{
					Name:  "fov",
					Value: 60,
					Usage: "viewer vertical field of view in degrees",
				},
				cli.Float64Flag{
					Name:  "distance",
					Value: 20,
					Usage: "viewer distance from the grid center",
				},
				cli.Float64Flag{
					Name:  "orbit",
					Value: 0,
					Usage: "radians the viewer circles the grid by per frame",
				},
				cli.IntFlag{
					Name:  "workers",
					Value: 2,
					Usage: "cull worker count",
				},
			},
			Action: Cull,
		},
		{
			Name:  "inspect",
			Usage: "print the derived state of a single probe",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "mode",
					Value: "baked",
					Usage: "acquisition mode: baked, custom or realtime",
				},
				cli.IntFlag{
					Name:  "layers",
					Value: 1,
					Usage: "light layer mask, -1 for everything",
				},
				cli.StringFlag{
					Name:  "proxy",
					Value: "none",
					Usage: "linked proxy shape: none, box, sphere or infinite",
				},
				cli.BoolFlag{
					Name:  "influence-proxy",
					Usage: "use the influence volume as proxy when no proxy is linked",
				},
			},
			Action: Inspect,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func setupLogging(ctx *cli.Context) error {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}

	return debugModules(ctx.GlobalStringSlice("debug"))
}

// debugModules raises the named loggers to debug level.
func debugModules(names []string) error {
	for _, name := range names {
		if err := log.SetModuleLevel(name, log.Debug); err != nil {
			return fmt.Errorf("%w (known: %s)", err, strings.Join(log.Modules(), ", "))
		}
	}
	return nil
}

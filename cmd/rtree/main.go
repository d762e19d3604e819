package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v3"
	_ "go.uber.org/automaxprocs"
)

func main() {
	app := &cli.App{
		Name:        "rtree",
		Description: "Bulk-loaded R-tree over CSV point sets",
		Commands: []*cli.Command{
			{
				Name:    "generate",
				Aliases: []string{"g"},
				Usage:   "writes a Poisson-disc point set as CSV",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:      "out",
						Aliases:   []string{"o"},
						Required:  true,
						TakesFile: true,
					},
					&cli.Float64Flag{
						Name:  "width",
						Value: 100,
					},
					&cli.Float64Flag{
						Name:  "height",
						Value: 100,
					},
					&cli.Float64Flag{
						Name:  "spacing",
						Usage: "minimum distance between generated points",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "seed",
						Value: 1,
					},
				},
				Action: generate,
			},
			{
				Name:  "query",
				Usage: "builds an index and runs a nearest-neighbor or range query",
				Flags: append(buildFlags(),
					&cli.StringFlag{
						Name:     "at",
						Usage:    "query point as comma separated coordinates",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "k",
						Usage: "number of nearest neighbors",
						Value: 1,
					},
					&cli.Float64Flag{
						Name:  "radius",
						Usage: "run a range query with this radius instead of a nearest-neighbor query",
						Value: -1,
					},
				),
				Action: query,
			},
			{
				Name:   "stats",
				Usage:  "builds an index and prints its shape",
				Flags:  buildFlags(),
				Action: stats,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

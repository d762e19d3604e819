package main

import (
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	rtree "github.com/bmharper/rtree-go"
)

func buildFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:      "points",
			Aliases:   []string{"p"},
			Required:  true,
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:  "curve",
			Usage: "hilbert, zorder, hilbert-key or none",
			Value: "hilbert",
		},
		&cli.StringFlag{
			Name:  "packer",
			Usage: "fixed or adaptive",
			Value: "fixed",
		},
		&cli.IntFlag{
			Name:  "seed",
			Usage: "random seed for the adaptive packer",
			Value: 1,
		},
		&cli.IntFlag{
			Name:  "leaf-min",
			Value: rtree.DefaultBounds.Min,
		},
		&cli.IntFlag{
			Name:  "leaf-max",
			Value: rtree.DefaultBounds.Max,
		},
		&cli.IntFlag{
			Name:  "node-min",
			Value: rtree.DefaultBounds.Min,
		},
		&cli.IntFlag{
			Name:  "node-max",
			Value: rtree.DefaultBounds.Max,
		},
		&cli.StringFlag{
			Name:  "metric",
			Value: rtree.MetricEuclidean.String(),
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
		},
	}
}

func sorterByName(name string) (rtree.Sorter, error) {
	switch name {
	case "hilbert":
		return rtree.CurveSorter{Curve: rtree.Hilbert()}, nil
	case "zorder":
		return rtree.CurveSorter{Curve: rtree.ZOrder()}, nil
	case "hilbert-key":
		return rtree.HilbertKeySorter{}, nil
	case "none":
		return rtree.InputOrder, nil
	default:
		return nil, fmt.Errorf("unknown curve %q", name)
	}
}

// buildTree loads the points named by the command's flags and indexes them.
func buildTree(ctx *cli.Context) (*rtree.Tree, rtree.Points, error) {
	level := slog.LevelInfo
	if ctx.Bool("verbose") {
		level = slog.LevelDebug
	}
	logger := rtree.NewTextLogger(level)

	sorter, err := sorterByName(ctx.String("curve"))
	if err != nil {
		return nil, nil, err
	}
	metric, err := rtree.ParseMetric(ctx.String("metric"))
	if err != nil {
		return nil, nil, err
	}

	opts := []rtree.Option{
		rtree.WithLogger(logger),
		rtree.WithSorter(sorter),
		rtree.WithMetric(metric),
		rtree.WithLeafBounds(ctx.Int("leaf-min"), ctx.Int("leaf-max")),
		rtree.WithNodeBounds(ctx.Int("node-min"), ctx.Int("node-max")),
	}
	switch p := ctx.String("packer"); p {
	case "fixed":
	case "adaptive":
		opts = append(opts, rtree.WithAdaptivePacking(rtree.SeededRandom(int64(ctx.Int("seed")))))
	default:
		return nil, nil, fmt.Errorf("unknown packer %q", p)
	}

	points, err := loadPoints(ctx.String("points"))
	if err != nil {
		return nil, nil, err
	}
	logger.Info("points loaded", "path", ctx.String("points"), "count", len(points))

	t, err := rtree.Build(points, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("error building index: %w", err)
	}
	return t, points, nil
}

package main

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/fogleman/poissondisc"
	"github.com/paulmach/orb"
	"github.com/urfave/cli/v3"

	rtree "github.com/bmharper/rtree-go"
	"github.com/bmharper/rtree-go/orbsource"
)

func generate(ctx *cli.Context) error {
	rnd := rand.New(rand.NewSource(int64(ctx.Int("seed"))))
	samples := poissondisc.Sample(0, 0, ctx.Float64("width"), ctx.Float64("height"), ctx.Float64("spacing"), 30, rnd)

	points := make(orb.MultiPoint, len(samples))
	for i, s := range samples {
		points[i] = orb.Point{s.X, s.Y}
	}
	if err := writePoints(ctx.String("out"), points); err != nil {
		return fmt.Errorf("error writing points: %w", err)
	}

	b := points.Bound()
	fmt.Printf("Wrote %s points within [%g, %g] - [%g, %g] to %s\n",
		humanize.Comma(int64(len(points))), b.Min.X(), b.Min.Y(), b.Max.X(), b.Max.Y(), ctx.String("out"))
	return nil
}

func query(ctx *cli.Context) error {
	t, points, err := buildTree(ctx)
	if err != nil {
		return err
	}
	q, err := parseCoords(ctx.String("at"))
	if err != nil {
		return fmt.Errorf("invalid query point: %w", err)
	}

	if r := ctx.Float64("radius"); r >= 0 {
		idx, err := t.QueryRange(q, r)
		if err != nil {
			return err
		}
		slices.Sort(idx)
		fmt.Printf("%s points within %g\n", humanize.Comma(int64(len(idx))), r)
		for _, i := range idx {
			fmt.Printf("%d\t%v\n", i, points[i])
		}
		return nil
	}

	neighbors, err := t.QueryKNNNeighbors(q, ctx.Int("k"))
	if err != nil {
		return err
	}
	for _, n := range neighbors {
		fmt.Printf("%d\t%v\t%g\n", n.Payload, points[n.Payload], n.Distance)
	}
	return nil
}

func stats(ctx *cli.Context) error {
	t, _, err := buildTree(ctx)
	if err != nil {
		return err
	}

	nodes := 0
	t.Walk(func(rtree.Node, int) bool {
		nodes++
		return true
	})
	fmt.Printf("Points: %s\n", humanize.Comma(int64(t.Len())))
	fmt.Printf("Dimensions: %d\n", t.Dim())
	fmt.Printf("Levels: %d\n", t.Height())
	fmt.Printf("Nodes: %s\n", humanize.Comma(int64(nodes)))
	if box, ok := t.Bounds(); ok && box.Dim() == 2 {
		b := orbsource.ToBound(box)
		fmt.Printf("Bounds: [%g, %g] - [%g, %g]\n", b.Min.X(), b.Min.Y(), b.Max.X(), b.Max.Y())
	}

	histogram := map[int]int{}
	for _, g := range t.LeafGroups() {
		histogram[len(g)]++
	}
	sizes := make([]int, 0, len(histogram))
	for size := range histogram {
		sizes = append(sizes, size)
	}
	slices.Sort(sizes)
	fmt.Println("Leaf group sizes:")
	for _, size := range sizes {
		fmt.Printf("  %3d: %s\n", size, humanize.Comma(int64(histogram[size])))
	}
	return nil
}

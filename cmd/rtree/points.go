package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"golang.org/x/exp/mmap"

	rtree "github.com/bmharper/rtree-go"
)

// loadPoints reads one point per CSV record. Every record must have the same
// number of fields.
func loadPoints(path string) (rtree.Points, error) {
	file, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(io.NewSectionReader(file, 0, int64(file.Len())))
	r.ReuseRecord = true
	var points rtree.Points
	for line := 1; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %w", path, err)
		}
		p, err := parseFields(record)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		points = append(points, p)
	}
	return points, nil
}

func parseFields(fields []string) ([]float64, error) {
	p := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, err
		}
		p[i] = v
	}
	return p, nil
}

// parseCoords parses "x,y,..." into a point.
func parseCoords(s string) ([]float64, error) {
	return parseFields(strings.Split(s, ","))
}

func writePoints(path string, points orb.MultiPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, p := range points {
		err := w.Write([]string{
			strconv.FormatFloat(p.X(), 'g', -1, 64),
			strconv.FormatFloat(p.Y(), 'g', -1, 64),
		})
		if err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

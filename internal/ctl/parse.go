package ctl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cfusterbarcelo/SAMJ/pkg/types"
)

// parsePoint parses "x,y" into a two-component point.
func parsePoint(s string) (types.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("point %q must be x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("point %q: %w", s, err)
	}
	return types.Point{x, y}, nil
}

func parsePoints(args []string) ([]types.Point, error) {
	var pts []types.Point
	for _, a := range args {
		p, err := parsePoint(a)
		if err != nil {
			return nil, err
		}
		pts = append(pts, p)
	}
	return pts, nil
}

// parseBox parses "x0,y0,x1,y1" into the two corner points.
func parseBox(s string) (types.Point, types.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, nil, fmt.Errorf("box %q must be x0,y0,x1,y1", s)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("box %q: %w", s, err)
		}
		vals[i] = v
	}
	return types.Point{vals[0], vals[1]}, types.Point{vals[2], vals[3]}, nil
}

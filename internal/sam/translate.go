package sam

import (
	"fmt"

	"github.com/cfusterbarcelo/SAMJ/pkg/types"
)

// truncatePoint converts a tool position to the integer pair the backend
// expects: the first two components, truncated toward zero by direct cast.
// The conversion is deliberately lossy; sub-pixel prompts lose precision
// silently.
func truncatePoint(p types.Point) ([2]int, error) {
	if len(p) < 2 {
		return [2]int{}, fmt.Errorf("point has %d dimensions, need at least 2", len(p))
	}
	return [2]int{int(p[0]), int(p[1])}, nil
}

func truncatePoints(ps []types.Point) ([][2]int, error) {
	out := make([][2]int, 0, len(ps))
	for _, p := range ps {
		ip, err := truncatePoint(p)
		if err != nil {
			return nil, err
		}
		out = append(out, ip)
	}
	return out, nil
}

// truncateInterval converts a tool interval to the backend's box array.
// Order is x0, y0, x1, y1 — x before y, min before max. The backend relies
// on exactly this order; swapping axes yields a wrong crop, not an error.
func truncateInterval(iv types.Interval) ([4]int, error) {
	if len(iv.Min) < 2 || len(iv.Max) < 2 {
		return [4]int{}, fmt.Errorf("interval corners need at least 2 dimensions, got %d and %d", len(iv.Min), len(iv.Max))
	}
	return [4]int{int(iv.Min[0]), int(iv.Min[1]), int(iv.Max[0]), int(iv.Max[1])}, nil
}

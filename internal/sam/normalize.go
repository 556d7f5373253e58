package sam

import "github.com/cfusterbarcelo/SAMJ/pkg/types"

// emptyResult is the canonical failure result: a one-element list holding
// the zero-vertex polygon. Callers can't tell "error" from "no result" by
// the value alone; the logger carries that distinction.
func emptyResult() []types.Polygon {
	return []types.Polygon{types.EmptyPolygon()}
}

// normalize guarantees the adapter-boundary result shape: on success the
// backend's polygons pass through verbatim (but never nil); any error is
// reported through report and collapsed into the empty-result sentinel.
func normalize(polys []types.Polygon, err error, report func(error)) []types.Polygon {
	if err != nil {
		report(err)
		return emptyResult()
	}
	if polys == nil {
		return []types.Polygon{}
	}
	return polys
}

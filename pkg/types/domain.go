package types

// Point is a position reported by the annotation tool. Coordinates are
// floating point and may carry more than two dimensions; only the first two
// are meaningful to the segmentation backends.
type Point []float64

// Interval is an axis-aligned box from the annotation tool: min corner and
// max corner, component-wise Min <= Max.
type Interval struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// Polygon is one segmented region boundary: ordered integer vertices kept as
// parallel coordinate arrays, matching the contour arrays the backends emit.
type Polygon struct {
	Xs []int `json:"xs"`
	Ys []int `json:"ys"`
}

// EmptyPolygon returns the zero-vertex polygon used as the "no result"
// sentinel. Failed segmentation calls return exactly one of these, never an
// empty list.
func EmptyPolygon() Polygon { return Polygon{} }

// Len returns the number of vertices.
func (p Polygon) Len() int { return len(p.Xs) }

// Empty reports whether the polygon has no vertices.
func (p Polygon) Empty() bool { return len(p.Xs) == 0 }

// Raster is a 2D mask prompt congruent with the encoded image's extent.
// Pix is row-major: Height rows of Width values.
type Raster struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Pix    []float32 `json:"pix"`
}

// Checkpoint is a discovered model weight file on disk.
type Checkpoint struct {
	// File name of the checkpoint; doubles as its ID.
	ID string `json:"id"`
	// Absolute path to the weight file.
	Path string `json:"path"`
}

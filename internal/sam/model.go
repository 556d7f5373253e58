// Package sam is the contract between the annotation front end and the
// SAM-family segmentation backends. It owns the per-image model adapter:
// lifecycle of the backend session, translation of the three prompt shapes
// into backend calls, and containment of backend faults so a segmentation
// call never crashes the caller.
package sam

import (
	"context"

	"github.com/cfusterbarcelo/SAMJ/pkg/types"
)

// Logger is the logging capability the annotation tool supplies to a model.
// Implementations must be safe for use from the adapter's calling goroutine.
type Logger interface {
	Info(text string)
	Error(text string)
}

// Descriptor is the immutable identity of a model family.
type Descriptor struct {
	// Stable identifier, e.g. "efficientsam".
	ID string
	// Full display name, e.g. "EfficientSAM".
	Name string
	// Short human description.
	Description string
	// Axis order required for the input image, e.g. "yxc".
	InputImageAxes string
}

// Model is the capability set every SAM family exposes to the annotation
// tool. One instance serves exactly one encoded image; callers must not
// invoke a single instance from two goroutines at once.
type Model interface {
	// Name returns the family's full display name.
	Name() string
	// Description returns a short human description.
	Description() string
	// IsInstalled reports whether the backend runtime dependencies are
	// present. Orthogonal to session liveness.
	IsInstalled() bool
	// SetInstalled records the installation state. Only the installation
	// manager should call this.
	SetInstalled(installed bool)
	// Instantiate binds a new model instance to the given image. Unlike
	// Connect it never fails: any construction error is reported to logger
	// and nil is returned.
	Instantiate(ctx context.Context, imagePath string, logger Logger) Model
	// SegmentFromPoints runs point-prompt segmentation. Never returns nil;
	// on any backend fault the result is exactly one zero-vertex polygon.
	SegmentFromPoints(ctx context.Context, points, negPoints []types.Point) []types.Polygon
	// SegmentFromBox runs box-prompt segmentation. Same result policy.
	SegmentFromBox(ctx context.Context, box types.Interval) []types.Polygon
	// SegmentFromMask runs mask-prompt segmentation. Same result policy.
	SegmentFromMask(ctx context.Context, mask types.Raster) []types.Polygon
	// NotifyUIClosed is the lifecycle hook the hosting UI calls on teardown.
	NotifyUIClosed()
	// CloseProcess releases the backend session. Safe to call twice.
	CloseProcess()
	// InputImageAxes returns the axis order this family requires.
	InputImageAxes() string
}

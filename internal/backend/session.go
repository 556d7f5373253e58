package backend

import (
	"context"
	"time"

	"github.com/cfusterbarcelo/SAMJ/pkg/types"
)

// DebugSink receives raw diagnostic text emitted by the backend process, one
// line at a time.
type DebugSink func(text string)

// LaunchSpec describes how to start one model family's backend helper.
type LaunchSpec struct {
	// Python interpreter to run the helper with.
	PythonBin string
	// Path to the helper script.
	Script string
	// Path to the model checkpoint the helper loads.
	Checkpoint string
	// Loopback host to bind; defaults to 127.0.0.1.
	Host string
	// Optional port range; when zero a free port is picked.
	PortStart int
	PortEnd   int
	// Extra arguments appended to the helper command line.
	ExtraArgs []string
	// How long to wait for the helper to report healthy; defaults to 30s.
	ReadyTimeout time.Duration
}

// Session is the live connection to one backend process bound to exactly one
// encoded image. A session is owned by a single adapter instance and is not
// reentrant: callers must serialize access.
type Session interface {
	// InferFromPoints runs point-prompt inference with positive points only.
	InferFromPoints(ctx context.Context, points [][2]int) ([]types.Polygon, error)
	// InferFromPointsWithNegatives runs point-prompt inference with both
	// positive and negative points.
	InferFromPointsWithNegatives(ctx context.Context, points, negPoints [][2]int) ([]types.Polygon, error)
	// InferFromBox runs box-prompt inference. Box order is x0, y0, x1, y1.
	InferFromBox(ctx context.Context, box [4]int) ([]types.Polygon, error)
	// InferFromMask runs mask-prompt inference.
	InferFromMask(ctx context.Context, mask types.Raster) ([]types.Polygon, error)
	// Port reports the TCP port the backend listens on.
	Port() int
	// PID reports the backend process id.
	PID() int
	// Close terminates the backend process. Safe to call more than once.
	Close() error
}

// Launcher starts sessions. The subprocess launcher is the production
// implementation; tests substitute fakes.
type Launcher interface {
	Launch(ctx context.Context, spec LaunchSpec, imagePath string, sink DebugSink) (Session, error)
}

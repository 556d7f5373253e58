package sam

import (
	"context"
	"sync"

	"github.com/cfusterbarcelo/SAMJ/internal/backend"
	"github.com/cfusterbarcelo/SAMJ/pkg/types"
)

// Adapter implements Model for subprocess-backed SAM families. A family
// constructor (EfficientSAM, EfficientViTSAM) yields an unbound adapter:
// identity accessors and the installed flag work, segmentation does not
// until Connect or Instantiate binds a session to an image.
type Adapter struct {
	desc      Descriptor
	spec      backend.LaunchSpec
	launcher  backend.Launcher
	installed bool
	log       Logger

	mu      sync.Mutex
	session backend.Session
}

// NewAdapter builds an unbound adapter from a descriptor, a launch spec and
// a launcher. Most callers want the family constructors in families.go; this
// is the seam for substituting the launcher.
func NewAdapter(desc Descriptor, spec backend.LaunchSpec, launcher backend.Launcher) *Adapter {
	return &Adapter{desc: desc, spec: spec, launcher: launcher, log: nopLogger{}}
}

func (a *Adapter) Name() string           { return a.desc.Name }
func (a *Adapter) Description() string    { return a.desc.Description }
func (a *Adapter) InputImageAxes() string { return a.desc.InputImageAxes }

func (a *Adapter) IsInstalled() bool           { return a.installed }
func (a *Adapter) SetInstalled(installed bool) { a.installed = installed }

// Connect is the strict construction tier: it binds a new adapter to the
// given image and propagates every failure kind (missing artifact, backend
// runtime, interrupted) to the caller unmodified. The supplied logger's info
// path, wrapped in the contour filter, becomes the backend's debug sink.
func (a *Adapter) Connect(ctx context.Context, imagePath string, logger Logger) (*Adapter, error) {
	sess, err := a.launcher.Launch(ctx, a.spec, imagePath, FilterDebugText(logger.Info))
	if err != nil {
		return nil, err
	}
	return &Adapter{
		desc:     a.desc,
		spec:     a.spec,
		launcher: a.launcher,
		log:      logger,
		session:  sess,
	}, nil
}

// Instantiate is the lenient construction tier: call sites that only need
// "a model or nothing" get nil back instead of an error. The failure text is
// reported once through the logger's error path.
func (a *Adapter) Instantiate(ctx context.Context, imagePath string, logger Logger) Model {
	m, err := a.Connect(ctx, imagePath, logger)
	if err != nil {
		logger.Error(a.desc.Name + " experienced an error: " + err.Error())
		return nil
	}
	return m
}

// SegmentFromPoints translates both point lists and routes to the backend's
// points-only entry point when no negatives are given, or the dual-list
// entry point otherwise. Faults are contained into the empty-result
// sentinel; this method never fails.
func (a *Adapter) SegmentFromPoints(ctx context.Context, points, negPoints []types.Point) []types.Polygon {
	run := func() ([]types.Polygon, error) {
		pts, err := truncatePoints(points)
		if err != nil {
			return nil, err
		}
		negs, err := truncatePoints(negPoints)
		if err != nil {
			return nil, err
		}
		s, err := a.liveSession()
		if err != nil {
			return nil, err
		}
		if len(negs) == 0 {
			return s.InferFromPoints(ctx, pts)
		}
		return s.InferFromPointsWithNegatives(ctx, pts, negs)
	}
	polys, err := run()
	return normalize(polys, err, a.reportTrouble)
}

// SegmentFromBox translates the interval to the backend's [x0, y0, x1, y1]
// box array. Same containment policy as SegmentFromPoints.
func (a *Adapter) SegmentFromBox(ctx context.Context, box types.Interval) []types.Polygon {
	run := func() ([]types.Polygon, error) {
		bbox, err := truncateInterval(box)
		if err != nil {
			return nil, err
		}
		s, err := a.liveSession()
		if err != nil {
			return nil, err
		}
		return s.InferFromBox(ctx, bbox)
	}
	polys, err := run()
	return normalize(polys, err, a.reportTrouble)
}

// SegmentFromMask forwards the raster to the backend's mask entry point.
// Same containment policy.
func (a *Adapter) SegmentFromMask(ctx context.Context, mask types.Raster) []types.Polygon {
	run := func() ([]types.Polygon, error) {
		s, err := a.liveSession()
		if err != nil {
			return nil, err
		}
		return s.InferFromMask(ctx, mask)
	}
	polys, err := run()
	return normalize(polys, err, a.reportTrouble)
}

// NotifyUIClosed is called by the hosting UI on teardown.
func (a *Adapter) NotifyUIClosed() {
	a.log.Info(a.desc.Name + ": OKAY, I'm closing myself...")
	a.CloseProcess()
}

// CloseProcess releases the backend session. Idempotent: a second call is a
// no-op, and segmentation after close yields the contained session-closed
// fault rather than reaching a dead process.
func (a *Adapter) CloseProcess() {
	a.mu.Lock()
	sess := a.session
	a.session = nil
	a.mu.Unlock()
	if sess != nil {
		_ = sess.Close()
	}
}

// Runtime reports the backend process's port and pid while the session is
// live.
func (a *Adapter) Runtime() (port, pid int, live bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return 0, 0, false
	}
	return a.session.Port(), a.session.PID(), true
}

func (a *Adapter) liveSession() (backend.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return nil, backend.ErrSessionClosed
	}
	return a.session, nil
}

func (a *Adapter) reportTrouble(err error) {
	a.log.Error(a.desc.Name + ", providing empty result because of some trouble: " + err.Error())
}

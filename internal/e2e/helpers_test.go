package e2e

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cfusterbarcelo/SAMJ/internal/backend"
	"github.com/cfusterbarcelo/SAMJ/internal/httpapi"
	"github.com/cfusterbarcelo/SAMJ/internal/manager"
	"github.com/cfusterbarcelo/SAMJ/pkg/types"
)

// stubSession is a scripted backend session shared by the e2e tests.
type stubSession struct {
	mu      sync.Mutex
	result  []types.Polygon
	err     error
	closed  bool
	calls   int
	lastBox [4]int
}

func (s *stubSession) infer() ([]types.Polygon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubSession) InferFromPoints(ctx context.Context, points [][2]int) ([]types.Polygon, error) {
	return s.infer()
}

func (s *stubSession) InferFromPointsWithNegatives(ctx context.Context, points, negPoints [][2]int) ([]types.Polygon, error) {
	return s.infer()
}

func (s *stubSession) InferFromBox(ctx context.Context, box [4]int) ([]types.Polygon, error) {
	s.mu.Lock()
	s.lastBox = box
	s.mu.Unlock()
	return s.infer()
}

func (s *stubSession) InferFromMask(ctx context.Context, mask types.Raster) ([]types.Polygon, error) {
	return s.infer()
}

func (s *stubSession) Port() int { return 30001 }
func (s *stubSession) PID() int  { return 4242 }

func (s *stubSession) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

type stubLauncher struct {
	mu        sync.Mutex
	session   *stubSession
	launchErr error
	launches  int
}

func (l *stubLauncher) Launch(ctx context.Context, spec backend.LaunchSpec, imagePath string, sink backend.DebugSink) (backend.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.launches++
	if l.launchErr != nil {
		return nil, l.launchErr
	}
	return l.session, nil
}

// newServer wires a real manager and router around the stub launcher.
func newServer(t *testing.T, launcher backend.Launcher) (*httptest.Server, *manager.Manager) {
	t.Helper()
	mgr := manager.New(manager.Config{
		PythonBin:  "python3",
		ScriptsDir: t.TempDir(),
		WeightsDir: t.TempDir(),
		PortStart:  30000,
		PortEnd:    30010,
		Launcher:   launcher,
	}, zerolog.Nop())
	srv := httptest.NewServer(httpapi.NewMux(mgr))
	t.Cleanup(func() {
		srv.Close()
		mgr.CloseAll()
	})
	return srv, mgr
}

package manager

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/cfusterbarcelo/SAMJ/internal/sam"
	"github.com/cfusterbarcelo/SAMJ/pkg/types"
)

// session binds one model instance to one image. The mutex serializes all
// access to the adapter: it is not reentrant and must never see two
// concurrent calls.
type session struct {
	id        string
	familyID  string
	imagePath string
	mu        sync.Mutex
	model     *sam.Adapter
	lastUsed  time.Time
}

// countingLogger forwards to the session logger and counts error-path calls
// so contained segmentation faults show up in /status even though the
// adapter never returns them.
type countingLogger struct {
	inner   sam.Logger
	counter *uint64
}

func (c countingLogger) Info(text string) { c.inner.Info(text) }
func (c countingLogger) Error(text string) {
	atomic.AddUint64(c.counter, 1)
	c.inner.Error(text)
}

// OpenSession binds the requested family to imagePath. Construction uses the
// strict tier so the failure kind survives to the HTTP layer for status
// mapping.
func (m *Manager) OpenSession(ctx context.Context, familyID, imagePath string) (types.SessionResponse, error) {
	m.mu.RLock()
	f, resolvedID, err := m.resolveFamily(familyID)
	m.mu.RUnlock()
	if err != nil {
		return types.SessionResponse{}, err
	}

	id := uuid.NewString()
	logger := countingLogger{
		inner:   sam.ZerologLogger{L: m.log.With().Str("session_id", id).Str("model", resolvedID).Logger()},
		counter: &m.failuresTotal,
	}
	model, err := f.adapter.Connect(ctx, imagePath, logger)
	if err != nil {
		m.mu.Lock()
		m.lastError = err.Error()
		m.mu.Unlock()
		return types.SessionResponse{}, fmt.Errorf("open session: %w", err)
	}

	m.mu.Lock()
	m.sessions[id] = &session{
		id:        id,
		familyID:  resolvedID,
		imagePath: imagePath,
		model:     model,
		lastUsed:  time.Now(),
	}
	m.opensTotal++
	m.mu.Unlock()
	m.log.Info().Str("session_id", id).Str("model", resolvedID).Str("image", imagePath).Msg("session opened")
	return types.SessionResponse{SessionID: id, Model: resolvedID, ImagePath: imagePath}, nil
}

func (m *Manager) lookup(id string) (*session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound(id)
	}
	return s, nil
}

// SegmentPoints runs a point-prompt segmentation on the given session. The
// polygon result is never nil; backend faults surface as the one-element
// empty sentinel, exactly as the adapter contract promises.
func (m *Manager) SegmentPoints(ctx context.Context, id string, req types.PointsRequest) ([]types.Polygon, error) {
	s, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()
	return s.model.SegmentFromPoints(ctx, req.Points, req.NegPoints), nil
}

// SegmentBox runs a box-prompt segmentation on the given session.
func (m *Manager) SegmentBox(ctx context.Context, id string, req types.BoxRequest) ([]types.Polygon, error) {
	s, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()
	return s.model.SegmentFromBox(ctx, types.Interval{Min: req.Min, Max: req.Max}), nil
}

// SegmentMask runs a mask-prompt segmentation on the given session.
func (m *Manager) SegmentMask(ctx context.Context, id string, req types.MaskRequest) ([]types.Polygon, error) {
	s, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()
	return s.model.SegmentFromMask(ctx, req.Mask), nil
}

// CloseSession tears down one session: the UI-closed hook runs first (it
// logs the shutdown line), then the entry is dropped.
func (m *Manager) CloseSession(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound(id)
	}
	s.mu.Lock()
	s.model.NotifyUIClosed()
	s.mu.Unlock()
	return nil
}

// Package manager owns the model-family catalog and the live per-image
// sessions the daemon serves. It is the single writer of installation state
// and the place where adapter access is serialized.
package manager

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cfusterbarcelo/SAMJ/internal/backend"
	"github.com/cfusterbarcelo/SAMJ/internal/registry"
	"github.com/cfusterbarcelo/SAMJ/internal/sam"
	"github.com/cfusterbarcelo/SAMJ/pkg/types"
)

// familyEntry pairs an unbound family adapter with the canonical names of
// its backend artifacts.
type familyEntry struct {
	adapter *sam.Adapter
	script  string
	ckpt    string
}

type Manager struct {
	mu       sync.RWMutex
	cfg      Config
	log      zerolog.Logger
	families map[string]*familyEntry
	order    []string
	sessions map[string]*session

	startedAt     time.Time
	opensTotal    uint64
	failuresTotal uint64
	lastError     string
}

// New builds a Manager with the built-in SAM families.
func New(cfg Config, log zerolog.Logger) *Manager {
	m := &Manager{
		cfg:       cfg,
		log:       log,
		families:  make(map[string]*familyEntry),
		sessions:  make(map[string]*session),
		startedAt: time.Now(),
	}
	m.addFamily(sam.EfficientSAMDescriptor(), "efficient_sam_server.py", "efficient_sam_vitt.pt")
	m.addFamily(sam.EfficientViTSAMDescriptor(), "efficientvit_sam_server.py", "efficientvit_sam_l2.pt")
	return m
}

func (m *Manager) addFamily(desc sam.Descriptor, script, ckpt string) {
	spec := backend.LaunchSpec{
		PythonBin:  m.cfg.PythonBin,
		Script:     filepath.Join(m.resolveDir(m.cfg.ScriptsDir), script),
		Checkpoint: filepath.Join(m.resolveDir(m.cfg.WeightsDir), ckpt),
		PortStart:  m.cfg.PortStart,
		PortEnd:    m.cfg.PortEnd,
	}
	launcher := m.cfg.Launcher
	var adapter *sam.Adapter
	if launcher != nil {
		adapter = sam.NewAdapter(desc, spec, launcher)
	} else {
		adapter = sam.NewAdapter(desc, spec, backend.NewSubprocessLauncher())
	}
	m.families[desc.ID] = &familyEntry{adapter: adapter, script: script, ckpt: ckpt}
	m.order = append(m.order, desc.ID)
}

// resolveDir expands a leading '~' so launch specs carry paths the launcher
// can stat. The sanity check resolves the same way through the registry; the
// two must agree or an installed family could never launch.
func (m *Manager) resolveDir(dir string) string {
	expanded, err := registry.ExpandHome(dir)
	if err != nil {
		m.log.Warn().Err(err).Str("dir", dir).Msg("cannot expand home dir")
		return dir
	}
	return expanded
}

// Families lists the known model families in registration order.
func (m *Manager) Families() []types.ModelInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.ModelInfo, 0, len(m.order))
	for _, id := range m.order {
		a := m.families[id].adapter
		out = append(out, types.ModelInfo{
			ID:          id,
			Name:        a.Name(),
			Description: a.Description(),
			Axes:        a.InputImageAxes(),
			Installed:   a.IsInstalled(),
		})
	}
	return out
}

// SetInstalled records installation state for one family. This is the only
// external write path for that flag.
func (m *Manager) SetInstalled(familyID string, installed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.families[familyID]
	if !ok {
		return ErrModelNotFound(familyID)
	}
	f.adapter.SetInstalled(installed)
	return nil
}

// Ready reports whether at least one family has its backend dependencies
// installed.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, f := range m.families {
		if f.adapter.IsInstalled() {
			return true
		}
	}
	return false
}

// CloseAll shuts down every live session. Best effort, used on daemon
// shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*session)
	m.mu.Unlock()
	for _, s := range sessions {
		s.mu.Lock()
		s.model.CloseProcess()
		s.mu.Unlock()
	}
}

func (m *Manager) resolveFamily(id string) (*familyEntry, string, error) {
	if id == "" {
		id = m.cfg.DefaultModel
	}
	if id == "" && len(m.order) > 0 {
		id = m.order[0]
	}
	f, ok := m.families[id]
	if !ok {
		return nil, "", ErrModelNotFound(id)
	}
	return f, id, nil
}

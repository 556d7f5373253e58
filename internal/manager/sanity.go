package manager

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cfusterbarcelo/SAMJ/internal/registry"
)

// FamilySanity describes the artifact checks for one model family.
type FamilySanity struct {
	ID              string `json:"id"`
	ScriptFound     bool   `json:"script_found"`
	CheckpointFound bool   `json:"checkpoint_found"`
	Installed       bool   `json:"installed"`
}

// SanityReport describes runtime checks for external dependencies.
type SanityReport struct {
	PythonFound bool           `json:"python_found"`
	PythonPath  string         `json:"python_path,omitempty"`
	Families    []FamilySanity `json:"families"`
	Error       string         `json:"error,omitempty"`
}

// SanityCheck validates the python interpreter and each family's backend
// artifacts, and records the result in the families' installed flags. This
// is the installation-manager duty the daemon performs: the adapters only
// carry the flag.
func (m *Manager) SanityCheck() SanityReport {
	r := SanityReport{}

	bin := m.cfg.PythonBin
	if strings.TrimSpace(bin) == "" {
		bin = "python3"
	}
	if strings.ContainsRune(bin, os.PathSeparator) {
		if fi, err := os.Stat(bin); err == nil && !fi.IsDir() {
			r.PythonFound = true
			r.PythonPath = bin
		}
	} else if resolved, err := exec.LookPath(bin); err == nil {
		r.PythonFound = true
		r.PythonPath = resolved
	}

	ckpts := make(map[string]bool)
	if found, err := registry.LoadDir(m.cfg.WeightsDir); err != nil {
		r.Error = err.Error()
	} else {
		for _, c := range found {
			ckpts[c.ID] = true
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.order {
		f := m.families[id]
		fs := FamilySanity{ID: id, CheckpointFound: ckpts[f.ckpt]}
		if fi, err := os.Stat(filepath.Join(m.resolveDir(m.cfg.ScriptsDir), f.script)); err == nil && !fi.IsDir() {
			fs.ScriptFound = true
		}
		fs.Installed = r.PythonFound && fs.ScriptFound && fs.CheckpointFound
		f.adapter.SetInstalled(fs.Installed)
		r.Families = append(r.Families, fs)
	}
	return r
}

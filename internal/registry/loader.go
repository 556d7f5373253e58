package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cfusterbarcelo/SAMJ/pkg/types"
)

// checkpointExts are the weight-file extensions recognized by the scanner.
var checkpointExts = []string{".pt", ".pth", ".onnx"}

// CheckpointScanner discovers model weight files in a directory.
type CheckpointScanner struct {
	exts []string
}

func NewCheckpointScanner() *CheckpointScanner {
	return &CheckpointScanner{exts: checkpointExts}
}

// Scan lists checkpoint files in dir. ID is the full filename (including
// extension); Path is the absolute file path.
func (s *CheckpointScanner) Scan(dir string) ([]types.Checkpoint, error) {
	base, err := ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var cks []types.Checkpoint
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !s.recognized(name) {
			continue
		}
		cks = append(cks, types.Checkpoint{ID: name, Path: filepath.Join(abs, name)})
	}
	return cks, nil
}

func (s *CheckpointScanner) recognized(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range s.exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// LoadDir scans dir with a default scanner.
func LoadDir(dir string) ([]types.Checkpoint, error) {
	return NewCheckpointScanner().Scan(dir)
}

// ExpandHome expands a leading '~' to the user's home directory. Exported
// because config paths like the weights dir must resolve identically
// wherever they are consumed.
func ExpandHome(path string) (string, error) {
	if path == "" {
		return path, nil
	}
	if path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	// handle cases like ~/samj/weights
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

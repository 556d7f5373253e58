package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckpointScanner_FiltersWeightFiles(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		"efficient_sam_vitt.pt",
		"l2.PT", // case-insensitive
		"sam_vit_h.pth",
		"efficientvit_sam_l2.onnx",
		"readme.txt",
		"image.png",
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f), []byte(""), 0o644); err != nil {
			t.Fatalf("write temp file: %v", err)
		}
	}
	s := NewCheckpointScanner()
	cks, err := s.Scan(dir)
	if err != nil {
		t.Fatalf("scan error: %v", err)
	}
	if len(cks) != 4 {
		t.Fatalf("expected 4 checkpoints, got %d", len(cks))
	}
	for _, c := range cks {
		low := strings.ToLower(c.ID)
		if !strings.HasSuffix(low, ".pt") && !strings.HasSuffix(low, ".pth") && !strings.HasSuffix(low, ".onnx") {
			t.Fatalf("unexpected id: %s", c.ID)
		}
		if !filepath.IsAbs(c.Path) {
			t.Fatalf("path not absolute: %s", c.Path)
		}
	}
}

func TestCheckpointScanner_MissingDir(t *testing.T) {
	if _, err := LoadDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}

func TestLoadDirWrapper(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "m.pt"), []byte(""), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cks, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cks) != 1 || cks[0].ID != "m.pt" {
		t.Fatalf("unexpected: %+v", cks)
	}
}

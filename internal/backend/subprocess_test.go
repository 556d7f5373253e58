package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cfusterbarcelo/SAMJ/pkg/types"
)

func testSession(srv *httptest.Server) *httpSession {
	return &httpSession{
		baseURL:   srv.URL,
		client:    srv.Client(),
		publisher: noopPublisher{},
	}
}

func TestHTTPSession_DecodesContourArrays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/segment/points" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(wireResult{
			ContoursX: [][]int{{1, 2, 3}, {10}},
			ContoursY: [][]int{{4, 5, 6}, {20}},
		})
	}))
	defer srv.Close()

	s := testSession(srv)
	polys, err := s.InferFromPoints(context.Background(), [][2]int{{1, 1}})
	if err != nil {
		t.Fatalf("InferFromPoints: %v", err)
	}
	if len(polys) != 2 {
		t.Fatalf("expected 2 polygons, got %d", len(polys))
	}
	if polys[0].Len() != 3 || polys[0].Xs[2] != 3 || polys[0].Ys[2] != 6 {
		t.Fatalf("polygon 0 wrong: %+v", polys[0])
	}
}

func TestHTTPSession_BackendErrorFieldIsBackendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(wireResult{Error: "CUDA out of memory"})
	}))
	defer srv.Close()

	s := testSession(srv)
	_, err := s.InferFromBox(context.Background(), [4]int{0, 0, 5, 5})
	if !IsBackendFailure(err) {
		t.Fatalf("expected backend failure, got %v", err)
	}
}

func TestHTTPSession_NonOKStatusIsBackendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := testSession(srv)
	_, err := s.InferFromMask(context.Background(), types.Raster{Width: 1, Height: 1, Pix: []float32{1}})
	if !IsBackendFailure(err) {
		t.Fatalf("expected backend failure, got %v", err)
	}
}

func TestHTTPSession_CanceledContextIsInterrupted(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	s := testSession(srv)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := s.InferFromPointsWithNegatives(ctx, [][2]int{{1, 1}}, [][2]int{{2, 2}})
	if !IsInterrupted(err) {
		t.Fatalf("expected interruption, got %v", err)
	}
}

func TestHTTPSession_RejectsCallsAfterClose(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(wireResult{})
	}))
	defer srv.Close()

	s := testSession(srv)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	_, err := s.InferFromPoints(context.Background(), [][2]int{{1, 1}})
	if err != ErrSessionClosed {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
}

func TestContoursToPolygons_CountMismatch(t *testing.T) {
	_, err := contoursToPolygons(wireResult{ContoursX: [][]int{{1}}, ContoursY: nil})
	if !IsBackendFailure(err) {
		t.Fatalf("expected backend failure, got %v", err)
	}
	_, err = contoursToPolygons(wireResult{ContoursX: [][]int{{1, 2}}, ContoursY: [][]int{{1}}})
	if !IsBackendFailure(err) {
		t.Fatalf("expected backend failure for length mismatch, got %v", err)
	}
}

func TestPickPortInRange(t *testing.T) {
	p, err := pickPortInRange("127.0.0.1", 30500, 30600)
	if err != nil {
		t.Fatalf("pickPortInRange: %v", err)
	}
	if p < 30500 || p > 30600 {
		t.Fatalf("port %d out of range", p)
	}
}

func writeTempArtifacts(t *testing.T) (script, ckpt string) {
	t.Helper()
	dir := t.TempDir()
	script = filepath.Join(dir, "sam_server.py")
	ckpt = filepath.Join(dir, "efficient_sam.pt")
	for _, p := range []string{script, ckpt} {
		if err := os.WriteFile(p, []byte("placeholder"), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
	return script, ckpt
}

func TestLaunch_MissingScriptIsMissingArtifact(t *testing.T) {
	l := NewSubprocessLauncher()
	_, err := l.Launch(context.Background(), LaunchSpec{
		Script:     "/nonexistent/sam_server.py",
		Checkpoint: "/nonexistent/weights.pt",
	}, "cells.png", nil)
	if !IsMissingArtifact(err) {
		t.Fatalf("expected missing artifact, got %v", err)
	}
}

func TestLaunch_MissingPythonIsMissingArtifact(t *testing.T) {
	script, ckpt := writeTempArtifacts(t)
	l := NewSubprocessLauncher()
	_, err := l.Launch(context.Background(), LaunchSpec{
		PythonBin:  "/nonexistent/python3",
		Script:     script,
		Checkpoint: ckpt,
	}, "cells.png", nil)
	if !IsMissingArtifact(err) {
		t.Fatalf("expected missing artifact, got %v", err)
	}
}

func TestLaunch_EarlyExitIsBackendFailure(t *testing.T) {
	script, ckpt := writeTempArtifacts(t)
	pub := NewMemoryPublisher()
	l := NewSubprocessLauncher()
	l.SetPublisher(pub)
	// /bin/false exits immediately regardless of arguments.
	_, err := l.Launch(context.Background(), LaunchSpec{
		PythonBin:    "/bin/false",
		Script:       script,
		Checkpoint:   ckpt,
		ReadyTimeout: 5 * time.Second,
	}, "cells.png", nil)
	if !IsBackendFailure(err) {
		t.Fatalf("expected backend failure, got %v", err)
	}
	var sawExit bool
	for _, e := range pub.Events() {
		if e.Name == "spawn_exit" {
			sawExit = true
		}
	}
	if !sawExit {
		t.Fatalf("spawn_exit event not published: %v", pub.Events())
	}
}

func TestLaunch_CancellationIsInterrupted(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "sleep.sh")
	if err := os.WriteFile(script, []byte("sleep 30\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	ckpt := filepath.Join(dir, "weights.pt")
	if err := os.WriteFile(ckpt, []byte("w"), 0o644); err != nil {
		t.Fatalf("write checkpoint: %v", err)
	}
	l := NewSubprocessLauncher()
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	_, err := l.Launch(ctx, LaunchSpec{
		PythonBin:  "/bin/sh",
		Script:     script,
		Checkpoint: ckpt,
	}, "cells.png", nil)
	if !IsInterrupted(err) {
		t.Fatalf("expected interruption, got %v", err)
	}
}

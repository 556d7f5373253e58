package blackbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// findFreePort picks an available TCP port on localhost.
func findFreePort(t *testing.T) (int, func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	cleanup := func() { _ = ln.Close() }
	var port int
	fmt.Sscanf(portStr, "%d", &port)
	return port, cleanup
}

func projectRootFromThisFile(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	// this file: <root>/tests/blackbox/blackbox_test.go
	bbDir := filepath.Dir(thisFile)
	root := filepath.Dir(filepath.Dir(bbDir))
	return root
}

func buildBinary(t *testing.T) string {
	t.Helper()
	root := projectRootFromThisFile(t)
	outDir := t.TempDir()
	binPath := filepath.Join(outDir, "samjd")
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/samjd")
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("go build failed: %v\n%s", err, string(out))
	}
	return binPath
}

type serverProc struct {
	cmd  *exec.Cmd
	base string // http base URL, e.g. http://127.0.0.1:18080
}

func startServer(t *testing.T, bin, scriptsDir, weightsDir string, port int) *serverProc {
	t.Helper()
	addr := fmt.Sprintf(":%d", port)
	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	cmd := exec.Command(bin,
		"--addr", addr,
		"--scripts-dir", scriptsDir,
		"--weights-dir", weightsDir,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	// Wait for healthz
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(base + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				break
			}
		}
		if time.Now().After(deadline) {
			_ = cmd.Process.Kill()
			t.Fatalf("server did not become healthy in time")
		}
		time.Sleep(50 * time.Millisecond)
	}
	sp := &serverProc{cmd: cmd, base: base}
	t.Cleanup(func() { _ = cmd.Process.Kill() })
	return sp
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func postJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func TestBlackbox_Flow(t *testing.T) {
	bin := buildBinary(t)
	// Empty scripts/weights dirs: the daemon must come up, list its model
	// families, and report not-ready.
	scriptsDir := t.TempDir()
	weightsDir := t.TempDir()
	port, release := findFreePort(t)
	release()
	sp := startServer(t, bin, scriptsDir, weightsDir, port)

	// /healthz
	resp, body := get(t, sp.base+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/healthz %d %s", resp.StatusCode, string(body))
	}

	// /models lists both families even with nothing installed
	resp, body = get(t, sp.base+"/models")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/models %d %s", resp.StatusCode, string(body))
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("/models content-type=%s", ct)
	}
	var modelsResp struct {
		Models []struct {
			ID        string `json:"id"`
			Installed bool   `json:"installed"`
		} `json:"models"`
	}
	if err := json.Unmarshal(body, &modelsResp); err != nil {
		t.Fatalf("/models json: %v body=%s", err, string(body))
	}
	if len(modelsResp.Models) != 2 {
		t.Fatalf("expected 2 model families, got %d", len(modelsResp.Models))
	}
	for _, m := range modelsResp.Models {
		if m.Installed {
			t.Fatalf("family %s reports installed with empty dirs", m.ID)
		}
	}

	// /readyz is 503 with no installed family
	resp, body = get(t, sp.base+"/readyz")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("/readyz %d %s", resp.StatusCode, string(body))
	}

	// /status
	resp, body = get(t, sp.base+"/status")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/status %d %s", resp.StatusCode, string(body))
	}
	var statusResp struct {
		Sessions   []any `json:"sessions"`
		OpensTotal int   `json:"opens_total"`
	}
	if err := json.Unmarshal(body, &statusResp); err != nil {
		t.Fatalf("/status json: %v body=%s", err, string(body))
	}
	if len(statusResp.Sessions) != 0 {
		t.Fatalf("expected no sessions, got %d", len(statusResp.Sessions))
	}

	// /metrics
	resp, body = get(t, sp.base+"/metrics")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/metrics %d", resp.StatusCode)
	}
	if !bytes.Contains(body, []byte("samjd_")) {
		t.Fatalf("/metrics missing samjd namespace: %.200s", string(body))
	}
}

func TestBlackbox_OpenSession_MissingArtifacts_503(t *testing.T) {
	bin := buildBinary(t)
	port, release := findFreePort(t)
	release()
	sp := startServer(t, bin, t.TempDir(), t.TempDir(), port)

	resp, body := postJSON(t, sp.base+"/sessions",
		[]byte(`{"model":"efficientsam","image_path":"/tmp/does-not-matter.png"}`))
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d, body=%s", resp.StatusCode, string(body))
	}
}

func TestBlackbox_OpenSession_UnknownModel_404(t *testing.T) {
	bin := buildBinary(t)
	port, release := findFreePort(t)
	release()
	sp := startServer(t, bin, t.TempDir(), t.TempDir(), port)

	resp, body := postJSON(t, sp.base+"/sessions",
		[]byte(`{"model":"sam3-ultra","image_path":"/tmp/x.png"}`))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d, body=%s", resp.StatusCode, string(body))
	}
}

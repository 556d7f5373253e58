package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/cfusterbarcelo/SAMJ/internal/config"
	"github.com/cfusterbarcelo/SAMJ/internal/httpapi"
	"github.com/cfusterbarcelo/SAMJ/internal/manager"
)

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		p := strings.TrimSpace(part)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func main() {
	// Flags with environment variable defaults
	addr := flag.String("addr", envDefault("SAMJD_ADDR", ":8080"), "HTTP listen address, e.g. :8080")
	configPath := flag.String("config", os.Getenv("SAMJD_CONFIG"), "Optional config file (yaml, json or toml)")
	pythonBin := flag.String("python", envDefault("SAMJD_PYTHON", "python3"), "Python interpreter for backend workers")
	scriptsDir := flag.String("scripts-dir", envDefault("SAMJD_SCRIPTS_DIR", "./scripts"), "Directory holding backend worker scripts")
	weightsDir := flag.String("weights-dir", envDefault("SAMJD_WEIGHTS_DIR", "~/.samj/weights"), "Directory to scan for model checkpoints")
	defaultModel := flag.String("default-model", os.Getenv("SAMJD_DEFAULT_MODEL"), "Default model family when request omits model")
	portStart := flag.Int("port-start", 30000, "First port for backend workers")
	portEnd := flag.Int("port-end", 30999, "Last port for backend workers")
	corsOrigins := flag.String("cors-origins", os.Getenv("SAMJD_CORS_ORIGINS"), "Comma-separated CORS origins (empty disables CORS)")
	pretty := flag.Bool("pretty-log", false, "Human-readable console logging")
	flag.Parse()

	var out zerolog.Logger
	if *pretty {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	} else {
		out = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	cfg := manager.Config{
		PythonBin:    *pythonBin,
		ScriptsDir:   *scriptsDir,
		WeightsDir:   *weightsDir,
		DefaultModel: *defaultModel,
		PortStart:    *portStart,
		PortEnd:      *portEnd,
	}
	if *configPath != "" {
		fileCfg, err := config.Load(*configPath)
		if err != nil {
			out.Fatal().Err(err).Str("path", *configPath).Msg("load config")
		}
		if fileCfg.Addr != "" {
			*addr = fileCfg.Addr
		}
		if fileCfg.PythonBin != "" {
			cfg.PythonBin = fileCfg.PythonBin
		}
		if fileCfg.ScriptsDir != "" {
			cfg.ScriptsDir = fileCfg.ScriptsDir
		}
		if fileCfg.WeightsDir != "" {
			cfg.WeightsDir = fileCfg.WeightsDir
		}
		if fileCfg.DefaultModel != "" {
			cfg.DefaultModel = fileCfg.DefaultModel
		}
		if fileCfg.PortStart != 0 {
			cfg.PortStart = fileCfg.PortStart
		}
		if fileCfg.PortEnd != 0 {
			cfg.PortEnd = fileCfg.PortEnd
		}
	}

	mgr := manager.New(cfg, out)
	report := mgr.SanityCheck()
	if report.Error != "" {
		out.Warn().Str("error", report.Error).Msg("checkpoint scan failed")
	}
	if !report.PythonFound {
		out.Warn().Str("python", cfg.PythonBin).Msg("python interpreter not found")
	}
	for _, f := range report.Families {
		out.Info().
			Str("model", f.ID).
			Bool("installed", f.Installed).
			Bool("script", f.ScriptFound).
			Bool("checkpoint", f.CheckpointFound).
			Msg("model family")
	}

	httpapi.SetLogger(out)
	if origins := splitCSV(*corsOrigins); len(origins) > 0 {
		httpapi.SetCORSOptions(true, origins,
			[]string{"GET", "POST", "DELETE", "OPTIONS"},
			[]string{"Accept", "Content-Type", "X-Log-Level"})
	}

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	mux := httpapi.NewMux(mgr)
	srv := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		out.Info().Str("addr", *addr).Str("weights_dir", cfg.WeightsDir).Msg("samjd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			out.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		out.Warn().Err(err).Msg("graceful shutdown error")
	}
	mgr.CloseAll()
}

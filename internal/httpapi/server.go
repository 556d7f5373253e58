package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cfusterbarcelo/SAMJ/internal/backend"
	"github.com/cfusterbarcelo/SAMJ/internal/manager"
	"github.com/cfusterbarcelo/SAMJ/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Families() []types.ModelInfo
	OpenSession(ctx context.Context, familyID, imagePath string) (types.SessionResponse, error)
	SegmentPoints(ctx context.Context, id string, req types.PointsRequest) ([]types.Polygon, error)
	SegmentBox(ctx context.Context, id string, req types.BoxRequest) ([]types.Polygon, error)
	SegmentMask(ctx context.Context, id string, req types.MaskRequest) ([]types.Polygon, error)
	CloseSession(id string) error
	Status() types.StatusResponse
	Ready() bool
}

// serverBaseCtx is a process-level context that can be canceled on shutdown.
// Defaults to Background if not set.
var serverBaseCtx = context.Background()

// SetBaseContext sets the process-level base context used by handlers.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		serverBaseCtx = context.Background()
		return
	}
	serverBaseCtx = ctx
}

// joinContexts returns a context that is canceled when either a or b is done.
// The returned cancel func must be called to release the goroutine when the
// handler ends.
func joinContexts(a, b context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-a.Done():
			cancel()
		case <-b.Done():
			cancel()
		}
	}()
	return ctx, cancel
}

type server struct {
	svc Service
}

// NewMux builds the daemon router: model catalog, session lifecycle, the
// three segmentation entry points, health and metrics.
func NewMux(svc Service) http.Handler {
	s := &server{svc: svc}
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	r.Use(MetricsMiddleware)

	r.Get("/models", s.handleModels)
	r.Get("/status", s.handleStatus)
	r.Post("/sessions", s.handleOpenSession)
	r.Delete("/sessions/{id}", s.handleCloseSession)
	r.Post("/sessions/{id}/points", s.handlePoints)
	r.Post("/sessions/{id}/box", s.handleBox)
	r.Post("/sessions/{id}/mask", s.handleMask)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("backend dependencies missing"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// handleModels godoc
// @Summary  List model families
// @Produce  json
// @Success  200 {object} types.ModelsResponse
// @Router   /models [get]
func (s *server) handleModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.ModelsResponse{Models: s.svc.Families()})
}

// handleStatus godoc
// @Summary  Daemon status
// @Produce  json
// @Success  200 {object} types.StatusResponse
// @Router   /status [get]
func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Status())
}

// handleOpenSession godoc
// @Summary  Bind a model family to one image
// @Accept   json
// @Produce  json
// @Param    request body types.OpenSessionRequest true "session request"
// @Success  200 {object} types.SessionResponse
// @Failure  404 {object} types.ErrorResponse
// @Failure  503 {object} types.ErrorResponse
// @Router   /sessions [post]
func (s *server) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	var req types.OpenSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ImagePath) == "" {
		writeJSONError(w, http.StatusBadRequest, "image_path is required")
		return
	}
	lvl := requestLogLevel(r)
	start := time.Now()
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	resp, err := s.svc.OpenSession(ctx, req.Model, req.ImagePath)
	if err != nil {
		if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
			return
		}
		status := openErrorStatus(err)
		writeJSONError(w, status, err.Error())
		if lvl >= LevelInfo && zlog != nil {
			z := zlog.Info().Int("status", status).Dur("dur", time.Since(start)).Str("model", req.Model)
			if rid := middleware.GetReqID(r.Context()); rid != "" {
				z = z.Str("request_id", rid)
			}
			z.Err(err).Msg("open session failed")
		}
		return
	}
	if lvl >= LevelInfo && zlog != nil {
		z := zlog.Info().Str("session_id", resp.SessionID).Str("model", resp.Model).Dur("dur", time.Since(start))
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			z = z.Str("request_id", rid)
		}
		z.Msg("session opened")
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCloseSession godoc
// @Summary  Close a session
// @Param    id path string true "session id"
// @Success  204
// @Failure  404 {object} types.ErrorResponse
// @Router   /sessions/{id} [delete]
func (s *server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.svc.CloseSession(id); err != nil {
		if manager.IsSessionNotFound(err) {
			writeJSONError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePoints godoc
// @Summary  Segment from point prompts
// @Accept   json
// @Produce  json
// @Param    id path string true "session id"
// @Param    request body types.PointsRequest true "point prompts"
// @Success  200 {object} types.SegmentationResponse
// @Failure  404 {object} types.ErrorResponse
// @Router   /sessions/{id}/points [post]
func (s *server) handlePoints(w http.ResponseWriter, r *http.Request) {
	var req types.PointsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Points) == 0 {
		writeJSONError(w, http.StatusBadRequest, "points are required")
		return
	}
	s.segment(w, r, "points", func(ctx context.Context) ([]types.Polygon, error) {
		return s.svc.SegmentPoints(ctx, chi.URLParam(r, "id"), req)
	})
}

// handleBox godoc
// @Summary  Segment from a bounding-box prompt
// @Accept   json
// @Produce  json
// @Param    id path string true "session id"
// @Param    request body types.BoxRequest true "box prompt"
// @Success  200 {object} types.SegmentationResponse
// @Failure  404 {object} types.ErrorResponse
// @Router   /sessions/{id}/box [post]
func (s *server) handleBox(w http.ResponseWriter, r *http.Request) {
	var req types.BoxRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s.segment(w, r, "box", func(ctx context.Context) ([]types.Polygon, error) {
		return s.svc.SegmentBox(ctx, chi.URLParam(r, "id"), req)
	})
}

// handleMask godoc
// @Summary  Segment from a mask prompt
// @Accept   json
// @Produce  json
// @Param    id path string true "session id"
// @Param    request body types.MaskRequest true "mask prompt"
// @Success  200 {object} types.SegmentationResponse
// @Failure  404 {object} types.ErrorResponse
// @Router   /sessions/{id}/mask [post]
func (s *server) handleMask(w http.ResponseWriter, r *http.Request) {
	var req types.MaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Mask.Width <= 0 || req.Mask.Height <= 0 || len(req.Mask.Pix) != req.Mask.Width*req.Mask.Height {
		writeJSONError(w, http.StatusBadRequest, "mask dimensions do not match pixel data")
		return
	}
	s.segment(w, r, "mask", func(ctx context.Context) ([]types.Polygon, error) {
		return s.svc.SegmentMask(ctx, chi.URLParam(r, "id"), req)
	})
}

// segment runs one segmentation call with the joined shutdown/request
// context and maps lookup failures. Segmentation itself cannot fail: backend
// faults arrive already contained as the empty sentinel. The per-prompt
// counter only covers calls that reached a session, so unknown-session
// probes cannot inflate it.
func (s *server) segment(w http.ResponseWriter, r *http.Request, prompt string, run func(ctx context.Context) ([]types.Polygon, error)) {
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	polys, err := run(ctx)
	if err != nil {
		if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
			return
		}
		if manager.IsSessionNotFound(err) {
			writeJSONError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	countSegmentation(prompt)
	writeJSON(w, http.StatusOK, types.SegmentationResponse{Polygons: polys})
}

// openErrorStatus maps session-construction failure kinds to HTTP statuses.
func openErrorStatus(err error) int {
	switch {
	case manager.IsModelNotFound(err):
		return http.StatusNotFound
	case backend.IsMissingArtifact(err):
		return http.StatusServiceUnavailable
	case backend.IsBackendFailure(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON enforces content type and body limits, then decodes into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		// If exceeded size, MaxBytesReader may cause an error; still return 400 to avoid size leak details
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && zlog != nil {
		zlog.Error().Err(err).Msg("encode response")
	}
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

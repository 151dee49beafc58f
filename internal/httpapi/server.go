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

	"lxllama/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	ModelID() string
	Infer(ctx context.Context, prompts []string, opts map[string]any) ([][]types.ScoredOutput, error)
	ListModels() ([]types.Model, error)
	Ready() bool
}

type handlers struct {
	svc  Service
	opts Options
}

// NewMux builds the router serving svc.
func NewMux(svc Service, opts Options) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	if opts.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORS.AllowedOrigins,
			AllowedMethods: opts.CORS.AllowedMethods,
			AllowedHeaders: opts.CORS.AllowedHeaders,
			MaxAge:         300,
		}))
	}
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	h := handlers{svc: svc, opts: opts}
	r.Group(func(r chi.Router) {
		r.Use(inflightMiddleware)
		r.Get("/models", h.models)
		r.Post("/infer", h.infer)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	MountSwagger(r)

	return r
}

// models lists GGUF files in the local download cache.
//
// @Summary  List cached models
// @Tags     models
// @Produce  json
// @Success  200 {object} types.ModelsResponse
// @Failure  500 {object} types.ErrorResponse
// @Router   /models [get]
func (h handlers) models(w http.ResponseWriter, r *http.Request) {
	models, err := h.svc.ListModels()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if models == nil {
		models = []types.Model{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(types.ModelsResponse{Models: models}); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}

// infer runs a batch of prompts through the loaded model.
//
// @Summary  Run a batch of prompts
// @Tags     inference
// @Accept   json
// @Produce  json
// @Param    request body types.InferRequest true "Prompts and completion options"
// @Success  200 {object} types.InferResponse
// @Failure  400 {object} types.ErrorResponse
// @Failure  415 {object} types.ErrorResponse
// @Failure  502 {object} types.ErrorResponse
// @Failure  503 {object} types.ErrorResponse
// @Failure  504 {object} types.ErrorResponse
// @Router   /infer [post]
func (h handlers) infer(w http.ResponseWriter, r *http.Request) {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.bodyLimit())
	var req types.InferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Prompts) == 0 {
		writeJSONError(w, http.StatusBadRequest, "prompts is required")
		return
	}

	start := time.Now()
	lvl := requestLogLevel(r)
	rid := middleware.GetReqID(r.Context())
	if lvl >= LevelInfo {
		zlog.Info().Str("path", r.URL.Path).Str("request_id", rid).Int("prompts", len(req.Prompts)).Msg("infer start")
	}

	ctx, cancel := h.opts.batchContext(r.Context())
	defer cancel()

	results, err := h.svc.Infer(ctx, req.Prompts, req.Options)
	if err != nil {
		// Client gone or server stopping: nobody reads the answer.
		if r.Context().Err() != nil || h.opts.shuttingDown() {
			return
		}
		status, reason := statusForError(err)
		countInferFailure(reason)
		writeJSONError(w, status, err.Error())
		if lvl >= LevelError {
			zlog.Warn().Int("status", status).Str("request_id", rid).Dur("dur", time.Since(start)).Err(err).Msg("infer end")
		}
		return
	}
	if lvl >= LevelDebug {
		for i, res := range results {
			for _, so := range res {
				zlog.Debug().Str("request_id", rid).Int("index", i).Float64("score", so.Score).Str("output", so.Output).Msg("infer>")
			}
		}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(types.InferResponse{Model: h.svc.ModelID(), Results: results}); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}
	if lvl >= LevelInfo {
		zlog.Info().Int("status", http.StatusOK).Str("request_id", rid).Dur("dur", time.Since(start)).Msg("infer end")
	}
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"lxllama/internal/common/fsutil"
	"lxllama/internal/config"
	"lxllama/internal/provider"
	"lxllama/internal/registry"
	"lxllama/pkg/types"
)

// errLoading is returned by Infer until the model has finished loading.
var errLoading = statusError{msg: "model is loading", code: http.StatusServiceUnavailable}

type statusError struct {
	msg  string
	code int
}

func (e statusError) Error() string   { return e.msg }
func (e statusError) StatusCode() int { return e.code }

// modelService adapts a provider.LanguageModel to httpapi.Service.
// The model loads in the background so /healthz answers immediately.
type modelService struct {
	cfg config.Config
	log zerolog.Logger
	// create defaults to provider.Create.
	create func(modelID string, cfg provider.Config) (provider.LanguageModel, error)

	mu      sync.RWMutex
	model   provider.LanguageModel
	loadErr error
}

func newModelService(cfg config.Config, log zerolog.Logger) *modelService {
	return &modelService{cfg: cfg, log: log, create: provider.Create}
}

// Load creates the model. It is safe to call from a goroutine.
func (s *modelService) Load() error {
	m, err := s.create(s.cfg.ModelID, s.cfg.Provider())
	s.mu.Lock()
	s.model, s.loadErr = m, err
	s.mu.Unlock()
	if err != nil {
		s.log.Error().Err(err).Str("model", s.cfg.ModelID).Msg("model load failed")
		return err
	}
	s.log.Info().Str("model", s.cfg.ModelID).Msg("model ready")
	return nil
}

func (s *modelService) ModelID() string { return s.cfg.ModelID }

func (s *modelService) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model != nil
}

func (s *modelService) Infer(ctx context.Context, prompts []string, opts map[string]any) ([][]types.ScoredOutput, error) {
	s.mu.RLock()
	m, err := s.model, s.loadErr
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errLoading
	}
	return m.Infer(ctx, prompts, opts)
}

func (s *modelService) ListModels() ([]types.Model, error) {
	return listCachedModels(s.cfg)
}

func (s *modelService) Close() {
	s.mu.Lock()
	m := s.model
	s.model = nil
	s.mu.Unlock()
	if m != nil {
		closeModel(m)
	}
}

// listCachedModels scans the hub cache the loader downloads into.
func listCachedModels(cfg config.Config) ([]types.Model, error) {
	dir := fsutil.HubCacheDir()
	if v, ok := cfg.ModelOptions["cache_dir"].(string); ok && v != "" {
		dir = v
	}
	dir, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve cache dir: %w", err)
	}
	return registry.ScanCache(dir)
}

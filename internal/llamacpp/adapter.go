// Package llamacpp is the provider that serves hf:<repo>[:<file>] model ids
// from a local llama.cpp model. One LanguageModel owns one loaded model for its
// whole lifetime and answers batches of prompts, sequentially or through a
// bounded worker pool.
package llamacpp

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/rs/zerolog"

	"lxllama/internal/native"
	"lxllama/internal/provider"
)

// zlog is the package logger; SetLogger replaces it.
var zlog = zerolog.Nop()

// SetLogger installs the structured logger used by models created afterwards.
func SetLogger(l zerolog.Logger) { zlog = l }

// LanguageModel adapts a native chat model to provider.LanguageModel.
type LanguageModel struct {
	ref        ModelRef
	maxWorkers int

	mu     sync.RWMutex
	client native.ChatModel // nil once closed
	// completionOptions apply to every chat completion; per-call options win.
	completionOptions map[string]any
	log               zerolog.Logger
}

var _ provider.LanguageModel = (*LanguageModel)(nil)

// New parses modelID and loads the model through loader. cfg.ModelOptions go to
// the loader verbatim; cfg.CompletionOptions are kept for every Infer call.
// Loader errors are returned as-is.
func New(ctx context.Context, modelID string, cfg provider.Config, loader native.Loader) (*LanguageModel, error) {
	ref, err := ParseModelID(modelID)
	if err != nil {
		return nil, err
	}
	m := &LanguageModel{
		ref:               ref,
		maxWorkers:        cfg.MaxWorkers,
		completionOptions: maps.Clone(cfg.CompletionOptions),
		log:               zlog.With().Str("model", ref.String()).Logger(),
	}
	if !cfg.Verbose {
		m.SuppressNativeLogs()
	}
	client, err := loader.FromPretrained(ctx, native.LoadParams{
		RepoID:   ref.RepoID,
		Filename: ref.Filename,
		Verbose:  cfg.Verbose,
		Options:  cfg.ModelOptions,
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", ref, err)
	}
	m.client = client
	m.log.Info().Int("max_workers", m.maxWorkers).Msg("model ready")
	return m, nil
}

// Ref returns the parsed model identifier.
func (m *LanguageModel) Ref() ModelRef { return m.ref }

// MaxWorkers returns the configured parallelism bound.
func (m *LanguageModel) MaxWorkers() int { return m.maxWorkers }

// errClosed is the cause reported by Infer after Close.
var errClosed = errors.New("model is closed")

// chatModel returns the loaded model, or errClosed.
func (m *LanguageModel) chatModel() (native.ChatModel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.client == nil {
		return nil, errClosed
	}
	return m.client, nil
}

// Close releases the native model. Batches already running keep the model
// they started with; the binding fails their remaining calls once freed.
func (m *LanguageModel) Close() error {
	m.mu.Lock()
	c := m.client
	m.client = nil
	m.mu.Unlock()
	if c == nil {
		return nil
	}
	return c.Close()
}

// SuppressNativeLogs routes llama.cpp's internal logging to a no-op callback.
// This is cosmetic and not reliable: the hook is process-wide and some
// backends write to stderr directly, so output may still appear.
func (m *LanguageModel) SuppressNativeLogs() {
	native.SilenceLogs()
}

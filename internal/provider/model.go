// Package provider is the plugin contract between the extraction host and the
// model backends it can dispatch to. Backends register a factory against a
// model-id pattern with a priority; the host asks the registry to build a
// LanguageModel for a concrete model id.
package provider

import (
	"context"

	"lxllama/pkg/types"
)

// LanguageModel is the capability every provider must implement.
type LanguageModel interface {
	// Infer runs every prompt and returns, per prompt and in input order, a
	// list of scored outputs. opts are per-call completion options layered
	// over whatever the provider was configured with.
	Infer(ctx context.Context, prompts []string, opts map[string]any) ([][]types.ScoredOutput, error)
}

// Config is the provider-independent construction input.
type Config struct {
	// MaxWorkers bounds parallel inference within one batch. Values <= 1 mean sequential.
	MaxWorkers int
	// Verbose enables the backend's own logging.
	Verbose bool
	// ModelOptions are forwarded verbatim to the backend's model loader.
	ModelOptions map[string]any
	// CompletionOptions are applied to every completion call.
	CompletionOptions map[string]any
}

// Factory builds a LanguageModel for a model id that matched its pattern.
type Factory func(modelID string, cfg Config) (LanguageModel, error)

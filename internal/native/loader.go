package native

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"lxllama/internal/common/fsutil"
)

// HubLoader loads GGUF models hosted on the Hugging Face Hub into llama.cpp.
type HubLoader struct {
	log       zerolog.Logger
	newSource func(LoadOptions) FileSource
	open      func(modelPath string, lo LoadOptions) (ChatModel, error)
	// silence mutes native logging for non-verbose loads.
	silence   func()
}

// NewLoader returns the loader for this build. Without the 'llama' build tag
// every FromPretrained call fails with a dependency-unavailable error.
func NewLoader(log zerolog.Logger) *HubLoader {
	l := &HubLoader{
		log:     log,
		silence: SilenceLogs,
		newSource: func(lo LoadOptions) FileSource {
			return HubSource{CacheDir: lo.CacheDir, Token: lo.Token, Revision: lo.Revision}
		},
	}
	if llamaBuilt {
		l.open = openLlama
	}
	return l
}

// FromPretrained implements Loader.
func (l *HubLoader) FromPretrained(ctx context.Context, params LoadParams) (ChatModel, error) {
	if l.open == nil {
		return nil, ErrDependencyUnavailable("llama support not built (missing 'llama' build tag)")
	}
	if strings.TrimSpace(params.RepoID) == "" {
		return nil, errors.New("repository id is empty")
	}
	if !params.Verbose && l.silence != nil {
		l.silence()
	}
	lo, err := ParseLoadOptions(params.Options)
	if err != nil {
		return nil, err
	}
	for _, k := range lo.Ignored {
		l.log.Debug().Str("option", k).Msg("ignoring unsupported load option")
	}
	if lo.CacheDir, err = fsutil.ExpandHome(lo.CacheDir); err != nil {
		return nil, err
	}
	modelPath, err := ResolveFile(ctx, l.newSource(lo), params.RepoID, params.Filename)
	if err != nil {
		return nil, err
	}
	l.log.Info().
		Str("repo", params.RepoID).
		Str("path", modelPath).
		Int("n_ctx", lo.ContextSize).
		Int("n_gpu_layers", lo.GPULayers).
		Str("chat_format", lo.ChatFormat).
		Msg("loading model")
	m, err := l.open(modelPath, lo)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", modelPath, err)
	}
	return m, nil
}

package llamacpp

import (
	"context"

	"lxllama/internal/native"
	"lxllama/internal/provider"
)

// Registration of this provider in provider.Default.
const (
	ModelIDPattern = `^hf`
	Priority       = 10
)

func init() {
	provider.MustRegister(ModelIDPattern, Priority, newFromRegistry)
}

func newFromRegistry(modelID string, cfg provider.Config) (provider.LanguageModel, error) {
	m, err := New(context.Background(), modelID, cfg, native.NewLoader(zlog))
	if err != nil {
		return nil, err
	}
	return m, nil
}

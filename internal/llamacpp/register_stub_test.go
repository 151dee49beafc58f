//go:build !llama

package llamacpp

import (
	"testing"

	"lxllama/internal/native"
	"lxllama/internal/provider"
)

func TestCreateViaRegistry_WithoutRuntime(t *testing.T) {
	m, err := provider.Create("hf:org/repo:model.gguf", provider.Config{MaxWorkers: 2})
	if err == nil || !native.IsDependencyUnavailable(err) {
		t.Fatalf("expected dependency unavailable, got %v", err)
	}
	if m != nil {
		t.Fatalf("expected nil model on error, got %T", m)
	}
}

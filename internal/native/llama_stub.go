//go:build !llama

package native

// No-CGO stub compiled when the 'llama' build tag is NOT set, keeping default
// builds and CI CGO-free. The real runtime lives in llama.go.

const llamaBuilt = false

func openLlama(modelPath string, lo LoadOptions) (ChatModel, error) {
	return nil, ErrDependencyUnavailable("llama support not built (missing 'llama' build tag)")
}

// SilenceLogs is a no-op without the llama runtime.
func SilenceLogs() {}

package provider

import "errors"

// InferenceRuntimeError is the one failure kind surfaced by LanguageModel.Infer.
// Original keeps the backend error for diagnostics.
type InferenceRuntimeError struct {
	Msg      string
	Original error
}

func (e *InferenceRuntimeError) Error() string { return e.Msg }

func (e *InferenceRuntimeError) Unwrap() error { return e.Original }

// NewInferenceRuntimeError wraps original under msg.
func NewInferenceRuntimeError(msg string, original error) error {
	return &InferenceRuntimeError{Msg: msg, Original: original}
}

// IsInferenceRuntimeError reports whether err is or wraps an InferenceRuntimeError.
func IsInferenceRuntimeError(err error) bool {
	var ire *InferenceRuntimeError
	return errors.As(err, &ire)
}

// noProviderError is returned when no registered pattern matches a model id.
type noProviderError struct{ id string }

func (e noProviderError) Error() string { return "no provider registered for model id: " + e.id }

// IsNoProvider reports whether err indicates an unmatched model id.
func IsNoProvider(err error) bool {
	var np noProviderError
	return errors.As(err, &np)
}

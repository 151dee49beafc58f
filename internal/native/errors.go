package native

import "errors"

// dependencyUnavailableError signals a missing external dependency (e.g., llama.cpp)
// so callers can report "unavailable" instead of a generic failure.
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string { return e.msg }

// ErrDependencyUnavailable constructs a dependencyUnavailableError.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err indicates a missing/failed runtime dependency.
func IsDependencyUnavailable(err error) bool {
	var d dependencyUnavailableError
	return errors.As(err, &d)
}

// fileMatchError reports that a filename glob did not select exactly one file.
type fileMatchError struct {
	repo    string
	pattern string
	matches []string
}

func (e fileMatchError) Error() string {
	if len(e.matches) == 0 {
		return "no file in " + e.repo + " matches " + e.pattern
	}
	msg := "multiple files in " + e.repo + " match " + e.pattern + ":"
	for _, m := range e.matches {
		msg += " " + m
	}
	return msg
}

// IsFileMatch reports whether err is a filename resolution failure.
func IsFileMatch(err error) bool {
	var f fileMatchError
	return errors.As(err, &f)
}

// ErrStreamUnsupported is returned when a request asks for streaming.
var ErrStreamUnsupported = errors.New("streaming chat completions are not supported")

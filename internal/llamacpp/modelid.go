package llamacpp

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidModelID is returned for identifiers without a repository segment.
var ErrInvalidModelID = errors.New("invalid model id")

// ModelRef is a parsed model identifier.
type ModelRef struct {
	RepoID string
	// Filename is a file name or glob inside the repository; empty when unset.
	Filename string
}

// ParseModelID splits an identifier of the form hf:<repo_id>[:<filename>].
// Segments after the filename are ignored.
func ParseModelID(id string) (ModelRef, error) {
	parts := strings.Split(id, ":")
	if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
		return ModelRef{}, fmt.Errorf("%w %q: expected hf:<repo_id>[:<filename>]", ErrInvalidModelID, id)
	}
	ref := ModelRef{RepoID: strings.TrimSpace(parts[1])}
	if len(parts) > 2 {
		ref.Filename = strings.TrimSpace(parts[2])
	}
	return ref, nil
}

func (r ModelRef) String() string {
	if r.Filename == "" {
		return "hf:" + r.RepoID
	}
	return "hf:" + r.RepoID + ":" + r.Filename
}

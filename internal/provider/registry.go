package provider

import (
	"fmt"
	"regexp"
	"sync"
)

// Entry is one registered provider.
type Entry struct {
	Pattern  *regexp.Regexp
	Priority int
	Factory  Factory
	seq      int
}

// Registry maps model-id patterns to provider factories.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
	nextSeq int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a provider. pattern is a regular expression matched against
// model ids. Among matching entries the highest priority wins; ties go to the
// entry registered last.
func (r *Registry) Register(pattern string, priority int, f Factory) error {
	if f == nil {
		return fmt.Errorf("register %q: nil factory", pattern)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("register %q: %w", pattern, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Pattern: re, Priority: priority, Factory: f, seq: r.nextSeq})
	r.nextSeq++
	return nil
}

// Resolve returns the winning entry for modelID.
func (r *Registry) Resolve(modelID string) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var (
		best  Entry
		found bool
	)
	for _, e := range r.entries {
		if !e.Pattern.MatchString(modelID) {
			continue
		}
		if !found || e.Priority > best.Priority || (e.Priority == best.Priority && e.seq > best.seq) {
			best = e
			found = true
		}
	}
	if !found {
		return Entry{}, noProviderError{id: modelID}
	}
	return best, nil
}

// Create resolves modelID and builds the provider.
func (r *Registry) Create(modelID string, cfg Config) (LanguageModel, error) {
	e, err := r.Resolve(modelID)
	if err != nil {
		return nil, err
	}
	return e.Factory(modelID, cfg)
}

// Len reports the number of registered entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Default is the process-wide registry providers add themselves to from init().
var Default = NewRegistry()

// Register adds a provider to Default.
func Register(pattern string, priority int, f Factory) error {
	return Default.Register(pattern, priority, f)
}

// MustRegister is Register that panics on error, for use in init().
func MustRegister(pattern string, priority int, f Factory) {
	if err := Default.Register(pattern, priority, f); err != nil {
		panic(err)
	}
}

// Create builds a provider for modelID from Default.
func Create(modelID string, cfg Config) (LanguageModel, error) {
	return Default.Create(modelID, cfg)
}

package native

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"lxllama/internal/common/fsutil"
)

// LoadOptions are the loader keyword options this binding understands.
type LoadOptions struct {
	ContextSize int
	GPULayers   int
	Batch       int
	Threads     int
	MMap        bool
	F16Memory   bool
	ChatFormat  string
	CacheDir    string
	Token       string
	Revision    string
	// Ignored lists option keys that were present but not understood.
	Ignored []string
}

// Defaults applied when the corresponding option is absent.
const (
	defaultContextSize = 2048
	defaultChatFormat  = "chatml"
)

// ParseLoadOptions decodes loader keyword options. Unknown keys are collected
// in Ignored rather than rejected so callers can pass options meant for other
// runtimes.
func ParseLoadOptions(opts map[string]any) (LoadOptions, error) {
	lo := LoadOptions{
		ContextSize: defaultContextSize,
		MMap:        true,
		ChatFormat:  defaultChatFormat,
		CacheDir:    fsutil.HubCacheDir(),
		Token:       os.Getenv("HF_TOKEN"),
	}
	var err error
	for _, k := range sortedKeys(opts) {
		v := opts[k]
		switch k {
		case "n_ctx":
			lo.ContextSize, err = asInt(k, v)
		case "n_gpu_layers":
			lo.GPULayers, err = asInt(k, v)
		case "n_batch":
			lo.Batch, err = asInt(k, v)
		case "n_threads":
			lo.Threads, err = asInt(k, v)
		case "use_mmap":
			lo.MMap, err = asBool(k, v)
		case "f16_kv":
			lo.F16Memory, err = asBool(k, v)
		case "chat_format":
			lo.ChatFormat, err = asString(k, v)
		case "cache_dir":
			lo.CacheDir, err = asString(k, v)
		case "hf_token":
			lo.Token, err = asString(k, v)
		case "revision":
			lo.Revision, err = asString(k, v)
		default:
			lo.Ignored = append(lo.Ignored, k)
		}
		if err != nil {
			return LoadOptions{}, err
		}
	}
	if _, err := LookupTemplate(lo.ChatFormat); err != nil {
		return LoadOptions{}, err
	}
	return lo, nil
}

// CompletionOptions are the per-call sampling options this binding understands.
// Sampling fields are nil when the key was absent so the runtime default
// applies; an explicit zero (e.g. temperature 0 for greedy decoding) is kept.
type CompletionOptions struct {
	// MaxTokens is nil when unset. Zero or negative means "until the context is full".
	MaxTokens     *int
	Temperature   *float32
	TopP          *float32
	TopK          *int
	RepeatPenalty *float32
	Seed          *int
	Stop          []string
	Ignored       []string
}

// Default generation budget when max_tokens is unset.
const defaultMaxTokens = 512

// ParseCompletionOptions decodes per-call completion options.
func ParseCompletionOptions(opts map[string]any) (CompletionOptions, error) {
	var co CompletionOptions
	for _, k := range sortedKeys(opts) {
		v := opts[k]
		var err error
		switch k {
		case "max_tokens":
			co.MaxTokens, err = intPtr(k, v)
		case "temperature":
			co.Temperature, err = float32Ptr(k, v)
		case "top_p":
			co.TopP, err = float32Ptr(k, v)
		case "top_k":
			co.TopK, err = intPtr(k, v)
		case "repeat_penalty":
			co.RepeatPenalty, err = float32Ptr(k, v)
		case "seed":
			co.Seed, err = intPtr(k, v)
		case "stop":
			co.Stop, err = asStrings(k, v)
		default:
			co.Ignored = append(co.Ignored, k)
		}
		if err != nil {
			return CompletionOptions{}, err
		}
	}
	return co, nil
}

func intPtr(key string, v any) (*int, error) {
	n, err := asInt(key, v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func float32Ptr(key string, v any) (*float32, error) {
	f, err := asFloat(key, v)
	if err != nil {
		return nil, err
	}
	f32 := float32(f)
	return &f32, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func asInt(key string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float32:
		return asInt(key, float64(n))
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("option %s: %v is not an integer", key, n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("option %s: expected integer, got %T", key, v)
	}
}

func asFloat(key string, v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("option %s: expected number, got %T", key, v)
	}
}

func asBool(key string, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("option %s: expected bool, got %T", key, v)
	}
	return b, nil
}

func asString(key string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("option %s: expected string, got %T", key, v)
	}
	return strings.TrimSpace(s), nil
}

func asStrings(key string, v any) ([]string, error) {
	switch s := v.(type) {
	case string:
		return []string{s}, nil
	case []string:
		return append([]string(nil), s...), nil
	case []any:
		out := make([]string, 0, len(s))
		for _, e := range s {
			str, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("option %s: expected string list, got element %T", key, e)
			}
			out = append(out, str)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("option %s: expected string or list, got %T", key, v)
	}
}

package llamacpp

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"lxllama/internal/native"
	"lxllama/internal/provider"
)

// fakeLoader records the load params and hands out a prepared model.
type fakeLoader struct {
	model   native.ChatModel
	err     error
	params  native.LoadParams
	loadCnt int
}

func (l *fakeLoader) FromPretrained(ctx context.Context, p native.LoadParams) (native.ChatModel, error) {
	l.loadCnt++
	l.params = p
	if l.err != nil {
		return nil, l.err
	}
	return l.model, nil
}

// echoModel answers "answer:<prompt>" and records every request.
type echoModel struct {
	mu       sync.Mutex
	requests []native.ChatCompletionRequest
	// failOn makes the named prompt fail.
	failOn string
	// empty returns a response without choices.
	empty  bool
	closed bool
	// before, if set, runs before answering (used to shape completion order).
	before func(prompt string)
}

var (
	errNative = errors.New("llama_decode failed")
	// errFreed mimics the binding rejecting calls after Close.
	errFreed = errors.New("llama model not initialized")
)

func (e *echoModel) CreateChatCompletion(ctx context.Context, req native.ChatCompletionRequest) (native.ChatCompletionResponse, error) {
	e.mu.Lock()
	e.requests = append(e.requests, req)
	e.mu.Unlock()
	prompt := req.Messages[0].Content
	if e.before != nil {
		e.before(prompt)
	}
	if e.isClosed() {
		return native.ChatCompletionResponse{}, errFreed
	}
	if e.failOn != "" && prompt == e.failOn {
		return native.ChatCompletionResponse{}, errNative
	}
	if e.empty {
		return native.ChatCompletionResponse{}, nil
	}
	return native.ChatCompletionResponse{
		Choices: []native.Choice{
			{Index: 0, Message: native.ChatMessage{Role: native.RoleAssistant, Content: "answer:" + prompt}, FinishReason: "stop"},
			{Index: 1, Message: native.ChatMessage{Role: native.RoleAssistant, Content: "ignored"}},
		},
	}, nil
}

func (e *echoModel) Close() error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	return nil
}

func (e *echoModel) isClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

func (e *echoModel) snapshot() []native.ChatCompletionRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]native.ChatCompletionRequest(nil), e.requests...)
}

func newTestModel(t *testing.T, cm native.ChatModel, cfg provider.Config) *LanguageModel {
	t.Helper()
	m, err := New(context.Background(), "hf:org/repo:model.Q4_K_M.gguf", cfg, &fakeLoader{model: cm})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func prompts(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "prompt-" + strings.Repeat("x", i)
	}
	return out
}

//go:build llama

package native

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"

	llama "github.com/go-skynet/go-llama.cpp"
	"github.com/google/uuid"
)

// llamaBuilt indicates this binary was compiled with real llama support.
const llamaBuilt = true

// llamaModel owns the loaded model. go-llama.cpp keeps per-model decoding
// state, so predictions are serialised on mu.
type llamaModel struct {
	mu      sync.Mutex
	model   *llama.LLama
	name    string
	threads int
	nctx    int
	tmpl    ChatTemplate
}

func openLlama(modelPath string, lo LoadOptions) (ChatModel, error) {
	if strings.TrimSpace(modelPath) == "" {
		return nil, errors.New("model path is empty")
	}
	tmpl, err := LookupTemplate(lo.ChatFormat)
	if err != nil {
		return nil, err
	}
	mo := []llama.ModelOption{
		llama.SetContext(lo.ContextSize),
		llama.SetMMap(lo.MMap),
	}
	if lo.GPULayers != 0 {
		mo = append(mo, llama.SetGPULayers(lo.GPULayers))
	}
	if lo.Batch > 0 {
		mo = append(mo, llama.SetNBatch(lo.Batch))
	}
	if lo.F16Memory {
		mo = append(mo, llama.EnableF16Memory)
	}
	m, err := llama.New(modelPath, mo...)
	if err != nil {
		return nil, err
	}
	return &llamaModel{model: m, name: filepath.Base(modelPath), threads: lo.Threads, nctx: lo.ContextSize, tmpl: tmpl}, nil
}

func (s *llamaModel) CreateChatCompletion(ctx context.Context, req ChatCompletionRequest) (ChatCompletionResponse, error) {
	if req.Stream {
		return ChatCompletionResponse{}, ErrStreamUnsupported
	}
	co, err := ParseCompletionOptions(req.Options)
	if err != nil {
		return ChatCompletionResponse{}, err
	}
	prompt := s.tmpl.Render(req.Messages)
	plan := planPrediction(co, s.tmpl.Stop, s.threads, s.nctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.model == nil {
		return ChatCompletionResponse{}, errors.New("llama model not initialized")
	}
	// Stop generation once the caller gives up.
	s.model.SetTokenCallback(continueWhile(ctx))
	defer s.model.SetTokenCallback(nil)

	text, err := s.model.Predict(prompt, predictOptions(plan)...)
	if err != nil {
		if ctx.Err() != nil {
			return ChatCompletionResponse{}, ctx.Err()
		}
		return ChatCompletionResponse{}, err
	}
	if ctx.Err() != nil {
		return ChatCompletionResponse{}, ctx.Err()
	}
	return ChatCompletionResponse{
		ID:    "chatcmpl-" + uuid.NewString(),
		Model: s.name,
		Choices: []Choice{{
			Index:        0,
			Message:      ChatMessage{Role: RoleAssistant, Content: trimStop(text, plan.Stop)},
			FinishReason: "stop",
		}},
	}, nil
}

func (s *llamaModel) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.model != nil {
		s.model.Free()
		s.model = nil
	}
	return nil
}

// predictOptions converts a plan into go-llama.cpp predict options. Fields
// left nil keep llama.DefaultOptions.
func predictOptions(p predictPlan) []llama.PredictOption {
	po := []llama.PredictOption{llama.SetTokens(p.Tokens)}
	if p.Threads > 0 {
		po = append(po, llama.SetThreads(p.Threads))
	}
	if p.Temperature != nil {
		po = append(po, llama.SetTemperature(*p.Temperature))
	}
	if p.TopP != nil {
		po = append(po, llama.SetTopP(*p.TopP))
	}
	if p.TopK != nil {
		po = append(po, llama.SetTopK(*p.TopK))
	}
	if p.RepeatPenalty != nil {
		po = append(po, llama.SetPenalty(*p.RepeatPenalty))
	}
	if p.Seed != nil {
		po = append(po, llama.SetSeed(*p.Seed))
	}
	if len(p.Stop) > 0 {
		po = append(po, llama.SetStopWords(p.Stop...))
	}
	return po
}

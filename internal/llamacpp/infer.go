package llamacpp

import (
	"context"
	"errors"
	"maps"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"lxllama/internal/native"
	"lxllama/internal/provider"
	"lxllama/pkg/types"
)

// Infer runs every prompt and returns one single-element result list per
// prompt, in input order. Batches of more than one prompt run on a pool of
// min(MaxWorkers, len(prompts)) workers when MaxWorkers > 1; otherwise prompts
// run one at a time. The first failure aborts the whole batch with a
// *provider.InferenceRuntimeError.
//
// The native model is called from several goroutines at once without any
// locking here; the binding is responsible for its own safety.
func (m *LanguageModel) Infer(ctx context.Context, prompts []string, opts map[string]any) ([][]types.ScoredOutput, error) {
	client, err := m.chatModel()
	if err != nil {
		return nil, provider.NewInferenceRuntimeError("llama-cpp error: "+err.Error(), err)
	}
	mode := "sequential"
	if len(prompts) > 1 && m.maxWorkers > 1 {
		mode = "parallel"
	}
	batchID := uuid.NewString()
	log := m.log.With().Str("batch_id", batchID).Str("mode", mode).Int("prompts", len(prompts)).Logger()
	batchesTotal.WithLabelValues(mode).Inc()
	batchSize.Observe(float64(len(prompts)))

	start := time.Now()
	log.Debug().Msg("infer start")
	var out [][]types.ScoredOutput
	if mode == "parallel" {
		out, err = m.inferParallel(ctx, client, prompts, opts)
	} else {
		out, err = m.inferSequential(ctx, client, prompts, opts)
	}
	if err != nil {
		log.Error().Err(err).Dur("dur", time.Since(start)).Msg("infer failed")
		return nil, err
	}
	log.Debug().Dur("dur", time.Since(start)).Msg("infer end")
	return out, nil
}

func (m *LanguageModel) inferSequential(ctx context.Context, client native.ChatModel, prompts []string, opts map[string]any) ([][]types.ScoredOutput, error) {
	out := make([][]types.ScoredOutput, 0, len(prompts))
	for _, p := range prompts {
		if err := ctx.Err(); err != nil {
			return nil, provider.NewInferenceRuntimeError("llama-cpp error: "+err.Error(), err)
		}
		res, err := m.processSinglePrompt(ctx, client, p, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, []types.ScoredOutput{res})
	}
	return out, nil
}

func (m *LanguageModel) inferParallel(ctx context.Context, client native.ChatModel, prompts []string, opts map[string]any) ([][]types.ScoredOutput, error) {
	slots := make([]*types.ScoredOutput, len(prompts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(m.maxWorkers, len(prompts)))
	for i, p := range prompts {
		g.Go(func() error {
			// Skip work once another prompt has failed.
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := m.processSinglePrompt(gctx, client, p, opts)
			if err != nil {
				return err
			}
			slots[i] = &res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, provider.NewInferenceRuntimeError("parallel inference error: "+err.Error(), err)
	}
	return collectSlots(slots)
}

// collectSlots turns per-index results into the batch result, failing the
// batch if any slot was never filled.
func collectSlots(slots []*types.ScoredOutput) ([][]types.ScoredOutput, error) {
	out := make([][]types.ScoredOutput, len(slots))
	for i, s := range slots {
		if s == nil {
			return nil, provider.NewInferenceRuntimeError("failed to process one or more prompts", nil)
		}
		out[i] = []types.ScoredOutput{*s}
	}
	return out, nil
}

// processSinglePrompt sends prompt as a one-turn, non-streaming chat request
// and returns the first choice's content.
func (m *LanguageModel) processSinglePrompt(ctx context.Context, client native.ChatModel, prompt string, opts map[string]any) (types.ScoredOutput, error) {
	start := time.Now()
	resp, err := client.CreateChatCompletion(ctx, native.ChatCompletionRequest{
		Messages: []native.ChatMessage{{Role: native.RoleUser, Content: prompt}},
		Options:  m.callOptions(opts),
		Stream:   false,
	})
	promptDuration.Observe(time.Since(start).Seconds())
	if err == nil && len(resp.Choices) == 0 {
		err = errors.New("response has no choices")
	}
	if err != nil {
		promptsTotal.WithLabelValues("error").Inc()
		return types.ScoredOutput{}, provider.NewInferenceRuntimeError("llama-cpp error: "+err.Error(), err)
	}
	promptsTotal.WithLabelValues("ok").Inc()
	return types.ScoredOutput{Score: 1.0, Output: resp.Choices[0].Message.Content}, nil
}

// callOptions merges per-call options over the configured completion options.
// The stream key is dropped: requests are always non-streaming.
func (m *LanguageModel) callOptions(opts map[string]any) map[string]any {
	merged := make(map[string]any, len(m.completionOptions)+len(opts))
	maps.Copy(merged, m.completionOptions)
	maps.Copy(merged, opts)
	delete(merged, "stream")
	return merged
}

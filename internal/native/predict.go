package native

import (
	"context"
	"strings"
)

// predictPlan is the runtime-independent form of one prediction request.
// Nil sampling fields leave the runtime's own default in place.
type predictPlan struct {
	Tokens        int
	Threads       int // 0 keeps the runtime default
	Temperature   *float32
	TopP          *float32
	TopK          *int
	RepeatPenalty *float32
	Seed          *int
	Stop          []string
}

// planPrediction resolves completion options against the model settings.
// Template stop markers come first, then the caller's.
func planPrediction(co CompletionOptions, tmplStop []string, threads, contextSize int) predictPlan {
	p := predictPlan{
		Tokens:        defaultMaxTokens,
		Temperature:   co.Temperature,
		TopP:          co.TopP,
		TopK:          co.TopK,
		RepeatPenalty: co.RepeatPenalty,
		Seed:          co.Seed,
	}
	if co.MaxTokens != nil {
		p.Tokens = *co.MaxTokens
		if p.Tokens <= 0 {
			p.Tokens = contextSize
		}
	}
	if threads > 0 {
		p.Threads = threads
	}
	for _, s := range append(append([]string(nil), tmplStop...), co.Stop...) {
		if s != "" {
			p.Stop = append(p.Stop, s)
		}
	}
	return p
}

// continueWhile returns a token callback that keeps generating until ctx is done.
func continueWhile(ctx context.Context) func(string) bool {
	return func(string) bool { return ctx.Err() == nil }
}

// trimStop removes a trailing stop marker the runtime echoed back.
func trimStop(text string, stop []string) string {
	for _, w := range stop {
		if w != "" {
			text = strings.TrimSuffix(text, w)
		}
	}
	return strings.TrimSpace(text)
}

package native

import "context"

// Loader instantiates a model from a hosted repository.
type Loader interface {
	// FromPretrained resolves params to a local model file, downloading it if
	// needed, and loads it.
	FromPretrained(ctx context.Context, params LoadParams) (ChatModel, error)
}

// ChatModel is a loaded model that answers chat-completion requests.
// Implementations must tolerate concurrent CreateChatCompletion calls.
type ChatModel interface {
	CreateChatCompletion(ctx context.Context, req ChatCompletionRequest) (ChatCompletionResponse, error)
	// Close releases the native model.
	Close() error
}

// LoadParams selects and configures the model to load.
type LoadParams struct {
	RepoID string
	// Filename is a file name or glob within the repository. Empty selects the
	// repository's only GGUF file.
	Filename string
	// Verbose keeps llama.cpp's own logging. When false the loader installs
	// the no-op log callback before loading; it has no other effect.
	Verbose bool
	// Options are loader keyword options (n_ctx, n_gpu_layers, cache_dir, ...).
	Options map[string]any
}

// Roles understood by the chat templates.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one role/content pair.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest is a non-streaming completion over Messages.
type ChatCompletionRequest struct {
	Messages []ChatMessage
	// Stream is accepted for shape compatibility; streaming is not supported
	// and a true value is rejected.
	Stream  bool
	Options map[string]any
}

// Choice is one candidate answer.
type Choice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// ChatCompletionResponse mirrors the OpenAI-style completion object.
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
}

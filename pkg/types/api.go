package types

// InferRequest represents a batch inference request payload.
type InferRequest struct {
	// Prompts to run, in order. Results are returned in the same order.
	// example: ["Extract the people mentioned: Alice met Bob."]
	Prompts []string `json:"prompts" example:"Extract the people mentioned: Alice met Bob."`
	// Optional per-call completion options (max_tokens, temperature, top_p, top_k, stop, seed, repeat_penalty).
	// They are merged over the server's configured completion options. Streaming is never honoured.
	Options map[string]any `json:"options,omitempty"`
}

// InferResponse carries one single-element list of scored outputs per prompt.
type InferResponse struct {
	// Model id serving this request.
	// example: hf:TheBloke/TinyLlama-1.1B-Chat-v1.0-GGUF:*Q4_K_M.gguf
	Model string `json:"model" example:"hf:TheBloke/TinyLlama-1.1B-Chat-v1.0-GGUF:*Q4_K_M.gguf"`
	// Results indexed like the request prompts.
	Results [][]ScoredOutput `json:"results"`
}

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	// Cached GGUF files.
	Models []Model `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

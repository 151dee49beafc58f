package types

// ScoredOutput is one model response to one prompt.
type ScoredOutput struct {
	// Confidence score. The llama.cpp provider does not score outputs and always reports 1.0.
	// example: 1
	Score float64 `json:"score" example:"1"`
	// Generated text.
	// example: {"extractions": []}
	Output string `json:"output" example:"{\"extractions\": []}"`
}

// Model represents a GGUF file already present in the local download cache.
type Model struct {
	// Identifier usable as a model id, e.g. hf:<repo>:<file>.
	// example: hf:TheBloke/TinyLlama-1.1B-Chat-v1.0-GGUF:tinyllama-1.1b-chat-v1.0.Q4_K_M.gguf
	ID string `json:"id" example:"hf:TheBloke/TinyLlama-1.1B-Chat-v1.0-GGUF:tinyllama-1.1b-chat-v1.0.Q4_K_M.gguf"`
	// Repository the file was downloaded from.
	// example: TheBloke/TinyLlama-1.1B-Chat-v1.0-GGUF
	Repo string `json:"repo" example:"TheBloke/TinyLlama-1.1B-Chat-v1.0-GGUF"`
	// File name within the repository.
	// example: tinyllama-1.1b-chat-v1.0.Q4_K_M.gguf
	File string `json:"file" example:"tinyllama-1.1b-chat-v1.0.Q4_K_M.gguf"`
	// Absolute path to the model file on disk.
	Path string `json:"path"`
	// Size of the file in bytes.
	SizeBytes int64 `json:"size_bytes"`
}

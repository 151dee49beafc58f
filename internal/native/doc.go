// Package native wraps the llama.cpp runtime behind a small chat-completion
// interface. It is structured into small files by concern:
//
//   - iface.go: Loader, ChatModel and the request/response types.
//   - options.go: decoding of free-form load and completion options.
//   - template.go: chat templates that turn messages into a raw prompt.
//   - hub.go: resolving hf repositories and file globs to local GGUF files.
//   - loader.go: HubLoader, the FromPretrained entry point.
//   - errors.go: error types and helpers.
//
// Build tags and runtimes:
//
//   - In-process llama: go-llama.cpp, enabled with `-tags=llama`.
//     Files: llama.go, llama_cgo.go (link flags, log silencing).
//   - Without the tag, llama_stub.go fails fast with a dependency-unavailable
//     error so default builds stay CGO-free.
package native

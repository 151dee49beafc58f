package main

// General API documentation for swaggo. The served document is internal/httpapi/swagger.go;
// regenerate its paths with `swag init -g cmd/lxllama/docs.go -d .,./internal/httpapi,./pkg/types`.
//
// @title           lxllama API
// @version         1.0
// @description     Batch inference over local GGUF models through llama.cpp.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http

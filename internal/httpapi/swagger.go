//go:build swagger

package httpapi

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"
)

const swaggerTemplate = `{
  "swagger": "2.0",
  "info": {
    "title": "{{.Title}}",
    "description": "{{escape .Description}}",
    "version": "{{.Version}}"
  },
  "basePath": "{{.BasePath}}",
  "schemes": {{ marshal .Schemes }},
  "paths": {
    "/infer": {
      "post": {
        "tags": ["inference"],
        "summary": "Run a batch of prompts",
        "consumes": ["application/json"],
        "produces": ["application/json"],
        "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/types.InferRequest"}}],
        "responses": {
          "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.InferResponse"}},
          "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
          "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
          "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
          "504": {"description": "Gateway Timeout", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
        }
      }
    },
    "/models": {
      "get": {
        "tags": ["models"],
        "summary": "List cached models",
        "produces": ["application/json"],
        "responses": {
          "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ModelsResponse"}}
        }
      }
    }
  },
  "definitions": {
    "types.ScoredOutput": {"type": "object", "properties": {"score": {"type": "number"}, "output": {"type": "string"}}},
    "types.Model": {"type": "object", "properties": {"id": {"type": "string"}, "repo": {"type": "string"}, "file": {"type": "string"}, "path": {"type": "string"}, "size_bytes": {"type": "integer"}}},
    "types.InferRequest": {"type": "object", "properties": {"prompts": {"type": "array", "items": {"type": "string"}}, "options": {"type": "object"}}},
    "types.InferResponse": {"type": "object", "properties": {"model": {"type": "string"}, "results": {"type": "array", "items": {"type": "array", "items": {"$ref": "#/definitions/types.ScoredOutput"}}}}},
    "types.ModelsResponse": {"type": "object", "properties": {"models": {"type": "array", "items": {"$ref": "#/definitions/types.Model"}}}},
    "types.ErrorResponse": {"type": "object", "properties": {"error": {"type": "string"}, "code": {"type": "integer"}}}
  }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "lxllama API",
	Description:      "Batch inference over local GGUF models.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  swaggerTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// MountSwagger serves the UI under /swagger/ and the document at /swagger/doc.json.
func MountSwagger(r chi.Router) {
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

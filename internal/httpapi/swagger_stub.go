//go:build !swagger

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountSwagger answers /swagger/ with a hint: the UI and document are only
// compiled in with -tags=swagger.
func MountSwagger(r chi.Router) {
	r.Get("/swagger/*", func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, "swagger UI not built; rebuild with -tags swagger")
	})
}

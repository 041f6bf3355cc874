package v1

import (
	"github.com/evyataryagoni/ipinfo/internal/handler"
	"github.com/go-chi/chi/v5"
)

// SetupRoutes configures all v1 API routes.
// Called by the main router to mount /v1/* endpoints.
func SetupRoutes(ipHandler *handler.IPHandler) chi.Router {
	r := chi.NewRouter()

	// IP lookup endpoint
	// GET /v1/lookup?ip=<ipv4>
	r.Get("/lookup", ipHandler.Lookup)

	return r
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/evyataryagoni/ipinfo/internal/ipinfo"
	"github.com/evyataryagoni/ipinfo/internal/models"
	"github.com/evyataryagoni/ipinfo/internal/service"
)

// IPHandler handles HTTP requests for IP lookups.
// This is the handler layer - it deals with HTTP concerns only:
// parsing requests, mapping errors to status codes, and writing JSON.
// Business logic lives in the service layer.
type IPHandler struct {
	service *service.LookupService
}

// NewIPHandler creates a new IP handler with the given service
func NewIPHandler(service *service.LookupService) *IPHandler {
	return &IPHandler{
		service: service,
	}
}

// Lookup handles GET /v1/lookup?ip=<ipv4>
//
// Status codes:
//   - 200: result found (a bogon classification is still a 200)
//   - 400: missing parameter or invalid IPv4 address
//   - 502: the provider failed or returned garbage
//   - 504: the provider timed out
//   - 500: anything else
func (h *IPHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	ip := r.URL.Query().Get("ip")

	if ip == "" {
		h.respondError(w, http.StatusBadRequest, "Missing 'ip' query parameter")
		return
	}

	info, err := h.service.Lookup(r.Context(), ip)
	if err != nil {
		h.respondLookupError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, info)
}

// respondLookupError maps service errors to HTTP status codes
func (h *IPHandler) respondLookupError(w http.ResponseWriter, err error) {
	var invalidErr *ipinfo.InvalidAddressError
	var requestErr *ipinfo.RequestError
	var parseErr *ipinfo.ParseError

	switch {
	case errors.As(err, &invalidErr):
		h.respondError(w, http.StatusBadRequest, invalidErr.Error())

	case errors.As(err, &requestErr):
		if requestErr.Timeout() {
			h.respondError(w, http.StatusGatewayTimeout, "Geolocation provider timed out")
			return
		}
		h.respondError(w, http.StatusBadGateway, "Geolocation provider request failed")

	case errors.As(err, &parseErr):
		h.respondError(w, http.StatusBadGateway, "Geolocation provider returned an unusable response")

	default:
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// respondJSON writes a JSON response with the given status code
func (h *IPHandler) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent, nothing left to do but report it
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondError writes an error response with consistent formatting
func (h *IPHandler) respondError(w http.ResponseWriter, statusCode int, message string) {
	h.respondJSON(w, statusCode, models.ErrorResponse{Error: message})
}

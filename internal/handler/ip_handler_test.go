package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/evyataryagoni/ipinfo/internal/ipinfo"
	"github.com/evyataryagoni/ipinfo/internal/models"
	"github.com/evyataryagoni/ipinfo/internal/service"
	"github.com/evyataryagoni/ipinfo/internal/store"
)

// fakeFetcher stands in for the provider client
type fakeFetcher struct {
	result *models.IPInfo
	err    error
}

func (f *fakeFetcher) Fetch(ctx context.Context, ip string) (*models.IPInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newTestHandler(f *fakeFetcher) *IPHandler {
	svc := service.NewLookupService(f, store.NewMockStore(), nil, nil)
	return NewIPHandler(svc)
}

// TestIPHandler_Lookup_Success tests a successful response
func TestIPHandler_Lookup_Success(t *testing.T) {
	city := "Mountain View"
	country := "US"
	handler := newTestHandler(&fakeFetcher{result: &models.IPInfo{
		IP:       "8.8.8.8",
		City:     &city,
		Country:  &country,
		Location: &models.Location{Latitude: 37.4056, Longitude: -122.0775},
	}})

	req := httptest.NewRequest(http.MethodGet, "/v1/lookup?ip=8.8.8.8", nil)
	rec := httptest.NewRecorder()

	handler.Lookup(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	contentType := rec.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", contentType)
	}

	var info models.IPInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if info.IP != "8.8.8.8" {
		t.Errorf("expected IP '8.8.8.8', got '%s'", info.IP)
	}
	if info.City == nil || *info.City != "Mountain View" {
		t.Errorf("expected city 'Mountain View', got %v", info.City)
	}
	if info.Location == nil || info.Location.Latitude != 37.4056 {
		t.Errorf("expected location in response, got %+v", info.Location)
	}
	// Unset optionals are omitted from the JSON entirely
	if info.Hostname != nil {
		t.Error("expected hostname absent from response")
	}
}

// TestIPHandler_Lookup_Bogon tests that a bogon result is a 200
func TestIPHandler_Lookup_Bogon(t *testing.T) {
	handler := newTestHandler(&fakeFetcher{result: &models.IPInfo{
		IP:    "10.0.0.1",
		Bogon: true,
	}})

	req := httptest.NewRequest(http.MethodGet, "/v1/lookup?ip=10.0.0.1", nil)
	rec := httptest.NewRecorder()

	handler.Lookup(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	var info models.IPInfo
	json.NewDecoder(rec.Body).Decode(&info)

	if !info.Bogon {
		t.Error("expected bogon true")
	}
}

// TestIPHandler_Lookup_MissingParameter tests a missing ip parameter
func TestIPHandler_Lookup_MissingParameter(t *testing.T) {
	handler := newTestHandler(&fakeFetcher{})

	req := httptest.NewRequest(http.MethodGet, "/v1/lookup", nil)
	rec := httptest.NewRecorder()

	handler.Lookup(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}

	var errResp models.ErrorResponse
	json.NewDecoder(rec.Body).Decode(&errResp)

	if errResp.Error != "Missing 'ip' query parameter" {
		t.Errorf("unexpected error message: %s", errResp.Error)
	}
}

// TestIPHandler_Lookup_ErrorMapping tests error-to-status mapping
func TestIPHandler_Lookup_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "invalid address",
			err:        &ipinfo.InvalidAddressError{Address: "999.1.1.1"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "provider rate limit",
			err:        &ipinfo.RequestError{StatusCode: http.StatusTooManyRequests, Body: "{}"},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "provider timeout",
			err:        &ipinfo.RequestError{Err: os.ErrDeadlineExceeded},
			wantStatus: http.StatusGatewayTimeout,
		},
		{
			name:       "unparseable response",
			err:        &ipinfo.ParseError{Err: errors.New("bad body")},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestHandler(&fakeFetcher{err: tt.err})

			req := httptest.NewRequest(http.MethodGet, "/v1/lookup?ip=8.8.8.8", nil)
			rec := httptest.NewRecorder()

			handler.Lookup(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}

			var errResp models.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&errResp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if errResp.Error == "" {
				t.Error("expected an error message in the response")
			}
		})
	}
}

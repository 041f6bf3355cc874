package models

import (
	"strconv"
	"strings"
)

// IPInfo represents the geolocation details for a single IPv4 address.
// Optional fields are pointers so callers can tell "provider did not
// return this field" apart from "provider returned an empty string".
type IPInfo struct {
	IP       string    `json:"ip"`
	Hostname *string   `json:"hostname,omitempty"` // Reverse DNS name
	City     *string   `json:"city,omitempty"`
	Region   *string   `json:"region,omitempty"`
	Country  *string   `json:"country,omitempty"` // ISO 3166-1 alpha-2 code
	Location *Location `json:"location,omitempty"`
	Org      *string   `json:"org,omitempty"` // AS number and organization name
	Postal   *string   `json:"postal,omitempty"`
	Timezone *string   `json:"timezone,omitempty"` // IANA timezone name
	Bogon    bool      `json:"bogon"`              // True for non-routable/reserved ranges
}

// Location holds the coordinates parsed from the provider's combined
// "lat,lon" string.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ParseLocation parses a "lat,lon" pair such as "37.4056,-122.0775".
// Returns nil if the string is empty or malformed: a bad loc field
// should never fail an otherwise good lookup.
func ParseLocation(loc string) *Location {
	parts := strings.Split(loc, ",")
	if len(parts) != 2 {
		return nil
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil
	}

	return &Location{Latitude: lat, Longitude: lon}
}

// ErrorResponse is the standard error response format returned by the
// HTTP API when something goes wrong.
type ErrorResponse struct {
	Error string `json:"error"`
}

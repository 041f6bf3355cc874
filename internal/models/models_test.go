package models

import (
	"testing"
)

// TestParseLocation_Valid tests parsing of well-formed "lat,lon" pairs
func TestParseLocation_Valid(t *testing.T) {
	tests := []struct {
		name    string
		loc     string
		wantLat float64
		wantLon float64
	}{
		{"Mountain View", "37.4056,-122.0775", 37.4056, -122.0775},
		{"negative latitude", "-33.8688,151.2093", -33.8688, 151.2093},
		{"with spaces", " 51.5074 , -0.1278 ", 51.5074, -0.1278},
		{"integers", "0,0", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := ParseLocation(tt.loc)

			if loc == nil {
				t.Fatal("expected location, got nil")
			}
			if loc.Latitude != tt.wantLat {
				t.Errorf("expected latitude %v, got %v", tt.wantLat, loc.Latitude)
			}
			if loc.Longitude != tt.wantLon {
				t.Errorf("expected longitude %v, got %v", tt.wantLon, loc.Longitude)
			}
		})
	}
}

// TestParseLocation_Malformed tests that bad loc strings yield nil
// instead of an error
func TestParseLocation_Malformed(t *testing.T) {
	tests := []struct {
		name string
		loc  string
	}{
		{"empty string", ""},
		{"single value", "37.4056"},
		{"too many values", "37.4,-122.0,15"},
		{"non-numeric latitude", "abc,-122.0775"},
		{"non-numeric longitude", "37.4056,xyz"},
		{"only comma", ","},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if loc := ParseLocation(tt.loc); loc != nil {
				t.Errorf("expected nil for %q, got %+v", tt.loc, loc)
			}
		})
	}
}

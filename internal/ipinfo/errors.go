package ipinfo

import (
	"errors"
	"fmt"
	"net"
	"os"
)

// InvalidAddressError is returned when the input does not parse as a
// dotted-decimal IPv4 address. No network call is attempted.
type InvalidAddressError struct {
	Address string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid IPv4 address: %q", e.Address)
}

// RequestError is returned when the provider round trip fails: transport
// errors, timeouts, or a non-success HTTP status. StatusCode is zero
// when the request never produced a response.
type RequestError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider request failed: status %d", e.StatusCode)
	}
	return fmt.Sprintf("provider request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the underlying failure was a timeout or a
// cancelled context, letting callers treat it as transient.
func (e *RequestError) Timeout() bool {
	if e.Err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(e.Err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(e.Err, os.ErrDeadlineExceeded)
}

// ParseError is returned when the provider answered with a success
// status but the body is not a usable result: invalid JSON, a missing
// ip field, or the provider's own error document.
type ParseError struct {
	Body string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable provider response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

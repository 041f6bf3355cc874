package ipinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/evyataryagoni/ipinfo/internal/logger"
	"github.com/evyataryagoni/ipinfo/internal/models"
	"github.com/go-playground/validator/v10"
)

const (
	// DefaultBaseURL is the public, unauthenticated provider endpoint.
	DefaultBaseURL = "https://ipinfo.io"

	// DefaultTimeout bounds a single provider round trip.
	DefaultTimeout = 10 * time.Second

	// maxResponseBytes caps how much of a provider response we read.
	// Real responses are a few hundred bytes.
	maxResponseBytes = 1 << 20
)

// Config holds everything needed to construct a Client. All fields are
// optional; zero values fall back to the public endpoint with no token.
// Tests point BaseURL at an httptest server.
type Config struct {
	BaseURL    string        // Provider endpoint, defaults to DefaultBaseURL
	Token      string        // Optional API token, sent as a bearer credential
	Timeout    time.Duration // Round-trip bound, defaults to DefaultTimeout
	HTTPClient *http.Client  // Optional custom transport
	Logger     *logger.Logger
}

// Client queries the geolocation provider for IPv4 metadata.
// It holds no per-call state and is safe for concurrent use.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	validate   *validator.Validate
	logger     *logger.Logger
}

// New creates a provider client from the given configuration.
func New(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	} else if httpClient.Timeout == 0 {
		httpClient.Timeout = timeout
	}

	log := cfg.Logger
	if log == nil {
		log = logger.NewDefault()
	}

	return &Client{
		baseURL:    baseURL,
		token:      cfg.Token,
		httpClient: httpClient,
		validate:   validator.New(),
		logger:     log.WithComponent("ipinfo.Client"),
	}
}

// wireResponse mirrors the provider's JSON document. Optional fields are
// pointers so a key that was never sent stays nil. Status and ErrorInfo
// only appear in the provider's error documents.
type wireResponse struct {
	IP        string          `json:"ip"`
	Hostname  *string         `json:"hostname"`
	City      *string         `json:"city"`
	Region    *string         `json:"region"`
	Country   *string         `json:"country"`
	Loc       *string         `json:"loc"`
	Org       *string         `json:"org"`
	Postal    *string         `json:"postal"`
	Timezone  *string         `json:"timezone"`
	Bogon     bool            `json:"bogon"`
	Status    json.RawMessage `json:"status"`
	ErrorInfo json.RawMessage `json:"error"`
}

// Fetch looks up geolocation details for a single IPv4 address.
//
// The address is validated before any network access: a string that is
// not four dot-separated octets fails with *InvalidAddressError.
// Transport failures and non-2xx statuses fail with *RequestError, and
// a success status with an unusable body fails with *ParseError. A
// bogon classification is a successful result, not an error.
func (c *Client) Fetch(ctx context.Context, ip string) (*models.IPInfo, error) {
	if err := c.validate.Var(ip, "required,ipv4"); err != nil {
		c.logger.Warn().Str("ip", ip).Msg("Rejected invalid IPv4 address")
		return nil, &InvalidAddressError{Address: ip}
	}

	url := c.baseURL + "/" + ip
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug().Str("ip", ip).Str("url", url).Msg("Querying provider")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("ip", ip).Msg("Provider request failed")
		return nil, &RequestError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &RequestError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("ip", ip).
			Msg("Provider returned non-success status")
		return nil, &RequestError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return decodeResponse(ip, body)
}

// decodeResponse turns a 2xx provider body into a result value.
func decodeResponse(ip string, body []byte) (*models.IPInfo, error) {
	var wire wireResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, &ParseError{Body: string(body), Err: err}
	}

	// Some malformed inputs come back as a 200 carrying the provider's
	// error document instead of a result. Never fabricate a result from
	// one of those.
	if len(wire.Status) > 0 || len(wire.ErrorInfo) > 0 {
		return nil, &ParseError{
			Body: string(body),
			Err:  fmt.Errorf("provider returned an error document"),
		}
	}

	if wire.IP == "" {
		return nil, &ParseError{
			Body: string(body),
			Err:  fmt.Errorf("response is missing the ip field"),
		}
	}

	info := &models.IPInfo{
		IP:       wire.IP,
		Hostname: wire.Hostname,
		City:     wire.City,
		Region:   wire.Region,
		Country:  wire.Country,
		Org:      wire.Org,
		Postal:   wire.Postal,
		Timezone: wire.Timezone,
		Bogon:    wire.Bogon,
	}

	// A missing or malformed loc field leaves Location nil rather than
	// failing the whole lookup.
	if wire.Loc != nil {
		info.Location = models.ParseLocation(*wire.Loc)
	}

	return info, nil
}

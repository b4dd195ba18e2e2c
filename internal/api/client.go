package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Backend defines the operations the sync engine needs from the fleet API.
// This interface is implemented by *Client and can be used for testing.
type Backend interface {
	ListDrones(ctx context.Context) ([]Drone, error)
	FetchTelemetry(ctx context.Context, droneID string) (*TelemetryRecord, error)
	ListAlerts(ctx context.Context) ([]Alert, error)
	FetchStats(ctx context.Context) (*Stats, error)
	AcknowledgeAlert(ctx context.Context, alertID string) error
	GenerateMockData(ctx context.Context) error
}

// Ensure Client implements Backend at compile time.
var _ Backend = (*Client)(nil)

// RequestError is the uniform failure returned for any API operation.
// Op names the operation ("list drones", "acknowledge alert", ...) and
// Err is the underlying cause (transport error or non-2xx status).
type RequestError struct {
	Op  string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Client talks to the fleet backend's HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIBind   = "127.0.0.1:8000"
	defaultUserAgent = "skywatch/0.1"
	requestTimeout   = 5 * time.Second
)

// NewClient builds a Client using the provided apiBind host:port value.
func NewClient(apiBind string) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// ListDrones retrieves the current fleet summaries.
func (c *Client) ListDrones(ctx context.Context) ([]Drone, error) {
	var payload []Drone
	if err := c.do(ctx, http.MethodGet, "/api/drones", &payload); err != nil {
		return nil, &RequestError{Op: "list drones", Err: err}
	}
	return payload, nil
}

// FetchTelemetry retrieves the latest telemetry record for one drone.
func (c *Client) FetchTelemetry(ctx context.Context, droneID string) (*TelemetryRecord, error) {
	id := strings.TrimSpace(droneID)
	if id == "" {
		return nil, &RequestError{Op: "fetch telemetry", Err: fmt.Errorf("drone id required")}
	}
	var payload TelemetryRecord
	path := "/api/drones/" + url.PathEscape(id) + "/telemetry"
	if err := c.do(ctx, http.MethodGet, path, &payload); err != nil {
		return nil, &RequestError{Op: "fetch telemetry", Err: err}
	}
	return &payload, nil
}

// ListAlerts retrieves all alerts, acknowledged or not.
func (c *Client) ListAlerts(ctx context.Context) ([]Alert, error) {
	var payload []Alert
	if err := c.do(ctx, http.MethodGet, "/api/alerts", &payload); err != nil {
		return nil, &RequestError{Op: "list alerts", Err: err}
	}
	return payload, nil
}

// FetchStats retrieves the aggregate fleet counters.
func (c *Client) FetchStats(ctx context.Context) (*Stats, error) {
	var payload Stats
	if err := c.do(ctx, http.MethodGet, "/api/stats", &payload); err != nil {
		return nil, &RequestError{Op: "fetch stats", Err: err}
	}
	return &payload, nil
}

// AcknowledgeAlert marks one alert acknowledged on the backend. The
// response body is a bare confirmation and is discarded.
func (c *Client) AcknowledgeAlert(ctx context.Context, alertID string) error {
	id := strings.TrimSpace(alertID)
	if id == "" {
		return &RequestError{Op: "acknowledge alert", Err: fmt.Errorf("alert id required")}
	}
	path := "/api/alerts/" + url.PathEscape(id) + "/acknowledge"
	if err := c.do(ctx, http.MethodPost, path, nil); err != nil {
		return &RequestError{Op: "acknowledge alert", Err: err}
	}
	return nil
}

// GenerateMockData asks the backend to synthesize fresh sample telemetry.
func (c *Client) GenerateMockData(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/mock/generate", nil); err != nil {
		return &RequestError{Op: "generate mock data", Err: err}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, dest any) error {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("api %s returned status %d", path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_bind %q: %w", apiBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

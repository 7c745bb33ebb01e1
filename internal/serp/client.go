package serp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/seopilot/seopilot/internal/errors"
)

const (
	// defaultTimeout bounds a single lookup.
	defaultTimeout = 10 * time.Second

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 1 << 20

	// healthProbeKeyword is the query sent by HealthCheck.
	healthProbeKeyword = "test"
)

// Observer looks up the ranking of a single keyword. Implementations return
// an *errors.ObservationError on failure and never panic.
type Observer interface {
	Observe(ctx context.Context, keyword string) (Observation, error)
}

// Client implements Observer against the ranking oracle's HTTP API.
type Client struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client used for lookups. The client is
// never modified; a nil client selects the default.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-lookup timeout. It applies to a copy of the
// HTTP client regardless of option order.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// NewClient creates a client for the oracle hosted at baseURL, querying the
// ranking endpoint at path.
func NewClient(baseURL, path string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: strings.TrimRight(baseURL, "/") + path,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// rankingResponse is the oracle's JSON response. Positions are decoded as
// numbers so that whole floats such as 4.0 are accepted.
type rankingResponse struct {
	Position            *float64            `json:"position"`
	URL                 *string             `json:"url"`
	CompetitorPositions map[string]*float64 `json:"competitor_positions"`
}

// rank converts a decoded position to a rank. It fails for values that are
// not whole numbers of at least 1.
func rank(v float64) (int, bool) {
	if v < 1 || v != math.Trunc(v) || v > math.MaxInt32 {
		return 0, false
	}
	return int(v), true
}

// Observe looks up the ranking for keyword. Every failure, including an
// empty keyword, is returned as an *errors.ObservationError.
func (c *Client) Observe(ctx context.Context, keyword string) (Observation, error) {
	if strings.TrimSpace(keyword) == "" {
		return Observation{}, errors.NewObservationError(keyword,
			errors.NewValidationError("keyword must not be empty").WithField("keyword"))
	}

	resp, err := c.get(ctx, keyword)
	if err != nil {
		return Observation{}, errors.NewObservationError(keyword, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Observation{}, errors.NewObservationError(keyword, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return Observation{}, errors.NewObservationError(keyword,
			fmt.Errorf("oracle returned %s: %s", resp.Status, strings.TrimSpace(string(body)))).
			WithStatusCode(resp.StatusCode)
	}

	var data rankingResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return Observation{}, errors.NewObservationError(keyword, fmt.Errorf("unmarshal response: %w", err))
	}

	obs := Observation{
		Keyword:     keyword,
		Competitors: make(map[string]*int, len(data.CompetitorPositions)),
	}
	if data.Position != nil {
		pos, ok := rank(*data.Position)
		if !ok {
			return Observation{}, errors.NewObservationError(keyword,
				fmt.Errorf("invalid position %v", *data.Position))
		}
		obs.Position = &pos
	}
	if data.URL != nil && *data.URL != "" {
		obs.URL = data.URL
	}
	for domain, p := range data.CompetitorPositions {
		if p == nil {
			obs.Competitors[domain] = nil
			continue
		}
		if pos, ok := rank(*p); ok {
			obs.Competitors[domain] = &pos
		} else {
			obs.Competitors[domain] = nil
		}
	}
	return obs, nil
}

// HealthCheck probes the oracle once. Any HTTP response counts as reachable;
// only a transport failure within timeout fails the check, with an error
// matching errors.ErrOracleUnreachable.
func (c *Client) HealthCheck(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := c.get(ctx, healthProbeKeyword)
	if err != nil {
		return fmt.Errorf("%w at %s: %v", errors.ErrOracleUnreachable, c.endpoint, err)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
	_ = resp.Body.Close()
	return nil
}

func (c *Client) get(ctx context.Context, keyword string) (*http.Response, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("q", keyword)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	return resp, nil
}

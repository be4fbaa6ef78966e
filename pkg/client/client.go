// Package client provides the CloudHealth request executor: one
// authenticated GET, lenient body decoding, and strict status validation.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Sternrassler/cloudhealth-client/pkg/config"
	"github.com/Sternrassler/cloudhealth-client/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for API requests.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chcli_requests_total",
		Help: "Total CloudHealth API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chcli_request_duration_seconds",
		Help:    "CloudHealth API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"endpoint"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chcli_errors_total",
		Help: "Total CloudHealth API request failures by class",
	}, []string{"class"})
)

// Response is the envelope of one executed request.
type Response struct {
	StatusCode int
	Body       Body
}

// Client executes requests against the configured base URL.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	headers    http.Header
	logger     zerolog.Logger
}

// New creates a client from a validated configuration. The underlying
// http.Client uses transport defaults; no timeout is imposed.
func New(cfg *config.Config) (*Client, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	return &Client{
		httpClient: &http.Client{},
		baseURL:    cfg.BaseURL(),
		headers:    cfg.Headers(),
		logger:     logging.NewLogger("client"),
	}, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// BaseURL returns a copy of the base URL requests are resolved against.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// Get resolves endpoint against the base URL, executes it with the
// configured headers and returns the validated body.
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values) (Body, error) {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}

	resp, err := c.Execute(ctx, c.baseURL.ResolveReference(ref).String(), c.headers, query)
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}

// Execute issues one GET to rawURL with headers and query merged into any
// query already present on the URL (query wins on conflicts).
//
// The body is decoded as JSON, or kept as raw text if that fails. Any status
// outside 200–299 yields *HTTPError carrying the URL, status and body. There
// is no retry.
func (c *Client) Execute(ctx context.Context, rawURL string, headers http.Header, query url.Values) (*Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", rawURL, err)
	}
	if len(query) > 0 {
		q := u.Query()
		for key, values := range query {
			q[key] = append([]string(nil), values...)
		}
		u.RawQuery = q.Encode()
	}

	endpoint := u.Path
	target := u.String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("query", u.RawQuery).
		Msg("Executing request")

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	requestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		requestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
		return nil, &TransportError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		requestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return nil, &TransportError{URL: target, Err: fmt.Errorf("read response body: %w", err)}
	}

	body := DecodeBody(data)
	if _, ok := body.(TextBody); ok {
		c.logger.Debug().
			Str("endpoint", endpoint).
			Int("bytes", len(data)).
			Msg("Response body is not JSON, keeping raw text")
	}

	requestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if !IsSuccess(resp.StatusCode) {
		httpErr := &HTTPError{URL: target, StatusCode: resp.StatusCode, Body: body}
		errorsTotal.WithLabelValues(string(httpErr.Class())).Inc()
		c.logger.Error().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("error_class", string(httpErr.Class())).
			Msg("API request error")
		return nil, httpErr
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

package pagination

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/Sternrassler/cloudhealth-client/pkg/client"
	"github.com/Sternrassler/cloudhealth-client/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Query parameter names used by paginated endpoints.
const (
	ParamPage    = "page"
	ParamPerPage = "per_page"
)

// DefaultPageSize is the per_page value used when Config.PageSize is unset.
const DefaultPageSize = 100

var (
	// ErrUnexpectedShape is returned when a body does not have the structure
	// a listing requires (text instead of JSON, missing field, non-array).
	ErrUnexpectedShape = errors.New("unexpected response shape")

	// ErrInvalidPageSize is returned by NewPaginator for a page size < 1.
	ErrInvalidPageSize = errors.New("page size must be > 0")
)

var (
	pagesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chcli_pages_fetched_total",
		Help: "Total pages fetched by endpoint",
	}, []string{"endpoint"})

	recordsFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chcli_records_fetched_total",
		Help: "Total records aggregated by endpoint",
	}, []string{"endpoint"})
)

// PageFetcher executes one GET relative to the API base URL.
// *client.Client implements it.
type PageFetcher interface {
	Get(ctx context.Context, endpoint string, query url.Values) (client.Body, error)
}

// Config holds paginator configuration.
type Config struct {
	// PageSize is the per_page value sent with every request.
	PageSize int
}

// DefaultConfig returns a configuration requesting 100 records per page.
func DefaultConfig() Config {
	return Config{PageSize: DefaultPageSize}
}

// PageResult is the outcome of one page fetch.
type PageResult struct {
	PageNumber int
	Records    []any
}

// Count returns the number of records on the page.
func (r PageResult) Count() int {
	return len(r.Records)
}

// Paginator aggregates paginated and single-shot listings.
type Paginator struct {
	fetcher PageFetcher
	config  Config
	logger  zerolog.Logger
}

// NewPaginator creates a paginator. A zero PageSize selects DefaultPageSize.
func NewPaginator(fetcher PageFetcher, config Config) (*Paginator, error) {
	if fetcher == nil {
		return nil, errors.New("page fetcher is required")
	}
	if config.PageSize == 0 {
		config.PageSize = DefaultPageSize
	}
	if config.PageSize < 0 {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidPageSize, config.PageSize)
	}

	return &Paginator{
		fetcher: fetcher,
		config:  config,
		logger:  logging.NewLogger("pagination"),
	}, nil
}

// PageSize returns the configured page size.
func (p *Paginator) PageSize() int {
	return p.config.PageSize
}

// FetchAll requests page 1, 2, ... of endpoint, appending the elements of
// the array named field from each page in order. It stops after the first
// page holding fewer than PageSize elements.
//
// baseQuery is copied into every request; page and per_page override any
// values it carries.
func (p *Paginator) FetchAll(ctx context.Context, endpoint string, baseQuery url.Values, field string) ([]any, error) {
	start := time.Now()

	var all []any
	page := 1
	for {
		result, err := p.fetchPage(ctx, endpoint, baseQuery, field, page)
		if err != nil {
			return nil, err
		}

		all = append(all, result.Records...)

		p.logger.Info().
			Str("endpoint", endpoint).
			Int("page", result.PageNumber).
			Int("count", result.Count()).
			Msg("Fetched page")

		if result.Count() != p.config.PageSize {
			break
		}
		page++
	}

	recordsFetched.WithLabelValues(endpoint).Add(float64(len(all)))

	p.logger.Info().
		Str("endpoint", endpoint).
		Int("pages", page).
		Int("total", len(all)).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return all, nil
}

// fetchPage requests a single page and extracts its records.
func (p *Paginator) fetchPage(ctx context.Context, endpoint string, baseQuery url.Values, field string, page int) (PageResult, error) {
	query := make(url.Values, len(baseQuery)+2)
	for key, values := range baseQuery {
		query[key] = append([]string(nil), values...)
	}
	query.Set(ParamPage, strconv.Itoa(page))
	query.Set(ParamPerPage, strconv.Itoa(p.config.PageSize))

	body, err := p.fetcher.Get(ctx, endpoint, query)
	if err != nil {
		return PageResult{}, err
	}
	pagesFetched.WithLabelValues(endpoint).Inc()

	records, err := ExtractField(body, field)
	if err != nil {
		return PageResult{}, fmt.Errorf("page %d of %s: %w", page, endpoint, err)
	}

	return PageResult{PageNumber: page, Records: records}, nil
}

// FetchUnpaged performs the single request of an endpoint that returns its
// whole result set as a top-level JSON array.
func (p *Paginator) FetchUnpaged(ctx context.Context, endpoint string, query url.Values) ([]any, error) {
	body, err := p.fetcher.Get(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}
	pagesFetched.WithLabelValues(endpoint).Inc()

	records, err := AsArray(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}
	recordsFetched.WithLabelValues(endpoint).Add(float64(len(records)))

	p.logger.Info().
		Str("endpoint", endpoint).
		Int("count", len(records)).
		Msg("Fetched listing")

	return records, nil
}

// ExtractField returns the array stored under field in a JSON object body.
func ExtractField(body client.Body, field string) ([]any, error) {
	jb, ok := body.(client.JSONBody)
	if !ok {
		return nil, fmt.Errorf("%w: expected JSON object with field %q, got text %q",
			ErrUnexpectedShape, field, truncate(body.String(), 80))
	}

	obj, ok := jb.Value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected JSON object with field %q, got %T",
			ErrUnexpectedShape, field, jb.Value)
	}

	raw, ok := obj[field]
	if !ok {
		return nil, fmt.Errorf("%w: field %q not present", ErrUnexpectedShape, field)
	}

	records, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: field %q is %T, not an array", ErrUnexpectedShape, field, raw)
	}

	return records, nil
}

// AsArray returns the body as a top-level JSON array.
func AsArray(body client.Body) ([]any, error) {
	jb, ok := body.(client.JSONBody)
	if !ok {
		return nil, fmt.Errorf("%w: expected JSON array, got text %q",
			ErrUnexpectedShape, truncate(body.String(), 80))
	}

	records, ok := jb.Value.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected JSON array, got %T", ErrUnexpectedShape, jb.Value)
	}

	return records, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

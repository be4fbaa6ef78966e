// Package metrics exposes the Prometheus registry the CLI's collectors live in
// and dumps it to a textfile at exit.
//
// Collectors are defined in their respective packages (client, pagination)
// via promauto to keep packages independent.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the registerer all collectors are added to.
var Registry = prometheus.DefaultRegisterer

// Gatherer reads back what Registry holds.
var Gatherer = prometheus.DefaultGatherer

// ErrNoPath is returned when WriteTextfile is called without a destination.
var ErrNoPath = errors.New("metrics file path is empty")

// WriteTextfile writes the gathered metrics in text exposition format, for
// the node_exporter textfile collector. The file is replaced atomically.
func WriteTextfile(path string) error {
	return WriteTextfileFrom(Gatherer, path)
}

// WriteTextfileFrom is WriteTextfile for an explicit gatherer.
func WriteTextfileFrom(g prometheus.Gatherer, path string) error {
	if path == "" {
		return ErrNoPath
	}
	return prometheus.WriteToTextfile(path, g)
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - chcli_requests_total{endpoint, status} (Counter): Requests by endpoint and HTTP status
//   - chcli_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - chcli_errors_total{class} (Counter): Failures by class (client, server, network, ...)
//
// Pagination Metrics (pkg/pagination):
//   - chcli_pages_fetched_total{endpoint} (Counter): Pages requested during aggregation
//   - chcli_records_fetched_total{endpoint} (Counter): Records collected
//
// Example Prometheus Queries:
//
//   # Failed runs by class
//   increase(chcli_errors_total[1d])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(chcli_request_duration_seconds_bucket[5m]))

package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder counts fetched pages and export outcomes in its own Prometheus registry.
type Recorder struct {
	registry         *prometheus.Registry
	pagesFetched     *prometheus.CounterVec
	transfersFetched *prometheus.CounterVec
	exports          *prometheus.CounterVec
	rowsExported     *prometheus.CounterVec
}

// NewRecorder creates a Recorder with all collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		pagesFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tokentx_pages_fetched_total",
			Help: "Pages of token transfers retrieved from the explorer",
		}, []string{"network"}),
		transfersFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tokentx_transfers_fetched_total",
			Help: "Token transfers retrieved from the explorer before filtering",
		}, []string{"network"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tokentx_exports_total",
			Help: "Export attempts by outcome",
		}, []string{"network", "outcome"}),
		rowsExported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tokentx_rows_exported_total",
			Help: "CSV rows written by successful exports",
		}, []string{"network"}),
	}

	r.registry.MustRegister(r.pagesFetched, r.transfersFetched, r.exports, r.rowsExported)

	return r
}

// ObservePage records one retrieved page.
func (r *Recorder) ObservePage(network string, _ int, transfers int) {
	r.pagesFetched.WithLabelValues(network).Inc()
	r.transfersFetched.WithLabelValues(network).Add(float64(transfers))
}

// ObserveExport records the outcome of one export and the number of rows it wrote.
func (r *Recorder) ObserveExport(network string, outcome string, rows int) {
	r.exports.WithLabelValues(network, outcome).Inc()
	if rows > 0 {
		r.rowsExported.WithLabelValues(network).Add(float64(rows))
	}
}

// Registry exposes the underlying registry, e.g. for gathering in tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the current metrics in the text exposition format, for the node exporter's textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to '%s': %w", path, err)
	}

	return nil
}

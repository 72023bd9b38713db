// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// An ingestion run is a batch job with no scrape endpoint, so collected
// values are pushed to a Pushgateway on Flush. The job label is carried by
// the Pushgateway grouping key rather than by each series.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/dylantanyz/zoomcamp2024/internal/metrics"
)

// Config configures the Pushgateway backend.
type Config struct {
	// GatewayURL is the Pushgateway base URL, e.g. http://pushgateway:9091.
	GatewayURL string
	// Job is the Pushgateway job name. Defaults to "ingest-data".
	Job string
	// Grouping adds extra grouping labels, e.g. {"run_id": "..."}.
	Grouping map[string]string
}

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string
	jobName    string
	grouping   map[string]string
	reg        *prometheus.Registry

	stepCounter   *prometheus.CounterVec
	stepDuration  *prometheus.HistogramVec
	recordCounter *prometheus.CounterVec
	chunkCounter  prometheus.Counter
}

// NewBackend registers the ingest collectors on a private registry.
func NewBackend(cfg Config) (*Backend, error) {
	if cfg.GatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if cfg.Job == "" {
		cfg.Job = "ingest-data"
	}

	reg := prometheus.NewRegistry()

	stepCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.StepTotal,
			Help: "Executions of each ingest step, by step and status.",
		},
		[]string{"step", "status"},
	)
	// Chunk steps on 100k rows take from tens of milliseconds to a minute.
	stepDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    metrics.StepDurationSeconds,
			Help:    "Duration of ingest steps in seconds, by step and status.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
		},
		[]string{"step", "status"},
	)
	recordCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.RecordsTotal,
			Help: "Record counts by kind (read, inserted).",
		},
		[]string{"kind"},
	)
	chunkCounter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: metrics.ChunksTotal,
			Help: "Chunks appended to the destination table.",
		},
	)

	for name, c := range map[string]prometheus.Collector{
		"step counter":   stepCounter,
		"step histogram": stepDuration,
		"record counter": recordCounter,
		"chunk counter":  chunkCounter,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register %s: %w", name, err)
		}
	}

	grouping := make(map[string]string, len(cfg.Grouping))
	for k, v := range cfg.Grouping {
		grouping[k] = v
	}

	return &Backend{
		gatewayURL:    cfg.GatewayURL,
		jobName:       cfg.Job,
		grouping:      grouping,
		reg:           reg,
		stepCounter:   stepCounter,
		stepDuration:  stepDuration,
		recordCounter: recordCounter,
		chunkCounter:  chunkCounter,
	}, nil
}

// IncCounter implements metrics.Backend. Unknown names are ignored.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.StepTotal:
		if b.stepCounter != nil {
			b.stepCounter.WithLabelValues(labels["step"], labels["status"]).Add(delta)
		}
	case metrics.RecordsTotal:
		if b.recordCounter != nil {
			b.recordCounter.WithLabelValues(labels["kind"]).Add(delta)
		}
	case metrics.ChunksTotal:
		if b.chunkCounter != nil {
			b.chunkCounter.Add(delta)
		}
	}
}

// ObserveHistogram implements metrics.Backend.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != metrics.StepDurationSeconds || b.stepDuration == nil {
		return
	}
	b.stepDuration.WithLabelValues(labels["step"], labels["status"]).Observe(value)
}

// Flush pushes the registry, replacing the previous push of the same group.
func (b *Backend) Flush() error {
	p := push.New(b.gatewayURL, b.jobName).Gatherer(b.reg)
	for k, v := range b.grouping {
		p = p.Grouping(k, v)
	}
	if err := p.Push(); err != nil {
		return fmt.Errorf("prompush: push to %s: %w", b.gatewayURL, err)
	}
	return nil
}

var _ metrics.Backend = (*Backend)(nil)

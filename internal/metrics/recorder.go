package metrics

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"subseek/internal/opensubtitles"
)

const namespace = "subseek"

// Call outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeFault     = "fault"
	OutcomeTransport = "transport"
	OutcomeError     = "error"
)

// Recorder collects counters for catalog calls, the lookup cache, and
// fingerprinting. A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry     *prometheus.Registry
	calls        *prometheus.CounterVec
	callDuration *prometheus.HistogramVec
	cache        *prometheus.CounterVec
	fingerprints prometheus.Counter
}

// NewRecorder registers all collectors on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "calls_total",
			Help:      "XML-RPC calls by method and outcome.",
		}, []string{"method", "outcome"}),
		callDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "call_duration_seconds",
			Help:      "XML-RPC call latency by method.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"method"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lookup_cache",
			Name:      "requests_total",
			Help:      "Lookup cache reads by table and result.",
		}, []string{"table", "result"}),
		fingerprints: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fingerprints_computed_total",
			Help:      "Files hashed instead of served from the lookup cache.",
		}),
	}
	r.registry.MustRegister(r.calls, r.callDuration, r.cache, r.fingerprints)
	return r
}

// ObserveCall implements opensubtitles.CallObserver.
func (r *Recorder) ObserveCall(method string, elapsed time.Duration, err error) {
	if r == nil {
		return
	}
	r.calls.WithLabelValues(method, classify(err)).Inc()
	r.callDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// ObserveCache counts one lookup against table ("fingerprints" or "searches").
func (r *Recorder) ObserveCache(table string, hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cache.WithLabelValues(table, result).Inc()
}

// FingerprintComputed counts one file hashed from disk.
func (r *Recorder) FingerprintComputed() {
	if r == nil {
		return
	}
	r.fingerprints.Inc()
}

// Gatherer exposes the registry, mainly for tests.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes the registry to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("metrics: ensure directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}
	return nil
}

func classify(err error) string {
	if err == nil {
		return OutcomeOK
	}
	var fault *opensubtitles.FaultError
	if errors.As(err, &fault) {
		return OutcomeFault
	}
	var transport *opensubtitles.TransportError
	if errors.As(err, &transport) {
		return OutcomeTransport
	}
	return OutcomeError
}

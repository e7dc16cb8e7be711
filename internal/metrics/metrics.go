package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Batch outcomes used as the "outcome" label.
const (
	OutcomeOK      = "ok"
	OutcomeNOK     = "nok"
	OutcomeSkipped = "skipped"
	OutcomeError   = "error"
)

// Recorder collects the metrics of one batch run in its own registry.
type Recorder struct {
	registry *prometheus.Registry

	filesTotal       *prometheus.CounterVec
	framesTotal      prometheus.Counter
	analysisDuration prometheus.Histogram
	bestFPS          *prometheus.GaugeVec
	maxDebt          *prometheus.GaugeVec
	longestViolation *prometheus.GaugeVec
	inSync           *prometheus.GaugeVec
	lastRun          prometheus.Gauge
}

// NewRecorder creates a recorder with a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,

		filesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vq_files_total",
			Help: "Files processed, by outcome",
		}, []string{"outcome"}),

		framesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "vq_frames_analyzed_total",
			Help: "Decode-time samples analyzed",
		}),

		analysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "vq_analysis_duration_seconds",
			Help:    "Time spent reading and analyzing one file",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8), // 0.5ms to ~8s
		}),

		bestFPS: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vq_best_fps",
			Help: "Highest frame rate at which the clip stays in sync",
		}, []string{"clip"}),

		maxDebt: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vq_max_debt_milliseconds",
			Help: "Largest catch-up debt at the target frame rate",
		}, []string{"clip"}),

		longestViolation: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vq_longest_violation_frames",
			Help: "Longest run of frames above the sync threshold",
		}, []string{"clip"}),

		inSync: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vq_in_sync",
			Help: "1 if the clip stays in sync at the target frame rate",
		}, []string{"clip"}),

		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "vq_last_run_timestamp_seconds",
			Help: "Unix time the batch finished",
		}),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// IncrementOutcome counts one file under outcome.
func (r *Recorder) IncrementOutcome(outcome string) {
	r.filesTotal.WithLabelValues(outcome).Inc()
}

// ObserveDuration records how long one file took.
func (r *Recorder) ObserveDuration(seconds float64) {
	r.analysisDuration.Observe(seconds)
}

// RecordClip publishes the per-clip results.
func (r *Recorder) RecordClip(clip string, frames int, passed bool, bestFPS int, maxDebtMs float64, longestViolation int) {
	r.framesTotal.Add(float64(frames))
	r.bestFPS.WithLabelValues(clip).Set(float64(bestFPS))
	r.maxDebt.WithLabelValues(clip).Set(maxDebtMs)
	r.longestViolation.WithLabelValues(clip).Set(float64(longestViolation))
	if passed {
		r.inSync.WithLabelValues(clip).Set(1)
	} else {
		r.inSync.WithLabelValues(clip).Set(0)
	}
}

// MarkFinished stamps the batch completion time.
func (r *Recorder) MarkFinished(unixSeconds float64) {
	r.lastRun.Set(unixSeconds)
}

// WriteTextfile writes all metrics in the text exposition format, suitable
// for the node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

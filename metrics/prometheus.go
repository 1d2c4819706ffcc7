package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	promNamespace = "ghcollector"

	promCommandSubsystem    = "command"
	promTimeoutSubsystem    = "timeout"
	promPermitSubsystem     = "permit"
	promFetchSubsystem      = "fetch"
	promCollectionSubsystem = "collection"
)

type prometheusRec struct {
	// Metrics.
	cmdExecutionDuration *prometheus.HistogramVec
	timeoutTimeouts      *prometheus.CounterVec
	permitWaitDuration   *prometheus.HistogramVec
	permitHeld           *prometheus.GaugeVec
	fetchFailures        *prometheus.CounterVec
	collectionItems      *prometheus.CounterVec
	collectionDuration   *prometheus.HistogramVec

	id  string
	reg prometheus.Registerer
}

// NewPrometheusRecorder returns a new Recorder that knows how to measure
// using Prometheus kind metrics.
func NewPrometheusRecorder(reg prometheus.Registerer) Recorder {
	p := &prometheusRec{
		reg: reg,
	}

	p.registerMetrics()
	return p
}

func (p prometheusRec) WithID(id string) Recorder {
	return &prometheusRec{
		cmdExecutionDuration: p.cmdExecutionDuration,
		timeoutTimeouts:      p.timeoutTimeouts,
		permitWaitDuration:   p.permitWaitDuration,
		permitHeld:           p.permitHeld,
		fetchFailures:        p.fetchFailures,
		collectionItems:      p.collectionItems,
		collectionDuration:   p.collectionDuration,

		id:  id,
		reg: p.reg,
	}
}

func (p *prometheusRec) registerMetrics() {
	p.cmdExecutionDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: promNamespace,
		Subsystem: promCommandSubsystem,
		Name:      "execution_duration_seconds",
		Help:      "The duration of the command execution in seconds.",
	}, []string{"id", "success"})

	p.timeoutTimeouts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: promNamespace,
		Subsystem: promTimeoutSubsystem,
		Name:      "timeouts_total",
		Help:      "Total number of timeouts made by the timeout runner.",
	}, []string{"id"})

	p.permitWaitDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: promNamespace,
		Subsystem: promPermitSubsystem,
		Name:      "wait_duration_seconds",
		Help:      "The time spent waiting to acquire a permit in seconds.",
		Buckets:   []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"id", "kind"})

	p.permitHeld = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: promNamespace,
		Subsystem: promPermitSubsystem,
		Name:      "held",
		Help:      "The number of permits currently held.",
	}, []string{"id", "kind"})

	p.fetchFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: promNamespace,
		Subsystem: promFetchSubsystem,
		Name:      "failures_total",
		Help:      "Total number of failed upstream fetches.",
	}, []string{"id", "kind"})

	p.collectionItems = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: promNamespace,
		Subsystem: promCollectionSubsystem,
		Name:      "items_total",
		Help:      "Total number of listed items processed by the collector.",
	}, []string{"id", "result"})

	p.collectionDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: promNamespace,
		Subsystem: promCollectionSubsystem,
		Name:      "duration_seconds",
		Help:      "The duration of a whole collection in seconds.",
		Buckets:   []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"id", "success"})

	p.reg.MustRegister(p.cmdExecutionDuration,
		p.timeoutTimeouts,
		p.permitWaitDuration,
		p.permitHeld,
		p.fetchFailures,
		p.collectionItems,
		p.collectionDuration,
	)
}

func (p prometheusRec) ObserveCommandExecution(start time.Time, success bool) {
	secs := time.Since(start).Seconds()
	p.cmdExecutionDuration.WithLabelValues(p.id, fmt.Sprintf("%t", success)).Observe(secs)
}

func (p prometheusRec) IncTimeout() {
	p.timeoutTimeouts.WithLabelValues(p.id).Inc()
}

func (p prometheusRec) ObservePermitWait(kind string, start time.Time) {
	p.permitWaitDuration.WithLabelValues(p.id, kind).Observe(time.Since(start).Seconds())
}

func (p prometheusRec) SetPermitsHeld(kind string, held int) {
	p.permitHeld.WithLabelValues(p.id, kind).Set(float64(held))
}

func (p prometheusRec) IncFetchFailure(kind string) {
	p.fetchFailures.WithLabelValues(p.id, kind).Inc()
}

func (p prometheusRec) IncCollectedItem(result string) {
	p.collectionItems.WithLabelValues(p.id, result).Inc()
}

func (p prometheusRec) ObserveCollection(start time.Time, success bool) {
	secs := time.Since(start).Seconds()
	p.collectionDuration.WithLabelValues(p.id, fmt.Sprintf("%t", success)).Observe(secs)
}

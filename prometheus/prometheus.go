// Package prometheus exports generation session metrics.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samarthsinh2660/fluentify"
)

// Interface compliance check.
var _ fluentify.Observer = (*Collector)(nil)

// Frame results recorded in fluentify_frames_total.
const (
	resultApplied = "applied"
	resultDropped = "dropped"
)

// Collector records session lifecycle notifications as Prometheus
// metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	sessionsStarted prometheus.Counter
	sessionsEnded   *prometheus.CounterVec
	frames          *prometheus.CounterVec
	duration        prometheus.Histogram
}

// New creates a Collector and registers its metrics on reg.
func New(reg *prometheus.Registry) (*Collector, error) {
	c := &Collector{
		gatherer: reg,
		sessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fluentify_sessions_started_total",
			Help: "Generation sessions started.",
		}),
		sessionsEnded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fluentify_sessions_ended_total",
			Help: "Generation sessions ended, by final phase.",
		}, []string{"phase"}),
		frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fluentify_frames_total",
			Help: "Stream frames received, by event name and result.",
		}, []string{"event", "result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fluentify_session_duration_seconds",
			Help:    "Time from session start to its final phase.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
	}
	for _, m := range []prometheus.Collector{c.sessionsStarted, c.sessionsEnded, c.frames, c.duration} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) SessionStarted(fluentify.Params) {
	c.sessionsStarted.Inc()
}

func (c *Collector) FrameDispatched(name string) {
	c.frames.WithLabelValues(eventLabel(name), resultApplied).Inc()
}

func (c *Collector) FrameDropped(name string) {
	c.frames.WithLabelValues(eventLabel(name), resultDropped).Inc()
}

func (c *Collector) SessionEnded(phase fluentify.Phase, elapsed time.Duration) {
	c.sessionsEnded.WithLabelValues(phase.String()).Inc()
	c.duration.Observe(elapsed.Seconds())
}

// Handler serves the registered metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// eventLabel bounds label cardinality: unknown event names share one
// series.
func eventLabel(name string) string {
	switch name {
	case fluentify.EventNameCourseCreated,
		fluentify.EventNameUnitGenerating,
		fluentify.EventNameUnitGenerated,
		fluentify.EventNameCourseComplete,
		fluentify.EventNameError:
		return name
	default:
		return "other"
	}
}

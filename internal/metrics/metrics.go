// Package metrics exposes Prometheus collectors for match scoring and
// community detection.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spigell/talentgraph/internal/matching"
)

const namespace = "talentgraph"

// Collectors holds the engine metrics on a dedicated registry.
type Collectors struct {
	registry *prometheus.Registry

	MatchesScored      prometheus.Counter
	MatchScore         prometheus.Histogram
	FactorScore        *prometheus.HistogramVec
	DetectionDuration  prometheus.Histogram
	DetectionFallbacks prometheus.Counter
	Communities        prometheus.Gauge
}

// New creates and registers the collectors.
func New() *Collectors {
	registry := prometheus.NewRegistry()
	scoreBuckets := prometheus.LinearBuckets(0.1, 0.1, 10)

	c := &Collectors{
		registry: registry,
		MatchesScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_scored_total",
			Help:      "Total number of candidate x job pairs scored",
		}),
		MatchScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_total_score",
			Help:      "Distribution of match total scores",
			Buckets:   scoreBuckets,
		}),
		FactorScore: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_factor_score",
			Help:      "Distribution of match sub-scores by factor",
			Buckets:   scoreBuckets,
		}, []string{"factor"}),
		DetectionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "community_detection_duration_seconds",
			Help:      "Community detection duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		DetectionFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "community_detection_fallbacks_total",
			Help:      "Detections that fell back to singleton communities",
		}),
		Communities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "communities",
			Help:      "Number of communities in the latest detection",
		}),
	}

	registry.MustRegister(
		c.MatchesScored,
		c.MatchScore,
		c.FactorScore,
		c.DetectionDuration,
		c.DetectionFallbacks,
		c.Communities,
	)
	return c
}

// WriteToTextfile writes the current values in the text exposition format,
// suitable for the node exporter textfile collector.
func (c *Collectors) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

// Handler serves the collectors in the Prometheus exposition format.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveMatch records a scored pair.
func (c *Collectors) ObserveMatch(result *matching.MatchResult) {
	c.MatchesScored.Inc()
	c.MatchScore.Observe(result.TotalScore)
	for factor, score := range result.Breakdown {
		c.FactorScore.WithLabelValues(factor).Observe(score)
	}
}

// ObserveDetection records a community detection run.
func (c *Collectors) ObserveDetection(duration time.Duration, communities int, fallback bool) {
	c.DetectionDuration.Observe(duration.Seconds())
	c.Communities.Set(float64(communities))
	if fallback {
		c.DetectionFallbacks.Inc()
	}
}

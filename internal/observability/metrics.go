package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// GeotagCollector bundles Prometheus metrics for geotagging runs. All methods
// are safe on a nil receiver so callers can run without metrics.
type GeotagCollector struct {
	gatherer prometheus.Gatherer

	Photos       *prometheus.CounterVec
	Failures     prometheus.Counter
	Durations    prometheus.Histogram
	TrackSamples prometheus.Gauge
}

// NewGeotagCollector registers the metrics against reg, defaulting to the
// global Prometheus registry when nil.
func NewGeotagCollector(reg prometheus.Registerer) (*GeotagCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	photos, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geotag_photos_total",
		Help: "Photos resolved against the track, labeled by match outcome.",
	}, []string{"match"}), "geotag_photos_total")
	if err != nil {
		return nil, err
	}

	failures, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geotag_failures_total",
		Help: "Photos that could not be processed.",
	}), "geotag_failures_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "geotag_photo_duration_seconds",
		Help:    "Time spent reading, correlating and rewriting one photo.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
	}), "geotag_photo_duration_seconds")
	if err != nil {
		return nil, err
	}

	samples, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "geotag_track_samples",
		Help: "Number of samples in the loaded track.",
	}), "geotag_track_samples")
	if err != nil {
		return nil, err
	}

	return &GeotagCollector{
		gatherer:     gatherer,
		Photos:       photos,
		Failures:     failures,
		Durations:    durations,
		TrackSamples: samples,
	}, nil
}

// ObservePhoto counts one resolved photo.
func (c *GeotagCollector) ObservePhoto(match string, took time.Duration) {
	if c == nil {
		return
	}
	c.Photos.WithLabelValues(match).Inc()
	c.Durations.Observe(took.Seconds())
}

// ObserveFailure counts one failed photo.
func (c *GeotagCollector) ObserveFailure() {
	if c == nil {
		return
	}
	c.Failures.Inc()
}

// SetTrackSamples records the size of the loaded track.
func (c *GeotagCollector) SetTrackSamples(n int) {
	if c == nil {
		return
	}
	c.TrackSamples.Set(float64(n))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *GeotagCollector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, c prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return c, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}

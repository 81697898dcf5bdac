package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the Prometheus metrics of the forecaster.
type Registry struct {
	reg *prometheus.Registry

	Runs          *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
	FetchErrors   *prometheus.CounterVec
	MedianPrice   *prometheus.GaugeVec
	BandWidth     *prometheus.GaugeVec
}

// NewRegistry creates and registers all metrics on a private registry.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptoforecast_runs_total",
				Help: "Forecast runs by symbol and outcome",
			},
			[]string{"symbol", "status"},
		),
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cryptoforecast_stage_duration_seconds",
				Help:    "Duration of each forecast stage in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"stage"},
		),
		FetchErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptoforecast_fetch_errors_total",
				Help: "History fetch failures by provider",
			},
			[]string{"provider"},
		),
		MedianPrice: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cryptoforecast_final_median_price",
				Help: "Median simulated price on the last forecast day",
			},
			[]string{"symbol"},
		),
		BandWidth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cryptoforecast_final_band_ratio",
				Help: "Width of the final 95% band relative to the starting price",
			},
			[]string{"symbol"},
		),
	}
	r.reg.MustRegister(r.Runs, r.StageDuration, r.FetchErrors, r.MedianPrice, r.BandWidth)
	return r
}

// ObserveStage records how long a stage took since start.
func (r *Registry) ObserveStage(stage string, start time.Time) {
	r.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// RunFinished counts a run outcome.
func (r *Registry) RunFinished(symbol string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.Runs.WithLabelValues(symbol, status).Inc()
}

// ForecastPublished exports the final-day statistics of a forecast.
func (r *Registry) ForecastPublished(symbol string, lastPrice, median, lower, upper float64) {
	r.MedianPrice.WithLabelValues(symbol).Set(median)
	if lastPrice > 0 {
		r.BandWidth.WithLabelValues(symbol).Set((upper - lower) / lastPrice)
	}
}

// Gatherer exposes the underlying registry, mainly for tests.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

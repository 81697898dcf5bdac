package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"CryptoForecast/internal/collector"
	"CryptoForecast/internal/forecast"
	"CryptoForecast/internal/metrics"
	"CryptoForecast/internal/model"
	"CryptoForecast/internal/notifier"
	"CryptoForecast/internal/recorder"
)

// Settings are the per-run forecast parameters.
type Settings struct {
	Start       time.Time
	End         time.Time
	HorizonDays int
	NumPaths    int
	// Seed is the base seed; 0 picks a time-based seed for every run.
	Seed        uint64
	MaxParallel int
}

// Result is the outcome for one asset.
type Result struct {
	Asset    model.Asset
	Forecast *model.Forecast
	RunID    string
	Err      error
}

// Runner wires history collection, the forecast pipeline, persistence and reporting.
type Runner struct {
	Collector *collector.Collector
	Recorder  recorder.Recorder
	Notifier  notifier.Notifier
	Metrics   *metrics.Registry
	Settings  Settings

	now func() time.Time
}

// NewRunner creates a Runner. Recorder, Notifier and Metrics may be nil.
func NewRunner(col *collector.Collector, rec recorder.Recorder, n notifier.Notifier, m *metrics.Registry, s Settings) *Runner {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Runner{
		Collector: col,
		Recorder:  rec,
		Notifier:  n,
		Metrics:   m,
		Settings:  s,
		now:       time.Now,
	}
}

// RunAll forecasts every asset concurrently, each with its own random source.
// Results come back in the order of assets; a failing asset does not stop the others.
func (r *Runner) RunAll(ctx context.Context, assets []model.Asset) []Result {
	results := make([]Result, len(assets))
	base := r.baseSeed()

	g, gCtx := errgroup.WithContext(ctx)
	if r.Settings.MaxParallel > 0 {
		g.SetLimit(r.Settings.MaxParallel)
	}
	for i, asset := range assets {
		g.Go(func() error {
			results[i] = r.runAsset(gCtx, asset, forecast.SeedFor(base, asset.Symbol))
			return nil
		})
	}
	_ = g.Wait()

	r.report(ctx, results)
	return results
}

// RunOne forecasts a single asset and reports it.
func (r *Runner) RunOne(ctx context.Context, asset model.Asset) Result {
	res := r.runAsset(ctx, asset, forecast.SeedFor(r.baseSeed(), asset.Symbol))
	r.report(ctx, []Result{res})
	return res
}

func (r *Runner) baseSeed() uint64 {
	if r.Settings.Seed != 0 {
		return r.Settings.Seed
	}
	return uint64(r.now().UnixNano())
}

func (r *Runner) runAsset(ctx context.Context, asset model.Asset, seed uint64) (res Result) {
	res.Asset = asset
	logger := log.With().Str("symbol", asset.Symbol).Logger()
	defer func() {
		if r.Metrics != nil {
			r.Metrics.RunFinished(asset.Symbol, res.Err)
		}
		if res.Err != nil {
			logger.Error().Err(res.Err).Msg("forecast failed")
		}
	}()

	fetchStart := time.Now()
	series, err := r.Collector.Collect(ctx, asset, r.Settings.Start, r.Settings.End)
	r.observe("fetch", fetchStart)
	if err != nil {
		if r.Metrics != nil {
			r.Metrics.FetchErrors.WithLabelValues(r.Collector.Fetcher.Name()).Inc()
		}
		res.Err = err
		return res
	}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	simStart := time.Now()
	fc, err := forecast.Run(series, forecast.Options{
		HorizonDays: r.Settings.HorizonDays,
		NumPaths:    r.Settings.NumPaths,
	}, forecast.NewSeededSource(seed))
	r.observe("forecast", simStart)
	if err != nil {
		res.Err = fmt.Errorf("forecast %s: %w", asset.Symbol, err)
		return res
	}
	fc.Seed = seed
	fc.GeneratedAt = r.now()
	res.Forecast = fc

	final := fc.Final()
	logger.Info().
		Int("observations", fc.Params.Observations).
		Float64("mu", fc.Params.Mu).
		Float64("sigma", fc.Params.Sigma).
		Float64("last_price", fc.Params.LastPrice).
		Float64("median", final.Median).
		Float64("lower", final.Lower).
		Float64("upper", final.Upper).
		Msg("forecast complete")

	if r.Metrics != nil {
		r.Metrics.ForecastPublished(asset.Symbol, fc.Params.LastPrice, final.Median, final.Lower, final.Upper)
	}

	runID, err := r.Recorder.RecordForecast(fc)
	if err != nil {
		logger.Error().Err(err).Msg("record forecast")
	}
	res.RunID = runID
	return res
}

func (r *Runner) report(ctx context.Context, results []Result) {
	if r.Notifier == nil {
		return
	}
	var reports []string
	failures := make(map[string]error)
	for _, res := range results {
		if res.Err != nil {
			failures[res.Asset.Symbol] = res.Err
			continue
		}
		reports = append(reports, notifier.FormatForecastReport(res.Forecast))
	}
	if err := r.Notifier.Notify(ctx, notifier.FormatRunSummary(reports, failures)); err != nil {
		log.Error().Err(err).Msg("send forecast report")
	}
}

func (r *Runner) observe(stage string, start time.Time) {
	if r.Metrics != nil {
		r.Metrics.ObserveStage(stage, start)
	}
}

// Failed counts results with an error.
func Failed(results []Result) int {
	n := 0
	for _, res := range results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

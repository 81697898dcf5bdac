package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"CryptoForecast/internal/collector"
	"CryptoForecast/internal/config"
	"CryptoForecast/internal/metrics"
	"CryptoForecast/internal/notifier"
	"CryptoForecast/internal/recorder"
	"CryptoForecast/internal/service"
)

// app bundles the components shared by all subcommands.
type app struct {
	cfg      *config.Config
	recorder recorder.Recorder
	telegram *notifier.TelegramNotifier
	metrics  *metrics.Registry
	runner   *service.Runner
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	setupLogging(cfg.Log.Level)
	return cfg, nil
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	var f collector.Fetcher
	switch cfg.DataSource.Provider {
	case "yahoo":
		f = collector.NewYahooFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	case "mock":
		return &collector.MockFetcher{Price: 100}
	default:
		f = collector.NewBinanceFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	}
	return collector.NewResilientFetcher(f, collector.ResilienceOptions{
		RatePerSec: cfg.DataSource.RatePerSec,
		Burst:      cfg.DataSource.Burst,
		MaxRetries: cfg.DataSource.MaxRetries,
	})
}

func newRecorder(path string) recorder.Recorder {
	if path == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(path)
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}

// newApp wires the forecast runner from cfg. Callers must close a.recorder.
func newApp(cfg *config.Config) (*app, error) {
	start, end, err := cfg.Window()
	if err != nil {
		return nil, err
	}

	fetcher := newFetcher(cfg)
	log.Info().Str("provider", fetcher.Name()).Msg("data source ready")

	a := &app{
		cfg:      cfg,
		recorder: newRecorder(cfg.Database.SQLitePath),
		metrics:  metrics.NewRegistry(),
	}

	notifiers := notifier.Multi{notifier.NewConsoleNotifier(os.Stdout)}
	if cfg.Telegram.BotToken != "" {
		a.telegram = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		notifiers = append(notifiers, a.telegram)
	}

	a.runner = service.NewRunner(
		collector.NewCollector(fetcher),
		a.recorder,
		notifiers,
		a.metrics,
		service.Settings{
			Start:       start,
			End:         end,
			HorizonDays: cfg.Forecast.HorizonDays,
			NumPaths:    cfg.Forecast.NumPaths,
			Seed:        cfg.Forecast.Seed,
			MaxParallel: cfg.Forecast.MaxParallel,
		},
	)
	return a, nil
}

package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"CryptoForecast/internal/model"
	"CryptoForecast/internal/notifier"
	"CryptoForecast/internal/recorder"
	"CryptoForecast/internal/service"
)

// Scheduler manages the recurring forecast job and chat commands.
type Scheduler struct {
	Cron     *cron.Cron
	Runner   *service.Runner
	Recorder recorder.Recorder
	Assets   []model.Asset
	Ctx      context.Context

	// running guards against overlapping forecast passes.
	running sync.Mutex
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, runner *service.Runner, rec recorder.Recorder, assets []model.Asset) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Runner:   runner,
		Recorder: rec,
		Assets:   assets,
		Ctx:      ctx,
	}
}

// Register adds the forecast job on a six-field cron expression (seconds first).
func (s *Scheduler) Register(forecastCron string) error {
	if _, err := s.Cron.AddFunc(forecastCron, s.forecastTask); err != nil {
		return fmt.Errorf("register forecast task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Int("assets", len(s.Assets)).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunNow executes the forecast task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() []service.Result {
	return s.runAssets(s.Ctx, s.Assets)
}

func (s *Scheduler) forecastTask() {
	s.runAssets(s.Ctx, s.Assets)
}

func (s *Scheduler) runAssets(ctx context.Context, assets []model.Asset) []service.Result {
	if !s.running.TryLock() {
		log.Warn().Msg("forecast pass already running, skipping")
		return nil
	}
	defer s.running.Unlock()

	log.Info().Int("assets", len(assets)).Msg("running forecast pass")
	results := s.Runner.RunAll(ctx, assets)
	log.Info().Int("failed", service.Failed(results)).Int("total", len(results)).Msg("forecast pass finished")
	return results
}

func (s *Scheduler) findAsset(symbol string) (model.Asset, bool) {
	symbol = strings.ToUpper(symbol)
	for _, a := range s.Assets {
		if a.Symbol == symbol {
			return a, true
		}
	}
	return model.Asset{}, false
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText(s.Assets)
	}
	switch fields[0] {
	case "/forecast":
		assets := s.Assets
		if len(fields) > 1 {
			a, ok := s.findAsset(fields[1])
			if !ok {
				return fmt.Sprintf("Unknown asset %s\n\n%s", fields[1], helpText(s.Assets))
			}
			assets = []model.Asset{a}
		}
		// the runner delivers the report itself
		if s.runAssets(ctx, assets) == nil {
			return "A forecast pass is already running"
		}
		return ""
	case "/history":
		if len(fields) < 2 {
			return "Usage: /history SYMBOL"
		}
		a, ok := s.findAsset(fields[1])
		if !ok {
			return fmt.Sprintf("Unknown asset %s", fields[1])
		}
		records, err := s.Recorder.RecentForecasts(a.Symbol, 5)
		if err != nil {
			log.Error().Err(err).Str("symbol", a.Symbol).Msg("load history")
			return fmt.Sprintf("❌ Failed to load history: %v", err)
		}
		return notifier.FormatHistory(a.Symbol, records)
	default:
		return helpText(s.Assets)
	}
}

func helpText(assets []model.Asset) string {
	symbols := make([]string, len(assets))
	for i, a := range assets {
		symbols[i] = a.Symbol
	}
	return "Available commands:\n• /forecast [SYMBOL]\n• /history SYMBOL\n\nAssets: " + strings.Join(symbols, ", ")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"CryptoForecast/internal/model"
	"CryptoForecast/internal/service"
)

var (
	runAssets  []string
	runHorizon int
	runPaths   int
	runSeed    uint64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one forecast pass and exit",
	Long: `Fetch history, calibrate, simulate and summarize every configured asset
once, then print (and optionally send) the report.

Examples:
  forecast run
  forecast run --asset BTC --asset ETH
  forecast run --horizon 60 --paths 50000 --seed 42`,
	RunE: runOnce,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringSliceVar(&runAssets, "asset", nil, "Asset symbol to forecast (repeatable, default: all configured)")
	runCmd.Flags().IntVar(&runHorizon, "horizon", 0, "Forecast horizon in days (overrides config)")
	runCmd.Flags().IntVar(&runPaths, "paths", 0, "Number of simulated paths (overrides config)")
	runCmd.Flags().Uint64Var(&runSeed, "seed", 0, "Base random seed (overrides config, 0 = time based)")
}

func selectAssets(configured []model.Asset, lookup func(string) (model.Asset, bool), symbols []string) ([]model.Asset, error) {
	if len(symbols) == 0 {
		return configured, nil
	}
	assets := make([]model.Asset, 0, len(symbols))
	for _, s := range symbols {
		a, ok := lookup(strings.ToUpper(s))
		if !ok {
			return nil, fmt.Errorf("unknown asset %q", s)
		}
		assets = append(assets, a)
	}
	return assets, nil
}

func runOnce(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("horizon") {
		cfg.Forecast.HorizonDays = runHorizon
	}
	if cmd.Flags().Changed("paths") {
		cfg.Forecast.NumPaths = runPaths
	}
	if cmd.Flags().Changed("seed") {
		cfg.Forecast.Seed = runSeed
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	assets, err := selectAssets(cfg.Assets, cfg.Asset, runAssets)
	if err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.recorder.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results := a.runner.RunAll(ctx, assets)
	failed := service.Failed(results)
	log.Info().Int("failed", failed).Int("total", len(results)).Msg("run finished")
	if failed == len(results) {
		return errors.New("every asset failed to forecast")
	}
	return nil
}

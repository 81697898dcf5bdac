package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"CryptoForecast/internal/notifier"
)

var (
	historyAsset string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded forecasts for an asset",
	Long: `Print the most recent forecast runs stored in the SQLite database.

Examples:
  forecast history --asset BTC
  forecast history --asset ETH --limit 10`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyAsset, "asset", "", "Asset symbol (required)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 5, "Number of runs to show")
	_ = historyCmd.MarkFlagRequired("asset")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if historyLimit < 1 {
		return fmt.Errorf("--limit must be positive, got %d", historyLimit)
	}
	rec := newRecorder(cfg.Database.SQLitePath)
	defer rec.Close()

	symbol := strings.ToUpper(historyAsset)
	records, err := rec.RecentForecasts(symbol, historyLimit)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	return notifier.NewConsoleNotifier(cmd.OutOrStdout()).Notify(cmd.Context(), notifier.FormatHistory(symbol, records))
}

package recorder

import (
	"time"

	"CryptoForecast/internal/model"
)

// ForecastRecord is a stored forecast run, as read back from the recorder.
type ForecastRecord struct {
	RunID       string
	RecordedAt  time.Time
	Symbol      string
	Mu          float64
	Sigma       float64
	LastPrice   float64
	HorizonDays int
	NumPaths    int
	Seed        uint64
	Final       model.DayStat
	Days        []model.DayStat // only populated by ForecastDays
}

// Recorder persists forecast runs for later analysis.
type Recorder interface {
	// RecordForecast stores a forecast and returns its run ID.
	RecordForecast(fc *model.Forecast) (string, error)
	// RecentForecasts returns the latest runs for symbol, newest first.
	RecentForecasts(symbol string, limit int) ([]ForecastRecord, error)
	// ForecastDays returns the per-day summary of one run.
	ForecastDays(runID string) ([]model.DayStat, error)
	Close() error
}

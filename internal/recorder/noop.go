package recorder

import (
	"github.com/google/uuid"

	"CryptoForecast/internal/model"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordForecast(_ *model.Forecast) (string, error) {
	return uuid.NewString(), nil
}
func (n *NoopRecorder) RecentForecasts(_ string, _ int) ([]ForecastRecord, error) { return nil, nil }
func (n *NoopRecorder) ForecastDays(_ string) ([]model.DayStat, error)            { return nil, nil }
func (n *NoopRecorder) Close() error                                               { return nil }

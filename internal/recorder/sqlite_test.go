package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CryptoForecast/internal/model"
)

func sampleForecast(symbol string, at time.Time, median float64) *model.Forecast {
	return &model.Forecast{
		Symbol:      symbol,
		Params:      model.CalibratedParameters{Mu: 0.42, Sigma: 0.61, LastPrice: 100, Observations: 280},
		HorizonDays: 2,
		NumPaths:    1000,
		Seed:        1<<63 + 5,
		Start:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:         time.Date(2024, 10, 12, 0, 0, 0, 0, time.UTC),
		GeneratedAt: at,
		Summary: model.ForecastSummary{
			{Day: 0, Median: 100, Lower: 100, Upper: 100},
			{Day: 1, Median: 100.5, Lower: 96, Upper: 104},
			{Day: 2, Median: median, Lower: 94, Upper: 107},
		},
	}
}

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "nested", "fc.db"))
	require.NoError(t, err)
	defer rec.Close()

	t0 := time.Date(2024, 10, 13, 1, 0, 0, 0, time.UTC)
	firstID, err := rec.RecordForecast(sampleForecast("BTC", t0, 101))
	require.NoError(t, err)
	secondID, err := rec.RecordForecast(sampleForecast("BTC", t0.Add(24*time.Hour), 102))
	require.NoError(t, err)
	_, err = rec.RecordForecast(sampleForecast("ETH", t0, 50))
	require.NoError(t, err)
	assert.NotEqual(t, firstID, secondID)

	runs, err := rec.RecentForecasts("BTC", 5)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, secondID, runs[0].RunID)
	assert.Equal(t, 102.0, runs[0].Final.Median)
	assert.Equal(t, 2, runs[0].Final.Day)
	assert.Equal(t, uint64(1<<63+5), runs[0].Seed)
	assert.Equal(t, 0.61, runs[0].Sigma)
	assert.Equal(t, firstID, runs[1].RunID)

	days, err := rec.ForecastDays(firstID)
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Equal(t, model.DayStat{Day: 1, Median: 100.5, Lower: 96, Upper: 104}, days[1])

	limited, err := rec.RecentForecasts("BTC", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestNoopRecorder(t *testing.T) {
	rec := NewNoopRecorder()
	id, err := rec.RecordForecast(sampleForecast("BTC", time.Now(), 1))
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	runs, err := rec.RecentForecasts("BTC", 3)
	assert.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, rec.Close())
}

package scheduler

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CryptoForecast/internal/collector"
	"CryptoForecast/internal/model"
	"CryptoForecast/internal/notifier"
	"CryptoForecast/internal/recorder"
	"CryptoForecast/internal/service"
)

func newTestScheduler(t *testing.T, out *bytes.Buffer) *Scheduler {
	t.Helper()
	rec, err := recorder.NewSQLiteRecorder(t.TempDir() + "/sched.db")
	require.NoError(t, err)
	t.Cleanup(func() { rec.Close() })

	runner := service.NewRunner(
		collector.NewCollector(&collector.MockFetcher{Price: 100}),
		rec,
		notifier.NewConsoleNotifier(out),
		nil,
		service.Settings{
			Start:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			End:         time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			HorizonDays: 5,
			NumPaths:    100,
			Seed:        8,
		},
	)
	assets := []model.Asset{{Symbol: "BTC", Ticker: "BTC/USDT"}, {Symbol: "ETH", Ticker: "ETH/USDT"}}
	return NewScheduler(context.Background(), runner, rec, assets)
}

func TestScheduler_Register(t *testing.T) {
	s := newTestScheduler(t, &bytes.Buffer{})
	require.NoError(t, s.Register("0 0 1 * * *"))
	assert.Len(t, s.Cron.Entries(), 1)
	assert.Error(t, s.Register("not a cron"))
}

func TestScheduler_RunNow(t *testing.T) {
	var out bytes.Buffer
	s := newTestScheduler(t, &out)
	results := s.RunNow()
	require.Len(t, results, 2)
	assert.Equal(t, 0, service.Failed(results))
	assert.Contains(t, out.String(), "ETH Forecast")
}

func TestScheduler_HandleCommand(t *testing.T) {
	var out bytes.Buffer
	s := newTestScheduler(t, &out)
	ctx := context.Background()

	assert.Contains(t, s.HandleCommand(ctx, "hello"), "/forecast [SYMBOL]")
	assert.Contains(t, s.HandleCommand(ctx, "/forecast XRP"), "Unknown asset XRP")
	assert.Equal(t, "Usage: /history SYMBOL", s.HandleCommand(ctx, "/history"))
	assert.Equal(t, "No recorded forecasts for BTC", s.HandleCommand(ctx, "/history btc"))

	assert.Equal(t, "", s.HandleCommand(ctx, "/forecast btc"))
	assert.Contains(t, out.String(), "BTC Forecast")
	assert.NotContains(t, out.String(), "ETH Forecast")

	assert.Contains(t, s.HandleCommand(ctx, "/history BTC"), "BTC forecast history")
}

func TestScheduler_SkipsOverlappingPass(t *testing.T) {
	s := newTestScheduler(t, &bytes.Buffer{})
	s.running.Lock()
	defer s.running.Unlock()
	assert.Nil(t, s.RunNow())
	assert.Equal(t, "A forecast pass is already running", s.HandleCommand(context.Background(), "/forecast"))
}

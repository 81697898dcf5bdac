package collector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"CryptoForecast/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price  float64
	Points []model.PricePoint
	Err    error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyCloses(_ context.Context, _ string, start, end time.Time) ([]model.PricePoint, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Points != nil {
		return m.Points, nil
	}
	return generateMockCloses(m.Price, start, end), nil
}

// generateMockCloses produces a gently oscillating daily series so calibration
// sees non-zero volatility.
func generateMockCloses(basePrice float64, start, end time.Time) []model.PricePoint {
	if basePrice <= 0 {
		basePrice = 100
	}
	var points []model.PricePoint
	day := startOfDay(start)
	for i := 0; !day.After(end); i++ {
		p := basePrice * (1 + 0.02*math.Sin(float64(i)/3) + float64(i)*0.0005)
		points = append(points, model.PricePoint{Time: day, Close: p})
		day = day.AddDate(0, 0, 1)
	}
	return points
}

// Collector fetches a clean daily history for an asset.
type Collector struct {
	Fetcher Fetcher
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// Collect fetches closes for asset in [start, end], orders them, keeps one bar per
// calendar day (the latest) and drops bars with unusable prices.
func (c *Collector) Collect(ctx context.Context, asset model.Asset, start, end time.Time) (model.HistoricalSeries, error) {
	points, err := c.Fetcher.FetchDailyCloses(ctx, asset.Ticker, start, end)
	if err != nil {
		return model.HistoricalSeries{}, fmt.Errorf("fetch daily closes: %w", err)
	}

	sort.SliceStable(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })

	cleaned := make([]model.PricePoint, 0, len(points))
	dropped := 0
	for _, p := range points {
		if p.Time.Before(startOfDay(start)) || p.Time.After(end) {
			continue
		}
		if !(p.Close > 0) || math.IsInf(p.Close, 0) {
			dropped++
			continue
		}
		if n := len(cleaned); n > 0 && sameDay(cleaned[n-1].Time, p.Time) {
			cleaned[n-1] = p
			continue
		}
		cleaned = append(cleaned, p)
	}
	if dropped > 0 {
		log.Warn().Str("symbol", asset.Symbol).Int("dropped", dropped).Msg("dropped bars with non-positive close")
	}

	log.Debug().
		Str("symbol", asset.Symbol).
		Str("source", c.Fetcher.Name()).
		Int("points", len(cleaned)).
		Msg("history collected")

	return model.HistoricalSeries{Symbol: asset.Symbol, Points: cleaned}, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return startOfDay(a).Equal(startOfDay(b))
}

package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CryptoForecast/internal/model"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newBinanceServer(t *testing.T, requests *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(requests, 1)
		assert.Equal(t, "/api/v3/klines", r.URL.Path)
		q := r.URL.Query()
		if q.Get("symbol") != "BTCUSDT" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"code":-1121,"msg":"Invalid symbol."}`)
			return
		}
		startMs, _ := strconv.ParseInt(q.Get("startTime"), 10, 64)
		endMs, _ := strconv.ParseInt(q.Get("endTime"), 10, 64)
		limit, _ := strconv.Atoi(q.Get("limit"))

		// first open time at or after startMs on a UTC day boundary
		const dayMs = int64(24 * time.Hour / time.Millisecond)
		open := (startMs + dayMs - 1) / dayMs * dayMs
		var rows []string
		for ; open <= endMs && len(rows) < limit; open += dayMs {
			i := (open - day0.UnixMilli()) / dayMs
			rows = append(rows, fmt.Sprintf(`[%d,"1","1","1","%d.5","10",%d,"0",1,"0","0","0"]`, open, 100+i, open+dayMs-1))
		}
		fmt.Fprintf(w, "[%s]", strings.Join(rows, ","))
	}))
}

func TestBinanceFetcher_Pages(t *testing.T) {
	var requests int32
	srv := newBinanceServer(t, &requests)
	defer srv.Close()

	f := NewBinanceFetcher(srv.URL, "")
	end := day0.AddDate(0, 0, 1199)
	points, err := f.FetchDailyCloses(context.Background(), "BTC/USDT", day0, end)
	require.NoError(t, err)
	require.Len(t, points, 1200)
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
	assert.Equal(t, day0, points[0].Time)
	assert.Equal(t, 100.5, points[0].Close)
	assert.Equal(t, end, points[1199].Time)
	assert.Equal(t, 1299.5, points[1199].Close)
}

func TestBinanceFetcher_StatusError(t *testing.T) {
	var requests int32
	srv := newBinanceServer(t, &requests)
	defer srv.Close()

	f := NewBinanceFetcher(srv.URL, "")
	_, err := f.FetchDailyCloses(context.Background(), "NOPE/USDT", day0, day0.AddDate(0, 0, 5))
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.False(t, se.Temporary())
}

func TestYahooFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/ETH-USD", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		fmt.Fprintf(w, `{"chart":{"result":[{"timestamp":[%d,%d,%d],
			"indicators":{"quote":[{"close":[2200.5,null,2300]}]}}],"error":null}}`,
			day0.Unix(), day0.AddDate(0, 0, 1).Unix(), day0.AddDate(0, 0, 2).Unix())
	}))
	defer srv.Close()

	f := NewYahooFetcher(srv.URL, "")
	points, err := f.FetchDailyCloses(context.Background(), "ETH/USDT", day0, day0.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 2200.5, points[0].Close)
	assert.Equal(t, day0.AddDate(0, 0, 2), points[1].Time)
}

func TestYahooFetcher_SymbolMapping(t *testing.T) {
	f := NewYahooFetcher("", "")
	assert.Equal(t, "BTC-USD", f.yahooSymbol("BTC/USDT"))
	assert.Equal(t, "DOGE-USD", f.yahooSymbol("DOGE/USDT"))
	assert.Equal(t, "ADA-EUR", f.yahooSymbol("ADA-EUR"))
}

type flakyFetcher struct {
	failures int32
	calls    int32
	err      error
}

func (f *flakyFetcher) Name() string { return "flaky" }

func (f *flakyFetcher) FetchDailyCloses(_ context.Context, _ string, _, _ time.Time) ([]model.PricePoint, error) {
	n := atomic.AddInt32(&f.calls, 1)
	if n <= f.failures {
		return nil, f.err
	}
	return []model.PricePoint{{Time: day0, Close: 1}}, nil
}

func TestResilientFetcher_RetriesTemporaryErrors(t *testing.T) {
	inner := &flakyFetcher{failures: 2, err: &StatusError{Provider: "flaky", Code: 503}}
	f := NewResilientFetcher(inner, ResilienceOptions{RatePerSec: 1000, Burst: 10, MaxRetries: 3, BaseBackoff: time.Millisecond})

	points, err := f.FetchDailyCloses(context.Background(), "BTC/USDT", day0, day0)
	require.NoError(t, err)
	assert.Len(t, points, 1)
	assert.Equal(t, int32(3), atomic.LoadInt32(&inner.calls))
}

func TestResilientFetcher_DoesNotRetryClientErrors(t *testing.T) {
	inner := &flakyFetcher{failures: 10, err: &StatusError{Provider: "flaky", Code: 400}}
	f := NewResilientFetcher(inner, ResilienceOptions{RatePerSec: 1000, Burst: 10, MaxRetries: 3, BaseBackoff: time.Millisecond})

	_, err := f.FetchDailyCloses(context.Background(), "BTC/USDT", day0, day0)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&inner.calls))
	var se *StatusError
	assert.True(t, errors.As(err, &se))
}

func TestResilientFetcher_GivesUp(t *testing.T) {
	inner := &flakyFetcher{failures: 100, err: errors.New("connection reset")}
	f := NewResilientFetcher(inner, ResilienceOptions{RatePerSec: 1000, Burst: 10, MaxRetries: 2, BaseBackoff: time.Millisecond})

	_, err := f.FetchDailyCloses(context.Background(), "BTC/USDT", day0, day0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, int32(3), atomic.LoadInt32(&inner.calls))
}

func TestResilientFetcher_ContextCancelled(t *testing.T) {
	inner := &flakyFetcher{failures: 100, err: errors.New("timeout")}
	f := NewResilientFetcher(inner, ResilienceOptions{RatePerSec: 1000, Burst: 10, MaxRetries: 5, BaseBackoff: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := f.FetchDailyCloses(ctx, "BTC/USDT", day0, day0)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCollector_CleansSeries(t *testing.T) {
	mock := &MockFetcher{Points: []model.PricePoint{
		{Time: day0.AddDate(0, 0, 2), Close: 103},
		{Time: day0, Close: 101},
		{Time: day0.AddDate(0, 0, 1), Close: 0},
		{Time: day0.AddDate(0, 0, 2).Add(time.Hour), Close: 104},
		{Time: day0.AddDate(0, 0, 3), Close: 105},
		{Time: day0.AddDate(0, 0, 9), Close: 999},
	}}
	c := NewCollector(mock)

	series, err := c.Collect(context.Background(), model.Asset{Symbol: "BTC", Ticker: "BTC/USDT"}, day0, day0.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.Equal(t, "BTC", series.Symbol)
	assert.Equal(t, []float64{101, 104, 105}, series.Closes())
}

func TestCollector_WrapsFetchError(t *testing.T) {
	c := NewCollector(&MockFetcher{Err: errors.New("boom")})
	_, err := c.Collect(context.Background(), model.Asset{Symbol: "SOL", Ticker: "SOL/USDT"}, day0, day0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch daily closes")
}

func TestMockFetcher_Generated(t *testing.T) {
	m := &MockFetcher{Price: 50}
	points, err := m.FetchDailyCloses(context.Background(), "X", day0, day0.AddDate(0, 0, 9))
	require.NoError(t, err)
	require.Len(t, points, 10)
	for i := 1; i < len(points); i++ {
		assert.True(t, points[i].Time.After(points[i-1].Time))
		assert.Greater(t, points[i].Close, 0.0)
	}
}

package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.RunFinished("BTC", nil)
	r.RunFinished("BTC", nil)
	r.RunFinished("ETH", errors.New("x"))
	r.ForecastPublished("BTC", 100, 105, 80, 130)
	r.ObserveStage("simulate", time.Now())
	r.FetchErrors.WithLabelValues("binance").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(r.Runs.WithLabelValues("BTC", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Runs.WithLabelValues("ETH", "error")))
	assert.Equal(t, 105.0, testutil.ToFloat64(r.MedianPrice.WithLabelValues("BTC")))
	assert.InDelta(t, 0.5, testutil.ToFloat64(r.BandWidth.WithLabelValues("BTC")), 1e-12)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "cryptoforecast_stage_duration_seconds_bucket")
	assert.Contains(t, string(body), `cryptoforecast_fetch_errors_total{provider="binance"} 1`)
}

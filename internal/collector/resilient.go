package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"CryptoForecast/internal/model"
)

// ResilientFetcher wraps a Fetcher with rate limiting, a circuit breaker and
// exponential-backoff retries.
type ResilientFetcher struct {
	next        Fetcher
	limiter     *rate.Limiter
	breaker     *gobreaker.CircuitBreaker
	maxRetries  int
	baseBackoff time.Duration
}

// ResilienceOptions configures a ResilientFetcher.
type ResilienceOptions struct {
	RatePerSec  float64
	Burst       int
	MaxRetries  int
	BaseBackoff time.Duration
}

// NewResilientFetcher decorates next. Zero options fall back to 5 req/s, burst 1,
// 3 retries and a 1s base backoff.
func NewResilientFetcher(next Fetcher, opts ResilienceOptions) *ResilientFetcher {
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.BaseBackoff <= 0 {
		opts.BaseBackoff = time.Second
	}

	st := gobreaker.Settings{Name: next.Name()}
	st.Interval = 60 * time.Second
	st.Timeout = 60 * time.Second
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= 5
	}
	// Client errors mean a bad request, not an unhealthy source.
	st.IsSuccessful = func(err error) bool {
		return err == nil || !retryable(err)
	}

	return &ResilientFetcher{
		next:        next,
		limiter:     rate.NewLimiter(rate.Limit(opts.RatePerSec), opts.Burst),
		breaker:     gobreaker.NewCircuitBreaker(st),
		maxRetries:  opts.MaxRetries,
		baseBackoff: opts.BaseBackoff,
	}
}

func (f *ResilientFetcher) Name() string { return f.next.Name() }

func (f *ResilientFetcher) FetchDailyCloses(ctx context.Context, ticker string, start, end time.Time) ([]model.PricePoint, error) {
	var lastErr error
	for i := 0; i <= f.maxRetries; i++ {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		res, err := f.breaker.Execute(func() (interface{}, error) {
			return f.next.FetchDailyCloses(ctx, ticker, start, end)
		})
		if err == nil {
			return res.([]model.PricePoint), nil
		}
		lastErr = err
		if !retryable(err) || ctx.Err() != nil || i == f.maxRetries {
			break
		}

		backoff := f.baseBackoff << uint(i)
		log.Warn().Err(err).
			Str("provider", f.Name()).
			Str("ticker", ticker).
			Int("attempt", i+1).
			Dur("backoff", backoff).
			Msg("fetch failed, retrying")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
	return nil, fmt.Errorf("%s: fetch %s: %w", f.Name(), ticker, lastErr)
}

func retryable(err error) bool {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return true
}

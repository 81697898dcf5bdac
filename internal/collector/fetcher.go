package collector

import (
	"context"
	"fmt"
	"time"

	"CryptoForecast/internal/model"
)

// Fetcher defines the interface for fetching daily closing prices.
type Fetcher interface {
	// FetchDailyCloses returns daily closes for ticker between start and end (inclusive).
	FetchDailyCloses(ctx context.Context, ticker string, start, end time.Time) ([]model.PricePoint, error)
	Name() string
}

// StatusError is returned when a data source answers with a non-200 status.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d, body: %s", e.Provider, e.Code, e.Body)
}

// Temporary reports whether retrying the request may succeed.
func (e *StatusError) Temporary() bool {
	return e.Code == 429 || e.Code >= 500
}

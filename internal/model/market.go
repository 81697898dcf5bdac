package model

import "time"

// PricePoint is a single daily close.
type PricePoint struct {
	Time  time.Time
	Close float64
}

// HistoricalSeries holds the daily closes of one asset, oldest first.
type HistoricalSeries struct {
	Symbol string
	Points []PricePoint
}

// Len returns the number of observations.
func (s HistoricalSeries) Len() int { return len(s.Points) }

// Closes returns the closing prices in chronological order.
func (s HistoricalSeries) Closes() []float64 {
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}

// Last returns the most recent observation. The zero value is returned for an empty series.
func (s HistoricalSeries) Last() PricePoint {
	if len(s.Points) == 0 {
		return PricePoint{}
	}
	return s.Points[len(s.Points)-1]
}

// Asset pairs the display symbol with the ticker understood by a data source.
type Asset struct {
	Symbol string `yaml:"symbol" validate:"required"`
	Ticker string `yaml:"ticker" validate:"required"`
}

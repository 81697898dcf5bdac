package model

import "time"

// CalibratedParameters are the annualized GBM inputs derived from a HistoricalSeries.
type CalibratedParameters struct {
	Mu        float64
	Sigma     float64
	LastPrice float64

	// Observations is the number of log returns the estimate is based on.
	Observations int
}

// PathEnsemble stores simulated trajectories row-major: NumPaths rows of NumDays+1 prices.
type PathEnsemble struct {
	NumPaths int
	NumDays  int
	Prices   []float64
}

// NewPathEnsemble allocates a zeroed ensemble.
func NewPathEnsemble(numPaths, numDays int) *PathEnsemble {
	return &PathEnsemble{
		NumPaths: numPaths,
		NumDays:  numDays,
		Prices:   make([]float64, numPaths*(numDays+1)),
	}
}

// Width is the number of columns per path, day 0 included.
func (e *PathEnsemble) Width() int { return e.NumDays + 1 }

// At returns the price of path p on day t.
func (e *PathEnsemble) At(p, t int) float64 {
	return e.Prices[p*e.Width()+t]
}

// Path returns a view of path p. Callers must not modify it.
func (e *PathEnsemble) Path(p int) []float64 {
	w := e.Width()
	return e.Prices[p*w : (p+1)*w : (p+1)*w]
}

// Column copies the prices of every path on day t into dst and returns it.
// dst is grown when it is too small.
func (e *PathEnsemble) Column(t int, dst []float64) []float64 {
	if cap(dst) < e.NumPaths {
		dst = make([]float64, e.NumPaths)
	}
	dst = dst[:e.NumPaths]
	w := e.Width()
	for p := 0; p < e.NumPaths; p++ {
		dst[p] = e.Prices[p*w+t]
	}
	return dst
}

// DayStat is the percentile summary of one forecast day.
type DayStat struct {
	Day    int
	Median float64
	Lower  float64 // 2.5th percentile
	Upper  float64 // 97.5th percentile
}

// ForecastSummary holds one DayStat per day, day 0 (the anchor) first.
type ForecastSummary []DayStat

// Forecast is the result of one forecast run for a single asset.
type Forecast struct {
	Symbol      string
	Params      CalibratedParameters
	Summary     ForecastSummary
	HorizonDays int
	NumPaths    int
	Seed        uint64
	Start       time.Time
	End         time.Time
	GeneratedAt time.Time
}

// Final returns the summary of the last forecast day.
func (f *Forecast) Final() DayStat {
	if len(f.Summary) == 0 {
		return DayStat{}
	}
	return f.Summary[len(f.Summary)-1]
}

package forecast

import (
	"math"
	"slices"

	"CryptoForecast/internal/calculator"
	"CryptoForecast/internal/model"
)

// Percentiles reported for every forecast day.
const (
	LowerPercentile  = 2.5
	MedianPercentile = 50.0
	UpperPercentile  = 97.5
)

// Summarize reduces an ensemble to a median and 95% band per day, day 0 first.
// Percentiles interpolate linearly between order statistics
// (see calculator.PercentileSorted).
func Summarize(ens *model.PathEnsemble) (model.ForecastSummary, error) {
	if ens == nil {
		return nil, invalidf("ensemble is nil")
	}
	if ens.NumPaths < 1 || ens.NumDays < 0 {
		return nil, invalidf("ensemble has %d paths and %d days", ens.NumPaths, ens.NumDays)
	}
	if len(ens.Prices) != ens.NumPaths*ens.Width() {
		return nil, invalidf("ensemble holds %d prices, want %d", len(ens.Prices), ens.NumPaths*ens.Width())
	}

	summary := make(model.ForecastSummary, 0, ens.Width())
	col := make([]float64, ens.NumPaths)
	for t := 0; t < ens.Width(); t++ {
		col = ens.Column(t, col)
		for _, v := range col {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, invalidf("ensemble day %d contains %v", t, v)
			}
		}
		slices.Sort(col)

		stat := model.DayStat{Day: t}
		var err error
		if stat.Lower, err = calculator.PercentileSorted(col, LowerPercentile); err != nil {
			return nil, invalidf("day %d: %v", t, err)
		}
		if stat.Median, err = calculator.PercentileSorted(col, MedianPercentile); err != nil {
			return nil, invalidf("day %d: %v", t, err)
		}
		if stat.Upper, err = calculator.PercentileSorted(col, UpperPercentile); err != nil {
			return nil, invalidf("day %d: %v", t, err)
		}
		summary = append(summary, stat)
	}
	return summary, nil
}

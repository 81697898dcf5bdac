package forecast

import (
	"math"

	"CryptoForecast/internal/calculator"
	"CryptoForecast/internal/model"
)

// TradingDaysPerYear is the annualization factor. Crypto trades every calendar day.
const TradingDaysPerYear = 365.0

// Calibrate estimates annualized drift and volatility from daily log returns.
//
// The series needs at least two strictly positive, finite closes in strictly
// increasing time order. Volatility uses the n-1 sample estimator; with a single
// return it is 0.
func Calibrate(series model.HistoricalSeries) (model.CalibratedParameters, error) {
	if series.Len() < 2 {
		return model.CalibratedParameters{}, invalidf("series %q has %d points, need at least 2", series.Symbol, series.Len())
	}
	for i, p := range series.Points {
		if !(p.Close > 0) || math.IsInf(p.Close, 0) {
			return model.CalibratedParameters{}, invalidf("series %q: price %v at index %d is not strictly positive", series.Symbol, p.Close, i)
		}
		if i > 0 && !p.Time.After(series.Points[i-1].Time) {
			return model.CalibratedParameters{}, invalidf("series %q: timestamp at index %d is not after its predecessor", series.Symbol, i)
		}
	}

	returns, err := calculator.LogReturns(series.Closes())
	if err != nil {
		return model.CalibratedParameters{}, invalidf("series %q: %v", series.Symbol, err)
	}
	mean, std, err := calculator.MeanStdDev(returns)
	if err != nil {
		return model.CalibratedParameters{}, invalidf("series %q: %v", series.Symbol, err)
	}

	return model.CalibratedParameters{
		Mu:           mean * TradingDaysPerYear,
		Sigma:        std * math.Sqrt(TradingDaysPerYear),
		LastPrice:    series.Last().Close,
		Observations: len(returns),
	}, nil
}

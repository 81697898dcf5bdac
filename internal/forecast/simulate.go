package forecast

import (
	"fmt"
	"math"

	"CryptoForecast/internal/model"
)

// MaxEnsembleCells bounds numPaths*(horizonDays+1) for a single simulation.
const MaxEnsembleCells = 1 << 27

// Simulate draws numPaths GBM trajectories of horizonDays daily steps starting at
// params.LastPrice.
//
// Each step uses the exact log-normal update
//
//	S(t) = S(t-1) * exp((mu - sigma^2/2)*dt + sigma*sqrt(dt)*z),  dt = 1/365
//
// with z taken from src. Shocks are consumed path by path, day by day, so the
// result depends only on the sequence src produces.
func Simulate(params model.CalibratedParameters, horizonDays, numPaths int, src RandomSource) (*model.PathEnsemble, error) {
	if horizonDays < 1 {
		return nil, invalidf("horizon must be at least 1 day, got %d", horizonDays)
	}
	if numPaths < 1 {
		return nil, invalidf("path count must be at least 1, got %d", numPaths)
	}
	if numPaths > MaxEnsembleCells/(horizonDays+1) {
		return nil, invalidf("%d paths x %d days exceeds %d cells", numPaths, horizonDays+1, MaxEnsembleCells)
	}
	if src == nil {
		return nil, invalidf("random source is nil")
	}
	if !(params.LastPrice > 0) || math.IsInf(params.LastPrice, 0) {
		return nil, invalidf("last price %v is not strictly positive", params.LastPrice)
	}
	if math.IsNaN(params.Mu) || math.IsInf(params.Mu, 0) {
		return nil, invalidf("drift %v is not finite", params.Mu)
	}
	if !(params.Sigma >= 0) || math.IsInf(params.Sigma, 0) {
		return nil, invalidf("volatility %v is not a finite non-negative value", params.Sigma)
	}

	dt := 1.0 / TradingDaysPerYear
	drift := (params.Mu - 0.5*params.Sigma*params.Sigma) * dt
	diffusion := params.Sigma * math.Sqrt(dt)

	ens := model.NewPathEnsemble(numPaths, horizonDays)
	w := ens.Width()
	for p := 0; p < numPaths; p++ {
		row := ens.Prices[p*w : (p+1)*w]
		row[0] = params.LastPrice
		for t := 1; t < w; t++ {
			price := row[t-1] * math.Exp(drift+diffusion*src.NormFloat64())
			if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
				return nil, fmt.Errorf("%w: path %d day %d produced %v", ErrNumericOverflow, p, t, price)
			}
			row[t] = price
		}
	}
	return ens, nil
}

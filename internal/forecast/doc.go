// Package forecast turns a daily price history into a Monte Carlo price forecast.
//
// The pipeline has three pure stages:
//
//	Calibrate  HistoricalSeries -> CalibratedParameters (annualized mu, sigma, last price)
//	Simulate   CalibratedParameters -> PathEnsemble (geometric Brownian motion paths)
//	Summarize  PathEnsemble -> ForecastSummary (median and 2.5/97.5 percentile band per day)
//
// Returns and volatility are annualized with 365 days per year and simulated with a
// one-day step of 1/365, since crypto markets trade every calendar day.
//
// Nothing in this package performs I/O, logs, or reads global state. Randomness is
// supplied by the caller through a RandomSource, so a seeded or recorded source gives
// bit-identical ensembles.
package forecast

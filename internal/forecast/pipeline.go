package forecast

import (
	"CryptoForecast/internal/model"
)

// Defaults used when Options leaves a field at zero.
const (
	DefaultHorizonDays = 30
	DefaultNumPaths    = 10000
)

// Options controls a single forecast run.
type Options struct {
	HorizonDays int
	NumPaths    int
}

func (o Options) withDefaults() Options {
	if o.HorizonDays == 0 {
		o.HorizonDays = DefaultHorizonDays
	}
	if o.NumPaths == 0 {
		o.NumPaths = DefaultNumPaths
	}
	return o
}

// Run calibrates, simulates and summarizes one asset. The ensemble is dropped
// once summarized; only the summary is returned.
func Run(series model.HistoricalSeries, opts Options, src RandomSource) (*model.Forecast, error) {
	opts = opts.withDefaults()

	params, err := Calibrate(series)
	if err != nil {
		return nil, err
	}
	ens, err := Simulate(params, opts.HorizonDays, opts.NumPaths, src)
	if err != nil {
		return nil, err
	}
	summary, err := Summarize(ens)
	if err != nil {
		return nil, err
	}

	return &model.Forecast{
		Symbol:      series.Symbol,
		Params:      params,
		Summary:     summary,
		HorizonDays: opts.HorizonDays,
		NumPaths:    opts.NumPaths,
		Start:       series.Points[0].Time,
		End:         series.Last().Time,
	}, nil
}

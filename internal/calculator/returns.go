package calculator

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// LogReturns computes ln(p[i]/p[i-1]) for each consecutive pair of prices.
func LogReturns(prices []float64) ([]float64, error) {
	if len(prices) < 2 {
		return nil, errors.New("not enough prices for return calculation")
	}
	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev, cur := prices[i-1], prices[i]
		if !(prev > 0) || !(cur > 0) {
			return nil, fmt.Errorf("non-positive price at index %d", i)
		}
		returns[i-1] = math.Log(cur / prev)
	}
	return returns, nil
}

// MeanStdDev returns the sample mean and the unbiased (n-1) sample standard deviation.
// A single observation has a standard deviation of 0.
func MeanStdDev(x []float64) (mean, std float64, err error) {
	switch len(x) {
	case 0:
		return 0, 0, errors.New("no observations")
	case 1:
		return x[0], 0, nil
	}
	mean, std = stat.MeanStdDev(x, nil)
	return mean, std, nil
}

package report

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// summary holds the descriptive statistics shown for one variable.
type summary struct {
	N      int
	Mean   float64
	SD     float64
	Min    float64
	P25    float64
	Median float64
	P75    float64
	Max    float64
}

func summarise(values []float64) summary {
	if len(values) == 0 {
		return summary{}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	return summary{
		N:      len(sorted),
		Mean:   stat.Mean(sorted, nil),
		SD:     stat.StdDev(sorted, nil),
		Min:    sorted[0],
		P25:    stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P75:    stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Max:    sorted[len(sorted)-1],
	}
}

// quantile returns the p-th empirical quantile of values.
func quantile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// centralBand keeps the values between the 10th and 90th percentiles. The
// activity variables are strongly right-skewed, so tables and regressions are
// reported both on the full sample and on this central 80 percent band.
func centralBand(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	lo := quantile(values, 0.1)
	hi := quantile(values, 0.9)

	kept := make([]float64, 0, len(values))
	for _, v := range values {
		if v >= lo && v <= hi {
			kept = append(kept, v)
		}
	}
	return kept
}

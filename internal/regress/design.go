// Package regress fits the study's regression models on the stored panel:
// pooled OLS of activity outcomes on census covariates with quarter fixed
// effects, probit models of desert status, and the difference-in-differences
// specification of the LASPO reforms' impact. All standard errors are
// clustered by local authority.
package regress

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"lapanel.civiljustice.org.uk/paneldb"
)

// Term binds a regressor name to its value on a panel row.
type Term struct {
	Name  string
	Value func(paneldb.PanelRow) float64
}

// The census covariates shared by every model.
func censusTerms() []Term {
	return []Term{
		{"log_residents_total", func(r paneldb.PanelRow) float64 { return r.LogResidents }},
		{"prop_eth_white", func(r paneldb.PanelRow) float64 { return r.PropEthWhite }},
		{"prop_hh_owned", func(r paneldb.PanelRow) float64 { return r.PropOwned }},
		{"unemployment_rate", func(r paneldb.PanelRow) float64 { return r.UnemploymentRate }},
	}
}

// Frame is a fitted-ready design: outcome vector, regressor matrix with an
// intercept and quarter dummies, and the cluster id of each observation.
type Frame struct {
	Y        []float64
	X        *mat.Dense
	Names    []string
	Clusters []string
}

// NewFrame assembles the design matrix: intercept, the given terms in order,
// then quarter dummies with the earliest quarter as the reference category.
func NewFrame(rows []paneldb.PanelRow, outcome Term, terms []Term) (*Frame, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no observations for outcome %s", outcome.Name)
	}

	quarterSet := make(map[string]struct{})
	for _, r := range rows {
		quarterSet[r.YearQuarter] = struct{}{}
	}
	quarters := make([]string, 0, len(quarterSet))
	for q := range quarterSet {
		quarters = append(quarters, q)
	}
	sort.Strings(quarters)

	// Reference category is the first quarter
	feQuarters := quarters[1:]
	feIndex := make(map[string]int, len(feQuarters))
	for i, q := range feQuarters {
		feIndex[q] = i
	}

	names := make([]string, 0, 1+len(terms)+len(feQuarters))
	names = append(names, "Intercept")
	for _, t := range terms {
		names = append(names, t.Name)
	}
	for _, q := range feQuarters {
		names = append(names, "quarter_"+q)
	}

	k := len(names)
	if len(rows) <= k {
		return nil, fmt.Errorf("outcome %s: %d observations for %d regressors", outcome.Name, len(rows), k)
	}

	y := make([]float64, len(rows))
	x := mat.NewDense(len(rows), k, nil)
	clusters := make([]string, len(rows))

	for i, r := range rows {
		y[i] = outcome.Value(r)
		clusters[i] = r.LACode

		x.Set(i, 0, 1)
		for j, t := range terms {
			x.Set(i, 1+j, t.Value(r))
		}
		if fe, ok := feIndex[r.YearQuarter]; ok {
			x.Set(i, 1+len(terms)+fe, 1)
		}
	}

	return &Frame{Y: y, X: x, Names: names, Clusters: clusters}, nil
}

// trimToCentralBand keeps rows whose outcome lies between its 10th and 90th
// percentiles, the central 80 percent of the distribution.
func trimToCentralBand(rows []paneldb.PanelRow, outcome Term) []paneldb.PanelRow {
	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = outcome.Value(r)
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	lo := sorted[int(0.1*float64(len(sorted)-1))]
	hi := sorted[int(0.9*float64(len(sorted)-1))]

	kept := make([]paneldb.PanelRow, 0, len(rows))
	for i, r := range rows {
		if values[i] >= lo && values[i] <= hi {
			kept = append(kept, r)
		}
	}
	return kept
}

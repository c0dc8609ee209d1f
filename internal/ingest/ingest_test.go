package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lapanel.civiljustice.org.uk/internal/models"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadLADLookup(t *testing.T) {
	t.Run("filters to England and Wales and deduplicates", func(t *testing.T) {
		path := writeCSV(t, "lookup.csv",
			"LAD22CD,LAD22NM,LAD23CD,LAD23NM\n"+
				"E07000026,Allerdale,E06000063,Cumberland\n"+
				"E07000028,Carlisle,E06000063,Cumberland\n"+
				"W06000001,Isle of Anglesey,W06000001,Isle of Anglesey\n"+
				"S12000033,Aberdeen City,S12000033,Aberdeen City\n")

		lookup, err := LoadLADLookup(path, nil)
		require.NoError(t, err)

		assert.Len(t, lookup, 2)
		assert.Equal(t, "Cumberland", lookup["E06000063"].Name)
		assert.Equal(t, "Isle of Anglesey", lookup["W06000001"].Name)
		assert.NotContains(t, lookup, "S12000033")
	})

	t.Run("missing column is fatal", func(t *testing.T) {
		path := writeCSV(t, "lookup.csv", "LAD23CD\nE06000063\n")

		_, err := LoadLADLookup(path, nil)
		assert.ErrorContains(t, err, "LAD23NM")
	})

	t.Run("sorted codes are ascending", func(t *testing.T) {
		lookup := map[string]models.LocalAuthority{
			"W06000001": {Code: "W06000001"},
			"E06000063": {Code: "E06000063"},
			"E09000001": {Code: "E09000001"},
		}

		assert.Equal(t, []string{"E06000063", "E09000001", "W06000001"}, SortedLACodes(lookup))
	})
}

func TestLoadCrosswalk(t *testing.T) {
	t.Run("maps old codes to new", func(t *testing.T) {
		path := writeCSV(t, "converter.csv",
			"Old,New\nE07000026,E06000063\nE07000028,E06000063\n")

		crosswalk, err := LoadCrosswalk(path, nil)
		require.NoError(t, err)

		assert.Equal(t, map[string]string{
			"E07000026": "E06000063",
			"E07000028": "E06000063",
		}, crosswalk)
	})

	t.Run("conflicting mapping is fatal", func(t *testing.T) {
		path := writeCSV(t, "converter.csv",
			"Old,New\nE07000026,E06000063\nE07000026,E06000064\n")

		_, err := LoadCrosswalk(path, nil)
		assert.ErrorContains(t, err, "maps to both")
	})
}

func TestLoadProviderCompletions(t *testing.T) {
	lookup := map[string]models.LocalAuthority{
		"E06000063": {Code: "E06000063", Name: "Cumberland"},
		"E09000001": {Code: "E09000001", Name: "City of London"},
	}
	crosswalk := map[string]string{"E07000026": "E06000063"}

	header := "Fin_YR,FIN_QTR,LACode,firm_code,VOL,Total Value\n"

	t.Run("converts financial quarters to calendar quarters", func(t *testing.T) {
		path := writeCSV(t, "providers.csv", header+
			"2012-13,1,E09000001,F1,5,1000\n"+
			"2012-13,4,E09000001,F1,3,600\n")

		records, err := LoadProviderCompletions(path, crosswalk, lookup, nil)
		require.NoError(t, err)
		require.Len(t, records, 2)

		// Financial Q1 of 2012-13 is calendar 2012-q2
		assert.Equal(t, models.Quarter{Year: 2012, Q: 2}, records[0].Quarter)
		// Financial Q4 of 2012-13 falls in calendar 2013
		assert.Equal(t, models.Quarter{Year: 2013, Q: 1}, records[1].Quarter)
	})

	t.Run("normalises superseded codes via the crosswalk", func(t *testing.T) {
		path := writeCSV(t, "providers.csv", header+
			"2015-16,2,E07000026,F2,7,1400\n")

		records, err := LoadProviderCompletions(path, crosswalk, lookup, nil)
		require.NoError(t, err)
		require.Len(t, records, 1)

		assert.Equal(t, "E06000063", records[0].LACode)
	})

	t.Run("drops rows outside England and Wales", func(t *testing.T) {
		path := writeCSV(t, "providers.csv", header+
			"2015-16,2,S12000033,F3,4,800\n"+
			"2015-16,2,E09000001,F3,2,400\n")

		records, err := LoadProviderCompletions(path, crosswalk, lookup, nil)
		require.NoError(t, err)

		require.Len(t, records, 1)
		assert.Equal(t, "E09000001", records[0].LACode)
	})

	t.Run("unknown English code is fatal", func(t *testing.T) {
		path := writeCSV(t, "providers.csv", header+
			"2015-16,2,E99999999,F4,1,200\n")

		_, err := LoadProviderCompletions(path, crosswalk, lookup, nil)
		assert.ErrorContains(t, err, "not in district lookup")
	})

	t.Run("unparseable value counts as zero", func(t *testing.T) {
		path := writeCSV(t, "providers.csv", header+
			"2015-16,2,E09000001,F5,1,suppressed\n")

		records, err := LoadProviderCompletions(path, crosswalk, lookup, nil)
		require.NoError(t, err)
		require.Len(t, records, 1)

		assert.Zero(t, records[0].Value)
		assert.Equal(t, 1, records[0].Volume)
	})

	t.Run("invalid volume is fatal", func(t *testing.T) {
		path := writeCSV(t, "providers.csv", header+
			"2015-16,2,E09000001,F6,n/a,200\n")

		_, err := LoadProviderCompletions(path, crosswalk, lookup, nil)
		assert.ErrorContains(t, err, "invalid VOL")
	})
}

func TestLoadCensusTables(t *testing.T) {
	crosswalk := map[string]string{"E07000026": "E06000063", "E07000028": "E06000063"}

	t.Run("population sums rows collapsing onto one current code", func(t *testing.T) {
		path := writeCSV(t, "population.csv",
			"geography code,"+
				"Variable: All usual residents; measures: Value,"+
				"Variable: Males; measures: Value,"+
				"Variable: Females; measures: Value,"+
				"Variable: Lives in a household; measures: Value,"+
				"Variable: Lives in a communal establishment; measures: Value\n"+
				"E07000026,100,48,52,95,5\n"+
				"E07000028,200,99,101,190,10\n")

		pop, err := LoadPopulation(path, crosswalk, nil)
		require.NoError(t, err)

		require.Len(t, pop, 1)
		merged := pop["E06000063"]
		assert.Equal(t, 300.0, merged.ResidentsTotal)
		assert.Equal(t, 147.0, merged.MalesTotal)
		assert.Equal(t, 15.0, merged.CommunalDweller)
	})

	t.Run("age groupings cover all bands", func(t *testing.T) {
		header := "geography code"
		for _, c := range ageCols {
			header += "," + c
		}
		row := "E09000001"
		for range ageCols {
			row += ",10"
		}
		path := writeCSV(t, "ages.csv", header+"\n"+row+"\n")

		ages, err := LoadAges(path, nil, nil)
		require.NoError(t, err)

		a := ages["E09000001"]
		assert.Equal(t, 80.0, a.WorkingAge) // 8 bands from 16-17 to 65-74
		assert.Equal(t, 50.0, a.Children)   // 5 bands from 0-4 to 15
		assert.Equal(t, 30.0, a.Pensioner)  // 3 bands from 75-84 up
		assert.Equal(t, 160.0, a.WorkingAge+a.Children+a.Pensioner)
	})

	t.Run("unemployment rate is unemployed over active", func(t *testing.T) {
		header := "geography code"
		for _, c := range economicCols {
			header += "," + c
		}
		values := []string{"200", "150", "40", "90", "15", "20", "5", "80",
			"30", "10", "15", "15", "10", "8", "4", "3", "6"}
		row := "E09000001"
		for _, v := range values {
			row += "," + v
		}
		path := writeCSV(t, "economic.csv", header+"\n"+row+"\n")

		econ, err := LoadEconomicActivity(path, nil, nil)
		require.NoError(t, err)

		e := econ["E09000001"]
		assert.InDelta(t, 0.1, e.UnemploymentRate, 1e-12)
	})

	t.Run("tenure proportions are relative to all households", func(t *testing.T) {
		header := "geography code"
		for _, c := range tenureCols {
			header += "," + c
		}
		values := []string{"1000", "600", "350", "250", "20", "200", "120", "80",
			"150", "130", "20", "30"}
		row := "E09000001"
		for _, v := range values {
			row += "," + v
		}
		path := writeCSV(t, "tenure.csv", header+"\n"+row+"\n")

		tenure, err := LoadTenure(path, nil, nil)
		require.NoError(t, err)

		tn := tenure["E09000001"]
		assert.InDelta(t, 0.6, tn.PropOwned, 1e-12)
		assert.InDelta(t, 0.2, tn.PropSocialRented, 1e-12)
		assert.InDelta(t, 0.15, tn.PropPrivateRented, 1e-12)
		assert.InDelta(t, 0.35, tn.PropRented, 1e-12)
	})

	t.Run("ethnicity proportions sum to one", func(t *testing.T) {
		header := "geography code"
		for _, c := range ethnicityCols {
			header += "," + c
		}
		values := []string{"1000", "700", "600", "40", "10", "50",
			"50", "15", "10", "15", "10",
			"150", "50", "40", "20", "20", "20",
			"60", "25", "25", "10",
			"40", "25", "15"}
		row := "E09000001"
		for _, v := range values {
			row += "," + v
		}
		path := writeCSV(t, "ethnicity.csv", header+"\n"+row+"\n")

		eth, err := LoadEthnicity(path, nil, nil)
		require.NoError(t, err)

		e := eth["E09000001"]
		assert.InDelta(t, 1.0, e.PropWhite+e.PropMixed+e.PropAsian+e.PropBlack+e.PropOther, 1e-12)
		assert.InDelta(t, 0.7, e.PropWhite, 1e-12)
	})

	t.Run("schema drift is fatal", func(t *testing.T) {
		path := writeCSV(t, "population.csv", "geography code,unexpected\nE09000001,1\n")

		_, err := LoadPopulation(path, nil, nil)
		assert.ErrorContains(t, err, "missing required column")
	})
}

func TestLoadInflation(t *testing.T) {
	t.Run("stores the reciprocal of the multiplier", func(t *testing.T) {
		// index_15 is a real-terms multiplier; the loader stores the
		// deflator that divides nominal values, so a 2010 quarter with a
		// multiplier of 1.25 yields a divisor of 0.8
		path := writeCSV(t, "inflation.csv",
			"year_quarter,index_15\n2010-q2,1.25\n2015-q1,1.0\n")

		index, err := LoadInflation(path, nil)
		require.NoError(t, err)

		assert.InDelta(t, 0.8, index[models.Quarter{Year: 2010, Q: 2}], 1e-12)
		assert.InDelta(t, 1.0, index[models.Quarter{Year: 2015, Q: 1}], 1e-12)
	})

	t.Run("duplicate quarter is fatal", func(t *testing.T) {
		path := writeCSV(t, "inflation.csv",
			"year_quarter,index_15\n2012-q4,0.934\n2012-q4,0.935\n")

		_, err := LoadInflation(path, nil)
		assert.ErrorContains(t, err, "duplicate quarter")
	})

	t.Run("non-positive index is fatal", func(t *testing.T) {
		path := writeCSV(t, "inflation.csv", "year_quarter,index_15\n2012-q4,0\n")

		_, err := LoadInflation(path, nil)
		assert.ErrorContains(t, err, "must be positive")
	})
}

func TestLoadRuralUrban(t *testing.T) {
	path := writeCSV(t, "rural.csv",
		"LAD23CD,rural_name,rural_code\n"+
			"E06000063,Rural,R80\n"+
			"E09000001,Urban,U1\n")

	rural, err := LoadRuralUrban(path, nil)
	require.NoError(t, err)

	assert.True(t, rural["E06000063"])
	assert.False(t, rural["E09000001"])
}

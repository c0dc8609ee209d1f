package paneldb

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lapanel.civiljustice.org.uk/internal/appconf"
	"lapanel.civiljustice.org.uk/internal/ingest"
	"lapanel.civiljustice.org.uk/internal/logging"
	"lapanel.civiljustice.org.uk/internal/models"
	"lapanel.civiljustice.org.uk/internal/panel"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(NewConfig(":memory:", appconf.Test, false, nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func testPanel(t *testing.T) []panel.Row {
	t.Helper()

	lookup := map[string]models.LocalAuthority{
		"E06000001": {Code: "E06000001", Name: "Hartlepool"},
		"W06000001": {Code: "W06000001", Name: "Isle of Anglesey"},
	}
	profiles := map[string]*panel.CensusProfile{
		"E06000001": {
			Population: ingest.Population{ResidentsTotal: 92000},
			Ages:       ingest.AgeBands{WorkingAge: 60000},
		},
		"W06000001": {
			Population: ingest.Population{ResidentsTotal: 70000},
			Ages:       ingest.AgeBands{WorkingAge: 45000},
		},
	}

	records := []ingest.ProviderRecord{
		{Quarter: models.RebaseQuarter, LACode: "E06000001", FirmCode: "F1", Volume: 10, Value: 2000},
		{Quarter: models.Quarter{Year: 2015, Q: 2}, LACode: "E06000001", FirmCode: "F1", Volume: 5, Value: 900},
	}

	rows, err := panel.Build(records, lookup, profiles, nil)
	require.NoError(t, err)

	inflation := make(map[models.Quarter]float64)
	for _, q := range models.QuarterRange(models.PanelStart, models.PanelEnd) {
		inflation[q] = 1.0
	}
	rural := map[string]bool{"E06000001": false, "W06000001": true}
	require.NoError(t, panel.Derive(rows, inflation, rural, nil))

	return rows
}

func TestStoreAndLoadPanel(t *testing.T) {
	client := testClient(t)
	rows := testPanel(t)

	require.NoError(t, client.StorePanel(rows))

	loaded, err := client.LoadPanel()
	require.NoError(t, err)
	require.Len(t, loaded, len(rows))

	// Stored order matches built order: quarter-major, then code
	assert.Equal(t, "2010-q1", loaded[0].YearQuarter)
	assert.Equal(t, "E06000001", loaded[0].LACode)
	assert.Equal(t, "W06000001", loaded[1].LACode)

	byKey := make(map[string]PanelRow)
	for _, r := range loaded {
		byKey[r.YearQuarter+"/"+r.LACode] = r
	}

	active := byKey["2012-q4/E06000001"]
	assert.Equal(t, 10, active.LAVolume)
	assert.Equal(t, 2000.0, active.LAValue)
	assert.Equal(t, 1, active.UniqueProviders)
	assert.False(t, active.Desert)
	assert.InDelta(t, 100.0, active.VolumeIndex, 1e-9)

	empty := byKey["2012-q4/W06000001"]
	assert.Zero(t, empty.LAVolume)
	assert.True(t, empty.Desert)
	assert.True(t, empty.EverDesert)
	assert.True(t, empty.Rural)
}

func TestStorePanelReplaces(t *testing.T) {
	client := testClient(t)
	rows := testPanel(t)

	require.NoError(t, client.StorePanel(rows))
	require.NoError(t, client.StorePanel(rows))

	loaded, err := client.LoadPanel()
	require.NoError(t, err)
	assert.Len(t, loaded, len(rows))
}

func TestLoadQuarterSeries(t *testing.T) {
	client := testClient(t)
	require.NoError(t, client.StorePanel(testPanel(t)))

	series, err := client.LoadQuarterSeries()
	require.NoError(t, err)
	require.Len(t, series, 40)

	assert.Equal(t, "2010-q1", series[0].YearQuarter)
	assert.Equal(t, "2019-q4", series[39].YearQuarter)

	for _, q := range series {
		if q.YearQuarter == "2012-q4" {
			assert.Equal(t, 10, q.TotalVolume)
			assert.InDelta(t, 100.0, q.VolumeIndex, 1e-9)
			// One of two districts has no providers
			assert.InDelta(t, 0.5, q.PropZero, 1e-12)
			assert.InDelta(t, 70000.0, q.PopZero, 1e-9)
		}
	}
}

func TestLoadLAAverages(t *testing.T) {
	client := testClient(t)
	require.NoError(t, client.StorePanel(testPanel(t)))

	averages, err := client.LoadLAAverages()
	require.NoError(t, err)
	require.Len(t, averages, 2)

	assert.Equal(t, "E06000001", averages[0].LACode)
	assert.Equal(t, "Hartlepool", averages[0].LAName)
	// 15 case-quarters over 40 quarters
	assert.InDelta(t, 15.0/40.0, averages[0].MeanVolume, 1e-9)
	assert.Equal(t, 38, averages[0].DesertQuarters)

	assert.True(t, averages[1].EverDesert)
	assert.True(t, averages[1].Rural)
	assert.Equal(t, 40, averages[1].DesertQuarters)
}

func TestTestEnvironmentRequiresMemoryDB(t *testing.T) {
	_, err := NewClient(NewConfig("panel.db", appconf.Test, false, nil))
	assert.ErrorContains(t, err, "in-memory")
}

func TestVerboseLogging(t *testing.T) {
	t.Run("verbose client logs table creation and stores", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.NewStructuredLogger(&buf, slog.LevelDebug)

		client, err := NewClient(NewConfig(":memory:", appconf.Test, true, logger))
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })

		require.NoError(t, client.StorePanel(testPanel(t)))

		output := buf.String()
		assert.Contains(t, output, `"msg":"panel table ready"`)
		assert.Contains(t, output, `"msg":"panel stored"`)
		assert.Contains(t, output, `"rows":80`)
	})

	t.Run("quiet client stays silent", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.NewStructuredLogger(&buf, slog.LevelDebug)

		client, err := NewClient(NewConfig(":memory:", appconf.Test, false, logger))
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })

		require.NoError(t, client.StorePanel(testPanel(t)))

		assert.Empty(t, buf.String())
	})
}

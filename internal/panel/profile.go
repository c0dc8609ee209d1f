package panel

import (
	"fmt"
	"log/slog"

	"lapanel.civiljustice.org.uk/internal/ingest"
	"lapanel.civiljustice.org.uk/internal/models"
)

// CensusProfile bundles the time-invariant 2011 census covariates for one
// local authority. One profile is shared by all forty quarters of its
// district.
type CensusProfile struct {
	Population ingest.Population
	Ages       ingest.AgeBands
	Economic   ingest.EconomicActivity
	Tenure     ingest.Tenure
	Ethnicity  ingest.Ethnicity
}

// CensusTables carries the five loaded census tables into profile assembly.
type CensusTables struct {
	Population map[string]ingest.Population
	Ages       map[string]ingest.AgeBands
	Economic   map[string]ingest.EconomicActivity
	Tenure     map[string]ingest.Tenure
	Ethnicity  map[string]ingest.Ethnicity
}

// BuildProfiles assembles a census profile for every district in the lookup.
// A district absent from any census table means the code reconciliation has
// failed, which is fatal.
func BuildProfiles(lookup map[string]models.LocalAuthority, tables CensusTables, logger *slog.Logger) (map[string]*CensusProfile, error) {
	profiles := make(map[string]*CensusProfile, len(lookup))
	for code := range lookup {
		pop, ok := tables.Population[code]
		if !ok {
			return nil, fmt.Errorf("census population table missing local authority %s", code)
		}
		ages, ok := tables.Ages[code]
		if !ok {
			return nil, fmt.Errorf("census age table missing local authority %s", code)
		}
		econ, ok := tables.Economic[code]
		if !ok {
			return nil, fmt.Errorf("census economic activity table missing local authority %s", code)
		}
		tenure, ok := tables.Tenure[code]
		if !ok {
			return nil, fmt.Errorf("census tenure table missing local authority %s", code)
		}
		eth, ok := tables.Ethnicity[code]
		if !ok {
			return nil, fmt.Errorf("census ethnicity table missing local authority %s", code)
		}

		profiles[code] = &CensusProfile{
			Population: pop,
			Ages:       ages,
			Economic:   econ,
			Tenure:     tenure,
			Ethnicity:  eth,
		}
	}

	if logger != nil {
		logger.Info("census profiles assembled", slog.Int("districts", len(profiles)))
	}

	return profiles, nil
}

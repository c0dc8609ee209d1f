package panel

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"lapanel.civiljustice.org.uk/internal/logging"
)

// column binds one output column name to its extractor. The schema below is
// fixed: downstream analysis reads the panel positionally as well as by name.
type column struct {
	name  string
	value func(Row) string
}

func intCol(name string, f func(Row) int) column {
	return column{name: name, value: func(r Row) string { return strconv.Itoa(f(r)) }}
}

func floatCol(name string, f func(Row) float64) column {
	return column{name: name, value: func(r Row) string {
		return strconv.FormatFloat(f(r), 'f', -1, 64)
	}}
}

func boolCol(name string, f func(Row) bool) column {
	return column{name: name, value: func(r Row) string {
		if f(r) {
			return "1"
		}
		return "0"
	}}
}

// columns is the full panel schema in output order.
var columns = []column{
	{name: "year_quarter", value: func(r Row) string { return r.Quarter.String() }},
	{name: "lacode", value: func(r Row) string { return r.LACode }},
	intCol("la_total_volume", func(r Row) int { return r.LAVolume }),
	floatCol("la_total_value", func(r Row) float64 { return r.LAValue }),
	intCol("unique_providers", func(r Row) int { return r.UniqueProviders }),
	{name: "localauthority", value: func(r Row) string { return r.LAName }},
	intCol("total_volume", func(r Row) int { return r.TotalVolume }),
	floatCol("total_value", func(r Row) float64 { return r.TotalValue }),
	intCol("total_unique_providers", func(r Row) int { return r.TotalUniqueProviders }),

	floatCol("residents_total", func(r Row) float64 { return r.Census.Population.ResidentsTotal }),
	floatCol("males_total", func(r Row) float64 { return r.Census.Population.MalesTotal }),
	floatCol("females_total", func(r Row) float64 { return r.Census.Population.FemalesTotal }),
	floatCol("household_dwellers", func(r Row) float64 { return r.Census.Population.HouseholdDweller }),
	floatCol("communal_dwellers", func(r Row) float64 { return r.Census.Population.CommunalDweller }),

	floatCol("total_0_4", func(r Row) float64 { return r.Census.Ages.Total0_4 }),
	floatCol("total_5_7", func(r Row) float64 { return r.Census.Ages.Total5_7 }),
	floatCol("total_8_9", func(r Row) float64 { return r.Census.Ages.Total8_9 }),
	floatCol("total_10_14", func(r Row) float64 { return r.Census.Ages.Total10_14 }),
	floatCol("total_15", func(r Row) float64 { return r.Census.Ages.Total15 }),
	floatCol("total_16_17", func(r Row) float64 { return r.Census.Ages.Total16_17 }),
	floatCol("total_18_19", func(r Row) float64 { return r.Census.Ages.Total18_19 }),
	floatCol("total_20_24", func(r Row) float64 { return r.Census.Ages.Total20_24 }),
	floatCol("total_25_29", func(r Row) float64 { return r.Census.Ages.Total25_29 }),
	floatCol("total_30_44", func(r Row) float64 { return r.Census.Ages.Total30_44 }),
	floatCol("total_45_59", func(r Row) float64 { return r.Census.Ages.Total45_59 }),
	floatCol("total_60_64", func(r Row) float64 { return r.Census.Ages.Total60_64 }),
	floatCol("total_65_74", func(r Row) float64 { return r.Census.Ages.Total65_74 }),
	floatCol("total_75_84", func(r Row) float64 { return r.Census.Ages.Total75_84 }),
	floatCol("total_85_89", func(r Row) float64 { return r.Census.Ages.Total85_89 }),
	floatCol("total_90_over", func(r Row) float64 { return r.Census.Ages.Total90Over }),

	floatCol("working_age", func(r Row) float64 { return r.Census.Ages.WorkingAge }),
	floatCol("children", func(r Row) float64 { return r.Census.Ages.Children }),
	floatCol("pensioner", func(r Row) float64 { return r.Census.Ages.Pensioner }),

	floatCol("econ_active", func(r Row) float64 { return r.Census.Economic.EconActive }),
	floatCol("a_employed", func(r Row) float64 { return r.Census.Economic.Employed }),
	floatCol("a_part_time", func(r Row) float64 { return r.Census.Economic.PartTime }),
	floatCol("a_full_time", func(r Row) float64 { return r.Census.Economic.FullTime }),
	floatCol("a_self_employed", func(r Row) float64 { return r.Census.Economic.SelfEmployed }),
	floatCol("a_unemployed", func(r Row) float64 { return r.Census.Economic.Unemployed }),
	floatCol("a_student", func(r Row) float64 { return r.Census.Economic.Student }),
	floatCol("econ_inactive", func(r Row) float64 { return r.Census.Economic.EconInactive }),
	floatCol("ia_retired", func(r Row) float64 { return r.Census.Economic.InactiveRetired }),
	floatCol("ia_student", func(r Row) float64 { return r.Census.Economic.InactiveStudent }),
	floatCol("ia_carer", func(r Row) float64 { return r.Census.Economic.InactiveCarer }),
	floatCol("ia_sick_disb", func(r Row) float64 { return r.Census.Economic.InactiveSickDisb }),
	floatCol("ina_other", func(r Row) float64 { return r.Census.Economic.InactiveOther }),
	floatCol("unemployed_16_24", func(r Row) float64 { return r.Census.Economic.Unemployed16_24 }),
	floatCol("unemployed_50_74", func(r Row) float64 { return r.Census.Economic.Unemployed50_74 }),
	floatCol("unemployed_forever", func(r Row) float64 { return r.Census.Economic.UnemployedForever }),
	floatCol("unemployed_lt", func(r Row) float64 { return r.Census.Economic.UnemployedLT }),

	floatCol("unemployment_rate", func(r Row) float64 { return r.Census.Economic.UnemploymentRate }),

	floatCol("households", func(r Row) float64 { return r.Census.Tenure.Households }),
	floatCol("hh_owned", func(r Row) float64 { return r.Census.Tenure.Owned }),
	floatCol("hh_owned_outright", func(r Row) float64 { return r.Census.Tenure.OwnedOutright }),
	floatCol("hh_owned_mortgaged", func(r Row) float64 { return r.Census.Tenure.OwnedMortgaged }),
	floatCol("hh_shared_own", func(r Row) float64 { return r.Census.Tenure.SharedOwnership }),
	floatCol("hh_social_rented", func(r Row) float64 { return r.Census.Tenure.SocialRented }),
	floatCol("hh_social_rented_council", func(r Row) float64 { return r.Census.Tenure.SocialRentedCouncil }),
	floatCol("hh_social_rented_other", func(r Row) float64 { return r.Census.Tenure.SocialRentedOther }),
	floatCol("hh_private_rented", func(r Row) float64 { return r.Census.Tenure.PrivateRented }),
	floatCol("hh_private_rented_landlord", func(r Row) float64 { return r.Census.Tenure.PrivateRentedLandlord }),
	floatCol("hh_private_rented_other", func(r Row) float64 { return r.Census.Tenure.PrivateRentedOther }),
	floatCol("hh_rent_free", func(r Row) float64 { return r.Census.Tenure.RentFree }),

	floatCol("prop_hh_owned", func(r Row) float64 { return r.Census.Tenure.PropOwned }),
	floatCol("prop_hh_social_rented", func(r Row) float64 { return r.Census.Tenure.PropSocialRented }),
	floatCol("prop_hh_private_rented", func(r Row) float64 { return r.Census.Tenure.PropPrivateRented }),
	floatCol("prop_hh_rented", func(r Row) float64 { return r.Census.Tenure.PropRented }),

	floatCol("residents", func(r Row) float64 { return r.Census.Ethnicity.Residents }),
	floatCol("eth_white", func(r Row) float64 { return r.Census.Ethnicity.White }),
	floatCol("eth_white_brit", func(r Row) float64 { return r.Census.Ethnicity.WhiteBrit }),
	floatCol("eth_white_irish", func(r Row) float64 { return r.Census.Ethnicity.WhiteIrish }),
	floatCol("eth_white_trav", func(r Row) float64 { return r.Census.Ethnicity.WhiteTrav }),
	floatCol("eth_white_other", func(r Row) float64 { return r.Census.Ethnicity.WhiteOther }),
	floatCol("eth_mixed", func(r Row) float64 { return r.Census.Ethnicity.Mixed }),
	floatCol("eth_mixed_carrib", func(r Row) float64 { return r.Census.Ethnicity.MixedCarrib }),
	floatCol("eth_mixed_afr", func(r Row) float64 { return r.Census.Ethnicity.MixedAfr }),
	floatCol("eth_mixed_asian", func(r Row) float64 { return r.Census.Ethnicity.MixedAsian }),
	floatCol("eth_mixed_other", func(r Row) float64 { return r.Census.Ethnicity.MixedOther }),
	floatCol("eth_asian", func(r Row) float64 { return r.Census.Ethnicity.Asian }),
	floatCol("eth_asian_ind", func(r Row) float64 { return r.Census.Ethnicity.AsianInd }),
	floatCol("eth_asian_pak", func(r Row) float64 { return r.Census.Ethnicity.AsianPak }),
	floatCol("eth_asian_bang", func(r Row) float64 { return r.Census.Ethnicity.AsianBang }),
	floatCol("eth_asian_chi", func(r Row) float64 { return r.Census.Ethnicity.AsianChi }),
	floatCol("eth_asian_other", func(r Row) float64 { return r.Census.Ethnicity.AsianOther }),
	floatCol("eth_black", func(r Row) float64 { return r.Census.Ethnicity.Black }),
	floatCol("eth_black_afr", func(r Row) float64 { return r.Census.Ethnicity.BlackAfr }),
	floatCol("eth_black_carrib", func(r Row) float64 { return r.Census.Ethnicity.BlackCarrib }),
	floatCol("eth_black_other", func(r Row) float64 { return r.Census.Ethnicity.BlackOther }),
	floatCol("eth_other", func(r Row) float64 { return r.Census.Ethnicity.Other }),
	floatCol("eth_other_arab", func(r Row) float64 { return r.Census.Ethnicity.OtherArab }),
	floatCol("eth_other_other", func(r Row) float64 { return r.Census.Ethnicity.OtherOther }),

	floatCol("prop_eth_white", func(r Row) float64 { return r.Census.Ethnicity.PropWhite }),
	floatCol("prop_eth_mixed", func(r Row) float64 { return r.Census.Ethnicity.PropMixed }),
	floatCol("prop_eth_asian", func(r Row) float64 { return r.Census.Ethnicity.PropAsian }),
	floatCol("prop_eth_black", func(r Row) float64 { return r.Census.Ethnicity.PropBlack }),
	floatCol("prop_eth_other", func(r Row) float64 { return r.Census.Ethnicity.PropOther }),

	floatCol("index_15", func(r Row) float64 { return r.Index15 }),
	floatCol("adjusted_la_total_value", func(r Row) float64 { return r.AdjustedLAValue }),
	floatCol("adjusted_total_value", func(r Row) float64 { return r.AdjustedValue }),
	floatCol("val_vol", func(r Row) float64 { return r.ValVol }),
	floatCol("la_val_vol", func(r Row) float64 { return r.LAValVol }),
	floatCol("volume_index", func(r Row) float64 { return r.VolumeIndex }),
	floatCol("value_index", func(r Row) float64 { return r.ValueIndex }),
	floatCol("cases_index", func(r Row) float64 { return r.CasesIndex }),

	floatCol("log_residents_total", func(r Row) float64 { return r.LogResidents }),
	floatCol("log_working_age", func(r Row) float64 { return r.LogWorkingAge }),
	floatCol("exposure", func(r Row) float64 { return r.Exposure }),
	boolCol("post", func(r Row) bool { return r.Post }),
	boolCol("desert", func(r Row) bool { return r.Desert }),
	boolCol("ever_desert", func(r Row) bool { return r.EverDesert }),
	floatCol("prop_zero", func(r Row) float64 { return r.PropZero }),
	floatCol("pop_zero", func(r Row) float64 { return r.PopZero }),
	boolCol("is_rural", func(r Row) bool { return r.Rural }),
}

// ColumnNames returns the output schema in order.
func ColumnNames() []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.name
	}
	return names
}

// Write serializes the panel to path. Rows are written in their built order
// (quarter-major, then district code), so re-running on unchanged inputs
// produces a byte-identical file.
func Write(path string, rows []Row, logger *slog.Logger) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer logging.HandleDeferredError(&err, f.Close, logger, "close panel file")

	w := csv.NewWriter(f)

	if err := w.Write(ColumnNames()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, c := range columns {
			record[i] = c.value(row)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing row %s %s: %w", row.Quarter, row.LACode, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}

	logging.LogDataset(logger, "panel file", len(rows), slog.String("path", path))

	return nil
}

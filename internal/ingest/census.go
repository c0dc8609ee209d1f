package ingest

import (
	"fmt"
	"log/slog"

	"lapanel.civiljustice.org.uk/internal/logging"
	"lapanel.civiljustice.org.uk/internal/models"
)

// The 2011 census tables share a layout: a "geography code" key column and
// one long-named value column per measure. Each loader below names its value
// columns, and loadCensusFrame does the shared work of normalising codes via
// the crosswalk and summing rows that collapse onto the same current code.

// Population holds the usual-resident counts for one local authority.
type Population struct {
	ResidentsTotal   float64
	MalesTotal       float64
	FemalesTotal     float64
	HouseholdDweller float64
	CommunalDweller  float64
}

// AgeBands holds the census age distribution plus derived groupings.
type AgeBands struct {
	Total0_4    float64
	Total5_7    float64
	Total8_9    float64
	Total10_14  float64
	Total15     float64
	Total16_17  float64
	Total18_19  float64
	Total20_24  float64
	Total25_29  float64
	Total30_44  float64
	Total45_59  float64
	Total60_64  float64
	Total65_74  float64
	Total75_84  float64
	Total85_89  float64
	Total90Over float64

	WorkingAge float64 // ages 16 to 74
	Children   float64 // ages 0 to 15
	Pensioner  float64 // ages 75 and over
}

// EconomicActivity holds the 16-to-74 economic activity breakdown.
type EconomicActivity struct {
	EconActive        float64
	Employed          float64
	PartTime          float64
	FullTime          float64
	SelfEmployed      float64
	Unemployed        float64
	Student           float64
	EconInactive      float64
	InactiveRetired   float64
	InactiveStudent   float64
	InactiveCarer     float64
	InactiveSickDisb  float64
	InactiveOther     float64
	Unemployed16_24   float64
	Unemployed50_74   float64
	UnemployedForever float64
	UnemployedLT      float64

	UnemploymentRate float64 // Unemployed / EconActive
}

// Tenure holds the household tenure breakdown plus derived proportions.
type Tenure struct {
	Households            float64
	Owned                 float64
	OwnedOutright         float64
	OwnedMortgaged        float64
	SharedOwnership       float64
	SocialRented          float64
	SocialRentedCouncil   float64
	SocialRentedOther     float64
	PrivateRented         float64
	PrivateRentedLandlord float64
	PrivateRentedOther    float64
	RentFree              float64

	PropOwned         float64
	PropSocialRented  float64
	PropPrivateRented float64
	PropRented        float64
}

// Ethnicity holds the ethnic group breakdown plus derived proportions.
type Ethnicity struct {
	Residents   float64
	White       float64
	WhiteBrit   float64
	WhiteIrish  float64
	WhiteTrav   float64
	WhiteOther  float64
	Mixed       float64
	MixedCarrib float64
	MixedAfr    float64
	MixedAsian  float64
	MixedOther  float64
	Asian       float64
	AsianInd    float64
	AsianPak    float64
	AsianBang   float64
	AsianChi    float64
	AsianOther  float64
	Black       float64
	BlackAfr    float64
	BlackCarrib float64
	BlackOther  float64
	Other       float64
	OtherArab   float64
	OtherOther  float64

	PropWhite float64
	PropMixed float64
	PropAsian float64
	PropBlack float64
	PropOther float64
}

// loadCensusFrame reads one census table, maps superseded codes to current
// ones, optionally restricts to England and Wales, and sums the named value
// columns for rows sharing a current code. The result keeps the column order
// of valueCols.
func loadCensusFrame(path string, crosswalk map[string]string, filterEW bool, valueCols []string, logger *slog.Logger) (map[string][]float64, error) {
	header, rows, err := readTable(path, logger)
	if err != nil {
		return nil, err
	}

	names := append([]string{"geography code"}, valueCols...)
	cols, err := columnIndex(path, header, names...)
	if err != nil {
		return nil, err
	}

	frame := make(map[string][]float64)
	for n, row := range rows {
		code := field(row, cols["geography code"])
		if current, ok := crosswalk[code]; ok {
			code = current
		}
		if filterEW && !models.IsEnglandOrWales(code) {
			continue
		}

		values, ok := frame[code]
		if !ok {
			values = make([]float64, len(valueCols))
			frame[code] = values
		}
		for i, name := range valueCols {
			v, err := parseFloat(field(row, cols[name]))
			if err != nil {
				return nil, fmt.Errorf("%s row %d: column %q: %w", path, n+2, name, err)
			}
			values[i] += v
		}
	}

	if len(frame) == 0 {
		return nil, fmt.Errorf("%s: no rows loaded", path)
	}

	return frame, nil
}

var populationCols = []string{
	"Variable: All usual residents; measures: Value",
	"Variable: Males; measures: Value",
	"Variable: Females; measures: Value",
	"Variable: Lives in a household; measures: Value",
	"Variable: Lives in a communal establishment; measures: Value",
}

// LoadPopulation reads the usual-residents census table.
func LoadPopulation(path string, crosswalk map[string]string, logger *slog.Logger) (map[string]Population, error) {
	frame, err := loadCensusFrame(path, crosswalk, false, populationCols, logger)
	if err != nil {
		return nil, err
	}

	out := make(map[string]Population, len(frame))
	for code, v := range frame {
		out[code] = Population{
			ResidentsTotal:   v[0],
			MalesTotal:       v[1],
			FemalesTotal:     v[2],
			HouseholdDweller: v[3],
			CommunalDweller:  v[4],
		}
	}

	logging.LogDataset(logger, "census population", len(out))

	return out, nil
}

var ageCols = []string{
	"Age: Age 0 to 4; measures: Value",
	"Age: Age 5 to 7; measures: Value",
	"Age: Age 8 to 9; measures: Value",
	"Age: Age 10 to 14; measures: Value",
	"Age: Age 15; measures: Value",
	"Age: Age 16 to 17; measures: Value",
	"Age: Age 18 to 19; measures: Value",
	"Age: Age 20 to 24; measures: Value",
	"Age: Age 25 to 29; measures: Value",
	"Age: Age 30 to 44; measures: Value",
	"Age: Age 45 to 59; measures: Value",
	"Age: Age 60 to 64; measures: Value",
	"Age: Age 65 to 74; measures: Value",
	"Age: Age 75 to 84; measures: Value",
	"Age: Age 85 to 89; measures: Value",
	"Age: Age 90 and over; measures: Value",
}

// LoadAges reads the census age distribution and derives the working age,
// children and pensioner groupings.
func LoadAges(path string, crosswalk map[string]string, logger *slog.Logger) (map[string]AgeBands, error) {
	frame, err := loadCensusFrame(path, crosswalk, false, ageCols, logger)
	if err != nil {
		return nil, err
	}

	out := make(map[string]AgeBands, len(frame))
	for code, v := range frame {
		a := AgeBands{
			Total0_4: v[0], Total5_7: v[1], Total8_9: v[2], Total10_14: v[3],
			Total15: v[4], Total16_17: v[5], Total18_19: v[6], Total20_24: v[7],
			Total25_29: v[8], Total30_44: v[9], Total45_59: v[10], Total60_64: v[11],
			Total65_74: v[12], Total75_84: v[13], Total85_89: v[14], Total90Over: v[15],
		}
		a.WorkingAge = a.Total16_17 + a.Total18_19 + a.Total20_24 + a.Total25_29 +
			a.Total30_44 + a.Total45_59 + a.Total60_64 + a.Total65_74
		a.Children = a.Total0_4 + a.Total5_7 + a.Total8_9 + a.Total10_14 + a.Total15
		a.Pensioner = a.Total75_84 + a.Total85_89 + a.Total90Over
		out[code] = a
	}

	logging.LogDataset(logger, "census ages", len(out))

	return out, nil
}

var economicCols = []string{
	"Economic Activity: Economically active; measures: Value",
	"Economic Activity: Economically active: In employment; measures: Value",
	"Economic Activity: Economically active: Employee: Part-time; measures: Value",
	"Economic Activity: Economically active: Employee: Full-time; measures: Value",
	"Economic Activity: Economically active: Self-employed; measures: Value",
	"Economic Activity: Economically active: Unemployed; measures: Value",
	"Economic Activity: Economically active: Full-time student; measures: Value",
	"Economic Activity: Economically Inactive; measures: Value",
	"Economic Activity: Economically inactive: Retired; measures: Value",
	"Economic Activity: Economically inactive: Student (including full-time students); measures: Value",
	"Economic Activity: Economically inactive: Looking after home or family; measures: Value",
	"Economic Activity: Economically inactive: Long-term sick or disabled; measures: Value",
	"Economic Activity: Economically inactive: Other; measures: Value",
	"Economic Activity: Unemployed: Age 16 to 24; measures: Value",
	"Economic Activity: Unemployed: Age 50 to 74; measures: Value",
	"Economic Activity: Unemployed: Never worked; measures: Value",
	"Economic Activity: Long-term unemployed; measures: Value",
}

// LoadEconomicActivity reads the census economic activity table and derives
// the unemployment rate. This table is published below district level, so it
// is filtered to England and Wales before grouping.
func LoadEconomicActivity(path string, crosswalk map[string]string, logger *slog.Logger) (map[string]EconomicActivity, error) {
	frame, err := loadCensusFrame(path, crosswalk, true, economicCols, logger)
	if err != nil {
		return nil, err
	}

	out := make(map[string]EconomicActivity, len(frame))
	for code, v := range frame {
		e := EconomicActivity{
			EconActive: v[0], Employed: v[1], PartTime: v[2], FullTime: v[3],
			SelfEmployed: v[4], Unemployed: v[5], Student: v[6], EconInactive: v[7],
			InactiveRetired: v[8], InactiveStudent: v[9], InactiveCarer: v[10],
			InactiveSickDisb: v[11], InactiveOther: v[12], Unemployed16_24: v[13],
			Unemployed50_74: v[14], UnemployedForever: v[15], UnemployedLT: v[16],
		}
		if e.EconActive > 0 {
			e.UnemploymentRate = e.Unemployed / e.EconActive
		}
		out[code] = e
	}

	logging.LogDataset(logger, "census economic activity", len(out))

	return out, nil
}

var tenureCols = []string{
	"Tenure: All households; measures: Value",
	"Tenure: Owned; measures: Value",
	"Tenure: Owned: Owned outright; measures: Value",
	"Tenure: Owned: Owned with a mortgage or loan; measures: Value",
	"Tenure: Shared ownership (part owned and part rented); measures: Value",
	"Tenure: Social rented; measures: Value",
	"Tenure: Social rented: Rented from council (Local Authority); measures: Value",
	"Tenure: Social rented: Other; measures: Value",
	"Tenure: Private rented; measures: Value",
	"Tenure: Private rented: Private landlord or letting agency; measures: Value",
	"Tenure: Private rented: Other; measures: Value",
	"Tenure: Living rent free; measures: Value",
}

// LoadTenure reads the census housing tenure table and derives the tenure
// proportions.
func LoadTenure(path string, crosswalk map[string]string, logger *slog.Logger) (map[string]Tenure, error) {
	frame, err := loadCensusFrame(path, crosswalk, true, tenureCols, logger)
	if err != nil {
		return nil, err
	}

	out := make(map[string]Tenure, len(frame))
	for code, v := range frame {
		t := Tenure{
			Households: v[0], Owned: v[1], OwnedOutright: v[2], OwnedMortgaged: v[3],
			SharedOwnership: v[4], SocialRented: v[5], SocialRentedCouncil: v[6],
			SocialRentedOther: v[7], PrivateRented: v[8], PrivateRentedLandlord: v[9],
			PrivateRentedOther: v[10], RentFree: v[11],
		}
		if t.Households > 0 {
			t.PropOwned = t.Owned / t.Households
			t.PropSocialRented = t.SocialRented / t.Households
			t.PropPrivateRented = t.PrivateRented / t.Households
			t.PropRented = (t.SocialRented + t.PrivateRented) / t.Households
		}
		out[code] = t
	}

	logging.LogDataset(logger, "census tenure", len(out))

	return out, nil
}

var ethnicityCols = []string{
	"Ethnic Group: All usual residents; measures: Value",
	"Ethnic Group: White; measures: Value",
	"Ethnic Group: White: English/Welsh/Scottish/Northern Irish/British; measures: Value",
	"Ethnic Group: White: Irish; measures: Value",
	"Ethnic Group: White: Gypsy or Irish Traveller; measures: Value",
	"Ethnic Group: White: Other White; measures: Value",
	"Ethnic Group: Mixed/multiple ethnic groups; measures: Value",
	"Ethnic Group: Mixed/multiple ethnic groups: White and Black Caribbean; measures: Value",
	"Ethnic Group: Mixed/multiple ethnic groups: White and Black African; measures: Value",
	"Ethnic Group: Mixed/multiple ethnic groups: White and Asian; measures: Value",
	"Ethnic Group: Mixed/multiple ethnic groups: Other Mixed; measures: Value",
	"Ethnic Group: Asian/Asian British; measures: Value",
	"Ethnic Group: Asian/Asian British: Indian; measures: Value",
	"Ethnic Group: Asian/Asian British: Pakistani; measures: Value",
	"Ethnic Group: Asian/Asian British: Bangladeshi; measures: Value",
	"Ethnic Group: Asian/Asian British: Chinese; measures: Value",
	"Ethnic Group: Asian/Asian British: Other Asian; measures: Value",
	"Ethnic Group: Black/African/Caribbean/Black British; measures: Value",
	"Ethnic Group: Black/African/Caribbean/Black British: African; measures: Value",
	"Ethnic Group: Black/African/Caribbean/Black British: Caribbean; measures: Value",
	"Ethnic Group: Black/African/Caribbean/Black British: Other Black; measures: Value",
	"Ethnic Group: Other ethnic group; measures: Value",
	"Ethnic Group: Other ethnic group: Arab; measures: Value",
	"Ethnic Group: Other ethnic group: Any other ethnic group; measures: Value",
}

// LoadEthnicity reads the census ethnic group table and derives the
// high-level proportions.
func LoadEthnicity(path string, crosswalk map[string]string, logger *slog.Logger) (map[string]Ethnicity, error) {
	frame, err := loadCensusFrame(path, crosswalk, true, ethnicityCols, logger)
	if err != nil {
		return nil, err
	}

	out := make(map[string]Ethnicity, len(frame))
	for code, v := range frame {
		e := Ethnicity{
			Residents: v[0], White: v[1], WhiteBrit: v[2], WhiteIrish: v[3],
			WhiteTrav: v[4], WhiteOther: v[5], Mixed: v[6], MixedCarrib: v[7],
			MixedAfr: v[8], MixedAsian: v[9], MixedOther: v[10], Asian: v[11],
			AsianInd: v[12], AsianPak: v[13], AsianBang: v[14], AsianChi: v[15],
			AsianOther: v[16], Black: v[17], BlackAfr: v[18], BlackCarrib: v[19],
			BlackOther: v[20], Other: v[21], OtherArab: v[22], OtherOther: v[23],
		}
		if e.Residents > 0 {
			e.PropWhite = e.White / e.Residents
			e.PropMixed = e.Mixed / e.Residents
			e.PropAsian = e.Asian / e.Residents
			e.PropBlack = e.Black / e.Residents
			e.PropOther = e.Other / e.Residents
		}
		out[code] = e
	}

	logging.LogDataset(logger, "census ethnicity", len(out))

	return out, nil
}

package domain

import (
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
)

// Crime dataset columns (Boston incident reports, dates prepped to ISO days).
const (
	CrimeDate         = "OCCURRED_ON_DATE"
	CrimeOffenseCode  = "OFFENSE_CODE"
	CrimeOffenseGroup = "OFFENSE_CODE_GROUP"
	CrimeOffenseDescr = "OFFENSE_DESCRIPTION"
	CrimeStreet       = "STREET"
	CrimeYear         = "YEAR"
	CrimeHour         = "HOUR"
	CrimeDayOfWeek    = "DAY_OF_WEEK"
)

// Weather dataset columns (NOAA GHCN daily summaries for one station).
const (
	WeatherStation = "STATION"
	WeatherName    = "NAME"
	WeatherDate    = "DATE"
	WeatherPrecip  = "PRCP"
	WeatherSnow    = "SNOW"
	WeatherAvgTemp = "TAVG"
)

// Building inventory columns.
const (
	BuildingID       = "ID"
	BuildingTypology = "TYPOLOGY"
	BuildingStName   = "ST_NAME"
	BuildingStSuffix = "ST_NAME_SUF"
	BuildingPctLow   = "PCT_INCOME_LOW"
	BuildingPctMid   = "PCT_INCOME_MID"
	BuildingPctHigh  = "PCT_INCOME_HIGH"
)

// Derived columns the pipeline creates. Lowercase keeps them visually
// distinct from the uppercase source columns.
const (
	ColCrimeCount     = "crime_count"
	ColCount          = "count"
	ColPercentage     = "percentage"
	ColBucket         = "bucket"
	ColStreetLocation = "street_location"
)

// CrimeRecord is one incident report row. All fields stay strings: the
// prepped CSV is untyped and the analysis layer only ever groups, joins, and
// counts these values.
type CrimeRecord struct {
	OccurredOnDate string `dataframe:"OCCURRED_ON_DATE,string"`
	OffenseCode    string `dataframe:"OFFENSE_CODE,string"`
	OffenseGroup   string `dataframe:"OFFENSE_CODE_GROUP,string"`
	OffenseDescr   string `dataframe:"OFFENSE_DESCRIPTION,string"`
	Street         string `dataframe:"STREET,string"`
	Year           string `dataframe:"YEAR,string"`
	Hour           string `dataframe:"HOUR,string"`
	DayOfWeek      string `dataframe:"DAY_OF_WEEK,string"`
}

// WeatherRecord is one daily station reading. PRCP/SNOW/TAVG stay strings
// exactly as read; consumers parse them to floats only where arithmetic is
// needed, so joined outputs preserve the source formatting.
type WeatherRecord struct {
	Station string `dataframe:"STATION,string"`
	Name    string `dataframe:"NAME,string"`
	Date    string `dataframe:"DATE,string"`
	Precip  string `dataframe:"PRCP,string"`
	Snow    string `dataframe:"SNOW,string"`
	AvgTemp string `dataframe:"TAVG,string"`
}

// BuildingRecord is one building inventory row. Street name and suffix may
// carry stray padding; StreetLocation normalizes them into the join key.
type BuildingRecord struct {
	ID        string  `dataframe:"ID,string"`
	Typology  string  `dataframe:"TYPOLOGY,string"`
	StName    string  `dataframe:"ST_NAME,string"`
	StSuffix  string  `dataframe:"ST_NAME_SUF,string"`
	PctLow    float64 `dataframe:"PCT_INCOME_LOW,float"`
	PctMid    float64 `dataframe:"PCT_INCOME_MID,float"`
	PctHigh   float64 `dataframe:"PCT_INCOME_HIGH,float"`
}

// CrimeColumns lists the columns every crime table must carry.
func CrimeColumns() []string {
	return []string{
		CrimeDate, CrimeOffenseCode, CrimeOffenseGroup, CrimeOffenseDescr,
		CrimeStreet, CrimeYear, CrimeHour, CrimeDayOfWeek,
	}
}

// WeatherColumns lists the columns every weather table must carry.
func WeatherColumns() []string {
	return []string{WeatherStation, WeatherName, WeatherDate, WeatherPrecip, WeatherSnow, WeatherAvgTemp}
}

// BuildingColumns lists the columns every building inventory table must carry.
func BuildingColumns() []string {
	return []string{
		BuildingID, BuildingTypology, BuildingStName, BuildingStSuffix,
		BuildingPctLow, BuildingPctMid, BuildingPctHigh,
	}
}

// IncomeColumns lists the income share columns in report order.
func IncomeColumns() []string {
	return []string{BuildingPctLow, BuildingPctMid, BuildingPctHigh}
}

// IncomeBand shortens an income column to its band name, for example
// PCT_INCOME_LOW to low. Unknown columns come back lowercased whole.
func IncomeBand(col string) string {
	return strings.ToLower(strings.TrimPrefix(col, "PCT_INCOME_"))
}

// MissingColumnError reports a table operation that referenced a column the
// table does not have. It is fatal to the calling operation; nothing retries.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: missing column %s", e.Table, e.Column)
}

// RequireColumns verifies cols exist in df before any operation dereferences
// them, so schema problems surface as MissingColumnError up front instead of
// as a fault deep inside a join or group-by.
func RequireColumns(df dataframe.DataFrame, table string, cols ...string) error {
	if df.Err != nil {
		return fmt.Errorf("%s: %w", table, df.Err)
	}
	have := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		have[name] = true
	}
	for _, col := range cols {
		if !have[col] {
			return &MissingColumnError{Table: table, Column: col}
		}
	}
	return nil
}

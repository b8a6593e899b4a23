package domain

import (
	"errors"
	"fmt"
	"strings"
)

// monthAbbrevs maps the permit export's DD-MON-YY month tokens to ISO month
// numbers. Lookups are case-sensitive: the export always upper-cases months,
// and anything else is a malformed row we want to hear about.
var monthAbbrevs = map[string]string{
	"JAN": "01", "FEB": "02", "MAR": "03", "APR": "04",
	"MAY": "05", "JUN": "06", "JUL": "07", "AUG": "08",
	"SEP": "09", "OCT": "10", "NOV": "11", "DEC": "12",
}

// ErrUnknownMonth reports a month abbreviation outside the JAN..DEC set.
var ErrUnknownMonth = errors.New("unknown month abbreviation")

// ModifyDate rewrites a permit date like "01-JAN-21" as "2021-01-01" so it
// sorts and joins against the ISO dates used everywhere else. Two-digit years
// are all post-2000 in this dataset.
func ModifyDate(date string) (string, error) {
	parts := strings.Split(strings.TrimSpace(date), "-")
	if len(parts) != 3 {
		return "", fmt.Errorf("modify date %q: want DD-MON-YY", date)
	}
	month, ok := monthAbbrevs[parts[1]]
	if !ok {
		return "", fmt.Errorf("modify date %q: %w: %s", date, ErrUnknownMonth, parts[1])
	}
	return "20" + parts[2] + "-" + month + "-" + parts[0], nil
}

// Holiday is one annotated date on the daily-count line charts.
type Holiday struct {
	Date  string
	Label string
}

// Holidays returns the fixed civic calendar the daily charts annotate,
// anchored to the given four-digit year. The movable holidays use their 2017
// observed dates; the charts care about the label position, not the exact
// weekday in other years.
func Holidays(year string) []Holiday {
	return []Holiday{
		{Date: year + "-01-01", Label: "NY"},
		{Date: year + "-01-16", Label: "MLK"},
		{Date: year + "-03-17", Label: "St Pats"},
		{Date: year + "-04-17", Label: "Marathon"},
		{Date: year + "-05-29", Label: "Mem"},
		{Date: year + "-07-04", Label: "July 4"},
		{Date: year + "-09-04", Label: "Labor"},
		{Date: year + "-10-10", Label: "Vets"},
		{Date: year + "-11-23", Label: "Thnx"},
		{Date: year + "-12-25", Label: "Xmas"},
	}
}

// TimeUnit selects which crime column a time-bucketed pivot groups by.
type TimeUnit string

const (
	UnitHour TimeUnit = "hour"
	UnitDay  TimeUnit = "day"
	UnitYear TimeUnit = "year"
)

// ParseTimeUnit validates a user-supplied unit name.
func ParseTimeUnit(s string) (TimeUnit, error) {
	switch u := TimeUnit(strings.ToLower(strings.TrimSpace(s))); u {
	case UnitHour, UnitDay, UnitYear:
		return u, nil
	default:
		return "", fmt.Errorf("time unit %q: please type in year, day or hour", s)
	}
}

// Column returns the crime column this unit groups by.
func (u TimeUnit) Column() string {
	switch u {
	case UnitHour:
		return CrimeHour
	case UnitDay:
		return CrimeDayOfWeek
	case UnitYear:
		return CrimeYear
	}
	return ""
}

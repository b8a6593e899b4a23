package analysis

import (
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/FlyingNightBird/2022Spring-Finals/internal/domain"
)

// The share analysis covers a fixed year window and ignores offenses that
// never reach a meaningful volume inside it.
const (
	offenseWindowStart = 2015
	offenseWindowEnd   = 2020
	offenseMinPeak     = 200
)

// WindowYears returns the fixed analysis window as year labels, 2015 through
// 2020.
func WindowYears() []string {
	years := make([]string, 0, offenseWindowEnd-offenseWindowStart+1)
	for y := offenseWindowStart; y <= offenseWindowEnd; y++ {
		years = append(years, strconv.Itoa(y))
	}
	return years
}

// ShareSeries holds per-offense percentage lines over a fixed year axis.
// Names preserves the order offenses were first encountered in the source
// table so chart legends stay stable across runs.
type ShareSeries struct {
	Years  []string
	Names  []string
	Series map[string][]float64
}

// OffenseShares computes, for each offense description, its percentage of all
// incidents per year across 2015-2020. Offenses whose best year stays under
// 200 incidents are dropped. Every kept line covers the whole axis; years
// where the offense (or the city) recorded nothing contribute 0%.
func OffenseShares(crime dataframe.DataFrame) (ShareSeries, error) {
	if err := domain.RequireColumns(crime, "crime", domain.CrimeOffenseDescr, domain.CrimeYear); err != nil {
		return ShareSeries{}, err
	}

	years := WindowYears()
	inWindow := make(map[string]bool, len(years))
	for _, label := range years {
		inWindow[label] = true
	}
	out := ShareSeries{Years: years, Series: make(map[string][]float64)}

	descrs := crime.Col(domain.CrimeOffenseDescr).Records()
	yearVals := crime.Col(domain.CrimeYear).Records()
	counts := make(map[string]map[string]float64)
	totals := make(map[string]float64)
	var order []string
	for i, offense := range descrs {
		year := yearVals[i]
		if !inWindow[year] {
			continue
		}
		totals[year]++
		perYear := counts[offense]
		if perYear == nil {
			perYear = make(map[string]float64)
			counts[offense] = perYear
			order = append(order, offense)
		}
		perYear[year]++
	}

	for _, offense := range order {
		var peak float64
		for _, c := range counts[offense] {
			if c > peak {
				peak = c
			}
		}
		if peak < offenseMinPeak {
			continue
		}
		line := make([]float64, len(years))
		for i, year := range years {
			if total := totals[year]; total > 0 {
				line[i] = counts[offense][year] / total * 100
			}
		}
		out.Names = append(out.Names, offense)
		out.Series[offense] = line
	}
	return out, nil
}

// Frame lays the share lines out as a wide table, one row per year and one
// float column per offense, for materialization.
func (s ShareSeries) Frame() dataframe.DataFrame {
	cols := make([]series.Series, 0, len(s.Names)+1)
	cols = append(cols, series.New(s.Years, series.String, domain.CrimeYear))
	for _, name := range s.Names {
		cols = append(cols, series.New(s.Series[name], series.Float, name))
	}
	return dataframe.New(cols...)
}

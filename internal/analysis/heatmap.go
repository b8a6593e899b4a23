package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/FlyingNightBird/2022Spring-Finals/internal/domain"
)

// PivotTable is an offense-group by time-bucket count grid ready for heat map
// rendering. Cells is indexed [row][column]; a NaN cell means no incidents,
// so renderers can leave it unpainted.
type PivotTable struct {
	Unit    domain.TimeUnit
	Rows    []string
	Columns []string
	Cells   [][]float64
}

// At returns the cell for (row, column) indexes.
func (p PivotTable) At(row, col int) float64 {
	return p.Cells[row][col]
}

// Frame lays the pivot out as a table with the offense group as the first
// column and one float column per time bucket, for materialization.
func (p PivotTable) Frame() dataframe.DataFrame {
	cols := make([]series.Series, 0, len(p.Columns)+1)
	cols = append(cols, series.New(p.Rows, series.String, domain.CrimeOffenseGroup))
	for j, label := range p.Columns {
		vals := make([]float64, len(p.Rows))
		for i := range p.Rows {
			vals[i] = p.Cells[i][j]
		}
		cols = append(cols, series.New(vals, series.Float, label))
	}
	return dataframe.New(cols...)
}

// PivotCounts pivots incident counts into offense-group rows and time-unit
// columns (YEAR, DAY_OF_WEEK, or HOUR values). Rows sort alphabetically;
// columns sort numerically when every value parses as a number, otherwise
// lexically. An unknown time unit is an error.
func PivotCounts(crime dataframe.DataFrame, unit domain.TimeUnit) (PivotTable, error) {
	timeCol := unit.Column()
	if timeCol == "" {
		return PivotTable{}, fmt.Errorf("pivot counts: time unit %q: please type in year, day or hour", string(unit))
	}
	if err := domain.RequireColumns(crime, "crime", timeCol, domain.CrimeOffenseGroup, domain.CrimeOffenseCode); err != nil {
		return PivotTable{}, err
	}

	groups := crime.Col(domain.CrimeOffenseGroup).Records()
	times := crime.Col(timeCol).Records()
	cells := make(map[string]map[string]float64)
	timeSet := make(map[string]bool)
	for i, group := range groups {
		t := times[i]
		timeSet[t] = true
		perTime := cells[group]
		if perTime == nil {
			perTime = make(map[string]float64)
			cells[group] = perTime
		}
		perTime[t]++
	}

	out := PivotTable{Unit: unit}
	for group := range cells {
		out.Rows = append(out.Rows, group)
	}
	sort.Strings(out.Rows)
	for t := range timeSet {
		out.Columns = append(out.Columns, t)
	}
	sortTimeValues(out.Columns)

	out.Cells = make([][]float64, len(out.Rows))
	for i, group := range out.Rows {
		row := make([]float64, len(out.Columns))
		for j, t := range out.Columns {
			if count, ok := cells[group][t]; ok {
				row[j] = count
			} else {
				row[j] = math.NaN()
			}
		}
		out.Cells[i] = row
	}
	return out, nil
}

// sortTimeValues orders hour and year values numerically and day names
// lexically, so 2 sorts before 10 but Friday still sorts before Monday.
func sortTimeValues(values []string) {
	numeric := true
	for _, v := range values {
		if _, err := strconv.Atoi(v); err != nil {
			numeric = false
			break
		}
	}
	sort.Slice(values, func(i, j int) bool {
		if numeric {
			a, _ := strconv.Atoi(values[i])
			b, _ := strconv.Atoi(values[j])
			return a < b
		}
		return values[i] < values[j]
	})
}

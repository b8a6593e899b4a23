// Command validate runs integrity checks over the three source datasets and
// over the derived tables the pipeline would build from them: field formats,
// cross-dataset join coverage, and conservation of counts through the
// group-bys. It exits non-zero when any phase fails.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -crime data/modified_boston_crime.csv \
//	  -weather data/boston_weather.csv \
//	  -buildings data/boston_buildings.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/FlyingNightBird/2022Spring-Finals/internal/adapter/csvfile"
	"github.com/FlyingNightBird/2022Spring-Finals/internal/analysis"
	"github.com/FlyingNightBird/2022Spring-Finals/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	crimePath := flag.String("crime", "data/modified_boston_crime.csv", "path to the crime incidents CSV")
	weatherPath := flag.String("weather", "data/boston_weather.csv", "path to the daily weather CSV")
	buildingsPath := flag.String("buildings", "data/boston_buildings.csv", "path to the building inventory CSV")
	flag.Parse()

	os.Exit(run(*crimePath, *weatherPath, *buildingsPath))
}

func run(crimePath, weatherPath, buildingsPath string) int {
	fmt.Println("=== Crime Dataset Integrity Validation ===")
	fmt.Println()

	loader := csvfile.NewLoader(slog.Default())
	ctx := context.Background()

	crime, err := loader.LoadCrime(ctx, crimePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load crime data: %v\n", err)
		return 1
	}
	weather, err := loader.LoadWeather(ctx, weatherPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load weather data: %v\n", err)
		return 1
	}
	buildings, err := loader.LoadBuildings(ctx, buildingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load building data: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateCrimeFields(crime),
		validateWeatherCoverage(crime, weather),
		validateBuildingInventory(crime, buildings),
		validateDerivedTables(crime, weather, buildings),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d crime, %d weather, %d buildings\n", crime.Nrow(), weather.Nrow(), buildings.Nrow())

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Crime Fields ──
// Every incident carries an ISO day plus derived time columns that must agree
// with it.

func validateCrimeFields(crime dataframe.DataFrame) *phase {
	p := &phase{name: "Phase 1: Crime Fields"}

	dates := crime.Col(domain.CrimeDate).Records()
	years := crime.Col(domain.CrimeYear).Records()
	hours := crime.Col(domain.CrimeHour).Records()
	days := crime.Col(domain.CrimeDayOfWeek).Records()
	codes := crime.Col(domain.CrimeOffenseCode).Records()

	for i, d := range dates {
		t, err := time.Parse("2006-01-02", d)
		if err != nil {
			p.errorf("row %d: OCCURRED_ON_DATE %q is not an ISO day", i+2, d)
			continue
		}
		if !strings.HasPrefix(d, years[i]+"-") {
			p.errorf("row %d: YEAR %q does not match date %q", i+2, years[i], d)
		}
		if wd := t.Weekday().String(); wd != days[i] {
			p.errorf("row %d: DAY_OF_WEEK %q should be %q", i+2, days[i], wd)
		}
		if h, err := strconv.Atoi(hours[i]); err != nil || h < 0 || h > 23 {
			p.errorf("row %d: HOUR %q is not in 0..23", i+2, hours[i])
		}
		if strings.TrimSpace(codes[i]) == "" {
			p.errorf("row %d: OFFENSE_CODE is empty", i+2)
		}
	}
	return p
}

// ── Phase 2: Weather Coverage ──
// The weather table must have one parseable row per day and cover every day
// the crime data mentions, or the combined table silently loses incidents.

func validateWeatherCoverage(crime, weather dataframe.DataFrame) *phase {
	p := &phase{name: "Phase 2: Weather Coverage"}

	dates := weather.Col(domain.WeatherDate).Records()
	seen := make(map[string]bool, len(dates))
	for i, d := range dates {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			p.errorf("row %d: DATE %q is not an ISO day", i+2, d)
		}
		if seen[d] {
			p.errorf("row %d: duplicate DATE %q", i+2, d)
		}
		seen[d] = true
	}

	for _, col := range []string{domain.WeatherPrecip, domain.WeatherSnow, domain.WeatherAvgTemp} {
		for i, v := range weather.Col(col).Records() {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				p.errorf("row %d: %s %q is not numeric", i+2, col, v)
			}
		}
	}

	missing := map[string]bool{}
	for _, d := range crime.Col(domain.CrimeDate).Records() {
		if !seen[d] && !missing[d] {
			missing[d] = true
			p.errorf("crime date %s has no weather row", d)
		}
	}
	return p
}

// ── Phase 3: Building Inventory ──
// Buildings need usable street keys and income shares that add up, or the
// street join and bucket analyses degrade quietly.

func validateBuildingInventory(crime, buildings dataframe.DataFrame) *phase {
	p := &phase{name: "Phase 3: Building Inventory"}

	for i, ty := range buildings.Col(domain.BuildingTypology).Records() {
		if strings.TrimSpace(ty) == "" {
			p.errorf("row %d: TYPOLOGY is empty", i+2)
		}
	}

	lows := buildings.Col(domain.BuildingPctLow).Float()
	mids := buildings.Col(domain.BuildingPctMid).Float()
	highs := buildings.Col(domain.BuildingPctHigh).Float()
	for i := range lows {
		sum := lows[i] + mids[i] + highs[i]
		if math.IsNaN(sum) {
			p.errorf("row %d: income shares contain NA", i+2)
			continue
		}
		if math.Abs(sum-100) > 0.5 {
			p.errorf("row %d: income shares sum to %.1f, want 100", i+2, sum)
		}
	}

	normalized, err := analysis.NormalizeBuildings(buildings)
	if err != nil {
		p.errorf("normalize buildings: %v", err)
		return p
	}
	if normalized.Nrow() == 0 {
		p.errorf("no building has a usable street key")
		return p
	}

	keys := map[string]bool{}
	for _, k := range normalized.Col(domain.ColStreetLocation).Records() {
		keys[k] = true
	}
	overlap := 0
	seenStreets := map[string]bool{}
	for _, s := range crime.Col(domain.CrimeStreet).Records() {
		key := domain.StreetLocation(s, "")
		if key == "" || seenStreets[key] {
			continue
		}
		seenStreets[key] = true
		if keys[key] {
			overlap++
		}
	}
	if overlap == 0 {
		p.errorf("no crime street matches any building street")
	}
	return p
}

// ── Phase 4: Derived Tables ──
// Re-runs the analysis functions and checks that counts are conserved
// through joins, group-bys, and bucketing.

func validateDerivedTables(crime, weather, buildings dataframe.DataFrame) *phase {
	p := &phase{name: "Phase 4: Derived Tables"}

	combined, err := analysis.CombineWeather(crime, weather)
	if err != nil {
		p.errorf("combine weather: %v", err)
	} else {
		crimeDates := toSet(crime.Col(domain.CrimeDate).Records())
		weatherDates := toSet(weather.Col(domain.WeatherDate).Records())
		want := 0
		for d := range crimeDates {
			if weatherDates[d] {
				want++
			}
		}
		if combined.Nrow() != want {
			p.errorf("combined table has %d rows, want %d matched dates", combined.Nrow(), want)
		}
	}

	for _, year := range analysis.WindowYears() {
		daily, err := analysis.DailyCounts(crime, year)
		if err != nil {
			p.errorf("daily counts %s: %v", year, err)
			continue
		}
		var got float64
		for _, v := range daily.Col(domain.ColCount).Float() {
			got += v
		}
		want := 0
		for _, d := range crime.Col(domain.CrimeDate).Records() {
			if strings.HasPrefix(d, year+"-") {
				want++
			}
		}
		if int(got) != want {
			p.errorf("daily counts %s: table sums to %d incidents, source has %d", year, int(got), want)
		}
	}

	normalized, err := analysis.NormalizeBuildings(buildings)
	if err != nil {
		p.errorf("normalize buildings: %v", err)
		return p
	}
	counts, err := analysis.CrimeCountsByStreet(crime, "")
	if err != nil {
		p.errorf("street counts: %v", err)
		return p
	}
	joined, err := analysis.JoinStreets(counts, normalized)
	if err != nil {
		p.errorf("street join: %v", err)
		return p
	}

	for _, col := range domain.IncomeColumns() {
		buckets, err := analysis.BucketBySum(joined, col, domain.ColCrimeCount)
		if err != nil {
			p.errorf("income buckets %s: %v", col, err)
			continue
		}
		incomes := joined.Col(col).Float()
		crimeCounts := joined.Col(domain.ColCrimeCount).Float()
		var want float64
		for i, v := range incomes {
			if !math.IsNaN(v) {
				want += crimeCounts[i]
			}
		}
		var got float64
		for _, v := range buckets.Col(domain.ColCrimeCount).Float() {
			got += v
		}
		if math.Abs(got-want) > 1e-6 {
			p.errorf("income buckets %s: buckets sum to %.1f, joined rows sum to %.1f", col, got, want)
		}
	}

	for _, year := range analysis.WindowYears() {
		byType, err := analysis.CrimeCountsByTypology(crime, buildings, year)
		if err != nil {
			p.errorf("typology counts %s: %v", year, err)
			continue
		}
		if byType.Nrow() == 0 {
			continue
		}
		renamed := byType.Rename(year, domain.ColCrimeCount)
		if renamed.Err != nil {
			p.errorf("typology counts %s: %v", year, renamed.Err)
			continue
		}
		pct, err := analysis.PercentagesFromYearColumn(renamed, domain.BuildingTypology, year)
		if err != nil {
			p.errorf("typology shares %s: %v", year, err)
			continue
		}
		var sum float64
		for _, v := range pct.Col(domain.ColPercentage).Float() {
			sum += v
		}
		if math.Abs(sum-100) > 1e-6 {
			p.errorf("typology shares %s: percentages sum to %.4f, want 100", year, sum)
		}
	}
	return p
}

// ── Helpers ──

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

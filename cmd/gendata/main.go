// Command gendata writes synthetic versions of the three source datasets so
// the pipeline can run end to end without the real city exports. It builds
// rows from the actual domain record types, so generated files always match
// the schemas the loader validates.
//
// Usage:
//
//	go run ./cmd/gendata -out-dir data -crimes 20000 -buildings 400 -seed 1
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/FlyingNightBird/2022Spring-Finals/internal/domain"
)

type offenseDef struct {
	code   string
	group  string
	descr  string
	weight int
}

// Offense mix loosely follows the real incident report distribution; the top
// entries are frequent enough to clear the share analysis threshold.
var offenses = []offenseDef{
	{"3006", "Medical Assistance", "SICK/INJURED/MEDICAL - PERSON", 14},
	{"3115", "Investigate Person", "INVESTIGATE PERSON", 12},
	{"802", "Simple Assault", "ASSAULT SIMPLE - BATTERY", 11},
	{"619", "Larceny", "LARCENY ALL OTHERS", 10},
	{"1402", "Vandalism", "VANDALISM", 9},
	{"3301", "Verbal Disputes", "VERBAL DISPUTE", 8},
	{"3410", "Towed", "TOWED MOTOR VEHICLE", 7},
	{"613", "Larceny", "LARCENY SHOPLIFTING $200 & UNDER", 6},
	{"614", "Larceny From Motor Vehicle", "LARCENY THEFT FROM MV - NON-ACCESSORY", 5},
	{"3114", "Investigate Property", "INVESTIGATE PROPERTY", 4},
	{"2647", "Other", "THREATS TO DO BODILY HARM", 3},
	{"3201", "Property Lost", "PROPERTY - LOST", 2},
}

var streets = []struct{ name, suffix string }{
	{"WASHINGTON", "ST"}, {"BLUE HILL", "AVE"}, {"CENTRE", "ST"}, {"DORCHESTER", "AVE"},
	{"TREMONT", "ST"}, {"HYDE PARK", "AVE"}, {"MASSACHUSETTS", "AVE"}, {"COLUMBIA", "RD"},
	{"RIVER", "ST"}, {"BOYLSTON", "ST"}, {"HARVARD", "ST"}, {"WARREN", "ST"},
}

var typologies = []struct {
	name   string
	weight int
}{
	{"Residential", 60},
	{"Commercial", 25},
	{"Mixed Use", 10},
	{"Civic", 5},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "data", "directory to write the generated CSV files into")
	crimes := flag.Int("crimes", 20000, "number of crime incident rows")
	buildings := flag.Int("buildings", 400, "number of building inventory rows")
	seed := flag.Uint64("seed", 1, "random seed, same seed gives the same files")
	flag.Parse()

	if *crimes <= 0 || *buildings <= 0 {
		flag.Usage()
		return fmt.Errorf("-crimes and -buildings must be positive")
	}

	rng := rand.New(rand.NewPCG(*seed, *seed))

	crimeRecs := genCrime(rng, *crimes)
	weatherRecs := genWeather(rng)
	buildingRecs := genBuildings(rng, *buildings)

	outputs := []struct {
		file string
		df   dataframe.DataFrame
	}{
		{"modified_boston_crime.csv", dataframe.LoadStructs(crimeRecs)},
		{"boston_weather.csv", dataframe.LoadStructs(weatherRecs)},
		{"boston_buildings.csv", dataframe.LoadStructs(buildingRecs)},
	}
	for _, out := range outputs {
		path := filepath.Join(*outDir, out.file)
		if err := writeFrame(path, out.df); err != nil {
			return fmt.Errorf("writing %s: %w", out.file, err)
		}
		log.Printf("wrote %s: %d rows", path, out.df.Nrow())
	}

	printStats(crimeRecs, weatherRecs, buildingRecs)
	return nil
}

func genCrime(rng *rand.Rand, n int) []domain.CrimeRecord {
	recs := make([]domain.CrimeRecord, 0, n)
	for i := 0; i < n; i++ {
		year := 2015 + rng.IntN(6)
		date := time.Date(year, time.Month(1+rng.IntN(12)), 1+rng.IntN(28), 0, 0, 0, 0, time.UTC)
		off := pickOffense(rng)
		st := streets[rng.IntN(len(streets))]
		recs = append(recs, domain.CrimeRecord{
			OccurredOnDate: date.Format("2006-01-02"),
			OffenseCode:    off.code,
			OffenseGroup:   off.group,
			OffenseDescr:   off.descr,
			Street:         st.name + " " + st.suffix,
			Year:           strconv.Itoa(year),
			Hour:           strconv.Itoa(rng.IntN(24)),
			DayOfWeek:      date.Weekday().String(),
		})
	}
	return recs
}

// genWeather covers every day of the 2015-2020 span, so every generated
// incident date finds a weather row to join against.
func genWeather(rng *rand.Rand) []domain.WeatherRecord {
	var recs []domain.WeatherRecord
	start := time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2020, time.December, 31, 0, 0, 0, 0, time.UTC)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		recs = append(recs, domain.WeatherRecord{
			Station: "USW00014739",
			Name:    "BOSTON, MA US",
			Date:    d.Format("2006-01-02"),
			Precip:  genPrecip(rng),
			Snow:    genSnow(rng, d.Month()),
			AvgTemp: genTemp(rng, d.YearDay()),
		})
	}
	return recs
}

func genPrecip(rng *rand.Rand) string {
	if rng.Float64() < 0.7 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", rng.Float64()*1.5)
}

func genSnow(rng *rand.Rand, m time.Month) string {
	if m >= time.April && m <= time.November {
		return "0.0"
	}
	if rng.Float64() < 0.8 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", rng.Float64()*8)
}

// genTemp follows a rough Boston seasonal curve, coldest late January and
// warmest late July, with day-to-day noise.
func genTemp(rng *rand.Rand, yearDay int) string {
	seasonal := 52.5 - 23.5*math.Cos(2*math.Pi*float64(yearDay-28)/365)
	return strconv.Itoa(int(seasonal) + rng.IntN(11) - 5)
}

func genBuildings(rng *rand.Rand, n int) []domain.BuildingRecord {
	recs := make([]domain.BuildingRecord, 0, n)
	for i := 0; i < n; i++ {
		st := streets[rng.IntN(len(streets))]
		low := round1(10 + rng.Float64()*55)
		mid := round1((100 - low) * (0.3 + rng.Float64()*0.4))
		recs = append(recs, domain.BuildingRecord{
			ID:       fmt.Sprintf("B%05d", i+1),
			Typology: pickTypology(rng),
			StName:   st.name,
			StSuffix: st.suffix,
			PctLow:   low,
			PctMid:   mid,
			PctHigh:  round1(100 - low - mid),
		})
	}
	return recs
}

func pickOffense(rng *rand.Rand) offenseDef {
	total := 0
	for _, o := range offenses {
		total += o.weight
	}
	pick := rng.IntN(total)
	for _, o := range offenses {
		pick -= o.weight
		if pick < 0 {
			return o
		}
	}
	return offenses[len(offenses)-1]
}

func pickTypology(rng *rand.Rand) string {
	total := 0
	for _, t := range typologies {
		total += t.weight
	}
	pick := rng.IntN(total)
	for _, t := range typologies {
		pick -= t.weight
		if pick < 0 {
			return t.name
		}
	}
	return typologies[len(typologies)-1].name
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func writeFrame(path string, df dataframe.DataFrame) error {
	if df.Err != nil {
		return df.Err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := df.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printStats(crime []domain.CrimeRecord, weather []domain.WeatherRecord, buildings []domain.BuildingRecord) {
	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d crimes, %d weather days, %d buildings\n", len(crime), len(weather), len(buildings))

	perYear := map[string]int{}
	peaks := map[string]int{}
	perOffenseYear := map[string]map[string]int{}
	for i := range crime {
		c := &crime[i]
		perYear[c.Year]++
		byYear := perOffenseYear[c.OffenseDescr]
		if byYear == nil {
			byYear = map[string]int{}
			perOffenseYear[c.OffenseDescr] = byYear
		}
		byYear[c.Year]++
		if byYear[c.Year] > peaks[c.OffenseDescr] {
			peaks[c.OffenseDescr] = byYear[c.Year]
		}
	}

	years := make([]string, 0, len(perYear))
	for y := range perYear {
		years = append(years, y)
	}
	sort.Strings(years)
	fmt.Print("By year:")
	for _, y := range years {
		fmt.Printf(" %s=%d", y, perYear[y])
	}
	fmt.Println()

	var kept []string
	for descr, peak := range peaks {
		if peak >= 200 {
			kept = append(kept, descr)
		}
	}
	sort.Strings(kept)
	fmt.Printf("Offenses with a 200+ year (kept by the share analysis): %d\n", len(kept))
	for _, descr := range kept {
		fmt.Printf("  %s (peak %d)\n", descr, peaks[descr])
	}

	buildingKeys := map[string]bool{}
	for i := range buildings {
		buildingKeys[domain.StreetLocation(buildings[i].StName, buildings[i].StSuffix)] = true
	}
	crimeKeys := map[string]bool{}
	matched := 0
	for i := range crime {
		key := domain.StreetLocation(crime[i].Street, "")
		if crimeKeys[key] {
			continue
		}
		crimeKeys[key] = true
		if buildingKeys[key] {
			matched++
		}
	}
	fmt.Printf("Crime streets with at least one building: %d of %d\n", matched, len(crimeKeys))
}

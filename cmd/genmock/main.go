// Command genmock generates deterministic forecast fixtures: a synthetic
// raw bundle and the report derived from it through the real pipeline, so
// downstream consumers can develop against stable data.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -config config.yaml \
//	  -bundle-out data/mock/bundle.json \
//	  -report-out data/mock/report.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/levantkite/windforecast/internal/config"
	"github.com/levantkite/windforecast/internal/domain"
	"github.com/levantkite/windforecast/internal/pipeline"
)

// baseDate anchors every generated series; fixtures never drift.
var baseDate = time.Date(2025, time.June, 14, 0, 0, 0, 0, time.FixedZone("CEST", 2*60*60))

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	configPath := flag.String("config", "config.yaml", "path to spot configuration file")
	bundleOut := flag.String("bundle-out", "", "output path for the raw bundle fixture")
	reportOut := flag.String("report-out", "", "output path for the derived report fixture")
	days := flag.Int("days", 2, "number of forecast days to generate")
	flag.Parse()

	if *bundleOut == "" || *reportOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -bundle-out, -report-out")
	}

	spots, err := config.LoadSpotsFile(*configPath)
	if err != nil {
		return err
	}

	// Fix the clock so the generated_at timestamp is reproducible.
	domain.SetClock(clockwork.NewFakeClockAt(baseDate.Add(7 * time.Hour)))
	defer domain.SetClock(nil)

	bundle := generateBundle(spots.DomainSpots(), *days)

	doc, stats, err := pipeline.Build(bundle, spots.DomainConditions(), spots.Window())
	if err != nil {
		return err
	}
	log.Printf("generated %d spots, %d hours, %d kiteable",
		len(doc.Spots), len(doc.Views.AllHours), len(doc.Views.KiteableHours))
	if stats.SamplesDropped != 0 {
		return fmt.Errorf("synthetic bundle dropped %d samples, expected none", stats.SamplesDropped)
	}

	if err := writeJSON(*bundleOut, bundle); err != nil {
		return err
	}
	return writeJSON(*reportOut, doc)
}

// generateBundle builds a plausible multi-day forecast: a diurnal wind
// curve peaking mid-afternoon, phase-shifted per spot so the spots differ.
func generateBundle(spots []domain.Spot, days int) domain.Bundle {
	bundle := domain.Bundle{
		ModelUpdates: []domain.ModelUpdate{
			{
				Model:        "meteofrance_arome_france_hd",
				Title:        "AROME France HD (hourly)",
				Run:          baseDate.UTC().Format(time.RFC3339),
				LastModified: baseDate.UTC().Add(2 * time.Hour).Format(time.RFC3339),
			},
		},
	}

	for i, spot := range spots {
		ss := domain.SpotSeries{Spot: spot}
		phase := float64(i) * 1.3

		for h := 0; h < days*24; h++ {
			at := baseDate.Add(time.Duration(h) * time.Hour)
			wind := diurnalWind(h%24, phase)
			dir := sectorDirection(spot.DirSector, h)

			ss.Hourly = append(ss.Hourly, rawPoint(at, wind, dir))
			ss.Wave = append(ss.Wave, domain.RawPoint{Time: at, WaveM: fl(0.6 + wind/40)})

			// 15-minute detail for the first forecast day
			if h < 24 {
				for q := 0; q < 4; q++ {
					wobble := 1.5 * math.Sin(float64(h*4+q)*0.9)
					ss.Min15 = append(ss.Min15,
						rawPoint(at.Add(time.Duration(q)*15*time.Minute), wind+wobble, dir))
				}
			}
		}
		bundle.Series = append(bundle.Series, ss)
	}
	return bundle
}

// diurnalWind peaks around 15:00 local, calm at night.
func diurnalWind(hour int, phase float64) float64 {
	daylight := math.Sin((float64(hour) - 7) / 16 * math.Pi)
	if daylight < 0 {
		daylight = 0
	}
	return 6 + 18*daylight + 4*math.Sin(phase+float64(hour)*0.35)
}

// sectorDirection keeps most samples inside the spot's sector, drifting out
// every few hours so non-kiteable direction samples exist too.
func sectorDirection(sec *domain.DirectionSector, h int) float64 {
	base := 250.0
	if sec != nil {
		base = sec.Start + 20
	}
	return math.Mod(base+30*math.Sin(float64(h)*0.5)+360, 360)
}

func rawPoint(at time.Time, windKn, dirDeg float64) domain.RawPoint {
	return domain.RawPoint{
		Time:      at,
		WindKn:    fl(windKn),
		GustKn:    fl(windKn * 1.3),
		DirDeg:    fl(dirDeg),
		PrecipMmH: fl(0),
	}
}

func fl(v float64) *float64 { return &v }

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

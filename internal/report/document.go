// Package report turns classified forecast data into the serializable
// document the HTTP API, the CLI, and the Kafka publisher all share.
package report

import (
	"time"

	"github.com/levantkite/windforecast/internal/domain"
)

// Row is one classified sample in wire form. WaveM is omitted when the
// marine series did not cover the instant.
type Row struct {
	Time      string   `json:"time"`
	WindKn    float64  `json:"wind_kn"`
	GustKn    float64  `json:"gust_kn"`
	DirDeg    float64  `json:"dir_deg"`
	Dir       string   `json:"dir"`
	PrecipMmH float64  `json:"precip_mm_h"`
	WaveM     *float64 `json:"wave_m,omitempty"`
	Band      string   `json:"band"`
	Kiteable  bool     `json:"kiteable"`
	Stars     int      `json:"stars"`
	FiveStars int      `json:"five_stars"`
}

// HourCell is one spot-hour: the representative sample plus the raw
// sub-hour samples behind it.
type HourCell struct {
	Best    Row   `json:"best"`
	Samples []Row `json:"samples,omitempty"`
}

// SpotReport is one spot's bucketed forecast keyed by hour.
type SpotReport struct {
	Name  string              `json:"name"`
	Lat   float64             `json:"lat"`
	Lon   float64             `json:"lon"`
	Hours map[string]HourCell `json:"hours"`
}

// SpotDay mirrors domain.SpotDay in wire form.
type SpotDay struct {
	Spot          string   `json:"spot"`
	KiteableHours int      `json:"kiteable_hours"`
	AvgWindKn     float64  `json:"avg_wind_kn"`
	AvgGustKn     float64  `json:"avg_gust_kn"`
	AvgWaveM      *float64 `json:"avg_wave_m,omitempty"`
	BestStars     int      `json:"best_stars"`
	FirstHour     string   `json:"first_hour"`
	LastHour      string   `json:"last_hour"`
}

// DaySummary lists the spots with kiteable hours on one calendar day.
type DaySummary struct {
	Date  string    `json:"date"`
	Spots []SpotDay `json:"spots"`
}

// Views are the hour and spot orderings of the two report projections.
type Views struct {
	AllSpots      []string `json:"all_spots"`
	AllHours      []string `json:"all_hours"`
	KiteableSpots []string `json:"kiteable_spots"`
	KiteableHours []string `json:"kiteable_hours"`
}

// ModelRun describes one weather model's latest run for the report footer.
type ModelRun struct {
	Model        string `json:"model"`
	Title        string `json:"title"`
	Run          string `json:"run,omitempty"`
	LastModified string `json:"last_modified,omitempty"`
	Err          string `json:"error,omitempty"`
}

// Document is one complete forecast report.
type Document struct {
	GeneratedAt string       `json:"generated_at"`
	Spots       []SpotReport `json:"spots"`
	Views       Views        `json:"views"`
	Days        []DaySummary `json:"days"`
	Models      []ModelRun   `json:"models"`
}

// BuildDocument assembles the wire document from the bucketed spots and
// their derived views. GeneratedAt comes from the swappable domain clock.
func BuildDocument(spots []domain.SpotBuckets, views domain.Views, bands domain.Bands, updates []domain.ModelUpdate) Document {
	doc := Document{
		GeneratedAt: domain.Now().Format(time.RFC3339),
		Views: Views{
			AllSpots:      views.AllSpots,
			AllHours:      views.AllHours,
			KiteableSpots: views.KiteableSpots,
			KiteableHours: views.KiteableHours,
		},
	}

	for _, sb := range spots {
		sr := SpotReport{
			Name:  sb.Spot.Name,
			Lat:   sb.Spot.Lat,
			Lon:   sb.Spot.Lon,
			Hours: make(map[string]HourCell, len(sb.Buckets)),
		}
		for _, b := range sb.Buckets {
			cell := HourCell{Best: toRow(b.Best, bands)}
			if len(b.Samples) > 1 {
				cell.Samples = make([]Row, 0, len(b.Samples))
				for _, s := range b.Samples {
					cell.Samples = append(cell.Samples, toRow(s, bands))
				}
			}
			sr.Hours[b.Hour] = cell
		}
		doc.Spots = append(doc.Spots, sr)
	}

	for _, day := range views.Days {
		d := DaySummary{Date: day.Date}
		for _, s := range day.Spots {
			d.Spots = append(d.Spots, SpotDay{
				Spot:          s.Spot,
				KiteableHours: s.KiteableHours,
				AvgWindKn:     s.AvgWindKn,
				AvgGustKn:     s.AvgGustKn,
				AvgWaveM:      s.AvgWaveM,
				BestStars:     s.BestStars,
				FirstHour:     s.FirstHour,
				LastHour:      s.LastHour,
			})
		}
		doc.Days = append(doc.Days, d)
	}

	for _, u := range updates {
		doc.Models = append(doc.Models, ModelRun{
			Model:        u.Model,
			Title:        u.Title,
			Run:          u.Run,
			LastModified: u.LastModified,
			Err:          u.Err,
		})
	}

	return doc
}

// Spot returns the named spot's report, or nil.
func (d *Document) Spot(name string) *SpotReport {
	for i := range d.Spots {
		if d.Spots[i].Name == name {
			return &d.Spots[i]
		}
	}
	return nil
}

// Cell returns one spot-hour cell, or nil when the spot has no bucket for
// that hour.
func (d *Document) Cell(spot, hour string) *HourCell {
	sr := d.Spot(spot)
	if sr == nil {
		return nil
	}
	cell, ok := sr.Hours[hour]
	if !ok {
		return nil
	}
	return &cell
}

func toRow(s domain.ClassifiedSample, bands domain.Bands) Row {
	return Row{
		Time:      s.Time.Format(time.RFC3339),
		WindKn:    s.WindKn,
		GustKn:    s.GustKn,
		DirDeg:    s.DirDeg,
		Dir:       s.Compass,
		PrecipMmH: s.PrecipMmH,
		WaveM:     s.WaveM,
		Band:      s.Band,
		Kiteable:  s.Kiteable,
		Stars:     domain.StarsForBands(s.WindKn, bands),
		FiveStars: domain.FiveStarRating(s.WindKn),
	}
}

package openmeteo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/levantkite/windforecast/internal/domain"
)

// forecastResponse is one location's slice of an open-meteo response.
// Requests batch every spot's coordinates, and the API answers with a bare
// object for one location but an array for several.
type forecastResponse struct {
	Latitude             float64      `json:"latitude"`
	Longitude            float64      `json:"longitude"`
	UTCOffsetSeconds     int          `json:"utc_offset_seconds"`
	Timezone             string       `json:"timezone"`
	TimezoneAbbreviation string       `json:"timezone_abbreviation"`
	Hourly               *seriesBlock `json:"hourly"`
	Minutely15           *seriesBlock `json:"minutely_15"`
}

// seriesBlock holds the parallel arrays of one resolution. Values are
// pointers because the API emits explicit nulls for gaps; those survive
// decoding and are dropped later by the merge step.
type seriesBlock struct {
	Time          []string   `json:"time"`
	WindSpeed     []*float64 `json:"wind_speed_10m"`
	WindGusts     []*float64 `json:"wind_gusts_10m"`
	WindDirection []*float64 `json:"wind_direction_10m"`
	Precipitation []*float64 `json:"precipitation"`
	WaveHeight    []*float64 `json:"wave_height"`
}

// decodeLocations parses an open-meteo body into a per-location slice,
// accepting both the single-object and array forms.
func decodeLocations(data []byte) ([]forecastResponse, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var many []forecastResponse
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return nil, fmt.Errorf("decode location array: %w", err)
		}
		return many, nil
	}

	var one forecastResponse
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return nil, fmt.Errorf("decode location: %w", err)
	}
	return []forecastResponse{one}, nil
}

// location builds a fixed zone from the response's UTC offset so parsed
// timestamps keep the forecast locale.
func (r *forecastResponse) location() *time.Location {
	name := r.TimezoneAbbreviation
	if name == "" {
		name = r.Timezone
	}
	return time.FixedZone(name, r.UTCOffsetSeconds)
}

// points converts a series block into raw points. Open-meteo times come
// without an offset ("2006-01-02T15:04") and are interpreted in the
// response's own zone.
func (b *seriesBlock) points(loc *time.Location) ([]domain.RawPoint, error) {
	if b == nil {
		return nil, nil
	}
	out := make([]domain.RawPoint, 0, len(b.Time))
	for i, ts := range b.Time {
		t, err := time.ParseInLocation("2006-01-02T15:04", ts, loc)
		if err != nil {
			return nil, fmt.Errorf("parse series time %q: %w", ts, err)
		}
		out = append(out, domain.RawPoint{
			Time:      t,
			WindKn:    valueAt(b.WindSpeed, i),
			GustKn:    valueAt(b.WindGusts, i),
			DirDeg:    valueAt(b.WindDirection, i),
			PrecipMmH: valueAt(b.Precipitation, i),
			WaveM:     valueAt(b.WaveHeight, i),
		})
	}
	return out, nil
}

// valueAt tolerates variable arrays shorter than the time array.
func valueAt(vals []*float64, i int) *float64 {
	if i < len(vals) {
		return vals[i]
	}
	return nil
}

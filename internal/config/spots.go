package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/levantkite/windforecast/internal/domain"
)

// SpotsConfig is the file-based forecast configuration: spots, thresholds,
// daytime window, and forecast request parameters. The file is YAML; since
// JSON is a YAML subset, legacy config.json files load unchanged.
type SpotsConfig struct {
	Spots      []SpotConfig     `yaml:"spots"`
	Forecast   ForecastParams   `yaml:"forecast"`
	TimeWindow TimeWindowConfig `yaml:"time_window"`
	Conditions ConditionsConfig `yaml:"conditions"`
}

// SpotConfig describes one kitesurf spot in the config file.
type SpotConfig struct {
	Name      string        `yaml:"name"`
	Lat       float64       `yaml:"lat"`
	Lon       float64       `yaml:"lon"`
	DirSector *SectorConfig `yaml:"dir_sector"`
}

// SectorConfig is a spot's usable wind-direction range in degrees.
type SectorConfig struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
	Wrap  bool    `yaml:"wrap"`
}

// ForecastParams are passed through to the fetch client.
type ForecastParams struct {
	Model               string `yaml:"model"`
	HourlyVars          string `yaml:"hourly_vars"`
	WaveVars            string `yaml:"wave_vars"`
	ForecastHoursHourly int    `yaml:"forecast_hours_hourly"`
	ForecastMin15       int    `yaml:"forecast_min15"`
}

// TimeWindowConfig bounds the local hours a forecast considers.
type TimeWindowConfig struct {
	DayStart float64 `yaml:"day_start"`
	DayEnd   float64 `yaml:"day_end"`
}

// ConditionsConfig holds the band table and rain limit.
type ConditionsConfig struct {
	Bands     []BandConfig `yaml:"bands"`
	RainLimit float64      `yaml:"rain_limit"`
}

// BandConfig is one band entry. The file format is a two-element sequence,
// ["good", 17], matching the legacy JSON layout; a {label, min_kn} mapping
// is accepted as well.
type BandConfig struct {
	Label string
	MinKn float64
}

// UnmarshalYAML accepts both the tuple and mapping forms.
func (b *BandConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		if len(node.Content) != 2 {
			return fmt.Errorf("line %d: band entry must be [label, threshold]", node.Line)
		}
		if err := node.Content[0].Decode(&b.Label); err != nil {
			return fmt.Errorf("line %d: band label: %w", node.Line, err)
		}
		if err := node.Content[1].Decode(&b.MinKn); err != nil {
			return fmt.Errorf("line %d: band threshold: %w", node.Line, err)
		}
		return nil
	}

	var m struct {
		Label string  `yaml:"label"`
		MinKn float64 `yaml:"min_kn"`
	}
	if err := node.Decode(&m); err != nil {
		return err
	}
	b.Label, b.MinKn = m.Label, m.MinKn
	return nil
}

// Violation is one field-level configuration problem.
type Violation struct {
	Field   string
	Message string
}

// ValidationError aggregates every violation found in a config file.
// Validation never panics and reports all problems at once.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Field + ": " + v.Message
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

// LoadSpotsFile reads and validates a spot configuration file. When the
// content is structurally readable but semantically invalid, the returned
// error is a *ValidationError carrying every field violation.
func LoadSpotsFile(path string) (*SpotsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spot config: %w", err)
	}

	var cfg SpotsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse spot config %s: %w", path, err)
	}

	if violations := cfg.Validate(); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	return &cfg, nil
}

// Validate checks every invariant the pipeline relies on and returns the
// full list of violations, empty when the configuration is valid.
func (c *SpotsConfig) Validate() []Violation {
	var out []Violation
	add := func(field, format string, args ...any) {
		out = append(out, Violation{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if len(c.Spots) == 0 {
		add("spots", "at least one spot is required")
	}
	for i, s := range c.Spots {
		field := fmt.Sprintf("spots[%d]", i)
		if s.Name == "" {
			add(field+".name", "name is required")
		}
		if s.Lat < -90 || s.Lat > 90 {
			add(field+".lat", "latitude %.4f outside -90..90", s.Lat)
		}
		if s.Lon < -180 || s.Lon > 180 {
			add(field+".lon", "longitude %.4f outside -180..180", s.Lon)
		}
		if sec := s.DirSector; sec != nil {
			if sec.Start < 0 || sec.Start > 360 {
				add(field+".dir_sector.start", "angle %.1f outside 0..360", sec.Start)
			}
			if sec.End < 0 || sec.End > 360 {
				add(field+".dir_sector.end", "angle %.1f outside 0..360", sec.End)
			}
		}
	}

	if len(c.Conditions.Bands) == 0 {
		add("conditions.bands", "at least one band is required")
	}
	for i := 1; i < len(c.Conditions.Bands); i++ {
		prev, cur := c.Conditions.Bands[i-1], c.Conditions.Bands[i]
		if cur.MinKn >= prev.MinKn {
			add(fmt.Sprintf("conditions.bands[%d]", i),
				"threshold %.1f not strictly below %.1f", cur.MinKn, prev.MinKn)
		}
	}
	if c.Conditions.RainLimit < 0 {
		add("conditions.rain_limit", "must be >= 0")
	}

	if c.TimeWindow.DayStart < 0 || c.TimeWindow.DayStart > 23 {
		add("time_window.day_start", "hour %.1f outside 0..23", c.TimeWindow.DayStart)
	}
	if c.TimeWindow.DayEnd < 0 || c.TimeWindow.DayEnd > 23 {
		add("time_window.day_end", "hour %.1f outside 0..23", c.TimeWindow.DayEnd)
	}
	if c.TimeWindow.DayEnd < c.TimeWindow.DayStart {
		add("time_window", "day_end %.1f before day_start %.1f", c.TimeWindow.DayEnd, c.TimeWindow.DayStart)
	}

	if c.Forecast.Model == "" {
		add("forecast.model", "model is required")
	}
	if c.Forecast.ForecastHoursHourly <= 0 {
		add("forecast.forecast_hours_hourly", "must be > 0")
	}
	if c.Forecast.ForecastMin15 < 0 {
		add("forecast.forecast_min15", "must be >= 0")
	}

	return out
}

// DomainSpots converts the file spots to domain values.
func (c *SpotsConfig) DomainSpots() []domain.Spot {
	spots := make([]domain.Spot, 0, len(c.Spots))
	for _, s := range c.Spots {
		spot := domain.Spot{Name: s.Name, Lat: s.Lat, Lon: s.Lon}
		if s.DirSector != nil {
			spot.DirSector = &domain.DirectionSector{
				Start: s.DirSector.Start,
				End:   s.DirSector.End,
				Wrap:  s.DirSector.Wrap,
			}
		}
		spots = append(spots, spot)
	}
	return spots
}

// DomainConditions converts the band table and rain limit to domain values.
func (c *SpotsConfig) DomainConditions() domain.Conditions {
	bands := make(domain.Bands, 0, len(c.Conditions.Bands))
	for _, b := range c.Conditions.Bands {
		bands = append(bands, domain.Band{Label: b.Label, MinKn: b.MinKn})
	}
	return domain.Conditions{Bands: bands, RainLimit: c.Conditions.RainLimit}
}

// Window converts the daytime bounds to the domain filter's type.
func (c *SpotsConfig) Window() domain.TimeWindow {
	return domain.TimeWindow{DayStart: c.TimeWindow.DayStart, DayEnd: c.TimeWindow.DayEnd}
}

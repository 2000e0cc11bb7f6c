package domain

import "time"

// MinKiteableKn is the wind floor below which a sample is never kiteable,
// regardless of the configured band table.
const MinKiteableKn = 12.0

// DirectionSector is the angular range of wind-origin directions a spot
// considers usable. When Wrap is true the sector crosses north and
// membership is the union of [Start,360) and [0,End].
type DirectionSector struct {
	Start float64
	End   float64
	Wrap  bool
}

// Spot is a kitesurf location. Name is the identity key across the whole
// pipeline. A nil DirSector means any wind direction works.
type Spot struct {
	Name      string
	Lat       float64
	Lon       float64
	DirSector *DirectionSector
}

// Band is one wind-speed tier: a label and the minimum knots that reach it.
type Band struct {
	Label string
	MinKn float64
}

// Conditions are the site-wide classification thresholds.
type Conditions struct {
	Bands     Bands
	RainLimit float64 // mm/h, inclusive
}

// TimeWindow is the local-hour range retained by the daytime filter.
// Bounds may be fractional but are compared against integer hours only.
type TimeWindow struct {
	DayStart float64
	DayEnd   float64
}

// RawPoint is one instant of a raw model series. Fields are pointers because
// upstream payloads carry explicit nulls; a point is unusable until every
// field except WaveM is present.
type RawPoint struct {
	Time      time.Time
	WindKn    *float64
	GustKn    *float64
	DirDeg    *float64
	PrecipMmH *float64
	WaveM     *float64
}

// RawSample is one complete merged instant for one spot. WaveM stays nil
// when the marine series does not cover the instant.
type RawSample struct {
	Time      time.Time
	WindKn    float64
	GustKn    float64
	DirDeg    float64
	PrecipMmH float64
	WaveM     *float64
}

// ClassifiedSample is a RawSample plus its derived classification.
// Immutable once created.
type ClassifiedSample struct {
	RawSample
	Compass  string // 16-point label
	DirOK    bool
	RainOK   bool
	SpeedOK  bool
	Band     string
	Kiteable bool
}

// SpotSeries holds one spot's raw input series for a refresh.
type SpotSeries struct {
	Spot   Spot
	Hourly []RawPoint
	Min15  []RawPoint
	Wave   []RawPoint
}

// ModelUpdate describes one weather model's latest published run.
// Err is set, and Run empty, when the metadata fetch failed.
type ModelUpdate struct {
	Model        string
	Title        string
	Run          string
	LastModified string
	Source       string
	Err          string
}

// Bundle is everything one forecast refresh fetched.
type Bundle struct {
	Series       []SpotSeries
	ModelUpdates []ModelUpdate
}

// Package domain models wind forecast classification for kitesurf spots.
//
// # Data Source
//
// Raw series come from numerical weather models (AROME via the open-meteo
// API): an hourly series and a 15-minute series of wind speed, gust,
// direction, and precipitation, plus an hourly marine series of wave height.
// Wind speeds are in knots, directions in degrees (0-360, wind origin),
// precipitation in mm/h, wave height in meters. Timestamps carry the
// forecast locale's UTC offset.
//
// # Merge Convention
//
// The 15-minute feed is authoritative while it lasts: the merged series is
// the 15-minute series followed by the hourly points strictly beyond its
// horizon. Wave height is left-joined by exact timestamp and is the only
// field allowed to stay absent downstream; a point missing wind, gust,
// direction, or precipitation is dropped as unusable, never defaulted.
//
// # Kiteable Verdict
//
// A sample is kiteable when all three gates pass:
//
//	direction: wind origin inside the spot's configured sector
//	           (sectors may wrap through north: [start,360) ∪ [0,end])
//	rain:      precipitation at or below the configured limit
//	speed:     wind at or above the 12 kn floor ([MinKiteableKn])
//
// The verdict is independent of the band label beyond the speed floor: a
// sample can sit in any band and still fail on direction or rain alone.
//
// # Bands and Stars
//
// Bands are (label, min-knots) tiers with strictly descending thresholds;
// the first entry is the "too much" danger tier. A speed belongs to the
// first band whose threshold it reaches, or "below" when none match.
//
// Two star scales exist because report variants historically used either:
// [StarsForBands] rates against the configured band table (0 at or above
// the danger tier, never rewarding extreme wind), while [FiveStarRating]
// uses fixed knot cutoffs (25/20/17/15/12 → 5..1). They are deliberately
// separate functions.
//
// # Hour Buckets
//
// Sub-hour samples group by wall-clock hour; each bucket's representative
// is its best moment (highest banded stars, then highest wind, then
// earliest), because "should I go now" hinges on peak opportunity, not
// mean conditions.
package domain

package domain

import "fmt"

// Classify derives the full classification for one merged sample. The
// kiteable verdict is the conjunction of the direction, rain, and speed
// gates; the band label rides along for display and rating.
func Classify(s RawSample, sector *DirectionSector, cond Conditions) ClassifiedSample {
	dirOK := sector.Contains(s.DirDeg)
	rainOK := s.PrecipMmH <= cond.RainLimit
	speedOK := s.WindKn >= MinKiteableKn

	return ClassifiedSample{
		RawSample: s,
		Compass:   CompassLabel(s.DirDeg),
		DirOK:     dirOK,
		RainOK:    rainOK,
		SpeedOK:   speedOK,
		Band:      cond.Bands.Classify(s.WindKn),
		Kiteable:  dirOK && rainOK && speedOK,
	}
}

// ClassifySeries classifies a merged series against one spot's sector and
// the site-wide conditions. The band table and sector are validated first:
// they are strict invariants and a broken table would otherwise misclassify
// silently.
func ClassifySeries(samples []RawSample, spot Spot, cond Conditions) ([]ClassifiedSample, error) {
	if err := cond.Bands.Validate(); err != nil {
		return nil, fmt.Errorf("classify %s: %w", spot.Name, err)
	}
	if err := spot.DirSector.Validate(); err != nil {
		return nil, fmt.Errorf("classify %s: %w", spot.Name, err)
	}

	out := make([]ClassifiedSample, 0, len(samples))
	for _, s := range samples {
		out = append(out, Classify(s, spot.DirSector, cond))
	}
	return out, nil
}

// FilterDaytime drops samples whose local hour-of-day falls outside the
// window, inclusive on both ends. Only the integer hour component is
// compared, so minutes within an included hour are always retained: a
// 20:45 sample survives a window ending at 20.
func FilterDaytime(samples []ClassifiedSample, w TimeWindow) []ClassifiedSample {
	out := make([]ClassifiedSample, 0, len(samples))
	for _, s := range samples {
		h := float64(s.Time.Hour())
		if h >= w.DayStart && h <= w.DayEnd {
			out = append(out, s)
		}
	}
	return out
}

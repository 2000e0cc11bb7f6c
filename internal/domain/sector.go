package domain

import (
	"fmt"
	"math"
)

// compassLabels are the 16 principal directions, N centered on 0°.
var compassLabels = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CompassLabel maps a wind direction in degrees to its 16-point compass
// label. Each sector spans 22.5° centered on the principal direction, so
// 348.75°-11.25° is "N".
func CompassLabel(deg float64) string {
	idx := int(math.Floor((deg+11.25)/22.5)) % 16
	if idx < 0 {
		idx += 16
	}
	return compassLabels[idx]
}

// Contains reports whether a wind direction falls inside the sector,
// inclusive on both edges. A nil sector matches everything.
//
// A non-wrapping sector with Start > End is normalized by treating End as
// End+360, so the range always runs start→end increasing; membership then
// also tests deg+360. Legacy configs carry such sectors, so they are
// accepted here rather than rejected at validation.
func (s *DirectionSector) Contains(deg float64) bool {
	if s == nil {
		return true
	}
	if s.Wrap {
		return deg >= s.Start || deg <= s.End
	}
	if s.Start > s.End {
		end := s.End + 360
		return (s.Start <= deg && deg <= end) || (s.Start <= deg+360 && deg+360 <= end)
	}
	return s.Start <= deg && deg <= s.End
}

// Validate rejects angles outside 0-360. Sector shape (start vs end) is
// deliberately not restricted; see Contains.
func (s *DirectionSector) Validate() error {
	if s == nil {
		return nil
	}
	if s.Start < 0 || s.Start > 360 {
		return fmt.Errorf("sector start %.1f outside 0-360", s.Start)
	}
	if s.End < 0 || s.End > 360 {
		return fmt.Errorf("sector end %.1f outside 0-360", s.End)
	}
	return nil
}

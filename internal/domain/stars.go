package domain

// starsByBand maps band labels to the banded star scale. "hardcore" rates 3,
// the same as "good": historical report revisions disagreed on this and the
// table here is the fixed choice.
var starsByBand = map[string]int{
	"insane":    6,
	"great":     5,
	"very good": 4,
	"good":      3,
	"hardcore":  3,
	"ok":        2,
	"light":     1,
	BandBelow:   0,
}

// StarsForBands rates a wind speed against the configured band table.
// Speeds at or above the most extreme threshold rate 0 no matter how large:
// dangerous wind is never rewarded. Otherwise the first matching tier below
// wins, unrecognized labels rating 0.
func StarsForBands(kn float64, bands Bands) int {
	if len(bands) == 0 {
		return 0
	}
	if kn >= bands[0].MinKn {
		return 0
	}
	for _, b := range bands[1:] {
		if kn >= b.MinKn {
			return starsByBand[b.Label]
		}
	}
	return 0
}

// FiveStarRating rates a wind speed on the plain five-star scale with fixed
// knot cutoffs, independent of any band table. Some report variants use
// this scheme instead of [StarsForBands].
func FiveStarRating(kn float64) int {
	switch {
	case kn >= 25:
		return 5
	case kn >= 20:
		return 4
	case kn >= 17:
		return 3
	case kn >= 15:
		return 2
	case kn >= MinKiteableKn:
		return 1
	default:
		return 0
	}
}

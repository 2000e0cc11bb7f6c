package domain

import "fmt"

// BandBelow is the implicit band for speeds under every configured threshold.
const BandBelow = "below"

// Bands is the ordered band table, most extreme tier first. Thresholds must
// be strictly descending; Validate enforces this.
type Bands []Band

// Classify returns the label of the first band whose threshold is at or
// below kn, scanning from the most extreme tier down, or [BandBelow] when
// none match.
func (b Bands) Classify(kn float64) string {
	for _, band := range b {
		if kn >= band.MinKn {
			return band.Label
		}
	}
	return BandBelow
}

// Rank orders band labels by severity: 0 for [BandBelow] or unknown labels,
// rising to len(b) for the most extreme tier. Useful for monotonicity
// checks and sorting, not for display.
func (b Bands) Rank(label string) int {
	for i, band := range b {
		if band.Label == label {
			return len(b) - i
		}
	}
	return 0
}

// Validate rejects an empty table or thresholds that are not strictly
// descending. The configuration collaborator checks this too; the check is
// repeated here because it is a strict invariant of every band scan.
func (b Bands) Validate() error {
	if len(b) == 0 {
		return fmt.Errorf("band table is empty")
	}
	for i := 1; i < len(b); i++ {
		if b[i].MinKn >= b[i-1].MinKn {
			return fmt.Errorf("band %q threshold %.1f not below %q threshold %.1f",
				b[i].Label, b[i].MinKn, b[i-1].Label, b[i-1].MinKn)
		}
	}
	return nil
}

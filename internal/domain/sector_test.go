package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompassLabel(t *testing.T) {
	tests := []struct {
		name     string
		deg      float64
		expected string
	}{
		{"north", 0, "N"},
		{"north high edge", 11.2, "N"},
		{"nne low edge", 11.3, "NNE"},
		{"east", 90, "E"},
		{"south", 180, "S"},
		{"west", 270, "W"},
		{"nnw", 337.5, "NNW"},
		{"wraps back to north", 354, "N"},
		{"exactly 360", 360, "N"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CompassLabel(tt.deg))
		})
	}
}

func TestSectorContains_Wrapping(t *testing.T) {
	// The canonical wrapped sector: 225..360 and 0..45.
	s := &DirectionSector{Start: 225, End: 45, Wrap: true}

	tests := []struct {
		name     string
		deg      float64
		expected bool
	}{
		{"inside upper arm", 300, true},
		{"outside", 100, false},
		{"start edge", 225, true},
		{"end edge", 45, true},
		{"north crossing", 0, true},
		{"just past end", 45.1, false},
		{"just before start", 224.9, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.Contains(tt.deg))
		})
	}
}

func TestSectorContains_NonWrapping(t *testing.T) {
	tests := []struct {
		name     string
		sector   DirectionSector
		deg      float64
		expected bool
	}{
		{"inside", DirectionSector{Start: 90, End: 180}, 135, true},
		{"start edge", DirectionSector{Start: 90, End: 180}, 90, true},
		{"end edge", DirectionSector{Start: 90, End: 180}, 180, true},
		{"below start", DirectionSector{Start: 90, End: 180}, 89.9, false},
		{"above end", DirectionSector{Start: 90, End: 180}, 180.1, false},

		// start > end without wrap: end is normalized to end+360, so the
		// sector runs 350..370 and 5° (= 365°) is inside.
		{"normalized low side", DirectionSector{Start: 350, End: 10}, 5, true},
		{"normalized high side", DirectionSector{Start: 350, End: 10}, 355, true},
		{"normalized outside", DirectionSector{Start: 350, End: 10}, 180, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.sector.Contains(tt.deg))
		})
	}
}

func TestSectorContains_NilMatchesEverything(t *testing.T) {
	var s *DirectionSector
	for _, deg := range []float64{0, 90, 180, 270, 359.9} {
		assert.True(t, s.Contains(deg), "deg %.1f", deg)
	}
}

func TestSectorContains_MembershipProperty(t *testing.T) {
	// Non-wrapping sectors: membership iff start <= deg <= end after
	// normalization. Wrapping: membership iff deg >= start or deg <= end.
	plain := &DirectionSector{Start: 30, End: 200}
	wrapped := &DirectionSector{Start: 300, End: 60, Wrap: true}

	for deg := 0.0; deg <= 360; deg += 0.5 {
		assert.Equal(t, deg >= 30 && deg <= 200, plain.Contains(deg), "plain deg %.1f", deg)
		assert.Equal(t, deg >= 300 || deg <= 60, wrapped.Contains(deg), "wrapped deg %.1f", deg)
	}
}

func TestSectorValidate(t *testing.T) {
	require.NoError(t, (*DirectionSector)(nil).Validate())
	require.NoError(t, (&DirectionSector{Start: 225, End: 45, Wrap: true}).Validate())
	require.NoError(t, (&DirectionSector{Start: 350, End: 10}).Validate())

	assert.Error(t, (&DirectionSector{Start: -1, End: 45}).Validate())
	assert.Error(t, (&DirectionSector{Start: 0, End: 361}).Validate())
}

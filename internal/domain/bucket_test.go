package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classified(t time.Time, wind float64, kiteable bool) ClassifiedSample {
	return ClassifiedSample{
		RawSample: RawSample{Time: t, WindKn: wind, GustKn: wind + 3, DirDeg: 90},
		Band:      testBands().Classify(wind),
		Kiteable:  kiteable,
	}
}

func TestHourKey(t *testing.T) {
	assert.Equal(t, "2025-06-14T09:00:00+02:00", HourKey(at(9, 45)))
	assert.Equal(t, "2025-06-14T09:00:00+02:00", HourKey(at(9, 0)))
}

func TestTruncateToHour_KeepsLocation(t *testing.T) {
	tr := TruncateToHour(at(9, 45))
	assert.Equal(t, 9, tr.Hour())
	assert.Zero(t, tr.Minute())
	assert.Equal(t, cest, tr.Location())
}

func TestBucketByHour_Grouping(t *testing.T) {
	samples := []ClassifiedSample{
		classified(at(9, 0), 14, true),
		classified(at(9, 15), 16, true),
		classified(at(9, 30), 15, true),
		classified(at(10, 0), 13, true),
	}

	buckets := BucketByHour(samples, testBands())

	require.Len(t, buckets, 2)
	assert.Len(t, buckets[0].Samples, 3)
	assert.Len(t, buckets[1].Samples, 1)
	assert.Equal(t, "2025-06-14T09:00:00+02:00", buckets[0].Hour)
	assert.True(t, buckets[0].Time.Equal(at(9, 0)))
}

func TestBucketByHour_RepresentativeIsPeakWind(t *testing.T) {
	// Three 15-minute samples at 14/16/15 kn, all kiteable, all in the same
	// band: the 16 kn sample wins on the wind tie-break.
	samples := []ClassifiedSample{
		classified(at(9, 0), 14, true),
		classified(at(9, 15), 16, true),
		classified(at(9, 30), 15, true),
	}

	buckets := BucketByHour(samples, testBands())

	require.Len(t, buckets, 1)
	assert.Equal(t, 16.0, buckets[0].Best.WindKn)
	assert.True(t, buckets[0].Best.Time.Equal(at(9, 15)))
}

func TestBucketByHour_RepresentativePrefersStars(t *testing.T) {
	bands := Bands{
		{Label: "too much", MinKn: 40},
		{Label: "good", MinKn: 17},
		{Label: "light", MinKn: 12},
	}
	// 45 kn rates 0 stars (danger); 18 kn rates higher and must win even
	// though its raw speed is lower.
	samples := []ClassifiedSample{
		classified(at(9, 0), 45, false),
		classified(at(9, 15), 18, true),
	}

	buckets := BucketByHour(samples, bands)

	require.Len(t, buckets, 1)
	assert.Equal(t, 18.0, buckets[0].Best.WindKn)
}

func TestBucketByHour_ExactTieTakesEarliest(t *testing.T) {
	samples := []ClassifiedSample{
		classified(at(9, 15), 15, true),
		classified(at(9, 30), 15, true),
	}

	buckets := BucketByHour(samples, testBands())

	require.Len(t, buckets, 1)
	assert.True(t, buckets[0].Best.Time.Equal(at(9, 15)))
}

func TestBucketByHour_Empty(t *testing.T) {
	assert.Empty(t, BucketByHour(nil, testBands()))
}

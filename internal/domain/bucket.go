package domain

import "time"

// HourKey formats a timestamp truncated to its wall-clock hour, keeping the
// original UTC offset. Keys from one forecast share an offset, so lexical
// order is chronological order.
func HourKey(t time.Time) string {
	return TruncateToHour(t).Format(time.RFC3339)
}

// DateKey formats a timestamp's calendar date in its own locale.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// TruncateToHour zeroes the sub-hour components in the timestamp's own
// location. time.Truncate is avoided: it truncates absolute time and shifts
// wall-clock hours in zones with non-whole-hour offsets.
func TruncateToHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

// HourBucket groups the sub-hour samples sharing one wall-clock hour.
type HourBucket struct {
	Hour    string    // HourKey of Time
	Time    time.Time // bucket hour, minutes zeroed
	Samples []ClassifiedSample
	Best    ClassifiedSample // representative sample, see BucketByHour
}

// BucketByHour groups a time-ascending classified series by wall-clock hour
// and picks each bucket's representative: highest banded star rating first,
// highest raw wind speed as tie-break, earliest timestamp after that. The
// selection is a pure function of the bucket's members and deterministic.
func BucketByHour(samples []ClassifiedSample, bands Bands) []HourBucket {
	var buckets []HourBucket
	for _, s := range samples {
		key := HourKey(s.Time)
		if n := len(buckets); n == 0 || buckets[n-1].Hour != key {
			buckets = append(buckets, HourBucket{Hour: key, Time: TruncateToHour(s.Time)})
		}
		b := &buckets[len(buckets)-1]
		b.Samples = append(b.Samples, s)
	}

	for i := range buckets {
		buckets[i].Best = bestSample(buckets[i].Samples, bands)
	}
	return buckets
}

// bestSample assumes samples is non-empty and time-ascending; the strict
// greater-than comparisons make the earliest sample win exact ties.
func bestSample(samples []ClassifiedSample, bands Bands) ClassifiedSample {
	best := samples[0]
	bestStars := StarsForBands(best.WindKn, bands)
	for _, s := range samples[1:] {
		stars := StarsForBands(s.WindKn, bands)
		if stars > bestStars || (stars == bestStars && s.WindKn > best.WindKn) {
			best = s
			bestStars = stars
		}
	}
	return best
}

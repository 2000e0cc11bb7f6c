package pipeline

import (
	"fmt"

	"github.com/levantkite/windforecast/internal/domain"
	"github.com/levantkite/windforecast/internal/report"
)

// BuildStats carries the per-refresh numbers the metrics layer records.
type BuildStats struct {
	SamplesDropped int
	KiteableHours  map[string]int // by spot name
}

// Build runs the pure half of a refresh: merge each spot's raw series,
// classify, keep daytime hours, bucket by hour, and derive the report
// document. No I/O and no clock reads besides the document timestamp.
func Build(bundle domain.Bundle, cond domain.Conditions, window domain.TimeWindow) (report.Document, BuildStats, error) {
	stats := BuildStats{KiteableHours: make(map[string]int, len(bundle.Series))}

	spots := make([]domain.SpotBuckets, 0, len(bundle.Series))
	for _, ss := range bundle.Series {
		samples, dropped := domain.MergeSeries(ss.Hourly, ss.Min15, ss.Wave)
		stats.SamplesDropped += dropped

		classified, err := domain.ClassifySeries(samples, ss.Spot, cond)
		if err != nil {
			return report.Document{}, stats, fmt.Errorf("classify spot %s: %w", ss.Spot.Name, err)
		}
		classified = domain.FilterDaytime(classified, window)

		buckets := domain.BucketByHour(classified, cond.Bands)
		kiteable := 0
		for _, b := range buckets {
			if b.Best.Kiteable {
				kiteable++
			}
		}
		stats.KiteableHours[ss.Spot.Name] = kiteable

		spots = append(spots, domain.SpotBuckets{Spot: ss.Spot, Buckets: buckets})
	}

	views := domain.BuildViews(spots, cond.Bands)
	doc := report.BuildDocument(spots, views, cond.Bands, bundle.ModelUpdates)
	return doc, stats, nil
}

package domain

import "sort"

// MergeSeries combines one spot's hourly series, 15-minute series, and
// hourly wave series into a single time-ascending series, unique by
// timestamp. The 15-minute feed wins while it lasts; hourly points strictly
// beyond its last timestamp fill the rest. An empty 15-minute series yields
// the hourly series unchanged. Wave height is left-joined by exact
// timestamp match.
//
// Points still missing wind, gust, direction, or precipitation after the
// join are dropped as unusable; the second return value counts them.
func MergeSeries(hourly, min15, wave []RawPoint) ([]RawSample, int) {
	waveAt := make(map[int64]float64, len(wave))
	for _, w := range wave {
		if w.WaveM != nil {
			waveAt[w.Time.Unix()] = *w.WaveM
		}
	}

	merged := make([]RawPoint, 0, len(min15)+len(hourly))
	merged = append(merged, min15...)
	if len(min15) == 0 {
		merged = append(merged, hourly...)
	} else {
		horizon := min15[0].Time
		for _, p := range min15[1:] {
			if p.Time.After(horizon) {
				horizon = p.Time
			}
		}
		for _, p := range hourly {
			if p.Time.After(horizon) {
				merged = append(merged, p)
			}
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Time.Before(merged[j].Time)
	})

	out := make([]RawSample, 0, len(merged))
	dropped := 0
	seen := make(map[int64]bool, len(merged))
	for _, p := range merged {
		if p.WindKn == nil || p.GustKn == nil || p.DirDeg == nil || p.PrecipMmH == nil {
			dropped++
			continue
		}
		ts := p.Time.Unix()
		if seen[ts] {
			continue
		}
		seen[ts] = true

		s := RawSample{
			Time:      p.Time,
			WindKn:    *p.WindKn,
			GustKn:    *p.GustKn,
			DirDeg:    *p.DirDeg,
			PrecipMmH: *p.PrecipMmH,
		}
		if v, ok := waveAt[ts]; ok {
			wave := v
			s.WaveM = &wave
		}
		out = append(out, s)
	}
	return out, dropped
}

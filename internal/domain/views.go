package domain

import "sort"

// SpotBuckets ties a spot to its classified, hour-bucketed forecast.
type SpotBuckets struct {
	Spot    Spot
	Buckets []HourBucket
}

// SpotDay aggregates one spot's kiteable hours within one calendar day.
// Averages run over the representative samples of the kiteable hours;
// AvgWaveM is nil when none of those hours carried a wave value.
type SpotDay struct {
	Spot          string
	KiteableHours int
	AvgWindKn     float64
	AvgGustKn     float64
	AvgWaveM      *float64
	BestStars     int
	FirstHour     string // "HH:MM" of the first kiteable hour
	LastHour      string
}

// DaySummary lists the spots with kiteable hours on one day. Days with zero
// qualifying spots produce no DaySummary at all.
type DaySummary struct {
	Date  string // DateKey, forecast-local
	Spots []SpotDay
}

// Views are the two projections a report renders, plus per-day aggregates.
//
// The all-conditions view shows every hour for every spot, including
// non-kiteable ones. The kiteable view keeps only hours where at least one
// spot's representative is kiteable, and only spots with at least one
// kiteable hour anywhere in the horizon. Both sets being empty is a valid
// outcome, not an error.
type Views struct {
	AllSpots      []string // configuration order
	AllHours      []string // sorted hour keys present for any spot
	KiteableSpots []string // ordered by kiteable-hour count desc, then name
	KiteableHours []string
	Days          []DaySummary
}

// BuildViews derives both projections and the daily aggregates from every
// spot's bucketed series.
func BuildViews(spots []SpotBuckets, bands Bands) Views {
	v := Views{}

	allHours := map[string]bool{}
	kiteableHours := map[string]bool{}
	kiteableCount := map[string]int{}
	// date -> spot name -> kiteable buckets that day
	byDay := map[string]map[string][]HourBucket{}

	for _, sb := range spots {
		v.AllSpots = append(v.AllSpots, sb.Spot.Name)
		for _, b := range sb.Buckets {
			allHours[b.Hour] = true
			if !b.Best.Kiteable {
				continue
			}
			kiteableHours[b.Hour] = true
			kiteableCount[sb.Spot.Name]++

			date := DateKey(b.Time)
			if byDay[date] == nil {
				byDay[date] = map[string][]HourBucket{}
			}
			byDay[date][sb.Spot.Name] = append(byDay[date][sb.Spot.Name], b)
		}
	}

	v.AllHours = sortedKeys(allHours)
	v.KiteableHours = sortedKeys(kiteableHours)

	for _, sb := range spots {
		if kiteableCount[sb.Spot.Name] > 0 {
			v.KiteableSpots = append(v.KiteableSpots, sb.Spot.Name)
		}
	}
	sortSpotsByCount(v.KiteableSpots, kiteableCount)

	for _, date := range sortedKeys2(byDay) {
		day := DaySummary{Date: date}
		for name, buckets := range byDay[date] {
			day.Spots = append(day.Spots, summarizeSpotDay(name, buckets, bands))
		}
		sort.Slice(day.Spots, func(i, j int) bool {
			a, b := day.Spots[i], day.Spots[j]
			if a.KiteableHours != b.KiteableHours {
				return a.KiteableHours > b.KiteableHours
			}
			return a.Spot < b.Spot
		})
		v.Days = append(v.Days, day)
	}

	return v
}

func summarizeSpotDay(name string, buckets []HourBucket, bands Bands) SpotDay {
	d := SpotDay{Spot: name, KiteableHours: len(buckets)}

	var windSum, gustSum, waveSum float64
	waveN := 0
	for i, b := range buckets {
		windSum += b.Best.WindKn
		gustSum += b.Best.GustKn
		if b.Best.WaveM != nil {
			waveSum += *b.Best.WaveM
			waveN++
		}
		if stars := StarsForBands(b.Best.WindKn, bands); stars > d.BestStars {
			d.BestStars = stars
		}
		hhmm := b.Time.Format("15:04")
		if i == 0 || hhmm < d.FirstHour {
			d.FirstHour = hhmm
		}
		if hhmm > d.LastHour {
			d.LastHour = hhmm
		}
	}

	n := float64(len(buckets))
	d.AvgWindKn = windSum / n
	d.AvgGustKn = gustSum / n
	if waveN > 0 {
		avg := waveSum / float64(waveN)
		d.AvgWaveM = &avg
	}
	return d
}

// sortSpotsByCount orders spot names by descending count, name as tie-break.
func sortSpotsByCount(names []string, count map[string]int) {
	sort.Slice(names, func(i, j int) bool {
		if count[names[i]] != count[names[j]] {
			return count[names[i]] > count[names[j]]
		}
		return names[i] < names[j]
	})
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeys2(m map[string]map[string][]HourBucket) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package forecast

import (
	"math"
	"sort"
	"time"
)

// DefaultAlignTolerance is how far an air-quality sample may sit from a forecast
// timestamp and still be used for it. The air-quality feed is hourly, so half an
// hour picks the nearest sample without reaching into a neighbouring slot.
const DefaultAlignTolerance = 30 * time.Minute

// BuildDailySummary keys samples by UTC calendar day and keeps the first sample
// seen for each day, in order of first appearance, up to maxDays entries.
func BuildDailySummary(samples []Sample, maxDays int) []DailySummary {
	return BuildDailySummaryIn(samples, maxDays, time.UTC)
}

// BuildDailySummaryIn is BuildDailySummary with day keys computed in loc.
// A nil loc is treated as UTC.
func BuildDailySummaryIn(samples []Sample, maxDays int, loc *time.Location) []DailySummary {
	if maxDays <= 0 || len(samples) == 0 {
		return []DailySummary{}
	}
	if loc == nil {
		loc = time.UTC
	}

	seen := make(map[string]struct{}, maxDays)
	days := make([]DailySummary, 0, maxDays)
	for _, s := range samples {
		key := time.Unix(s.Timestamp, 0).In(loc).Format(DayKeyLayout)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		days = append(days, DailySummary{DayKey: key, Sample: s})
		if len(days) == maxDays {
			break
		}
	}
	return days
}

// BuildHourlyWindow returns up to windowSize consecutive samples starting one
// sample before the first one strictly after now. When every sample is in the
// past the window is anchored at the last sample.
func BuildHourlyWindow(samples []Sample, now int64, windowSize int) []Sample {
	if windowSize <= 0 || len(samples) == 0 {
		return []Sample{}
	}

	next := sort.Search(len(samples), func(i int) bool {
		return samples[i].Timestamp > now
	})

	start := max(0, next-1)
	end := min(len(samples), start+windowSize)

	window := make([]Sample, end-start)
	copy(window, samples[start:end])
	return window
}

// AlignAirQuality picks one AQI value per window sample using
// DefaultAlignTolerance. See AlignAirQualityWithin.
func AlignAirQuality(window []Sample, aqiSamples []AirQualitySample, fallbackAqi int) []int {
	return AlignAirQualityWithin(window, aqiSamples, fallbackAqi, DefaultAlignTolerance)
}

// AlignAirQualityWithin returns, for every window sample, the AQI of the
// air-quality sample closest to it in time. Samples further away than tolerance
// do not count, and window entries with no usable sample get fallbackAqi.
// On equal distance the earlier sample wins. Values are never interpolated and
// the result always has len(window) entries.
func AlignAirQualityWithin(window []Sample, aqiSamples []AirQualitySample, fallbackAqi int, tolerance time.Duration) []int {
	aligned := make([]int, len(window))
	series := MergeAirQuality(aqiSamples)
	tol := int64(tolerance / time.Second)
	if tol < 0 {
		tol = 0
	}

	for i, s := range window {
		aligned[i] = fallbackAqi
		if aqi, ok := nearestAqi(series, s.Timestamp, tol); ok {
			aligned[i] = aqi
		}
	}
	return aligned
}

// nearestAqi searches a sorted, valid series for the sample closest to ts.
func nearestAqi(series []AirQualitySample, ts, tol int64) (int, bool) {
	if len(series) == 0 {
		return 0, false
	}

	idx := sort.Search(len(series), func(i int) bool {
		return series[i].Timestamp >= ts
	})

	best := -1
	bestDiff := int64(math.MaxInt64)
	// idx-1 first so that the earlier sample keeps a tie.
	for _, i := range []int{idx - 1, idx} {
		if i < 0 || i >= len(series) {
			continue
		}
		diff := absSeconds(series[i].Timestamp - ts)
		if diff <= tol && diff < bestDiff {
			best = i
			bestDiff = diff
		}
	}
	if best < 0 {
		return 0, false
	}
	return series[best].AQI, true
}

func absSeconds(d int64) int64 {
	if d < 0 {
		return -d
	}
	return d
}

// MergeAirQuality joins air-quality series into one ascending series. Samples
// with a tier outside [1,5] are dropped, and when two samples share a timestamp
// the one seen first is kept.
func MergeAirQuality(series ...[]AirQualitySample) []AirQualitySample {
	var total int
	for _, s := range series {
		total += len(s)
	}
	merged := make([]AirQualitySample, 0, total)
	seen := make(map[int64]struct{}, total)
	for _, s := range series {
		for _, a := range s {
			if !ValidAqi(a.AQI) {
				continue
			}
			if _, ok := seen[a.Timestamp]; ok {
				continue
			}
			seen[a.Timestamp] = struct{}{}
			merged = append(merged, a)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp < merged[j].Timestamp
	})
	return merged
}

// HourlyEntries turns window samples into display entries labelled with a
// 12-hour clock in loc. A nil loc is treated as UTC.
func HourlyEntries(window []Sample, loc *time.Location) []HourlyEntry {
	if loc == nil {
		loc = time.UTC
	}
	entries := make([]HourlyEntry, len(window))
	for i, s := range window {
		entries[i] = HourlyEntry{
			Timestamp:    s.Timestamp,
			Label:        time.Unix(s.Timestamp, 0).In(loc).Format("3 PM"),
			TemperatureC: RoundTemperature(s.TemperatureC),
			Icon:         MapWeatherIconKey(s.IconCode),
		}
	}
	return entries
}

// RoundTemperature rounds half up, so -2.5 becomes -2 and 2.5 becomes 3.
func RoundTemperature(t float64) int {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0
	}
	return int(math.Floor(t + 0.5))
}

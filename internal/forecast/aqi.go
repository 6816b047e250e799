package forecast

// AQIUnknown is returned by LatestAqi when there is no usable sample. It is not
// a valid tier.
const AQIUnknown = 0

// Severity is the display category of an AQI tier.
type Severity string

const (
	SeverityGood     Severity = "good"
	SeverityFair     Severity = "fair"
	SeverityModerate Severity = "moderate"
	SeverityPoor     Severity = "poor"
	SeverityVeryPoor Severity = "very_poor"
	SeverityUnknown  Severity = "unknown"
)

// ValidAqi reports whether aqi is a tier in [1,5].
func ValidAqi(aqi int) bool {
	return aqi >= 1 && aqi <= 5
}

// LatestAqi returns the AQI of the most recent sample with a valid tier, or
// AQIUnknown.
func LatestAqi(aqiSamples []AirQualitySample) int {
	for i := len(aqiSamples) - 1; i >= 0; i-- {
		if ValidAqi(aqiSamples[i].AQI) {
			return aqiSamples[i].AQI
		}
	}
	return AQIUnknown
}

// LatestAqiAt returns the AQI of the newest valid sample taken at or before
// now, or AQIUnknown. Forecast samples after now are never the current value.
func LatestAqiAt(aqiSamples []AirQualitySample, now int64) int {
	latest := AQIUnknown
	var latestTs int64
	for _, s := range aqiSamples {
		if s.Timestamp > now || !ValidAqi(s.AQI) {
			continue
		}
		if latest == AQIUnknown || s.Timestamp > latestTs {
			latest, latestTs = s.AQI, s.Timestamp
		}
	}
	return latest
}

// ClassifyAqiSeverity maps a tier to its category. Anything outside [1,5] is
// SeverityUnknown.
func ClassifyAqiSeverity(aqi int) Severity {
	switch aqi {
	case 1:
		return SeverityGood
	case 2:
		return SeverityFair
	case 3:
		return SeverityModerate
	case 4:
		return SeverityPoor
	case 5:
		return SeverityVeryPoor
	default:
		return SeverityUnknown
	}
}

// Color is the text color the dashboard uses for the category.
func (s Severity) Color() string {
	switch s {
	case SeverityGood, SeverityFair:
		return "green"
	case SeverityModerate, SeverityPoor:
		return "orange"
	case SeverityVeryPoor:
		return "red"
	default:
		return "gray"
	}
}

// ChartValue places a tier on the 50..250 chart axis. Invalid tiers chart as 0.
func ChartValue(aqi int) int {
	if !ValidAqi(aqi) {
		return 0
	}
	return aqi * 50
}

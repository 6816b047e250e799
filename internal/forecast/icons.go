package forecast

import "strings"

// IconKey is a provider-independent weather icon class.
type IconKey string

const (
	IconClear        IconKey = "clear"
	IconPartlyCloudy IconKey = "partly-cloudy"
	IconCloudy       IconKey = "cloudy"
	IconRain         IconKey = "rain"
	IconThunderstorm IconKey = "thunderstorm"
	IconSnow         IconKey = "snow"
	IconMist         IconKey = "mist"
	IconUnknown      IconKey = "unknown"
)

var iconPrefixes = []struct {
	prefix string
	key    IconKey
}{
	{"01", IconClear},
	{"02", IconPartlyCloudy},
	{"03", IconCloudy},
	{"04", IconCloudy},
	{"09", IconRain},
	{"10", IconRain},
	{"11", IconThunderstorm},
	{"13", IconSnow},
	{"50", IconMist},
}

// MapWeatherIconKey classifies an OpenWeatherMap icon code ("10d", "01n", ...)
// by its two-digit prefix. Unrecognized codes map to IconUnknown.
func MapWeatherIconKey(code string) IconKey {
	code = strings.TrimSpace(code)
	for _, p := range iconPrefixes {
		if strings.HasPrefix(code, p.prefix) {
			return p.key
		}
	}
	return IconUnknown
}

// FontAwesome returns the glyph name the front end renders for the key.
func (k IconKey) FontAwesome() string {
	switch k {
	case IconClear:
		return "sun"
	case IconPartlyCloudy:
		return "cloud-sun"
	case IconRain:
		return "cloud-showers-heavy"
	case IconThunderstorm:
		return "bolt"
	case IconSnow:
		return "snowflake"
	case IconMist:
		return "smog"
	default:
		return "cloud"
	}
}

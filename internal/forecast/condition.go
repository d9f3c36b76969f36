package forecast

import (
	"fmt"
	"math"
)

// ConditionGroup is the coarse category of a provider condition code.
type ConditionGroup string

const (
	GroupStorm   ConditionGroup = "storm"
	GroupDrizzle ConditionGroup = "drizzle"
	GroupRain    ConditionGroup = "rain"
	GroupSnow    ConditionGroup = "snow"
	GroupFog     ConditionGroup = "fog"
	GroupClear   ConditionGroup = "clear"
	GroupCloudy  ConditionGroup = "cloudy"
	GroupExtreme ConditionGroup = "extreme"
	GroupUnknown ConditionGroup = "unknown"
)

// OpenWeatherMap condition codes with their own wording. Codes not listed fall
// back to their group.
var descriptions = map[int]string{
	200: "Thunderstorm with light rain",
	201: "Thunderstorm with rain",
	202: "Thunderstorm with heavy rain",
	210: "Light thunderstorm",
	211: "Thunderstorm",
	212: "Heavy thunderstorm",
	221: "Ragged thunderstorm",
	300: "Light drizzle",
	301: "Drizzle",
	302: "Heavy drizzle",
	500: "Light rain",
	501: "Moderate rain",
	502: "Heavy rain",
	503: "Intense rain",
	504: "Extreme rain",
	511: "Freezing rain",
	520: "Light shower",
	521: "Shower",
	522: "Heavy shower",
	600: "Light snow",
	601: "Snow",
	602: "Heavy snow",
	611: "Sleet",
	615: "Light rain and snow",
	616: "Rain and snow",
	620: "Light snow shower",
	621: "Snow shower",
	622: "Heavy snow shower",
	701: "Mist",
	711: "Smoke",
	721: "Haze",
	731: "Sand, dust whirls",
	741: "Fog",
	751: "Sand",
	761: "Dust",
	762: "Volcanic ash",
	771: "Squalls",
	781: "Tornado",
	800: "Clear",
	801: "Mostly clear",
	802: "Scattered clouds",
	803: "Broken clouds",
	804: "Overcast clouds",
	900: "Tornado",
	901: "Tropical storm",
	902: "Hurricane",
	903: "Cold",
	904: "Hot",
	905: "Windy",
	906: "Hail",
	951: "Calm",
}

// Group classifies a condition code by its hundreds range.
func Group(code int) ConditionGroup {
	switch {
	case code >= 200 && code <= 232:
		return GroupStorm
	case code >= 300 && code <= 321:
		return GroupDrizzle
	case code >= 500 && code <= 531:
		return GroupRain
	case code >= 600 && code <= 622:
		return GroupSnow
	case code >= 701 && code <= 781:
		return GroupFog
	case code == 800:
		return GroupClear
	case code >= 801 && code <= 804:
		return GroupCloudy
	case code >= 900 && code <= 962:
		return GroupExtreme
	default:
		return GroupUnknown
	}
}

// Describe returns a short human description for a condition code.
func Describe(code int) string {
	if d, ok := descriptions[code]; ok {
		return d
	}
	switch Group(code) {
	case GroupStorm:
		return "Thunderstorm"
	case GroupDrizzle:
		return "Drizzle"
	case GroupRain:
		return "Rain"
	case GroupSnow:
		return "Snow"
	case GroupFog:
		return "Fog"
	case GroupCloudy:
		return "Cloudy"
	case GroupExtreme:
		return "Severe weather"
	default:
		return fmt.Sprintf("Unknown (%d)", code)
	}
}

// CelsiusToFahrenheit converts a temperature.
func CelsiusToFahrenheit(c float64) float64 {
	return c*1.8 + 32
}

// FormatTemperature renders a Celsius reading in the requested units, rounded
// to whole degrees.
func FormatTemperature(celsius float64, metric bool) string {
	if metric {
		return fmt.Sprintf("%.0f°C", wholeDegrees(celsius))
	}
	return fmt.Sprintf("%.0f°F", wholeDegrees(CelsiusToFahrenheit(celsius)))
}

// wholeDegrees rounds and folds -0 into 0 so it never prints as "-0".
func wholeDegrees(t float64) float64 {
	return math.Round(t) + 0
}

const kmhToMph = 0.621371192237334

// FormatWind renders a km/h speed with a compass direction.
func FormatWind(speedKMH, degrees float64, metric bool) string {
	dir := CompassDirection(degrees)
	if metric {
		return fmt.Sprintf("%.0f km/h %s", speedKMH, dir)
	}
	return fmt.Sprintf("%.0f mph %s", speedKMH*kmhToMph, dir)
}

var compassPoints = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// CompassDirection maps degrees to one of eight compass points.
func CompassDirection(degrees float64) string {
	d := math.Mod(degrees, 360)
	if d < 0 {
		d += 360
	}
	idx := int(math.Floor((d+22.5)/45)) % len(compassPoints)
	return compassPoints[idx]
}

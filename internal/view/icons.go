package view

// Icon is the glyph shown for a weather code.
type Icon struct {
	Name  string `json:"name"`
	Glyph string `json:"glyph"`
	Color string `json:"color"`
}

var (
	sunny        = Icon{Name: "day-sunny", Glyph: "☀", Color: "#FFD700"}
	cloud        = Icon{Name: "cloud", Glyph: "🌤", Color: "#87CEEB"}
	cloudy       = Icon{Name: "cloudy", Glyph: "☁", Color: "#87CEEB"}
	overcast     = Icon{Name: "cloudy", Glyph: "☁", Color: "#808080"}
	fog          = Icon{Name: "fog", Glyph: "🌫", Color: "#708090"}
	showers      = Icon{Name: "showers", Glyph: "🌦", Color: "#1E90FF"}
	rain         = Icon{Name: "rain", Glyph: "🌧", Color: "#1E90FF"}
	snow         = Icon{Name: "snow", Glyph: "🌨", Color: "#00BFFF"}
	thunderstorm = Icon{Name: "thunderstorm", Glyph: "⛈", Color: "#FF4500"}
)

// weatherIcons maps WMO weather codes to icons. Codes not listed have no icon.
var weatherIcons = map[int]Icon{
	0:  sunny,
	1:  cloud,
	2:  cloudy,
	3:  overcast,
	45: fog,
	48: fog,
	51: showers,
	53: showers,
	55: rain,
	61: rain,
	63: rain,
	65: rain,
	71: snow,
	73: snow,
	75: snow,
	95: thunderstorm,
}

// IconFor looks up the icon of a weather code.
func IconFor(code int) (Icon, bool) {
	icon, ok := weatherIcons[code]
	return icon, ok
}

// Package view turns dashboard state into render-ready structures and HTML.
package view

import (
	"github.com/katiamach/weather-dashboard/internal/dashboard"
	"github.com/katiamach/weather-dashboard/internal/model"
)

// Summary is the current weather card.
type Summary struct {
	City        string `json:"city"`
	Country     string `json:"country"`
	Temperature int    `json:"temperature"`
	Windspeed   int    `json:"windspeed"`
	Icon        *Icon  `json:"icon,omitempty"`
}

// Day is one card of the forecast strip.
type Day struct {
	Date string `json:"date"`
	Max  int    `json:"max"`
	Min  int    `json:"min"`
	Icon *Icon  `json:"icon,omitempty"`
}

// Page is everything the dashboard template needs.
type Page struct {
	Locale  string
	City    string
	Loading bool
	Notice  string
	Summary *Summary
	Days    []Day
	Chart   *Chart
}

// NewPage builds the page for a dashboard state. Each region is present
// only when its data is.
func NewPage(st dashboard.State, f *Formatter) Page {
	p := Page{
		Locale:  f.Locale(),
		City:    st.City,
		Loading: st.Loading,
		Notice:  st.Notice,
	}

	if st.Weather != nil {
		p.Summary = NewSummary(*st.Weather)
	}

	if st.Forecast.Len() > 0 {
		p.Days = NewDays(st.Forecast, f)
		p.Chart = NewChart(st.Forecast, f)
	}

	return p
}

// NewSummary rounds the current weather for display.
func NewSummary(w model.CurrentWeather) *Summary {
	return &Summary{
		City:        w.City,
		Country:     w.Country,
		Temperature: Round(w.Temperature),
		Windspeed:   Round(w.Windspeed),
		Icon:        iconPtr(w.WeatherCode),
	}
}

// NewDays builds one card per forecast day, in series order.
func NewDays(s model.ForecastSeries, f *Formatter) []Day {
	days := make([]Day, 0, s.Len())
	for i, d := range s.Dates {
		days = append(days, Day{
			Date: f.Date(d),
			Max:  Round(s.TempMax[i]),
			Min:  Round(s.TempMin[i]),
			Icon: iconPtr(s.WeatherCode[i]),
		})
	}
	return days
}

func iconPtr(code int) *Icon {
	icon, ok := IconFor(code)
	if !ok {
		return nil
	}
	return &icon
}

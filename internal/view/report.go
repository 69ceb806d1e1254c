package view

import "github.com/katiamach/weather-dashboard/internal/model"

// Report is the JSON form of a search result.
type Report struct {
	Locale         string   `json:"locale"`
	Timezone       string   `json:"timezone"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	GridDistanceKM float64  `json:"gridDistanceKm"`
	Summary        *Summary `json:"summary"`
	Days           []Day    `json:"days"`
	Chart          *Chart   `json:"chart,omitempty"`
}

// NewReport builds the JSON view model of a search result.
func NewReport(res *model.SearchResult, f *Formatter) Report {
	r := Report{
		Locale:         f.Locale(),
		Timezone:       res.Timezone,
		Latitude:       res.Location.Latitude,
		Longitude:      res.Location.Longitude,
		GridDistanceKM: res.GridDistanceKM,
		Summary:        NewSummary(res.Weather),
		Days:           NewDays(res.Forecast, f),
	}

	if res.Forecast.Len() > 0 {
		r.Chart = NewChart(res.Forecast, f)
	}

	return r
}

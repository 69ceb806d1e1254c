// Package model contains the data shared between the search pipeline and the views.
package model

import "time"

// Location is a geocoded place.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
	Country   string  `json:"country"`
}

// CurrentConditions contains the current conditions reported at a grid point.
type CurrentConditions struct {
	Temperature float64
	Windspeed   float64
	WeatherCode int
}

// CurrentWeather is the summary shown for the searched city.
type CurrentWeather struct {
	City        string  `json:"city"`
	Country     string  `json:"country"`
	Temperature float64 `json:"temperature"`
	Windspeed   float64 `json:"windspeed"`
	WeatherCode int     `json:"weatherCode"`
}

// ForecastSeries holds positionally aligned daily values:
// index i of every slice describes the same calendar day.
type ForecastSeries struct {
	Dates       []time.Time `json:"dates"`
	TempMax     []float64   `json:"tempMax"`
	TempMin     []float64   `json:"tempMin"`
	WeatherCode []int       `json:"weatherCode"`
}

// Len returns the number of days in the series.
func (s ForecastSeries) Len() int {
	return len(s.Dates)
}

// Forecast is what the forecast endpoint returned for a pair of coordinates.
type Forecast struct {
	Current       CurrentConditions
	Daily         ForecastSeries
	GridLatitude  float64
	GridLongitude float64
	Timezone      string
}

// SearchResult combines a resolved location with its weather.
type SearchResult struct {
	Location       Location
	Weather        CurrentWeather
	Forecast       ForecastSeries
	Timezone       string
	GridDistanceKM float64
}

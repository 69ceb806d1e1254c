package openmeteo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/katiamach/weather-dashboard/internal/logger"
	"github.com/katiamach/weather-dashboard/internal/model"
)

// ForecastDays is the maximum number of days kept from the daily series.
const ForecastDays = 5

const dateLayout = "2006-01-02"

// Fetcher retrieves current conditions and the daily forecast.
type Fetcher struct {
	client
}

// NewFetcher creates a Fetcher for the given endpoint.
func NewFetcher(baseURL string, opts ...Option) *Fetcher {
	return &Fetcher{client: newClient(baseURL, opts...)}
}

type forecastResponse struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Timezone       string  `json:"timezone"`
	CurrentWeather *struct {
		Temperature float64 `json:"temperature"`
		Windspeed   float64 `json:"windspeed"`
		Weathercode int     `json:"weathercode"`
	} `json:"current_weather"`
	Daily *struct {
		Time             []string  `json:"time"`
		Temperature2mMax []float64 `json:"temperature_2m_max"`
		Temperature2mMin []float64 `json:"temperature_2m_min"`
		Weathercode      []int     `json:"weathercode"`
	} `json:"daily"`
}

// Fetch returns the weather for the given coordinates, with the daily
// series cut to the first ForecastDays entries.
func (f *Fetcher) Fetch(ctx context.Context, lat, lon float64) (*model.Forecast, error) {
	params := url.Values{
		"latitude":        {strconv.FormatFloat(lat, 'f', -1, 64)},
		"longitude":       {strconv.FormatFloat(lon, 'f', -1, 64)},
		"current_weather": {"true"},
		"daily":           {"temperature_2m_max,temperature_2m_min,weathercode"},
		"timezone":        {"auto"},
	}

	var res forecastResponse
	if err := f.getJSON(ctx, params, &res); err != nil {
		return nil, fmt.Errorf("failed to get forecast: %w", err)
	}

	if res.CurrentWeather == nil {
		return nil, fmt.Errorf("%w: current_weather is missing", ErrMalformedResponse)
	}
	if res.Daily == nil {
		return nil, fmt.Errorf("%w: daily is missing", ErrMalformedResponse)
	}

	lengths := []int{len(res.Daily.Time), len(res.Daily.Temperature2mMax), len(res.Daily.Temperature2mMin), len(res.Daily.Weathercode)}
	n := minLen(lengths)
	if n != maxLen(lengths) {
		logger.WithFields(logger.Fields{
			"time":               len(res.Daily.Time),
			"temperature_2m_max": len(res.Daily.Temperature2mMax),
			"temperature_2m_min": len(res.Daily.Temperature2mMin),
			"weathercode":        len(res.Daily.Weathercode),
		}).Warn("daily arrays differ in length, truncating to the shortest")
	}
	if n > ForecastDays {
		n = ForecastDays
	}

	dates := make([]time.Time, 0, n)
	for _, day := range res.Daily.Time[:n] {
		d, err := time.Parse(dateLayout, day)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid daily date %q", ErrMalformedResponse, day)
		}
		dates = append(dates, d)
	}

	return &model.Forecast{
		Current: model.CurrentConditions{
			Temperature: res.CurrentWeather.Temperature,
			Windspeed:   res.CurrentWeather.Windspeed,
			WeatherCode: res.CurrentWeather.Weathercode,
		},
		Daily: model.ForecastSeries{
			Dates:       dates,
			TempMax:     append(make([]float64, 0, n), res.Daily.Temperature2mMax[:n]...),
			TempMin:     append(make([]float64, 0, n), res.Daily.Temperature2mMin[:n]...),
			WeatherCode: append(make([]int, 0, n), res.Daily.Weathercode[:n]...),
		},
		GridLatitude:  res.Latitude,
		GridLongitude: res.Longitude,
		Timezone:      res.Timezone,
	}, nil
}

func minLen(lengths []int) int {
	m := lengths[0]
	for _, l := range lengths[1:] {
		if l < m {
			m = l
		}
	}
	return m
}

func maxLen(lengths []int) int {
	m := lengths[0]
	for _, l := range lengths[1:] {
		if l > m {
			m = l
		}
	}
	return m
}

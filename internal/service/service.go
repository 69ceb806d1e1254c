package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/umahmood/haversine"
	"golang.org/x/sync/semaphore"

	"github.com/katiamach/weather-dashboard/internal/logger"
	"github.com/katiamach/weather-dashboard/internal/model"
)

//go:generate mockgen -source=service.go -destination=mock/mock.go -package=mock

var ErrEmptyCity = errors.New("Informe o nome de uma cidade")

// LocationResolver resolves a city name to its coordinates.
type LocationResolver interface {
	Resolve(ctx context.Context, city string) (*model.Location, error)
}

// ForecastFetcher fetches the weather for a pair of coordinates.
type ForecastFetcher interface {
	Fetch(ctx context.Context, lat, lon float64) (*model.Forecast, error)
}

// WeatherService runs the resolve -> fetch pipeline.
type WeatherService struct {
	resolver LocationResolver
	fetcher  ForecastFetcher
	slots    *semaphore.Weighted
}

// New creates new WeatherService allowing at most maxSearches searches in flight.
func New(resolver LocationResolver, fetcher ForecastFetcher, maxSearches int64) *WeatherService {
	return &WeatherService{
		resolver: resolver,
		fetcher:  fetcher,
		slots:    semaphore.NewWeighted(maxSearches),
	}
}

// Search resolves city and fetches its weather. Either both steps succeed
// or the whole search fails.
func (ws *WeatherService) Search(ctx context.Context, city string) (*model.SearchResult, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, ErrEmptyCity
	}

	if err := ws.slots.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("search canceled while waiting: %w", err)
	}
	defer ws.slots.Release(1)

	loc, err := ws.resolver.Resolve(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", city, err)
	}

	forecast, err := ws.fetcher.Fetch(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weather for %s: %w", loc.Name, err)
	}

	_, km := haversine.Distance(
		haversine.Coord{Lat: loc.Latitude, Lon: loc.Longitude},
		haversine.Coord{Lat: forecast.GridLatitude, Lon: forecast.GridLongitude},
	)

	logger.WithFields(logger.Fields{
		"query":            city,
		"city":             loc.Name,
		"country":          loc.Country,
		"days":             forecast.Daily.Len(),
		"grid_distance_km": km,
	}).Debug("search completed")

	return &model.SearchResult{
		Location: *loc,
		Weather: model.CurrentWeather{
			City:        loc.Name,
			Country:     loc.Country,
			Temperature: forecast.Current.Temperature,
			Windspeed:   forecast.Current.Windspeed,
			WeatherCode: forecast.Current.WeatherCode,
		},
		Forecast:       forecast.Daily,
		Timezone:       forecast.Timezone,
		GridDistanceKM: km,
	}, nil
}

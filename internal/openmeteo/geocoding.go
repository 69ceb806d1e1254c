package openmeteo

import (
	"context"
	"fmt"
	"net/url"

	"github.com/katiamach/weather-dashboard/internal/model"
)

// Resolver turns free-text city names into coordinates.
type Resolver struct {
	client
	language string
}

// NewResolver creates a Resolver for the given endpoint.
// language selects the language of the returned place names, e.g. "pt".
func NewResolver(baseURL, language string, opts ...Option) *Resolver {
	return &Resolver{
		client:   newClient(baseURL, opts...),
		language: language,
	}
}

// Resolve returns the first match for city. No disambiguation is done.
func (r *Resolver) Resolve(ctx context.Context, city string) (*model.Location, error) {
	params := url.Values{
		"name":     {city},
		"count":    {"1"},
		"language": {r.language},
		"format":   {"json"},
	}

	type response struct {
		Results []model.Location `json:"results"`
	}

	var res response
	if err := r.getJSON(ctx, params, &res); err != nil {
		return nil, fmt.Errorf("failed to get coordinates for the given city: %w", err)
	}

	if len(res.Results) < 1 {
		return nil, ErrCityNotFound
	}

	loc := res.Results[0]
	return &loc, nil
}

package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/katiamach/weather-dashboard/internal/dashboard"
	"github.com/katiamach/weather-dashboard/internal/logger"
	"github.com/katiamach/weather-dashboard/internal/model"
	"github.com/katiamach/weather-dashboard/internal/openmeteo"
	"github.com/katiamach/weather-dashboard/internal/service"
	"github.com/katiamach/weather-dashboard/internal/session"
	"github.com/katiamach/weather-dashboard/internal/view"
)

//go:generate mockgen -source=handlers.go -destination=mock/mock.go -package=mock

// WeatherService provides weather search.
type WeatherService interface {
	Search(ctx context.Context, city string) (*model.SearchResult, error)
}

// Sessions hands out the dashboard of a browser session.
type Sessions interface {
	Get(id string) (string, *dashboard.Dashboard)
}

// WeatherServer is a server for weather dashboard requests.
type WeatherServer struct {
	service       WeatherService
	sessions      Sessions
	renderer      *view.Renderer
	formatter     *view.Formatter
	searchTimeout time.Duration

	searches sync.WaitGroup
}

// NewWeatherServer creates new WeatherServer. Searches started from the
// dashboard form are bounded by searchTimeout.
func NewWeatherServer(service WeatherService, sessions Sessions, renderer *view.Renderer, formatter *view.Formatter, searchTimeout time.Duration) *WeatherServer {
	return &WeatherServer{
		service:       service,
		sessions:      sessions,
		renderer:      renderer,
		formatter:     formatter,
		searchTimeout: searchTimeout,
	}
}

// Wait blocks until every dashboard search started by SearchHandler is done.
func (s *WeatherServer) Wait() {
	s.searches.Wait()
}

// PageHandler renders the dashboard of the caller's session.
func (s *WeatherServer) PageHandler(w http.ResponseWriter, r *http.Request) {
	d := s.dashboard(w, r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")

	if err := s.renderer.Render(w, view.NewPage(d.Present(), s.formatter)); err != nil {
		logger.Error(err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}

// SearchHandler starts a search on the caller's dashboard and redirects back
// to it right away; the page shows the search as loading until it is done.
func (s *WeatherServer) SearchHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		logger.Error(fmt.Errorf("failed to parse search form: %v", err))
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	d := s.dashboard(w, r)

	// the search outlives the request
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), s.searchTimeout)
	done := d.Start(ctx, r.PostForm.Get("city"))

	s.searches.Add(1)
	go func() {
		defer s.searches.Done()
		defer cancel()
		<-done
	}()

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// GetWeatherHandler handles the JSON weather request.
func (s *WeatherServer) GetWeatherHandler(w http.ResponseWriter, r *http.Request) {
	city, err := validateQueryParams(r.URL.Query())
	if err != nil {
		logger.Error(err)
		respondErr(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.service.Search(r.Context(), city)
	if err != nil {
		logger.Error(fmt.Errorf("failed to get weather: %v", err))
		respondErr(w, statusFor(err), err)
		return
	}

	respond(w, http.StatusOK, view.NewReport(res, s.formatter))
}

// HealthHandler reports that the server is up.
func (s *WeatherServer) HealthHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *WeatherServer) dashboard(w http.ResponseWriter, r *http.Request) *dashboard.Dashboard {
	var id string
	if c, err := r.Cookie(session.CookieName); err == nil {
		id = c.Value
	}

	newID, d := s.sessions.Get(id)
	if newID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     session.CookieName,
			Value:    newID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	return d
}

func validateQueryParams(params url.Values) (string, error) {
	city := strings.TrimSpace(params.Get("city"))
	if city == "" {
		return "", errors.New("city parameter not provided in query")
	}

	return city, nil
}

func statusFor(err error) int {
	var statusErr *openmeteo.StatusError

	switch {
	case errors.Is(err, service.ErrEmptyCity):
		return http.StatusBadRequest
	case errors.Is(err, openmeteo.ErrCityNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, openmeteo.ErrMalformedResponse),
		errors.Is(err, openmeteo.ErrUnavailable),
		errors.As(err, &statusErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

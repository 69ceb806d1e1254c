package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/tj/assert"

	"github.com/katiamach/weather-dashboard/internal/dashboard"
	"github.com/katiamach/weather-dashboard/internal/logger"
	"github.com/katiamach/weather-dashboard/internal/model"
	"github.com/katiamach/weather-dashboard/internal/openmeteo"
	"github.com/katiamach/weather-dashboard/internal/service"
	"github.com/katiamach/weather-dashboard/internal/session"
	"github.com/katiamach/weather-dashboard/internal/view"

	mock "github.com/katiamach/weather-dashboard/internal/transport/rest/handler/mock"
)

var errTest = errors.New("test error")

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func saoPauloResult() *model.SearchResult {
	first := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return &model.SearchResult{
		Location: model.Location{Latitude: -23.55, Longitude: -46.63, Name: "São Paulo", Country: "Brasil"},
		Weather:  model.CurrentWeather{City: "São Paulo", Country: "Brasil", Temperature: 21.4, Windspeed: 12.9, WeatherCode: 3},
		Forecast: model.ForecastSeries{
			Dates:       []time.Time{first, first.AddDate(0, 0, 1)},
			TempMax:     []float64{25.1, 26.5},
			TempMin:     []float64{15.2, 16.5},
			WeatherCode: []int{3, 95},
		},
		Timezone: "America/Sao_Paulo",
	}
}

func newTestServer(t *testing.T, svc WeatherService, sessions Sessions) *WeatherServer {
	t.Helper()

	renderer, err := view.NewRenderer()
	assert.Nil(t, err)

	return NewWeatherServer(svc, sessions, renderer, view.NewFormatter("pt-BR"), time.Second)
}

func TestGetWeatherHandler(t *testing.T) {
	cases := []struct {
		name           string
		city           string
		serviceErr     error
		expectedStatus int
		isMockCalled   bool
	}{
		{
			name:           "ok",
			city:           "São Paulo",
			expectedStatus: http.StatusOK,
			isMockCalled:   true,
		},
		{
			name:           "city not provided",
			city:           "  ",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "city not found",
			city:           "Qzxnotacity",
			serviceErr:     fmt.Errorf("failed to resolve: %w", openmeteo.ErrCityNotFound),
			expectedStatus: http.StatusNotFound,
			isMockCalled:   true,
		},
		{
			name:           "upstream status",
			city:           "São Paulo",
			serviceErr:     fmt.Errorf("failed to get forecast: %w", &openmeteo.StatusError{StatusCode: 500}),
			expectedStatus: http.StatusBadGateway,
			isMockCalled:   true,
		},
		{
			name:           "malformed response",
			city:           "São Paulo",
			serviceErr:     fmt.Errorf("failed to get forecast: %w", openmeteo.ErrMalformedResponse),
			expectedStatus: http.StatusBadGateway,
			isMockCalled:   true,
		},
		{
			name:           "empty city from service",
			city:           "São Paulo",
			serviceErr:     service.ErrEmptyCity,
			expectedStatus: http.StatusBadRequest,
			isMockCalled:   true,
		},
		{
			name:           "service error",
			city:           "São Paulo",
			serviceErr:     errTest,
			expectedStatus: http.StatusInternalServerError,
			isMockCalled:   true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockWeatherService := mock.NewMockWeatherService(ctrl)
			s := newTestServer(t, mockWeatherService, mock.NewMockSessions(ctrl))

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/weather?city="+url.QueryEscape(tc.city), nil)

			if tc.isMockCalled {
				var res *model.SearchResult
				if tc.serviceErr == nil {
					res = saoPauloResult()
				}
				mockWeatherService.EXPECT().
					Search(gomock.Any(), tc.city).
					Return(res, tc.serviceErr)
			}

			s.GetWeatherHandler(w, r)

			resp := w.Result()
			defer func() {
				err := resp.Body.Close()
				assert.Nil(t, err)
			}()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

			if tc.expectedStatus != http.StatusOK {
				var resBody errorResponse
				err := json.NewDecoder(resp.Body).Decode(&resBody)
				assert.Nil(t, err)
				assert.Equal(t, tc.expectedStatus, resBody.Code)
				assert.NotEmpty(t, resBody.Message)
				return
			}

			var report view.Report
			err := json.NewDecoder(resp.Body).Decode(&report)
			assert.Nil(t, err)
			assert.Equal(t, "São Paulo", report.Summary.City)
			assert.Equal(t, 21, report.Summary.Temperature)
			assert.Equal(t, 13, report.Summary.Windspeed)
			assert.Len(t, report.Days, 2)
			assert.Equal(t, "thunderstorm", report.Days[1].Icon.Name)
		})
	}
}

func TestSearchAndPageFlow(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockWeatherService := mock.NewMockWeatherService(ctrl)
	store := session.NewStore(mockWeatherService, time.Minute)
	s := newTestServer(t, mockWeatherService, store)

	gomock.InOrder(
		mockWeatherService.EXPECT().Search(gomock.Any(), "São Paulo").Return(saoPauloResult(), nil),
		mockWeatherService.EXPECT().Search(gomock.Any(), "Qzxnotacity").
			Return(nil, fmt.Errorf("failed to resolve: %w", openmeteo.ErrCityNotFound)),
	)

	// first search starts a session
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(url.Values{"city": {"São Paulo"}}.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	s.SearchHandler(w, r)
	s.Wait()

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	assert.Len(t, cookies, 1)
	assert.Equal(t, session.CookieName, cookies[0].Name)
	cookie := cookies[0]

	page := getPage(t, s, cookie)
	assert.Contains(t, page, "São Paulo, Brasil")
	assert.Contains(t, page, "21 °C")
	assert.Contains(t, page, "Vento: 13 km/h")
	assert.NotContains(t, page, `class="spinner"`)

	// a failed search shows the notice and keeps the previous weather
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(url.Values{"city": {"Qzxnotacity"}}.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.AddCookie(cookie)
	s.SearchHandler(w, r)
	s.Wait()

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Empty(t, w.Result().Cookies())

	page = getPage(t, s, cookie)
	assert.Contains(t, page, "Erro ao buscar clima: Cidade não encontrada")
	assert.Contains(t, page, "São Paulo, Brasil")

	// the notice is announced once
	page = getPage(t, s, cookie)
	assert.NotContains(t, page, "não encontrada")
	assert.Contains(t, page, "São Paulo, Brasil")

	_, d := store.Get(cookie.Value)
	assert.Equal(t, dashboard.Failed, d.Snapshot().Status)
}

func TestSearchHandlerRedirectsBeforeSearchCompletes(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockWeatherService := mock.NewMockWeatherService(ctrl)
	s := newTestServer(t, mockWeatherService, session.NewStore(mockWeatherService, time.Minute))

	release := make(chan struct{})
	mockWeatherService.EXPECT().Search(gomock.Any(), "São Paulo").DoAndReturn(
		func(ctx context.Context, city string) (*model.SearchResult, error) {
			<-release
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return saoPauloResult(), nil
		})

	// the client goes away as soon as the redirect is sent
	reqCtx, cancel := context.WithCancel(context.Background())
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(url.Values{"city": {"São Paulo"}}.Encode())).WithContext(reqCtx)
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	s.SearchHandler(w, r)
	cancel()

	assert.Equal(t, http.StatusSeeOther, w.Code)
	cookie := w.Result().Cookies()[0]

	page := getPage(t, s, cookie)
	assert.Contains(t, page, `class="spinner"`)
	assert.Contains(t, page, `http-equiv="refresh"`)
	assert.NotContains(t, page, `class="weather-card"`)

	close(release)
	s.Wait()

	page = getPage(t, s, cookie)
	assert.NotContains(t, page, `class="spinner"`)
	assert.NotContains(t, page, `http-equiv="refresh"`)
	assert.Contains(t, page, "São Paulo, Brasil")
}

func TestPageHandlerNewVisitor(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := mock.NewMockSessions(ctrl)
	s := newTestServer(t, mock.NewMockWeatherService(ctrl), sessions)

	sessions.EXPECT().Get("").Return("fresh-id", dashboard.New(mock.NewMockWeatherService(ctrl)))

	w := httptest.NewRecorder()
	s.PageHandler(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	cookies := w.Result().Cookies()
	assert.Len(t, cookies, 1)
	assert.Equal(t, "fresh-id", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	assert.NotContains(t, w.Body.String(), `class="weather-card"`)
}

func TestHealthHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := newTestServer(t, mock.NewMockWeatherService(ctrl), mock.NewMockSessions(ctrl))

	w := httptest.NewRecorder()
	s.HealthHandler(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func getPage(t *testing.T, s *WeatherServer, cookie *http.Cookie) string {
	t.Helper()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)
	s.PageHandler(w, r)

	assert.Equal(t, http.StatusOK, w.Code)

	body, err := io.ReadAll(w.Result().Body)
	assert.Nil(t, err)

	return string(body)
}

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/katiamach/weather-dashboard/internal/logger"
	"github.com/katiamach/weather-dashboard/internal/transport/rest/handler"
)

// NewHandler wires the routes and middleware of the dashboard.
func NewHandler(server *handler.WeatherServer, origin string, accessLog io.Writer) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", server.PageHandler).Methods(http.MethodGet)
	r.HandleFunc("/search", server.SearchHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/weather", server.GetWeatherHandler).Methods(http.MethodGet)
	r.HandleFunc("/health", server.HealthHandler).Methods(http.MethodGet)

	var h http.Handler = r
	h = handlers.CORS(setupCorsOptions(origin)...)(h)
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true), handlers.RecoveryLogger(recoveryLogger{}))(h)
	h = handlers.CombinedLoggingHandler(accessLog, h)

	return h
}

func setupCorsOptions(origin string) []handlers.CORSOption {
	methods := handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions})
	origins := handlers.AllowedOrigins([]string{origin})
	headers := handlers.AllowedHeaders([]string{"Content-Type"})

	options := []handlers.CORSOption{methods, origins, headers}
	if origin != "*" {
		options = append(options, handlers.AllowCredentials())
	}

	return options
}

// recoveryLogger sends recovered panics to the structured log.
type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	logger.Error(errors.New(strings.TrimSpace(fmt.Sprintln(v...))))
}

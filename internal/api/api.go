package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/katiamach/weather-dashboard/internal/config"
	"github.com/katiamach/weather-dashboard/internal/logger"
	"github.com/katiamach/weather-dashboard/internal/openmeteo"
	"github.com/katiamach/weather-dashboard/internal/service"
	"github.com/katiamach/weather-dashboard/internal/session"
	"github.com/katiamach/weather-dashboard/internal/transport/rest/handler"
	"github.com/katiamach/weather-dashboard/internal/view"
)

const (
	janitorInterval = time.Minute
	shutdownTimeout = 5 * time.Second
)

// RunAPI runs the weather dashboard until ctx is done.
func RunAPI(ctx context.Context, cfg *config.Config) error {
	formatter := view.NewFormatter(cfg.DisplayLocale)

	renderer, err := view.NewRenderer()
	if err != nil {
		return err
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	limiter := rate.NewLimiter(rate.Limit(cfg.UpstreamRPS), cfg.UpstreamBurst)
	opts := []openmeteo.Option{openmeteo.WithHTTPClient(httpClient), openmeteo.WithLimiter(limiter)}

	resolver := openmeteo.NewResolver(cfg.GeocodingURL, formatter.Language(), opts...)
	fetcher := openmeteo.NewFetcher(cfg.ForecastURL, opts...)
	svc := service.New(resolver, fetcher, cfg.MaxConcurrentSearches)

	sessions := session.NewStore(svc, cfg.SessionTTL)
	go sessions.RunJanitor(ctx, janitorInterval)

	// a dashboard search makes two upstream calls
	server := handler.NewWeatherServer(svc, sessions, renderer, formatter, 2*cfg.HTTPTimeout)

	accessLog := logger.Writer()
	defer accessLog.Close()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      NewHandler(server, cfg.Origin, accessLog),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.HTTPTimeout*2 + 5*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Starting weather dashboard at port %s", cfg.Port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down weather dashboard")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}

	server.Wait()

	return nil
}

// Package dashboard keeps the state of one weather dashboard and moves it
// through a search: Idle -> Loading -> Success or Failed.
package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/katiamach/weather-dashboard/internal/logger"
	"github.com/katiamach/weather-dashboard/internal/model"
)

// Status is the position of a dashboard in the search cycle.
type Status int

const (
	Idle Status = iota
	Loading
	Success
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// NoticePrefix starts every failure notification.
const NoticePrefix = "Erro ao buscar clima: "

// Searcher runs a complete search for a city.
type Searcher interface {
	Search(ctx context.Context, city string) (*model.SearchResult, error)
}

// State is the view-model record of a dashboard.
type State struct {
	City     string
	Status   Status
	Loading  bool
	Weather  *model.CurrentWeather
	Forecast model.ForecastSeries
	// Notice is the message of the last failed search, empty otherwise.
	Notice string
}

// Dashboard owns a State. It is safe for concurrent use.
type Dashboard struct {
	searcher Searcher

	mu    sync.Mutex
	state State
	seq   uint64
}

// New creates an idle dashboard.
func New(searcher Searcher) *Dashboard {
	return &Dashboard{searcher: searcher}
}

// Snapshot returns a copy of the current state.
func (d *Dashboard) Snapshot() State {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.state.copy()
}

// Present returns the state to render and marks its notice as shown, so a
// failure is announced once.
func (d *Dashboard) Present() State {
	d.mu.Lock()
	defer d.mu.Unlock()

	st := d.state.copy()
	d.state.Notice = ""
	return st
}

// Search runs a search for city and returns the resulting state.
func (d *Dashboard) Search(ctx context.Context, city string) State {
	return <-d.Start(ctx, city)
}

// Start marks the dashboard as loading and runs the search for city in the
// background. The returned channel receives the state once the search is done.
//
// Only the most recently started search may change Weather, Forecast or
// Notice; a search overtaken by a newer one is discarded when it completes.
// A failed search keeps whatever was displayed before.
func (d *Dashboard) Start(ctx context.Context, city string) <-chan State {
	d.mu.Lock()
	d.seq++
	seq := d.seq
	d.state.City = city
	d.state.Status = Loading
	d.state.Loading = true
	d.state.Notice = ""
	d.mu.Unlock()

	done := make(chan State, 1)
	go func() {
		res, err := d.searcher.Search(ctx, city)
		done <- d.finish(seq, city, res, err)
	}()

	return done
}

func (d *Dashboard) finish(seq uint64, city string, res *model.SearchResult, err error) State {
	d.mu.Lock()
	defer d.mu.Unlock()

	if seq != d.seq {
		logger.WithFields(logger.Fields{"city": city}).Debug("discarding result of an overtaken search")
		return d.state.copy()
	}

	// the latest search is done, older ones can no longer commit
	d.state.Loading = false

	if err != nil {
		logger.WithFields(logger.Fields{"city": city}).Warn(err)
		d.state.Status = Failed
		d.state.Notice = NoticePrefix + rootCause(err).Error()
		return d.state.copy()
	}

	weather := res.Weather
	d.state.Weather = &weather
	d.state.Forecast = res.Forecast
	d.state.Status = Success
	d.state.Notice = ""

	return d.state.copy()
}

// rootCause strips the context added by single wraps. An error joining
// several causes is kept whole.
func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func (s State) copy() State {
	c := s
	if s.Weather != nil {
		w := *s.Weather
		c.Weather = &w
	}
	return c
}

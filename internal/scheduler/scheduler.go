// Package scheduler keeps the weather cache warm for configured locations.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/Neerajpokala/NextWeather/internal/geocode"
)

const (
	defaultInterval = 15 * time.Minute
	refreshTimeout  = 30 * time.Second
)

// Refresher re-fetches the weather bundle for a location.
type Refresher interface {
	Refresh(ctx context.Context, lat, lon float64) error
}

// Scheduler periodically refreshes weather data for configured locations.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	locations []geocode.Place
	interval  time.Duration
}

// New creates a new Scheduler. Intervals <= 0 use 15 minutes.
func New(locations []geocode.Place, interval time.Duration, refresher Refresher) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		refresher: refresher,
		locations: locations,
		interval:  interval,
	}
}

// Start schedules the refresh job, which also runs once immediately.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		slog.Info("scheduler: no prewarm locations configured; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	slog.Info("scheduler: started", "locations", len(s.locations), "interval", s.interval)
	return nil
}

// RunOnce refreshes every location concurrently and returns the number of
// failures.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	slog.Debug("scheduler: running prewarm job")

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures int
	)
	for _, loc := range s.locations {
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
			defer cancel()

			if err := s.refresher.Refresh(ctx, loc.Lat, loc.Lon); err != nil {
				slog.Warn("scheduler: prewarm failed", "location", loc.Name, "error", err)
				mu.Lock()
				failures++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	slog.Debug("scheduler: completed prewarm job", "failures", failures)
	return failures
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil && s.scheduler.IsRunning() {
		s.scheduler.Stop()
	}
}

// Package scheduler dispatches scrape cycles on a fixed interval with an
// at-most-one-run-per-site guarantee.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/BerkanHRGL/schadeautos/internal/contextkeys"
	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
	"github.com/BerkanHRGL/schadeautos/internal/core/port"
	usecases_port "github.com/BerkanHRGL/schadeautos/internal/core/port/usecases"
)

type Scheduler struct {
	crawler  usecases_port.CrawlSitePort
	sites    []string
	interval time.Duration
	clock    port.ClockPort
	logger   port.LoggerPort

	mu      sync.Mutex
	running map[string]bool

	inflight sync.WaitGroup
	stop     chan struct{}
	stopOnce sync.Once
}

func New(crawler usecases_port.CrawlSitePort, sites []string, interval time.Duration, clock port.ClockPort, logger port.LoggerPort) *Scheduler {
	return &Scheduler{
		crawler:  crawler,
		sites:    sites,
		interval: interval,
		clock:    clock,
		logger:   logger,
		running:  make(map[string]bool),
		stop:     make(chan struct{}),
	}
}

// Start dispatches one cycle immediately, then on every interval tick until
// Stop is called or the context ends. It blocks; run it in a goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("scheduler started", port.Fields{
		"sites":    len(s.sites),
		"interval": s.interval.String(),
	})

	s.dispatchAll(ctx)

	ticks, stopTicker := s.clock.Tick(s.interval)
	defer stopTicker()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticks:
			s.dispatchAll(ctx)
		}
	}
}

// Stop ends the dispatch loop and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.inflight.Wait()
	s.logger.Info("scheduler stopped", nil)
}

func (s *Scheduler) dispatchAll(ctx context.Context) {
	for _, site := range s.sites {
		s.dispatch(ctx, site)
	}
}

func (s *Scheduler) dispatch(ctx context.Context, site string) {
	s.mu.Lock()
	if s.running[site] {
		s.mu.Unlock()
		// Not an error: a slow site simply skips a beat.
		s.logger.Debug("run still in progress, skipping dispatch", port.Fields{
			"site":  site,
			"cause": domain.ErrRunInProgress.Error(),
		})
		return
	}
	s.running[site] = true
	s.mu.Unlock()

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer func() {
			s.mu.Lock()
			s.running[site] = false
			s.mu.Unlock()
		}()

		runCtx := contextkeys.ContextWithLogger(ctx, s.logger)
		run, err := s.crawler.Execute(runCtx, site)
		if err != nil {
			s.logger.Error("scrape run failed", err, port.Fields{"site": site, "run_id": run.ID.String()})
			return
		}
		if run.Status == domain.RunStatusDegraded {
			s.logger.Warn("scrape run degraded", port.Fields{
				"site":         site,
				"run_id":       run.ID.String(),
				"pages_failed": run.PagesFailed,
			})
		}
	}()
}

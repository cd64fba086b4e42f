package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"webbuses/config"
	"webbuses/services"
)

// Triggerable allows workers to be nudged outside their own tickers.
type Triggerable interface {
	Trigger()
}

// Scheduler drives periodic catalog refreshes, either on a cron
// expression or a fixed interval, and kicks dependent workers after
// each successful refresh.
type Scheduler struct {
	cfg     *config.Config
	catalog *services.Catalog
	cron    *cron.Cron
	ticker  *time.Ticker
	stopCh  chan struct{}

	coverWorker Triggerable
}

func New(cfg *config.Config, catalog *services.Catalog) *Scheduler {
	return &Scheduler{
		cfg:     cfg,
		catalog: catalog,
		cron:    cron.New(),
		stopCh:  make(chan struct{}),
	}
}

// SetWorkers registers workers to trigger after each refresh.
func (s *Scheduler) SetWorkers(cover Triggerable) {
	s.coverWorker = cover
}

func (s *Scheduler) refresh(ctx context.Context) {
	if err := s.catalog.Refresh(ctx); err != nil {
		log.Printf("Scheduled refresh error: %v", err)
		return
	}
	if s.coverWorker != nil {
		s.coverWorker.Trigger()
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if s.cfg.Scheduler.Cron != "" {
		log.Printf("Starting scheduler with cron: %s", s.cfg.Scheduler.Cron)
		_, err := s.cron.AddFunc(s.cfg.Scheduler.Cron, func() {
			s.refresh(ctx)
		})
		if err != nil {
			return fmt.Errorf("invalid cron expression: %w", err)
		}
		s.cron.Start()
	} else if s.cfg.Scheduler.Interval > 0 {
		log.Printf("Starting scheduler with interval: %s", s.cfg.Scheduler.Interval)
		s.ticker = time.NewTicker(s.cfg.Scheduler.Interval)
		go func() {
			for {
				select {
				case <-s.ticker.C:
					s.refresh(ctx)
				case <-s.stopCh:
					return
				case <-ctx.Done():
					return
				}
			}
		}()
	} else {
		log.Println("No schedule configured, catalog refreshes only on demand")
	}

	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopCh)
}

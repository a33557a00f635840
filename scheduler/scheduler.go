package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"oneshift/config"
)

// Triggerable allows workers to be triggered on a schedule
type Triggerable interface {
	Trigger()
}

// Scheduler fires the link check worker on a cron expression or a fixed
// interval. With neither configured the worker only runs on its own timer.
type Scheduler struct {
	cfg    *config.Config
	worker Triggerable
	cron   *cron.Cron
	ticker *time.Ticker
	stopCh chan struct{}
}

func New(cfg *config.Config, worker Triggerable) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		worker: worker,
		cron:   cron.New(),
		stopCh: make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if s.cfg.LinkCheck.Cron != "" {
		log.Printf("Starting link check schedule with cron: %s", s.cfg.LinkCheck.Cron)
		_, err := s.cron.AddFunc(s.cfg.LinkCheck.Cron, func() {
			s.worker.Trigger()
		})
		if err != nil {
			return fmt.Errorf("invalid cron expression: %w", err)
		}
		s.cron.Start()
	} else if s.cfg.LinkCheck.Interval > 0 {
		log.Printf("Starting link check schedule with interval: %s", s.cfg.LinkCheck.Interval)
		s.ticker = time.NewTicker(s.cfg.LinkCheck.Interval)
		go func() {
			for {
				select {
				case <-s.ticker.C:
					s.worker.Trigger()
				case <-s.stopCh:
					return
				case <-ctx.Done():
					return
				}
			}
		}()
	} else {
		log.Println("No link check schedule configured, worker runs on its own timer")
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

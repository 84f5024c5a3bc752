package chat

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"
)

// Sweeper periodically evicts stale participants. Failures are logged and
// the next tick retries independently; a cycle never crashes the process.
type Sweeper struct {
	registry *Registry
	interval time.Duration
	ttl      time.Duration
	log      *log.Logger
}

func NewSweeper(registry *Registry, interval, ttl time.Duration, logger *log.Logger) *Sweeper {
	return &Sweeper{
		registry: registry,
		interval: interval,
		ttl:      ttl,
		log:      logger,
	}
}

// Run executes the sweep loop until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	s.log.Infof("starting eviction sweeper, interval %s, staleness threshold %s", s.interval, s.ttl)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			evicted, err := s.registry.SweepStale(ctx, time.Now(), s.ttl)
			if err != nil {
				s.log.Errorf("sweep cycle failed: %s", err)
			}
			for _, name := range evicted {
				s.log.Infof("evicted stale participant %s", name)
			}
		}
	}
}

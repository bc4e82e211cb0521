package scheduler

import (
	"time"

	"github.com/hyejin-dev/bakerly-cart/internal/app/repository"
	"github.com/hyejin-dev/bakerly-cart/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CartExpiryScheduler periodically evicts idle in-memory cart sessions so
// the per-session map stays bounded. Redis snapshots expire on their own TTL;
// this only covers the in-process copies.
type CartExpiryScheduler struct {
	cron    *cron.Cron
	store   repository.CartStore
	idleTTL time.Duration
}

func NewCartExpiryScheduler(store repository.CartStore, idleTTL time.Duration) *CartExpiryScheduler {
	return &CartExpiryScheduler{
		cron:    cron.New(),
		store:   store,
		idleTTL: idleTTL,
	}
}

// Start registers the hourly eviction job
func (s *CartExpiryScheduler) Start() error {
	// cron 표현식: "0 * * * *" = 매시 정각
	_, err := s.cron.AddFunc("0 * * * *", func() {
		evicted := s.store.EvictIdle(s.idleTTL)
		if evicted > 0 {
			logger.Info("Evicted idle cart sessions", map[string]interface{}{
				"evicted":  evicted,
				"idle_ttl": s.idleTTL.String(),
			})
		}
	})

	if err != nil {
		logger.Error("Failed to add cron job for cart expiry", err)
		return err
	}

	s.cron.Start()
	logger.Info("Cart expiry scheduler started (hourly)", nil)

	return nil
}

// Stop halts the scheduler
func (s *CartExpiryScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Cart expiry scheduler stopped", nil)
}

package service

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/quran-quiz-bot/internal/domain/entities"
)

// LiveEventService keeps an in-memory cache of the currently active
// live events, refreshed on a schedule. Session start consults the
// cache so it never blocks on the database for event lookup.
type LiveEventService struct {
	eventRepo LiveEventRepository
	logger    *zap.Logger

	mu     sync.RWMutex
	active []*entities.LiveEvent
}

// NewLiveEventService creates the service with an empty cache.
func NewLiveEventService(eventRepo LiveEventRepository, logger *zap.Logger) *LiveEventService {
	return &LiveEventService{
		eventRepo: eventRepo,
		logger:    logger,
	}
}

// Start loads the cache immediately and then refreshes it hourly until
// the context is canceled.
func (s *LiveEventService) Start(ctx context.Context) error {
	s.refresh(ctx)

	c := cron.New(cron.WithLocation(time.UTC))
	_, err := c.AddFunc("@hourly", func() {
		s.refresh(ctx)
	})
	if err != nil {
		return err
	}

	c.Start()
	go func() {
		<-ctx.Done()
		c.Stop()
	}()

	return nil
}

func (s *LiveEventService) refresh(ctx context.Context) {
	events, err := s.eventRepo.GetActive(ctx, time.Now())
	if err != nil {
		s.logger.Error("refresh live events", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.active = events
	s.mu.Unlock()

	s.logger.Info("live events refreshed", zap.Int("active", len(events)))
}

// Current returns the live event running right now, or nil.
func (s *LiveEventService) Current() *entities.LiveEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	for _, e := range s.active {
		if e.ActiveAt(now) {
			return e
		}
	}
	return nil
}

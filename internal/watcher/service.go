package watcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/samvad-hq/roli/internal/logger"
	"github.com/samvad-hq/roli/pkg/feeds"
)

// Stats is a snapshot of what the service has done since start.
type Stats struct {
	Polls     int64     `json:"polls"`
	Fetched   int64     `json:"fetched"`
	Published int64     `json:"published"`
	Failures  int64     `json:"failures"`
	LastPoll  time.Time `json:"last_poll,omitempty"`
	LastError string    `json:"last_error,omitempty"`
}

// Service polls every configured feed in turn.
type Service struct {
	processor *FeedProcessor
	log       logger.Logger

	mu    sync.Mutex
	stats Stats
}

// NewService wires a watcher over the fetcher registry, publisher and deduper.
func NewService(reg feeds.FetcherRegistry, pub EventPublisher, log logger.Logger, deduper Deduper) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{
		processor: NewFeedProcessor(reg, pub, log, deduper),
		log:       log,
	}
}

// Run executes one pass over feeds. Failed feeds do not stop the pass; their
// errors are joined. A cancelled context ends the pass without error.
func (s *Service) Run(ctx context.Context, fs []feeds.Feed) error {
	if s == nil || s.processor == nil || s.processor.registry == nil {
		return fmt.Errorf("watcher service is not initialized")
	}
	if len(fs) == 0 {
		return fmt.Errorf("no feeds configured for watching")
	}

	errs := s.runAll(ctx, fs)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (s *Service) runAll(ctx context.Context, fs []feeds.Feed) []error {
	var errs []error
	for i, f := range fs {
		if ctx.Err() != nil {
			return errs
		}

		res, err := s.processor.Process(ctx, f)
		if ctx.Err() != nil {
			return errs
		}
		s.record(res, err)
		if err != nil {
			errs = append(errs, err)
			s.log.ErrorObj("feed poll failed", "feed_error", map[string]any{
				"feed_id": f.ID,
				"error":   err.Error(),
			})
		} else {
			s.log.InfoObj("feed poll completed", "feed_result", res)
		}

		if i < len(fs)-1 && !sleepCtx(ctx, f.RequestDelay()) {
			return errs
		}
	}
	return errs
}

func (s *Service) record(res FeedResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Polls++
	s.stats.Fetched += int64(res.Fetched)
	s.stats.Published += int64(res.Published)
	s.stats.LastPoll = time.Now().UTC()
	if err != nil {
		s.stats.Failures++
		s.stats.LastError = err.Error()
	}
}

// Stats returns a copy of the counters.
func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// sleepCtx waits for d and reports false if ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

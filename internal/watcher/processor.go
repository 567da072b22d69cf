package watcher

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/samvad-hq/roli/internal/domain"
	"github.com/samvad-hq/roli/internal/logger"
	"github.com/samvad-hq/roli/pkg/feeds"
	"github.com/samvad-hq/roli/pkg/publishers"
)

// FeedResult summarizes one feed poll.
type FeedResult struct {
	FeedID    string `json:"feed_id"`
	Fetched   int    `json:"fetched"`
	Fresh     int    `json:"fresh"`
	Published int    `json:"published"`
}

// FeedProcessor polls one feed and publishes the activity not seen before.
type FeedProcessor struct {
	registry  feeds.FetcherRegistry
	publisher EventPublisher
	log       logger.Logger
	deduper   Deduper
}

// NewFeedProcessor wires a processor; a nil deduper publishes everything.
func NewFeedProcessor(reg feeds.FetcherRegistry, pub EventPublisher, log logger.Logger, deduper Deduper) *FeedProcessor {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &FeedProcessor{registry: reg, publisher: pub, log: log, deduper: deduper}
}

// Process fetches f, drops known activity and publishes the rest oldest
// first. An activity is marked only after every sink accepted it, so a
// failed delivery is retried on the next poll.
func (p *FeedProcessor) Process(ctx context.Context, f feeds.Feed) (FeedResult, error) {
	res := FeedResult{FeedID: f.ID}

	fetcher, err := p.registry.FetcherFor(f)
	if err != nil {
		return res, fmt.Errorf("resolve fetcher for feed %s: %w", f.ID, err)
	}
	activity, err := fetcher.Fetch(ctx, f)
	if err != nil {
		return res, fmt.Errorf("fetch feed %s: %w", f.ID, err)
	}
	res.Fetched = len(activity)

	fresh := p.filterNew(f, activity)
	res.Fresh = len(fresh)
	sort.SliceStable(fresh, func(i, j int) bool { return fresh[i].Timestamp.Before(fresh[j].Timestamp) })

	if p.publisher == nil {
		return res, nil
	}

	var errs []error
	for _, a := range fresh {
		if ctx.Err() != nil {
			break
		}
		evt := publishers.NewEvent(f.ID, f.Name, a)
		if _, err := p.publisher.Publish(ctx, evt); err != nil {
			errs = append(errs, fmt.Errorf("publish %s: %w", a.ID, err))
			continue
		}
		res.Published++
		if p.deduper == nil {
			continue
		}
		if err := p.deduper.MarkActivity(a.ID); err != nil {
			p.log.WarnObj("mark activity failed", "storage_error", map[string]any{
				"feed_id":     f.ID,
				"activity_id": a.ID,
				"error":       err.Error(),
			})
		}
	}
	return res, errors.Join(errs...)
}

// filterNew drops activity the deduper has seen and repeats within the
// batch. Lookup failures keep the activity.
func (p *FeedProcessor) filterNew(f feeds.Feed, activity []domain.Activity) []domain.Activity {
	out := make([]domain.Activity, 0, len(activity))
	batch := make(map[string]struct{}, len(activity))
	for _, a := range activity {
		if _, dup := batch[a.ID]; dup {
			continue
		}
		batch[a.ID] = struct{}{}

		if p.deduper != nil {
			seen, err := p.deduper.SeenActivity(a.ID)
			if err != nil {
				p.log.WarnObj("dedupe lookup failed", "storage_error", map[string]any{
					"feed_id":     f.ID,
					"activity_id": a.ID,
					"error":       err.Error(),
				})
			} else if seen {
				continue
			}
		}
		out = append(out, a)
	}
	return out
}

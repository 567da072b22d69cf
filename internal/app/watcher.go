package app

import (
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/roli/internal/config"
	"github.com/samvad-hq/roli/internal/logger"
	"github.com/samvad-hq/roli/internal/storage"
	"github.com/samvad-hq/roli/internal/watcher"
	"github.com/samvad-hq/roli/pkg/feeds"
	"github.com/samvad-hq/roli/pkg/publishers"
	"github.com/samvad-hq/roli/pkg/roli"
)

// Watcher is the roliwatch runtime. It owns the poll loop, the publisher
// fanout, the dedupe store and the optional status server.
type Watcher struct {
	cfg          *config.Config
	feeds        []feeds.Feed
	fanout       *publishers.Fanout
	service      *watcher.Service
	pollInterval time.Duration
	log          logger.Logger
	store        storage.Store
	status       *statusServer
}

// NewWatcher builds the runtime from config files.
func NewWatcher(ctx context.Context, cfg *config.Config, log logger.Logger) (*Watcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	feedList, err := feeds.LoadFeeds(cfg.FeedsFile)
	if err != nil {
		return nil, fmt.Errorf("load feeds: %w", err)
	}
	feedIDs := make([]string, 0, len(feedList))
	for _, f := range feedList {
		feedIDs = append(feedIDs, f.ID)
	}
	log.InfoObj("feeds loaded", "feeds_meta", map[string]any{
		"count": len(feedIDs),
		"ids":   feedIDs,
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}
	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	summaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		summaries = append(summaries, map[string]string{"id": pubCfg.ID, "type": pubCfg.Type})
	}
	log.InfoObj("publishers built", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})

	store, err := storage.NewStore(cfg.StorageType, storage.Options{
		Path:            cfg.BBoltPath,
		RedisAddr:       cfg.RedisAddr,
		RedisPassword:   cfg.RedisPassword,
		RedisDB:         cfg.RedisDB,
		ActivityTTL:     cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"activity_ttl_seconds":     int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	client := roli.New(
		roli.WithBaseURL(cfg.RoliBaseURL),
		roli.WithUserAgent(cfg.RoliUserAgent),
		roli.WithTimeout(cfg.RequestTimeout),
		roli.WithVerification(cfg.RoliVerification),
		roli.WithLogger(log),
	)
	service := watcher.NewService(feeds.DefaultFetcherRegistry(client), fanout, log, store)

	w := &Watcher{
		cfg:          cfg,
		feeds:        feedList,
		fanout:       fanout,
		service:      service,
		pollInterval: cfg.PollInterval,
		log:          log,
		store:        store,
	}
	if cfg.StatusAddr != "" {
		w.status = newStatusServer(cfg.StatusAddr, service, fanout.Size(), log)
	}
	return w, nil
}

// Run polls every feed once, then again on each tick until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w == nil || w.service == nil {
		return fmt.Errorf("watcher is not initialized")
	}
	defer w.close()

	if w.status != nil {
		w.status.start(ctx)
	}

	w.log.InfoObj("watch loop starting", "watcher_state", map[string]any{
		"feeds_count":      len(w.feeds),
		"publishers_count": w.fanout.Size(),
		"poll_interval":    w.pollInterval.String(),
	})

	if err := w.runOnce(ctx); err != nil {
		w.log.ErrorObj("initial poll failed", "error", err.Error())
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.InfoObj("watch loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := w.runOnce(ctx); err != nil {
				w.log.ErrorObj("scheduled poll failed", "error", err.Error())
			}
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context) error {
	start := time.Now()
	w.log.InfoObj("poll started", "poll_meta", map[string]any{
		"feeds_count": len(w.feeds),
		"started_at":  start.UTC(),
	})
	if err := w.service.Run(ctx, w.feeds); err != nil {
		return err
	}
	w.log.InfoObj("poll completed", "poll_meta", map[string]any{
		"feeds_count": len(w.feeds),
		"elapsed_ms":  time.Since(start).Milliseconds(),
	})
	return nil
}

// close releases the status server, the store and every publisher.
func (w *Watcher) close() {
	if w.status != nil {
		w.status.stop()
	}
	if w.store != nil {
		if err := w.store.Close(); err != nil {
			w.log.ErrorObj("storage close failed", "error", err.Error())
		}
	}
	if w.fanout != nil {
		if err := w.fanout.Close(); err != nil {
			w.log.ErrorObj("publisher close failed", "error", err.Error())
		}
	}
}

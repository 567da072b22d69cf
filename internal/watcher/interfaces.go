package watcher

import (
	"context"

	"github.com/samvad-hq/roli/pkg/publishers"
)

// EventPublisher delivers events downstream and reports how many sinks accepted them.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Deduper remembers activity that was already published.
type Deduper interface {
	SeenActivity(id string) (bool, error)
	MarkActivity(id string) error
}

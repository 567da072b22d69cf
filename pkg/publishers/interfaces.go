package publishers

import (
	"context"

	"github.com/samvad-hq/roli/internal/logger"
)

// Publisher sends events to a downstream sink (HTTP, SQS, SNS, Pub/Sub).
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// Logger is the structured logger publishers report delivery through.
type Logger = logger.Logger

// closer is implemented by publishers holding long-lived clients.
type closer interface {
	Close() error
}

func orNop(log Logger) Logger {
	if log == nil {
		return logger.NopLogger{}
	}
	return log
}

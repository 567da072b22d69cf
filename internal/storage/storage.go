package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage remembers which activity ids were already published.

// Store tracks published activity IDs.
type Store interface {
	Close() error
	SeenActivity(id string) (bool, error)
	MarkActivity(id string) error
}

// Options selects and tunes a concrete store implementation.
type Options struct {
	// Path is the bbolt database file.
	Path string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ActivityTTL     time.Duration
	CleanupInterval time.Duration
}

const (
	defaultActivityTTL     = 48 * time.Hour
	defaultCleanupInterval = 6 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(opts.Path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		store, err := openBolt(opts.Path, opts)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "redis":
		store, err := openRedis(opts)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.ActivityTTL <= 0 {
		opts.ActivityTTL = defaultActivityTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                      { return nil }
func (noopStore) SeenActivity(string) (bool, error) { return false, nil }
func (noopStore) MarkActivity(string) error         { return nil }

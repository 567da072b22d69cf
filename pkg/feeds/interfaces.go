package feeds

import (
	"context"

	"github.com/samvad-hq/roli/internal/domain"
	"github.com/samvad-hq/roli/pkg/roli"
)

// Fetcher retrieves the current activity of one feed.
type Fetcher interface {
	ID() string
	Fetch(ctx context.Context, f Feed) ([]domain.Activity, error)
}

// FetcherRegistry resolves the fetcher implementation for a given feed.
type FetcherRegistry interface {
	FetcherFor(f Feed) (Fetcher, error)
}

// Source is the part of *roli.Client the feed fetchers read from.
type Source interface {
	DealsActivity(ctx context.Context) ([]roli.Deal, error)
	RecentSales(ctx context.Context) ([]roli.Sale, error)
	RecentTradeAds(ctx context.Context) ([]roli.TradeAd, error)
}

// SourceFunc picks the Source to use for a feed, e.g. one with the feed's User-Agent.
type SourceFunc func(f Feed) Source

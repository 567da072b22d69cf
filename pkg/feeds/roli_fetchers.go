package feeds

import (
	"context"
	"fmt"
	"strings"

	"github.com/samvad-hq/roli/internal/domain"
	"github.com/samvad-hq/roli/pkg/roli"
)

// filter holds the per-feed item and value restrictions.
type filter struct {
	items    map[int64]struct{}
	minValue int64
}

func newFilter(f Feed) (filter, error) {
	ids, err := ConfigInt64s(f, ConfigItemIDsKey)
	if err != nil {
		return filter{}, err
	}
	minValue, err := ConfigInt64(f, ConfigMinValueKey, 0)
	if err != nil {
		return filter{}, err
	}
	flt := filter{minValue: minValue}
	if len(ids) > 0 {
		flt.items = make(map[int64]struct{}, len(ids))
		for _, id := range ids {
			flt.items[id] = struct{}{}
		}
	}
	return flt, nil
}

func (flt filter) wantItem(ids ...int64) bool {
	if flt.items == nil {
		return true
	}
	for _, id := range ids {
		if _, ok := flt.items[id]; ok {
			return true
		}
	}
	return false
}

func (flt filter) wantValue(v int64) bool {
	return v >= flt.minValue
}

func checkType(f Feed, want string) error {
	if !strings.EqualFold(f.Type, want) {
		return fmt.Errorf("%s fetcher received incompatible feed %q of type %q", want, f.ID, f.Type)
	}
	return nil
}

// dealsFetcher turns the deals feed into price and RAP update activity.
type dealsFetcher struct {
	source SourceFunc
}

// NewDealsFetcher serves feeds of type deals.
func NewDealsFetcher(source SourceFunc) Fetcher {
	return &dealsFetcher{source: source}
}

func (d *dealsFetcher) ID() string { return TypeDeals }

func (d *dealsFetcher) Fetch(ctx context.Context, f Feed) ([]domain.Activity, error) {
	if err := checkType(f, TypeDeals); err != nil {
		return nil, err
	}
	flt, err := newFilter(f)
	if err != nil {
		return nil, err
	}
	deals, err := d.source(f).DealsActivity(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", f.ID, err)
	}

	out := make([]domain.Activity, 0, len(deals))
	for _, deal := range deals {
		if !flt.wantItem(deal.ItemID) || !flt.wantValue(deal.Value) {
			continue
		}
		out = append(out, domain.FromDeal(f.ID, deal))
	}
	return out, nil
}

// salesFetcher reports detected limited sales.
type salesFetcher struct {
	source SourceFunc
}

// NewSalesFetcher serves feeds of type sales.
func NewSalesFetcher(source SourceFunc) Fetcher {
	return &salesFetcher{source: source}
}

func (s *salesFetcher) ID() string { return TypeSales }

func (s *salesFetcher) Fetch(ctx context.Context, f Feed) ([]domain.Activity, error) {
	if err := checkType(f, TypeSales); err != nil {
		return nil, err
	}
	flt, err := newFilter(f)
	if err != nil {
		return nil, err
	}
	sales, err := s.source(f).RecentSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", f.ID, err)
	}

	out := make([]domain.Activity, 0, len(sales))
	for _, sale := range sales {
		if !flt.wantItem(sale.ItemID) || !flt.wantValue(sale.SalePrice) {
			continue
		}
		out = append(out, domain.FromSale(f.ID, sale))
	}
	return out, nil
}

// tradeAdsFetcher reports newly posted trade ads. item_ids matches an ad
// when any offered or requested item is listed.
type tradeAdsFetcher struct {
	source SourceFunc
}

// NewTradeAdsFetcher serves feeds of type trade_ads.
func NewTradeAdsFetcher(source SourceFunc) Fetcher {
	return &tradeAdsFetcher{source: source}
}

func (t *tradeAdsFetcher) ID() string { return TypeTradeAds }

func (t *tradeAdsFetcher) Fetch(ctx context.Context, f Feed) ([]domain.Activity, error) {
	if err := checkType(f, TypeTradeAds); err != nil {
		return nil, err
	}
	flt, err := newFilter(f)
	if err != nil {
		return nil, err
	}
	ads, err := t.source(f).RecentTradeAds(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", f.ID, err)
	}

	out := make([]domain.Activity, 0, len(ads))
	for _, ad := range ads {
		items := append(append([]int64{}, ad.Offer.ItemIDs...), ad.Request.ItemIDs...)
		if !flt.wantItem(items...) || !flt.wantValue(ad.Offer.Robux) {
			continue
		}
		out = append(out, domain.FromTradeAd(f.ID, ad))
	}
	return out, nil
}

var _ Source = (*roli.Client)(nil)

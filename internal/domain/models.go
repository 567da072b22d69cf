package domain

import (
	"fmt"
	"time"

	"github.com/samvad-hq/roli/pkg/roli"
)

// Activity kinds emitted by the watcher.
const (
	KindPriceUpdate = "price_update"
	KindRAPUpdate   = "rap_update"
	KindSale        = "sale"
	KindTradeAd     = "trade_ad"
)

// Activity is one normalized entry from a Rolimons feed.
type Activity struct {
	// ID is stable across polls and used for de-duplication.
	ID        string    `json:"id"`
	FeedID    string    `json:"feed_id"`
	Kind      string    `json:"kind"`
	ItemID    int64     `json:"item_id,omitempty"`
	Value     int64     `json:"value,omitempty"`
	PlayerID  int64     `json:"player_id,omitempty"`
	Username  string    `json:"username,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// FromDeal maps a deals feed entry to a price or RAP update.
func FromDeal(feedID string, d roli.Deal) Activity {
	kind := KindPriceUpdate
	prefix := "price"
	if d.Kind == roli.DealRAPUpdate {
		kind = KindRAPUpdate
		prefix = "rap"
	}
	return Activity{
		ID:        fmt.Sprintf("%s:%d:%d:%d", prefix, d.ItemID, d.Timestamp.Unix(), d.Value),
		FeedID:    feedID,
		Kind:      kind,
		ItemID:    d.ItemID,
		Value:     d.Value,
		Timestamp: d.Timestamp,
		Payload:   d,
	}
}

// FromSale maps a detected sale; Value is the derived sale price.
func FromSale(feedID string, s roli.Sale) Activity {
	return Activity{
		ID:        fmt.Sprintf("sale:%d", s.SaleID),
		FeedID:    feedID,
		Kind:      KindSale,
		ItemID:    s.ItemID,
		Value:     s.SalePrice,
		Timestamp: s.Timestamp,
		Payload:   s,
	}
}

// FromTradeAd leaves ItemID unset since an ad offers several items.
func FromTradeAd(feedID string, ad roli.TradeAd) Activity {
	return Activity{
		ID:        fmt.Sprintf("trade_ad:%d", ad.ID),
		FeedID:    feedID,
		Kind:      KindTradeAd,
		Value:     ad.Offer.Robux,
		PlayerID:  ad.UserID,
		Username:  ad.Username,
		Timestamp: ad.Timestamp,
		Payload:   ad,
	}
}

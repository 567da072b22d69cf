package domain

import (
	"testing"
	"time"

	"github.com/samvad-hq/roli/pkg/roli"
)

func TestActivityIDsAreStable(t *testing.T) {
	ts := time.Unix(1679978239, 0).UTC()

	price := FromDeal("deals", roli.Deal{Kind: roli.DealPriceUpdate, Timestamp: ts, ItemID: 42, Value: 900})
	if price.ID != "price:42:1679978239:900" || price.Kind != KindPriceUpdate {
		t.Fatalf("unexpected price activity %+v", price)
	}
	rap := FromDeal("deals", roli.Deal{Kind: roli.DealRAPUpdate, Timestamp: ts, ItemID: 42, Value: 900})
	if rap.ID != "rap:42:1679978239:900" || rap.Kind != KindRAPUpdate {
		t.Fatalf("unexpected rap activity %+v", rap)
	}

	sale := FromSale("sales", roli.Sale{SaleID: 77, ItemID: 42, SalePrice: 4692, Timestamp: ts})
	if sale.ID != "sale:77" || sale.Value != 4692 || sale.FeedID != "sales" {
		t.Fatalf("unexpected sale activity %+v", sale)
	}

	ad := FromTradeAd("ads", roli.TradeAd{ID: 9, UserID: 1, Username: "Roblox", Timestamp: ts, Offer: roli.TradeOffer{Robux: 50}})
	if ad.ID != "trade_ad:9" || ad.PlayerID != 1 || ad.Username != "Roblox" || ad.Value != 50 {
		t.Fatalf("unexpected trade ad activity %+v", ad)
	}
}

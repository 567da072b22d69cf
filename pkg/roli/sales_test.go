package roli

import (
	"context"
	"reflect"
	"testing"
	"time"
)

func TestSalePrice(t *testing.T) {
	if got := SalePrice(4272, 4314); got != 4692 {
		t.Fatalf("expected 4692, got %d", got)
	}
	if got := SalePrice(0, 900); got != 900 {
		t.Fatalf("expected first sale to equal new rap, got %d", got)
	}
}

func TestRecentSalesDecodes(t *testing.T) {
	m := &mockHTTPClient{body: `{
		"success": true,
		"activities": [
			[1679978239, 1, 327318670, 4272, 4314, 4991002],
			[1679978300, 1, "1028606", -1, 900, "4991003"]
		],
		"activities_count": 2
	}`}
	c := newTestClient(m)

	sales, err := c.RecentSales(context.Background())
	if err != nil {
		t.Fatalf("RecentSales: %v", err)
	}
	if m.url != "https://roli.test/api/activity" {
		t.Fatalf("unexpected url %s", m.url)
	}
	want := []Sale{
		{ItemID: 327318670, OldRAP: 4272, NewRAP: 4314, SalePrice: 4692, SaleID: 4991002, Timestamp: time.Unix(1679978239, 0).UTC()},
		{ItemID: 1028606, OldRAP: 0, NewRAP: 900, SalePrice: 900, SaleID: 4991003, Timestamp: time.Unix(1679978300, 0).UTC()},
	}
	if !reflect.DeepEqual(sales, want) {
		t.Fatalf("unexpected sales:\n got %#v\nwant %#v", sales, want)
	}
}

func TestRecentSalesRejectsBadRows(t *testing.T) {
	bodies := map[string]string{
		"wrong arity":   `{"success":true,"activities":[[1,1,2,3,4]]}`,
		"unknown kind":  `{"success":true,"activities":[[1,2,2,3,4,5]]}`,
		"null activity": `{"success":true,"activities":null}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(&mockHTTPClient{body: body})
			_, err := c.RecentSales(context.Background())
			requireKind(t, err, KindDecode, ErrMalformedResponse)
		})
	}
}

package roli

import (
	"context"
	"reflect"
	"testing"
	"time"
)

func TestDealsActivityDecodes(t *testing.T) {
	m := &mockHTTPClient{body: `{
		"success": true,
		"activities": [
			[1679978239, 0, "1028606", 1500],
			[1679978240, 1, 12345, "4314"]
		]
	}`}
	c := newTestClient(m)

	deals, err := c.DealsActivity(context.Background())
	if err != nil {
		t.Fatalf("DealsActivity: %v", err)
	}
	want := []Deal{
		{Kind: DealPriceUpdate, Timestamp: time.Unix(1679978239, 0).UTC(), ItemID: 1028606, Value: 1500},
		{Kind: DealRAPUpdate, Timestamp: time.Unix(1679978240, 0).UTC(), ItemID: 12345, Value: 4314},
	}
	if !reflect.DeepEqual(deals, want) {
		t.Fatalf("unexpected deals:\n got %#v\nwant %#v", deals, want)
	}
}

func TestDealsActivityRejectsUnknownKind(t *testing.T) {
	c := newTestClient(&mockHTTPClient{body: `{"success":true,"activities":[[1,7,"1",1]]}`})
	_, err := c.DealsActivity(context.Background())
	requireKind(t, err, KindDecode, ErrMalformedResponse)
}

func TestDealsActivityRejectsWrongArity(t *testing.T) {
	for _, row := range []string{`[1,0,2]`, `[1,0,2,3,4]`} {
		c := newTestClient(&mockHTTPClient{body: `{"success":true,"activities":[` + row + `]}`})
		_, err := c.DealsActivity(context.Background())
		requireKind(t, err, KindDecode, ErrMalformedResponse)
	}
}

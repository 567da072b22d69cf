package roli

import (
	"context"
	"fmt"
	"time"
)

// DealKind distinguishes the two entries of the deals feed.
type DealKind int

const (
	DealPriceUpdate DealKind = 0
	DealRAPUpdate   DealKind = 1
)

func (k DealKind) String() string {
	switch k {
	case DealPriceUpdate:
		return "price_update"
	case DealRAPUpdate:
		return "rap_update"
	}
	return fmt.Sprintf("deal_kind(%d)", int(k))
}

// Deal is one entry of the deals page feed. Value is the new lowest price
// for DealPriceUpdate and the new RAP for DealRAPUpdate.
type Deal struct {
	Kind      DealKind  `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	ItemID    int64     `json:"item_id"`
	Value     int64     `json:"value"`
}

type dealsActivityResponse struct {
	Activities []row `json:"activities"`
}

// DealsActivity fetches the latest chunk of the deals feed. The feed only
// carries recent changes, so a caller-side cache is needed to build full state.
func (c *Client) DealsActivity(ctx context.Context) ([]Deal, error) {
	ep := dealsActivityEndpoint
	body, status, err := c.do(ctx, ep, "", nil, nil, nil)
	if err != nil {
		return nil, err
	}

	var raw dealsActivityResponse
	if err := c.decodeEnvelope(ep.op, status, body, &raw); err != nil {
		return nil, err
	}
	if raw.Activities == nil {
		return nil, decodeError(ep.op, "missing activities")
	}

	deals := make([]Deal, 0, len(raw.Activities))
	for i, r := range raw.Activities {
		d, err := dealFromRow(r)
		if err != nil {
			return nil, decodeError(ep.op, "activity %d: %w", i, err)
		}
		deals = append(deals, d)
	}
	return deals, nil
}

// dealFromRow reads [timestamp, kind, item_id, value].
func dealFromRow(r row) (Deal, error) {
	if len(r) != 4 {
		return Deal{}, fmt.Errorf("expected 4 fields, got %d", len(r))
	}
	ts, err := r.int(0)
	if err != nil {
		return Deal{}, err
	}
	kind, err := r.int(1)
	if err != nil {
		return Deal{}, err
	}
	if DealKind(kind) != DealPriceUpdate && DealKind(kind) != DealRAPUpdate {
		return Deal{}, fmt.Errorf("unknown activity kind %d", kind)
	}
	itemID, err := r.int(2)
	if err != nil {
		return Deal{}, err
	}
	value, err := r.int(3)
	if err != nil {
		return Deal{}, err
	}
	return Deal{
		Kind:      DealKind(kind),
		Timestamp: unixTime(ts),
		ItemID:    itemID,
		Value:     value,
	}, nil
}

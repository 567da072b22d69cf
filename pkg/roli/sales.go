package roli

import (
	"context"
	"fmt"
	"time"
)

// Sale is a detected sale of a limited item.
type Sale struct {
	ItemID    int64 `json:"item_id"`
	OldRAP    int64 `json:"old_rap"`
	NewRAP    int64 `json:"new_rap"`
	SalePrice int64 `json:"sale_price"`
	// SaleID is the Rolimons id used in /itemsale/{id}.
	SaleID int64 `json:"sale_id"`
	// Timestamp is when Rolimons detected the sale.
	Timestamp time.Time `json:"timestamp"`
}

type recentSalesResponse struct {
	Activities      []row `json:"activities"`
	ActivitiesCount int64 `json:"activities_count"`
}

const saleActivityKind = 1

// RecentSales fetches the most recent limited sales. The site polls this
// roughly every three seconds.
func (c *Client) RecentSales(ctx context.Context) ([]Sale, error) {
	ep := recentSalesEndpoint
	body, status, err := c.do(ctx, ep, "", nil, nil, nil)
	if err != nil {
		return nil, err
	}

	var raw recentSalesResponse
	if err := c.decodeEnvelope(ep.op, status, body, &raw); err != nil {
		return nil, err
	}
	if raw.Activities == nil {
		return nil, decodeError(ep.op, "missing activities")
	}

	sales := make([]Sale, 0, len(raw.Activities))
	for i, r := range raw.Activities {
		s, err := saleFromRow(r)
		if err != nil {
			return nil, decodeError(ep.op, "activity %d: %w", i, err)
		}
		sales = append(sales, s)
	}
	return sales, nil
}

// saleFromRow reads [timestamp, kind, item_id, old_rap, new_rap, sale_id].
// old_rap is negative when the item had no RAP.
func saleFromRow(r row) (Sale, error) {
	if len(r) != 6 {
		return Sale{}, fmt.Errorf("expected 6 fields, got %d", len(r))
	}
	vals := make([]int64, 6)
	for i := range vals {
		v, err := r.int(i)
		if err != nil {
			return Sale{}, err
		}
		vals[i] = v
	}
	if vals[1] != saleActivityKind {
		return Sale{}, fmt.Errorf("unknown activity kind %d", vals[1])
	}

	oldRAP := vals[3]
	if oldRAP < 0 {
		oldRAP = 0
	}
	return Sale{
		ItemID:    vals[2],
		OldRAP:    oldRAP,
		NewRAP:    vals[4],
		SalePrice: SalePrice(oldRAP, vals[4]),
		SaleID:    vals[5],
		Timestamp: unixTime(vals[0]),
	}, nil
}

// SalePrice recovers the price from a RAP change. RAP moves a tenth of the
// way towards each sale price, so price = old + 10*(new-old).
func SalePrice(oldRAP, newRAP int64) int64 {
	if oldRAP == 0 {
		return newRAP
	}
	return 10*(newRAP-oldRAP) + oldRAP
}

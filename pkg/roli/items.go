package roli

import (
	"context"
	"fmt"
)

// Demand is the Rolimons demand rating of an item.
type Demand int

const (
	DemandUnassigned Demand = -1
	DemandTerrible   Demand = 0
	DemandLow        Demand = 1
	DemandNormal     Demand = 2
	DemandHigh       Demand = 3
	DemandAmazing    Demand = 4
)

func (d Demand) String() string {
	switch d {
	case DemandUnassigned:
		return "unassigned"
	case DemandTerrible:
		return "terrible"
	case DemandLow:
		return "low"
	case DemandNormal:
		return "normal"
	case DemandHigh:
		return "high"
	case DemandAmazing:
		return "amazing"
	}
	return fmt.Sprintf("demand(%d)", int(d))
}

// Trend is the Rolimons value trend of an item.
type Trend int

const (
	TrendUnassigned  Trend = -1
	TrendLowering    Trend = 0
	TrendUnstable    Trend = 1
	TrendStable      Trend = 2
	TrendRaising     Trend = 3
	TrendFluctuating Trend = 4
)

func (t Trend) String() string {
	switch t {
	case TrendUnassigned:
		return "unassigned"
	case TrendLowering:
		return "lowering"
	case TrendUnstable:
		return "unstable"
	case TrendStable:
		return "stable"
	case TrendRaising:
		return "raising"
	case TrendFluctuating:
		return "fluctuating"
	}
	return fmt.Sprintf("trend(%d)", int(t))
}

// ItemDetails is what the item page shows for one limited.
type ItemDetails struct {
	ItemID  int64  `json:"item_id"`
	Name    string `json:"name"`
	Acronym string `json:"acronym,omitempty"`
	RAP     int64  `json:"rap"`
	// Valued is false when Rolimons has not assigned a value; Value then mirrors RAP.
	Valued    bool   `json:"valued"`
	Value     int64  `json:"value"`
	Demand    Demand `json:"demand"`
	Trend     Trend  `json:"trend"`
	Projected bool   `json:"projected"`
	Hyped     bool   `json:"hyped"`
	Rare      bool   `json:"rare"`
}

type itemDetailsResponse struct {
	ItemCount int64          `json:"item_count"`
	Items     map[string]row `json:"items"`
}

const itemDetailsFields = 10

// AllItemDetails fetches every tracked limited keyed by item id.
//
// This endpoint is heavy; callers are expected to cache the result.
func (c *Client) AllItemDetails(ctx context.Context) (map[int64]ItemDetails, error) {
	ep := itemDetailsEndpoint
	body, status, err := c.do(ctx, ep, "", nil, nil, nil)
	if err != nil {
		return nil, err
	}

	var raw itemDetailsResponse
	if err := c.decodeEnvelope(ep.op, status, body, &raw); err != nil {
		return nil, err
	}
	if raw.Items == nil {
		return nil, decodeError(ep.op, "missing items")
	}

	out := make(map[int64]ItemDetails, len(raw.Items))
	for key, fields := range raw.Items {
		id, err := parseID(key)
		if err != nil {
			return nil, decodeError(ep.op, "item key: %w", err)
		}
		item, err := itemDetailsFromRow(id, fields)
		if err != nil {
			return nil, decodeError(ep.op, "item %d: %w", id, err)
		}
		out[id] = item
	}
	return out, nil
}

// itemDetailsFromRow reads
// [name, acronym, rap, value, default_value, demand, trend, projected, hyped, rare].
func itemDetailsFromRow(id int64, r row) (ItemDetails, error) {
	if len(r) != itemDetailsFields {
		return ItemDetails{}, fmt.Errorf("expected %d fields, got %d", itemDetailsFields, len(r))
	}

	name, err := r.str(0)
	if err != nil {
		return ItemDetails{}, err
	}
	acronym, err := r.str(1)
	if err != nil {
		return ItemDetails{}, err
	}

	ints := make([]int64, itemDetailsFields)
	for i := 2; i < itemDetailsFields; i++ {
		if ints[i], err = r.int(i); err != nil {
			return ItemDetails{}, err
		}
	}

	demand := Demand(ints[5])
	if demand < DemandUnassigned || demand > DemandAmazing {
		return ItemDetails{}, fmt.Errorf("unknown demand %d", ints[5])
	}
	trend := Trend(ints[6])
	if trend < TrendUnassigned || trend > TrendFluctuating {
		return ItemDetails{}, fmt.Errorf("unknown trend %d", ints[6])
	}

	flags := make([]bool, 3)
	for i, v := range ints[7:10] {
		switch v {
		case 1:
			flags[i] = true
		case -1:
			flags[i] = false
		default:
			return ItemDetails{}, fmt.Errorf("index %d: unknown flag %d", i+7, v)
		}
	}

	return ItemDetails{
		ItemID:    id,
		Name:      name,
		Acronym:   acronym,
		RAP:       ints[2],
		Valued:    ints[3] != -1,
		Value:     ints[4],
		Demand:    demand,
		Trend:     trend,
		Projected: flags[0],
		Hyped:     flags[1],
		Rare:      flags[2],
	}, nil
}


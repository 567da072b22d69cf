package roli

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// PlayerSearchResult identifies a player; it carries no inventory data.
type PlayerSearchResult struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

type playerSearchResponse struct {
	ResultCount int64 `json:"result_count"`
	Players     []row `json:"players"`
}

// PlayerSearch looks players up by (partial) username.
func (c *Client) PlayerSearch(ctx context.Context, username string) ([]PlayerSearchResult, error) {
	ep := playerSearchEndpoint
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, argumentError(ep.op, "username is required")
	}

	body, status, err := c.do(ctx, ep, "", url.Values{"searchstring": {username}}, nil, nil)
	if err != nil {
		return nil, err
	}

	var raw playerSearchResponse
	if err := c.decodeEnvelope(ep.op, status, body, &raw); err != nil {
		return nil, err
	}
	if raw.Players == nil {
		return nil, decodeError(ep.op, "missing players")
	}

	out := make([]PlayerSearchResult, 0, len(raw.Players))
	for i, r := range raw.Players {
		// the third element, when present, is unused
		if len(r) != 2 && len(r) != 3 {
			return nil, decodeError(ep.op, "player %d: expected 2 or 3 fields, got %d", i, len(r))
		}
		id, err := r.int(0)
		if err != nil {
			return nil, decodeError(ep.op, "player %d: %w", i, err)
		}
		name, err := r.str(1)
		if err != nil {
			return nil, decodeError(ep.op, "player %d: %w", i, err)
		}
		out = append(out, PlayerSearchResult{UserID: id, Username: name})
	}
	return out, nil
}

// PlayerProfile is a player's tracked state on Rolimons.
type PlayerProfile struct {
	ID             int64                `json:"id"`
	Terminated     bool                 `json:"terminated"`
	PrivacyEnabled bool                 `json:"privacy_enabled"`
	Verified       bool                 `json:"verified"`
	Premium        bool                 `json:"premium"`
	Online         bool                 `json:"online"`
	LastOnline     time.Time            `json:"last_online"`
	LastLocation   string               `json:"last_location"`
	StatsUpdated   time.Time            `json:"stats_updated"`
	Badges         map[string]time.Time `json:"badges,omitempty"`
	// Inventory is sorted by item id.
	Inventory []InventoryItem `json:"inventory"`
}

// InventoryItem groups every copy of one item, identified by UAID.
type InventoryItem struct {
	ItemID int64   `json:"item_id"`
	UAIDs  []int64 `json:"uaids"`
}

// playerProfileResponse uses pointers for the fields a profile must carry.
type playerProfileResponse struct {
	PlayerID             *flexInt              `json:"playerId"`
	PlayerTerminated     *bool                 `json:"playerTerminated"`
	PlayerPrivacyEnabled *bool                 `json:"playerPrivacyEnabled"`
	PlayerVerified       *bool                 `json:"playerVerified"`
	ChartNominalScanTime *flexInt              `json:"chartNominalScanTime"`
	PlayerAssets         *map[string][]flexInt `json:"playerAssets"`
	IsOnline             *bool                 `json:"isOnline"`
	LastOnline           *flexInt              `json:"lastOnline"`
	LastLocation         flexString            `json:"lastLocation"`
	Premium              *bool                 `json:"premium"`
	Badges               map[string]flexInt    `json:"badges"`
}

// missing names the first required field absent from the body.
func (r playerProfileResponse) missing() string {
	required := []struct {
		name    string
		present bool
	}{
		{"playerId", r.PlayerID != nil},
		{"playerTerminated", r.PlayerTerminated != nil},
		{"playerPrivacyEnabled", r.PlayerPrivacyEnabled != nil},
		{"playerVerified", r.PlayerVerified != nil},
		{"playerAssets", r.PlayerAssets != nil},
		{"isOnline", r.IsOnline != nil},
		{"premium", r.Premium != nil},
	}
	for _, f := range required {
		if !f.present {
			return f.name
		}
	}
	return ""
}

// PlayerProfile fetches the tracked profile and inventory of a player.
func (c *Client) PlayerProfile(ctx context.Context, playerID int64) (*PlayerProfile, error) {
	ep := playerProfileEndpoint
	if playerID <= 0 {
		return nil, argumentError(ep.op, "player id must be positive")
	}

	body, status, err := c.do(ctx, ep, strconv.FormatInt(playerID, 10), nil, nil, nil)
	if err != nil {
		return nil, err
	}

	var raw playerProfileResponse
	if err := c.decodeEnvelope(ep.op, status, body, &raw); err != nil {
		return nil, err
	}
	if name := raw.missing(); name != "" {
		return nil, decodeError(ep.op, "missing %s", name)
	}

	assets := *raw.PlayerAssets
	p := &PlayerProfile{
		ID:             int64(*raw.PlayerID),
		Terminated:     *raw.PlayerTerminated,
		PrivacyEnabled: *raw.PlayerPrivacyEnabled,
		Verified:       *raw.PlayerVerified,
		Premium:        *raw.Premium,
		Online:         *raw.IsOnline,
		LastLocation:   string(raw.LastLocation),
		Inventory:      make([]InventoryItem, 0, len(assets)),
	}
	if raw.LastOnline != nil {
		p.LastOnline = unixTime(int64(*raw.LastOnline))
	}
	if raw.ChartNominalScanTime != nil {
		p.StatsUpdated = unixTime(int64(*raw.ChartNominalScanTime))
	}
	if len(raw.Badges) > 0 {
		p.Badges = make(map[string]time.Time, len(raw.Badges))
		for name, ts := range raw.Badges {
			p.Badges[name] = unixTime(int64(ts))
		}
	}
	for key, uaids := range assets {
		itemID, err := parseID(key)
		if err != nil {
			return nil, decodeError(ep.op, "asset key: %w", err)
		}
		p.Inventory = append(p.Inventory, InventoryItem{ItemID: itemID, UAIDs: flexInts(uaids)})
	}
	sort.Slice(p.Inventory, func(i, j int) bool { return p.Inventory[i].ItemID < p.Inventory[j].ItemID })

	return p, nil
}

// ItemCount returns the number of copies held, counting duplicates.
func (p *PlayerProfile) ItemCount() int {
	if p == nil {
		return 0
	}
	n := 0
	for _, it := range p.Inventory {
		n += len(it.UAIDs)
	}
	return n
}

func (r PlayerSearchResult) String() string {
	return fmt.Sprintf("%s (%d)", r.Username, r.UserID)
}

package roli

import (
	"context"
	"sort"
)

// Game is a Roblox game tracked on the Rolimons game list.
type Game struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	PlayersActive int64  `json:"players_active"`
	// ThumbnailURL points at the Roblox CDN.
	ThumbnailURL string `json:"thumbnail_url"`
}

type gamesListResponse struct {
	GameCount int64          `json:"game_count"`
	Games     map[string]row `json:"games"`
}

// GamesList returns every tracked game sorted by id. Like AllItemDetails this
// is an expensive endpoint and results should be cached by the caller.
func (c *Client) GamesList(ctx context.Context) ([]Game, error) {
	ep := gamesListEndpoint
	body, status, err := c.do(ctx, ep, "", nil, nil, nil)
	if err != nil {
		return nil, err
	}

	var raw gamesListResponse
	if err := c.decodeEnvelope(ep.op, status, body, &raw); err != nil {
		return nil, err
	}
	if raw.Games == nil {
		return nil, decodeError(ep.op, "missing games")
	}

	games := make([]Game, 0, len(raw.Games))
	for key, r := range raw.Games {
		id, err := parseID(key)
		if err != nil {
			return nil, decodeError(ep.op, "game key: %w", err)
		}
		if len(r) != 3 {
			return nil, decodeError(ep.op, "game %d: expected 3 fields, got %d", id, len(r))
		}
		name, err := r.str(0)
		if err != nil {
			return nil, decodeError(ep.op, "game %d: %w", id, err)
		}
		players, err := r.int(1)
		if err != nil {
			return nil, decodeError(ep.op, "game %d: %w", id, err)
		}
		thumb, err := r.str(2)
		if err != nil {
			return nil, decodeError(ep.op, "game %d: %w", id, err)
		}
		games = append(games, Game{ID: id, Name: name, PlayersActive: players, ThumbnailURL: thumb})
	}
	sort.Slice(games, func(i, j int) bool { return games[i].ID < games[j].ID })
	return games, nil
}

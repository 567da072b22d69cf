package roli

import (
	"context"
	"net/url"
	"strings"
)

// GroupSearchResult is a Roblox group found through the group search.
type GroupSearchResult struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	MemberCount int64  `json:"member_count"`
	// ThumbnailURL points at the Roblox CDN.
	ThumbnailURL string `json:"thumbnail_url"`
}

type groupSearchResponse struct {
	ResultCount int64 `json:"result_count"`
	Groups      []row `json:"groups"`
}

const groupFields = 7

// GroupSearch finds groups whose name loosely matches name.
func (c *Client) GroupSearch(ctx context.Context, name string) ([]GroupSearchResult, error) {
	ep := groupSearchEndpoint
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, argumentError(ep.op, "group name is required")
	}

	body, status, err := c.do(ctx, ep, "", url.Values{"searchstring": {name}}, nil, nil)
	if err != nil {
		return nil, err
	}

	var raw groupSearchResponse
	if err := c.decodeEnvelope(ep.op, status, body, &raw); err != nil {
		return nil, err
	}
	if raw.Groups == nil {
		return nil, decodeError(ep.op, "missing groups")
	}

	out := make([]GroupSearchResult, 0, len(raw.Groups))
	for i, r := range raw.Groups {
		// [id, name, timestamp, ?, ?, member_count, thumbnail_url]
		if len(r) != groupFields {
			return nil, decodeError(ep.op, "group %d: expected %d fields, got %d", i, groupFields, len(r))
		}
		id, err := r.int(0)
		if err != nil {
			return nil, decodeError(ep.op, "group %d: %w", i, err)
		}
		groupName, err := r.str(1)
		if err != nil {
			return nil, decodeError(ep.op, "group %d: %w", i, err)
		}
		members, err := r.int(5)
		if err != nil {
			return nil, decodeError(ep.op, "group %d: %w", i, err)
		}
		thumb, err := r.str(6)
		if err != nil {
			return nil, decodeError(ep.op, "group %d: %w", i, err)
		}
		out = append(out, GroupSearchResult{ID: id, Name: groupName, MemberCount: members, ThumbnailURL: thumb})
	}
	return out, nil
}

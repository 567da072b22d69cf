package roli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// RequestTag is a wildcard that can stand in for requested items.
type RequestTag string

const (
	TagAny        RequestTag = "any"
	TagDemand     RequestTag = "demand"
	TagRares      RequestTag = "rares"
	TagRobux      RequestTag = "robux"
	TagUpgrade    RequestTag = "upgrade"
	TagDowngrade  RequestTag = "downgrade"
	TagRAP        RequestTag = "rap"
	TagWishlist   RequestTag = "wishlist"
	TagProjecteds RequestTag = "projecteds"
	TagAdds       RequestTag = "adds"
)

var knownTags = map[RequestTag]struct{}{
	TagAny: {}, TagDemand: {}, TagRares: {}, TagRobux: {}, TagUpgrade: {},
	TagDowngrade: {}, TagRAP: {}, TagWishlist: {}, TagProjecteds: {}, TagAdds: {},
}

// ParseRequestTag accepts a tag name case-insensitively.
func ParseRequestTag(s string) (RequestTag, error) {
	tag := RequestTag(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := knownTags[tag]; !ok {
		return "", fmt.Errorf("unknown request tag %q", s)
	}
	return tag, nil
}

// TradeAd is one ad from the recent trade ads feed.
type TradeAd struct {
	ID        int64        `json:"id"`
	Timestamp time.Time    `json:"timestamp"`
	UserID    int64        `json:"user_id"`
	Username  string       `json:"username"`
	Offer     TradeOffer   `json:"offer"`
	Request   TradeRequest `json:"request"`
}

// TradeOffer is what the poster gives: items and optionally Robux.
type TradeOffer struct {
	ItemIDs []int64 `json:"item_ids"`
	Robux   int64   `json:"robux,omitempty"`
}

// TradeRequest is what the poster asks for: items, tags or both.
type TradeRequest struct {
	ItemIDs []int64      `json:"item_ids"`
	Tags    []RequestTag `json:"tags,omitempty"`
}

type recentTradeAdsResponse struct {
	TradeAdCount int64 `json:"trade_ad_count"`
	TradeAds     []row `json:"trade_ads"`
}

type rawOffer struct {
	Items []flexInt `json:"items"`
	Robux *flexInt  `json:"robux"`
}

type rawRequest struct {
	Items []flexInt `json:"items"`
	Tags  []string  `json:"tags"`
}

// RecentTradeAds fetches the most recently posted trade ads.
func (c *Client) RecentTradeAds(ctx context.Context) ([]TradeAd, error) {
	ep := recentTradeAdsEndpoint
	body, status, err := c.do(ctx, ep, "", nil, nil, nil)
	if err != nil {
		return nil, err
	}

	var raw recentTradeAdsResponse
	if err := c.decodeEnvelope(ep.op, status, body, &raw); err != nil {
		return nil, err
	}
	if raw.TradeAds == nil {
		return nil, decodeError(ep.op, "missing trade_ads")
	}

	ads := make([]TradeAd, 0, len(raw.TradeAds))
	for i, r := range raw.TradeAds {
		ad, err := tradeAdFromRow(r)
		if err != nil {
			return nil, decodeError(ep.op, "trade ad %d: %w", i, err)
		}
		ads = append(ads, ad)
	}
	return ads, nil
}

// tradeAdFromRow reads [id, timestamp, user_id, username, offer, request].
func tradeAdFromRow(r row) (TradeAd, error) {
	if len(r) != 6 {
		return TradeAd{}, fmt.Errorf("expected 6 fields, got %d", len(r))
	}
	id, err := r.int(0)
	if err != nil {
		return TradeAd{}, err
	}
	ts, err := r.int(1)
	if err != nil {
		return TradeAd{}, err
	}
	userID, err := r.int(2)
	if err != nil {
		return TradeAd{}, err
	}
	username, err := r.str(3)
	if err != nil {
		return TradeAd{}, err
	}

	if isNull(r[4]) {
		return TradeAd{}, fmt.Errorf("offer is missing")
	}
	if isNull(r[5]) {
		return TradeAd{}, fmt.Errorf("request is missing")
	}
	var offer rawOffer
	if err := json.Unmarshal(r[4], &offer); err != nil {
		return TradeAd{}, fmt.Errorf("offer: %w", err)
	}
	if offer.Items == nil {
		return TradeAd{}, fmt.Errorf("offer has no items")
	}
	var request rawRequest
	if err := json.Unmarshal(r[5], &request); err != nil {
		return TradeAd{}, fmt.Errorf("request: %w", err)
	}

	ad := TradeAd{
		ID:        id,
		Timestamp: unixTime(ts),
		UserID:    userID,
		Username:  username,
		Offer:     TradeOffer{ItemIDs: flexInts(offer.Items)},
		Request:   TradeRequest{ItemIDs: flexInts(request.Items)},
	}
	if offer.Robux != nil {
		ad.Offer.Robux = int64(*offer.Robux)
	}
	for _, t := range request.Tags {
		tag, err := ParseRequestTag(t)
		if err != nil {
			return TradeAd{}, err
		}
		ad.Request.Tags = append(ad.Request.Tags, tag)
	}
	return ad, nil
}

func flexInts(in []flexInt) []int64 {
	out := make([]int64, len(in))
	for i, v := range in {
		out[i] = int64(v)
	}
	return out
}

// Trade ad limits enforced by the site form.
const (
	MaxOfferItems   = 4
	MaxRequestSlots = 4
)

// CreateTradeAdParams describes the ad to post. RequestItemIDs and
// RequestTags share the request slots.
type CreateTradeAdParams struct {
	PlayerID       int64        `json:"player_id"`
	OfferItemIDs   []int64      `json:"offer_item_ids"`
	RequestItemIDs []int64      `json:"request_item_ids"`
	RequestTags    []RequestTag `json:"request_tags"`
}

func (p CreateTradeAdParams) validate() string {
	switch {
	case p.PlayerID <= 0:
		return "player id is required"
	case len(p.OfferItemIDs) == 0:
		return "at least one offer item is required"
	case len(p.OfferItemIDs) > MaxOfferItems:
		return fmt.Sprintf("at most %d offer items are allowed", MaxOfferItems)
	case len(p.RequestItemIDs)+len(p.RequestTags) == 0:
		return "at least one request item or tag is required"
	case len(p.RequestItemIDs)+len(p.RequestTags) > MaxRequestSlots:
		return fmt.Sprintf("at most %d request items and tags are allowed", MaxRequestSlots)
	}
	for _, t := range p.RequestTags {
		if _, ok := knownTags[t]; !ok {
			return fmt.Sprintf("unknown request tag %q", t)
		}
	}
	return ""
}

// CreateTradeAd posts a trade ad. Requires a verification token (WithVerification).
// The site allows 55 ads per 24 hours with a 15 minute cooldown.
func (c *Client) CreateTradeAd(ctx context.Context, params CreateTradeAdParams) error {
	ep := createTradeAdEndpoint

	if c.verification == "" {
		return &Error{Op: ep.op, Kind: KindAuth, Err: ErrVerificationNotSet}
	}
	if !validCookieValue(c.verification) {
		return &Error{Op: ep.op, Kind: KindAuth, Err: ErrVerificationInvalidChars}
	}
	if msg := params.validate(); msg != "" {
		return argumentError(ep.op, msg)
	}

	// encode empty slices as [] rather than null
	if params.RequestItemIDs == nil {
		params.RequestItemIDs = []int64{}
	}
	if params.RequestTags == nil {
		params.RequestTags = []RequestTag{}
	}
	payload, err := json.Marshal(params)
	if err != nil {
		return argumentError(ep.op, fmt.Sprintf("encode params: %v", err))
	}

	headers := map[string]string{
		"Content-Type": "application/json;charset=utf-8",
		"Connection":   "keep-alive",
		"Cookie":       verificationCookie + "=" + c.verification,
	}
	body, status, err := c.do(ctx, ep, "", nil, headers, payload)
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	return c.decodeEnvelope(ep.op, status, body, nil)
}

// validCookieValue rejects anything outside printable ASCII.
func validCookieValue(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 32 || s[i] > 126 {
			return false
		}
	}
	return true
}

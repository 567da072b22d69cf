package roli

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxHTMLBodyBytes = 1 << 20 // 1 MiB

// ItemPage is the OpenGraph summary of an item's public page.
type ItemPage struct {
	ItemID      int64  `json:"item_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// ItemPage fetches /item/{id} and extracts its OpenGraph tags.
func (c *Client) ItemPage(ctx context.Context, itemID int64) (*ItemPage, error) {
	ep := itemPageEndpoint
	if itemID <= 0 {
		return nil, argumentError(ep.op, "item id must be positive")
	}

	body, _, err := c.do(ctx, ep, strconv.FormatInt(itemID, 10), nil, map[string]string{"Accept": "text/html"}, nil)
	if err != nil {
		return nil, err
	}
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	page, err := parseItemPage(body)
	if err != nil {
		return nil, decodeError(ep.op, "%w", err)
	}
	if page.Title == "" {
		return nil, decodeError(ep.op, "page has no title")
	}
	page.ItemID = itemID
	return &page, nil
}

func parseItemPage(body []byte) (ItemPage, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ItemPage{}, fmt.Errorf("parse html: %w", err)
	}

	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	return ItemPage{
		Title: firstNonEmpty(
			extract(`meta[property="og:title"]`),
			strings.TrimSpace(doc.Find("title").First().Text()),
		),
		Description: firstNonEmpty(
			extract(`meta[property="og:description"]`),
			extract(`meta[name="description"]`),
		),
		ImageURL: extract(`meta[property="og:image"]`),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

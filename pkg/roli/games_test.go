package roli

import (
	"context"
	"reflect"
	"testing"
)

func TestGamesListDecodesSorted(t *testing.T) {
	m := &mockHTTPClient{body: `{
		"success": true,
		"game_count": 2,
		"games": {
			"920587237": ["Adopt Me!", 250000, "https://tr.rbxcdn.com/adopt.png"],
			"606849621": ["Jailbreak", "12000", "https://tr.rbxcdn.com/jail.png"]
		}
	}`}
	c := newTestClient(m)

	games, err := c.GamesList(context.Background())
	if err != nil {
		t.Fatalf("GamesList: %v", err)
	}
	want := []Game{
		{ID: 606849621, Name: "Jailbreak", PlayersActive: 12000, ThumbnailURL: "https://tr.rbxcdn.com/jail.png"},
		{ID: 920587237, Name: "Adopt Me!", PlayersActive: 250000, ThumbnailURL: "https://tr.rbxcdn.com/adopt.png"},
	}
	if !reflect.DeepEqual(games, want) {
		t.Fatalf("unexpected games:\n got %#v\nwant %#v", games, want)
	}
}

func TestGamesListRejectsShortRow(t *testing.T) {
	c := newTestClient(&mockHTTPClient{body: `{"success":true,"games":{"1":["x"]}}`})
	_, err := c.GamesList(context.Background())
	requireKind(t, err, KindDecode, ErrMalformedResponse)
}

func TestGamesListRejectsExtraField(t *testing.T) {
	c := newTestClient(&mockHTTPClient{body: `{"success":true,"games":{"1":["x",1,"u",0]}}`})
	_, err := c.GamesList(context.Background())
	requireKind(t, err, KindDecode, ErrMalformedResponse)
}

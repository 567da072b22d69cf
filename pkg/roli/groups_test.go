package roli

import (
	"context"
	"reflect"
	"testing"
)

func TestGroupSearchDecodes(t *testing.T) {
	m := &mockHTTPClient{body: `{
		"success": true,
		"result_count": 1,
		"groups": [[7, "Roblox Admins", 1679978239, 0, 1, 1500, "https://tr.rbxcdn.com/g.png"]]
	}`}
	c := newTestClient(m)

	groups, err := c.GroupSearch(context.Background(), "admins")
	if err != nil {
		t.Fatalf("GroupSearch: %v", err)
	}
	if m.url != "https://roli.test/groupapi/search?searchstring=admins" {
		t.Fatalf("unexpected url %s", m.url)
	}
	want := []GroupSearchResult{{ID: 7, Name: "Roblox Admins", MemberCount: 1500, ThumbnailURL: "https://tr.rbxcdn.com/g.png"}}
	if !reflect.DeepEqual(groups, want) {
		t.Fatalf("unexpected groups %#v", groups)
	}
}

func TestGroupSearchErrors(t *testing.T) {
	m := &mockHTTPClient{}
	_, err := newTestClient(m).GroupSearch(context.Background(), "")
	requireKind(t, err, KindArgument, ErrInvalidParameters)
	if m.calls != 0 {
		t.Fatalf("expected no requests, got %d", m.calls)
	}

	c := newTestClient(&mockHTTPClient{body: `{"success":true,"groups":[[7,"x",1,0,1,1500]]}`})
	_, err = c.GroupSearch(context.Background(), "x")
	requireKind(t, err, KindDecode, ErrMalformedResponse)
}

package publishers

import (
	"context"
	"errors"
	"testing"
)

type stubPublisher struct {
	id     string
	typ    string
	err    error
	calls  int
	closed bool
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return s.typ }
func (s *stubPublisher) Publish(context.Context, Event) error {
	s.calls++
	return s.err
}
func (s *stubPublisher) Close() error {
	s.closed = true
	return nil
}

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	failed := errors.New("failed")
	ok := &stubPublisher{id: "ok", typ: "http"}
	bad := &stubPublisher{id: "bad", typ: "http", err: failed}
	fanout := NewFanout([]Publisher{bad, nil, ok})

	if fanout.Size() != 2 {
		t.Fatalf("expected nil publishers to be dropped, got %d", fanout.Size())
	}
	count, err := fanout.Publish(context.Background(), Event{})
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if !errors.Is(err, failed) {
		t.Fatalf("expected aggregated error, got %v", err)
	}
	if ok.calls != 1 {
		t.Fatalf("a failing publisher must not stop the rest")
	}
}

func TestFanoutStopsOnCancelledContext(t *testing.T) {
	pub := &stubPublisher{id: "p", typ: "http"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	count, err := NewFanout([]Publisher{pub}).Publish(ctx, Event{})
	if count != 0 || !errors.Is(err, context.Canceled) || pub.calls != 0 {
		t.Fatalf("expected cancellation, got count=%d err=%v calls=%d", count, err, pub.calls)
	}
}

func TestFanoutCloseClosesPublishers(t *testing.T) {
	pub := &stubPublisher{id: "p", typ: "http"}
	if err := NewFanout([]Publisher{pub}).Close(); err != nil || !pub.closed {
		t.Fatalf("expected publisher closed, err=%v", err)
	}
	var nilFanout *Fanout
	if n, err := nilFanout.Publish(context.Background(), Event{}); n != 0 || err != nil {
		t.Fatalf("nil fanout should be a no-op")
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	pubs, err := BuildAll(context.Background(), DefaultRegistry(), []PublisherConfig{
		sanitizePublisherConfig(PublisherConfig{ID: "http", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com"}}),
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(pubs) != 1 || pubs[0].Type() != TypeHTTP {
		t.Fatalf("unexpected publishers %v", pubs)
	}
}

func TestBuildAllClosesBuiltOnFailure(t *testing.T) {
	built := &stubPublisher{id: "first", typ: "stub"}
	reg := NewRegistry(map[string]Builder{
		"stub": func(context.Context, PublisherConfig, Logger) (Publisher, error) { return built, nil },
	})

	_, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "first", Type: "stub"},
		{ID: "second", Type: "unknown"},
	}, nil)
	if err == nil {
		t.Fatalf("expected error for unknown type")
	}
	if !built.closed {
		t.Fatalf("expected already built publisher to be closed")
	}
}

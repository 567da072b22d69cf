package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/samvad-hq/roli/internal/config"
	"github.com/samvad-hq/roli/internal/watcher"
	"github.com/samvad-hq/roli/pkg/publishers"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// sink collects events posted by the http publisher.
type sink struct {
	mu     sync.Mutex
	events []publishers.Event
	got    chan struct{}
}

func (s *sink) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var evt publishers.Event
	if err := json.Unmarshal(body, &evt); err == nil {
		s.mu.Lock()
		s.events = append(s.events, evt)
		s.mu.Unlock()
		select {
		case s.got <- struct{}{}:
		default:
		}
	}
	w.WriteHeader(http.StatusAccepted)
}

func testConfig(t *testing.T, roliURL, sinkURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		AppName: "roliwatch",
		FeedsFile: writeFile(t, dir, "feeds.yaml", `
feeds:
  - id: sales
    type: sales
    request_delay_ms: 1
`),
		PublishersFile: writeFile(t, dir, "publishers.yaml", `
publishers:
  - id: sink
    type: http
    http:
      url: `+sinkURL+`
`),
		PollInterval:   time.Hour,
		RequestTimeout: 5 * time.Second,
		RoliBaseURL:    roliURL,
		StorageType:    "none",
	}
}

func TestWatcherPublishesSalesOnStart(t *testing.T) {
	roliSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/activity" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, `{"success":true,"activities":[[1679978239,1,327318670,4272,4314,4991002]],"activities_count":1}`)
	}))
	defer roliSrv.Close()

	s := &sink{got: make(chan struct{}, 1)}
	sinkSrv := httptest.NewServer(s)
	defer sinkSrv.Close()

	w, err := NewWatcher(context.Background(), testConfig(t, roliSrv.URL, sinkSrv.URL), nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case <-s.got:
	case <-time.After(5 * time.Second):
		t.Fatalf("no event reached the sink")
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	evt := s.events[0]
	if evt.FeedID != "sales" || evt.Activity.ID != "sale:4991002" || evt.Activity.Value != 4692 {
		t.Fatalf("unexpected event %+v", evt)
	}
}

func TestNewWatcherRequiresPublishers(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1", "http://127.0.0.1:1")
	cfg.PublishersFile = writeFile(t, t.TempDir(), "publishers.yaml", "publishers: []\n")
	if _, err := NewWatcher(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error without publishers")
	}
}

func TestNewWatcherRejectsNilConfig(t *testing.T) {
	if _, err := NewWatcher(context.Background(), nil, nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

type fixedStats watcher.Stats

func (f fixedStats) Stats() watcher.Stats { return watcher.Stats(f) }

func TestStatusRoutes(t *testing.T) {
	s := newStatusServer("127.0.0.1:0", fixedStats{Polls: 4, Published: 7, LastError: "boom"}, 2, nil)
	h := s.srv.Handler

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("unexpected healthz response %d %v", rec.Code, rec.Header())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected stats status %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if body["polls"] != float64(4) || body["published"] != float64(7) || body["publishers"] != float64(2) || body["last_error"] != "boom" {
		t.Fatalf("unexpected stats body %v", body)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

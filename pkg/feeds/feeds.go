package feeds

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Package feeds describes which Rolimons feeds to watch and how to fetch them.

// Feed types understood by the default fetcher registry.
const (
	TypeDeals    = "deals"
	TypeSales    = "sales"
	TypeTradeAds = "trade_ads"
)

type Feed struct {
	ID             string         `json:"id" yaml:"id"`
	Name           string         `json:"name" yaml:"name"`
	Type           string         `json:"type" yaml:"type"`
	RequestDelayMs int            `json:"request_delay_ms" yaml:"request_delay_ms"`
	Config         map[string]any `json:"config" yaml:"config"`
}

type registry struct {
	Feeds []Feed `json:"feeds" yaml:"feeds"`
}

var defaultRequestDelayMs = 1000

// LoadFeeds reads and validates the feeds file. The format follows the file
// extension; unknown extensions try YAML then JSON.
func LoadFeeds(path string) ([]Feed, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("feeds file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feeds file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read feeds file: %w", err)
	}

	return ParseFeeds(raw, filepath.Ext(path))
}

// ParseFeeds decodes, sanitizes and validates a feeds document.
func ParseFeeds(data []byte, ext string) ([]Feed, error) {
	reg, err := parseRegistry(data, ext)
	if err != nil {
		return nil, err
	}
	if len(reg.Feeds) == 0 {
		return nil, errors.New("feeds file contains no feeds entries")
	}

	seen := make(map[string]struct{}, len(reg.Feeds))
	out := make([]Feed, 0, len(reg.Feeds))
	for i, f := range reg.Feeds {
		f = sanitizeFeed(f)
		if err := validateFeed(f); err != nil {
			return nil, fmt.Errorf("feed[%d]: %w", i, err)
		}
		if _, dup := seen[f.ID]; dup {
			return nil, fmt.Errorf("duplicate feed id %q", f.ID)
		}
		seen[f.ID] = struct{}{}
		out = append(out, f)
	}
	return out, nil
}

type unmarshalFn func([]byte, any) error

func parseRegistry(data []byte, ext string) (registry, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		exts []string
		fn   unmarshalFn
	}{
		{name: "yaml", exts: []string{".yaml", ".yml"}, fn: yaml.Unmarshal},
		{name: "json", exts: []string{".json"}, fn: json.Unmarshal},
	}

	var errs []error
	for _, d := range decoders {
		if ext != "" && !slices.Contains(d.exts, ext) {
			continue
		}
		var reg registry
		if err := d.fn(data, &reg); err != nil {
			errs = append(errs, fmt.Errorf("decode %s feeds: %w", d.name, err))
			continue
		}
		return reg, nil
	}
	if len(errs) > 0 {
		return registry{}, errors.Join(errs...)
	}
	return registry{}, fmt.Errorf("feeds file format %q not recognized (expected YAML or JSON)", ext)
}

func sanitizeFeed(f Feed) Feed {
	f.ID = strings.TrimSpace(f.ID)
	f.Name = strings.TrimSpace(f.Name)
	f.Type = strings.ToLower(strings.TrimSpace(f.Type))
	if f.Name == "" {
		f.Name = f.ID
	}
	if f.Config == nil {
		f.Config = map[string]any{}
	}
	if f.RequestDelayMs <= 0 {
		f.RequestDelayMs = defaultRequestDelayMs
	}
	return f
}

func validateFeed(f Feed) error {
	if f.ID == "" {
		return errors.New("id is required")
	}
	switch f.Type {
	case TypeDeals, TypeSales, TypeTradeAds:
	case "":
		return fmt.Errorf("type is required for feed %q", f.ID)
	default:
		return fmt.Errorf("unsupported type %q for feed %q", f.Type, f.ID)
	}
	if _, err := ConfigInt64s(f, ConfigItemIDsKey); err != nil {
		return fmt.Errorf("feed %q: %w", f.ID, err)
	}
	return nil
}

// RequestDelay is the pause taken after polling this feed.
func (f Feed) RequestDelay() time.Duration {
	if f.RequestDelayMs <= 0 {
		return time.Duration(defaultRequestDelayMs) * time.Millisecond
	}
	return time.Duration(f.RequestDelayMs) * time.Millisecond
}

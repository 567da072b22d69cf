package feeds

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	ConfigUserAgentKey = "user_agent"
	// ConfigItemIDsKey limits a feed to activity touching these item ids.
	ConfigItemIDsKey = "item_ids"
	// ConfigMinValueKey drops activity whose value is below the threshold.
	ConfigMinValueKey = "min_value"
)

// ConfigString returns the trimmed string value for key from feed.Config or a fallback.
func ConfigString(f Feed, key, fallback string) string {
	if raw, ok := f.Config[key]; ok {
		if val, ok := raw.(string); ok {
			if trimmed := strings.TrimSpace(val); trimmed != "" {
				return trimmed
			}
		}
	}
	return fallback
}

// ConfigInt64 reads an integer that may have been decoded from YAML, JSON or a string.
func ConfigInt64(f Feed, key string, fallback int64) (int64, error) {
	raw, ok := f.Config[key]
	if !ok || raw == nil {
		return fallback, nil
	}
	n, err := toInt64(raw)
	if err != nil {
		return 0, fmt.Errorf("config %s: %w", key, err)
	}
	return n, nil
}

// ConfigInt64s reads a list of integers; a missing key yields nil.
func ConfigInt64s(f Feed, key string) ([]int64, error) {
	raw, ok := f.Config[key]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("config %s: expected a list, got %T", key, raw)
	}
	out := make([]int64, 0, len(list))
	for i, v := range list {
		n, err := toInt64(v)
		if err != nil {
			return nil, fmt.Errorf("config %s[%d]: %w", key, i, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		return int64(n), nil
	case float64:
		if n != float64(int64(n)) {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		return int64(n), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(n), 10, 64)
	default:
		return 0, fmt.Errorf("unsupported value %T", v)
	}
}

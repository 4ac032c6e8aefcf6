package script

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mj1618/screen-pilot/internal/engine"
	"github.com/mj1618/screen-pilot/internal/platform"
)

func stringParam(params map[string]interface{}, key, defaultVal string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		// Handle numeric values that YAML/TOML may parse as int/float
		return fmt.Sprintf("%v", v)
	}
	return defaultVal
}

func intParam(params map[string]interface{}, key string, defaultVal int) (int, error) {
	v, ok := params[key]
	if !ok {
		return defaultVal, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%s: expected an integer, got %v", key, n)
		}
		return int(n), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("%s: expected an integer, got %q", key, n)
		}
		return i, nil
	}
	return 0, fmt.Errorf("%s: expected an integer, got %T", key, v)
}

func boolParam(params map[string]interface{}, key string, defaultVal bool) bool {
	if v, ok := params[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultVal
}

// durationParam accepts a Go duration string ("4s", "500ms") or a bare number
// of seconds.
func durationParam(params map[string]interface{}, key string, defaultVal time.Duration) (time.Duration, error) {
	v, ok := params[key]
	if !ok {
		return defaultVal, nil
	}
	var secs float64
	switch n := v.(type) {
	case int:
		secs = float64(n)
	case int64:
		secs = float64(n)
	case float64:
		secs = n
	case string:
		if d, err := time.ParseDuration(strings.TrimSpace(n)); err == nil {
			return d, nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("%s: invalid duration %q", key, n)
		}
		secs = f
	default:
		return 0, fmt.Errorf("%s: invalid duration %v", key, v)
	}
	if secs < 0 || math.IsInf(secs, 0) || math.IsNaN(secs) {
		return 0, fmt.Errorf("%s: invalid duration %v", key, v)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// budgetParam accepts a positive integer or "inf". A TOML inf float is
// accepted as unbounded.
func budgetParam(params map[string]interface{}, key string, defaultVal engine.RetryBudget) (engine.RetryBudget, error) {
	v, ok := params[key]
	if !ok {
		return defaultVal, nil
	}
	if f, ok := v.(float64); ok && math.IsInf(f, 1) {
		return engine.Unbounded, nil
	}
	b, err := engine.ParseRetryBudget(fmt.Sprintf("%v", v))
	if err != nil {
		return engine.RetryBudget{}, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

// keysParam accepts "alt+f4" or a list of key names.
func keysParam(params map[string]interface{}, key string) ([]string, error) {
	v, ok := params[key]
	if !ok {
		return nil, fmt.Errorf("%s is required", key)
	}
	switch k := v.(type) {
	case string:
		return platform.ParseKeyCombo(k)
	case []interface{}:
		parts := make([]string, 0, len(k))
		for _, p := range k {
			parts = append(parts, fmt.Sprintf("%v", p))
		}
		return platform.ParseKeyCombo(strings.Join(parts, "+"))
	}
	return nil, fmt.Errorf("%s: expected a combo string or a list, got %T", key, v)
}

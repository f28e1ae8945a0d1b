// Package config holds helpers shared by the ConfigStore implementations.
package config

// String returns v when it is a string.
func String(v any) string {
	s, _ := v.(string)
	return s
}

// Int converts the integer and float shapes produced by TOML decoding and
// by callers of Set. Anything else is zero.
func Int(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

// Float converts numeric values to float64. Anything else is zero.
func Float(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

// Bool returns v when it is a bool.
func Bool(v any) bool {
	b, _ := v.(bool)
	return b
}

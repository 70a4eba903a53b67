package parse

// Field extraction helpers for untyped wire records. JSON numbers decode
// as float64 in map form; integer fields are converted from that.

func getString(raw map[string]any, key string) string {
	s, _ := raw[key].(string)

	return s
}

func getStringPtr(raw map[string]any, key string) *string {
	if s, ok := raw[key].(string); ok {
		return &s
	}

	return nil
}

func getBoolPtr(raw map[string]any, key string) *bool {
	if b, ok := raw[key].(bool); ok {
		return &b
	}

	return nil
}

func getInt64(raw map[string]any, key string) int64 {
	switch n := raw[key].(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}

func getFloat64Ptr(raw map[string]any, key string) *float64 {
	if f, ok := raw[key].(float64); ok {
		return &f
	}

	return nil
}

// getMap returns the named sub-record, or an empty map when absent.
func getMap(raw map[string]any, key string) map[string]any {
	if m, ok := raw[key].(map[string]any); ok {
		return m
	}

	return make(map[string]any)
}

// getMapOrNil returns the named sub-record, or nil when absent.
// Used for optional fields where absence must stay observable.
func getMapOrNil(raw map[string]any, key string) map[string]any {
	if m, ok := raw[key].(map[string]any); ok {
		return m
	}

	return nil
}

package docdb

import "strconv"

// Document is the loosely-typed record shape returned by the hosted document
// service. Typed entities are decoded from it at the service boundary.
type Document map[string]any

// ID returns the document's identifier.
func (d Document) ID() string {
	return d.String("$id")
}

// String reads a string attribute, returning "" when absent or mistyped.
func (d Document) String(key string) string {
	if v, ok := d[key].(string); ok {
		return v
	}
	return ""
}

// Number reads a numeric attribute. JSON numbers decode as float64; numeric
// strings are tolerated because the upstream schema is not enforced.
func (d Document) Number(key string) (float64, bool) {
	switch v := d[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed, true
		}
	}
	return 0, false
}

// StringSlice reads a list attribute of strings, skipping mistyped entries.
func (d Document) StringSlice(key string) []string {
	raw, ok := d[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, entry := range raw {
		if s, ok := entry.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// DocumentList is the paginated list envelope returned by list calls.
type DocumentList struct {
	Total     int        `json:"total"`
	Documents []Document `json:"documents"`
}

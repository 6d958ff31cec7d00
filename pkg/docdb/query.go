package docdb

import (
	"encoding/json"
	"fmt"
)

// Query is a serialized filter passed to document list calls.
type Query struct {
	Method    string `json:"method"`
	Attribute string `json:"attribute,omitempty"`
	Values    []any  `json:"values,omitempty"`
}

// Equal filters documents whose attribute equals the given value.
func Equal(attribute string, value any) Query {
	return Query{Method: "equal", Attribute: attribute, Values: []any{value}}
}

// Search performs a full-text match on the attribute.
func Search(attribute string, value string) Query {
	return Query{Method: "search", Attribute: attribute, Values: []any{value}}
}

// Limit caps the number of returned documents.
func Limit(n int) Query {
	return Query{Method: "limit", Values: []any{n}}
}

// Offset skips the first n documents.
func Offset(n int) Query {
	return Query{Method: "offset", Values: []any{n}}
}

func (q Query) encode() (string, error) {
	raw, err := json.Marshal(q)
	if err != nil {
		return "", fmt.Errorf("encoding query: %w", err)
	}
	return string(raw), nil
}

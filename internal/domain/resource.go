package domain

import (
	"fmt"
	"strings"
)

// Row is a server-shaped resource record projected into a view row. The
// console keeps no identity beyond the server-issued id and always re-fetches
// the full list after a mutation, so rows stay schemaless on this side.
type Row map[string]any

// ID returns the server-issued identifier, trying the common key spellings
// the upstream API uses across resources.
func (r Row) ID() string {
	for _, key := range []string{"_id", "id"} {
		if v, ok := r[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
			if f, ok := v.(float64); ok {
				return fmt.Sprintf("%.0f", f)
			}
		}
	}
	return ""
}

// Matches reports whether any string field of the row contains the query,
// case-insensitively. An empty query matches everything.
func (r Row) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, v := range r {
		if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

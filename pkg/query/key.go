package query

import (
	"fmt"
	"strings"
)

// Key identifies a cached request: an ordered tuple of primitive values
// capturing endpoint and parameters, encoded as slash-joined segments.
// The first segment is the key's group and is the unit of invalidation.
type Key string

// NewKey builds a key from ordered parts, e.g. NewKey("orders", "list", 1, 25)
func NewKey(parts ...interface{}) Key {
	segments := make([]string, len(parts))
	for i, part := range parts {
		segments[i] = fmt.Sprint(part)
	}
	return Key(strings.Join(segments, "/"))
}

// Group returns the first segment of the key
func (k Key) Group() string {
	if i := strings.IndexByte(string(k), '/'); i >= 0 {
		return string(k)[:i]
	}
	return string(k)
}

func (k Key) String() string {
	return string(k)
}

package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewKey(t *testing.T) {
	tests := []struct {
		name  string
		parts []interface{}
		want  string
	}{
		{
			name:  "entity list with pagination",
			parts: []interface{}{"orders", "list", 2, 25, ""},
			want:  "orders/list/2/25/",
		},
		{
			name:  "entity get",
			parts: []interface{}{"orders", "get", "o-123"},
			want:  "orders/get/o-123",
		},
		{
			name:  "single part",
			parts: []interface{}{"dashboard"},
			want:  "dashboard",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := NewKey(tt.parts...)
			assert.Equal(t, tt.want, key.String())
		})
	}
}

func TestKeyGroup(t *testing.T) {
	assert.Equal(t, "orders", NewKey("orders", "list", 1).Group())
	assert.Equal(t, "orders", NewKey("orders").Group())
	assert.Equal(t, "", NewKey().Group())
}

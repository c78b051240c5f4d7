package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminPostOrder(t *testing.T) {
	tests := []struct {
		orderBy string
		desc    bool
		want    string
	}{
		{"view_count", true, "view_count"},
		{"like_count", false, "like_count"},
		{"", true, "created_at"},
		{"id; DROP TABLE posts", false, "created_at"},
	}
	for _, tt := range tests {
		got := adminPostOrder(tt.orderBy, tt.desc)
		assert.Equal(t, tt.want, got.Column.Name, tt.orderBy)
		assert.Equal(t, tt.desc, got.Desc)
	}
}

package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimPage(t *testing.T) {
	page, more := trimPage([]int{5, 4, 3, 2}, 3)
	assert.Equal(t, []int{5, 4, 3}, page)
	assert.True(t, more)

	page, more = trimPage([]int{5, 4}, 3)
	assert.Equal(t, []int{5, 4}, page)
	assert.False(t, more)

	page, more = trimPage([]int(nil), 3)
	assert.Empty(t, page)
	assert.False(t, more)
}

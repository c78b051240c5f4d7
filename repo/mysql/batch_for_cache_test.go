package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitViewCountBatches(t *testing.T) {
	counts := map[uint64]int64{9: 1, 3: 1, 7: 1, 1: 1, 5: 1}
	batches := splitViewCountBatches(counts, 2)
	assert.Equal(t, [][]uint64{{1, 3}, {5, 7}, {9}}, batches)

	// 追加不能越界写入下一个批次
	batches[0] = append(batches[0], 100)
	assert.Equal(t, []uint64{5, 7}, batches[1])

	assert.Len(t, splitViewCountBatches(counts, 10), 1)
}

func TestViewCountCaseExpr(t *testing.T) {
	expr, args := viewCountCaseExpr([]uint64{2, 4}, map[uint64]int64{2: 20, 4: 40})
	assert.Equal(t, "GREATEST(view_count, CASE id WHEN ? THEN ? WHEN ? THEN ? END)", expr)
	assert.Equal(t, []interface{}{uint64(2), int64(20), uint64(4), int64(40)}, args)
}

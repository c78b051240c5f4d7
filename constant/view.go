package constant

import "time"

// 浏览去重使用 RedisBloom，每个帖子一个过滤器。
const (
	ViewDedupCapacity  int64   = 100000
	ViewDedupErrorRate float64 = 0.01

	// ViewDedupWindow 过滤器从第一次浏览开始计时，窗口内同一用户只计一次。
	ViewDedupWindow = 12 * time.Hour
)

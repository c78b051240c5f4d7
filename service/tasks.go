package service

import "time"

// 请求结束后由 background.Runner 执行的异步任务超时
const (
	eventPublishTimeout  = 10 * time.Second
	viewCountTimeout     = 2 * time.Second
	objectCleanupTimeout = 30 * time.Second
)

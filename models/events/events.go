package events

import "time"

// PostData 帖子事件中携带的帖子快照。
type PostData struct {
	ID             uint64    `json:"id"`
	Title          string    `json:"title"`
	AuthorID       uint64    `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	Tags           []string  `json:"tags"`
	CreatedAt      time.Time `json:"created_at"`
}

// PostCreatedEvent 帖子创建成功后发布。
type PostCreatedEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	Post      PostData  `json:"post"`
}

// PostUpdatedEvent 帖子更新后发布，PreviousTags 供下游订阅方计算标签增减。
type PostUpdatedEvent struct {
	EventID      string    `json:"event_id"`
	Timestamp    time.Time `json:"timestamp"`
	Post         PostData  `json:"post"`
	PreviousTags []string  `json:"previous_tags"`
}

// TravelPlanData 旅行计划事件中携带的计划快照。
type TravelPlanData struct {
	ID          string    `json:"id"`
	UserID      uint64    `json:"user_id"`
	Title       string    `json:"title"`
	Destination string    `json:"destination"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	IsPublic    bool      `json:"is_public"`
}

type TravelPlanCreatedEvent struct {
	EventID   string         `json:"event_id"`
	Timestamp time.Time      `json:"timestamp"`
	Plan      TravelPlanData `json:"plan"`
}

// TravelPlanUpdatedEvent PreviousDestination 为空表示目的地未变化。
type TravelPlanUpdatedEvent struct {
	EventID             string         `json:"event_id"`
	Timestamp           time.Time      `json:"timestamp"`
	Plan                TravelPlanData `json:"plan"`
	PreviousDestination string         `json:"previous_destination"`
}

// DeadLetterEvent 重试耗尽的消息，原样保留 payload 以便人工重放。
type DeadLetterEvent struct {
	EventID       string    `json:"event_id"`
	Timestamp     time.Time `json:"timestamp"`
	OriginalTopic string    `json:"original_topic"`
	Partition     int       `json:"partition"`
	Offset        int64     `json:"offset"`
	Key           string    `json:"key"`
	Payload       string    `json:"payload"`
	Error         string    `json:"error"`
	RetryCount    int       `json:"retry_count"`
}

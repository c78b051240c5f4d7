package enums

// PostStatus 帖子可见状态
type PostStatus int

const (
	PostPublished PostStatus = 0 // 正常展示
	PostHidden    PostStatus = 1 // 被管理员隐藏
)

func (s PostStatus) Valid() bool {
	return s == PostPublished || s == PostHidden
}

// LikeTargetType 点赞对象类型
type LikeTargetType string

const (
	LikeTargetPost    LikeTargetType = "post"
	LikeTargetComment LikeTargetType = "comment"
)

func (t LikeTargetType) Valid() bool {
	return t == LikeTargetPost || t == LikeTargetComment
}

// Gender 用户性别
type Gender int

const (
	GenderUnknown Gender = 0
	GenderMale    Gender = 1
	GenderFemale  Gender = 2
)

// MessageType 私信消息类型
type MessageType string

const (
	MessageText  MessageType = "text"
	MessageImage MessageType = "image"
)

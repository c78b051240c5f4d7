package constant

const (
	ServiceName    = "social_service"
	ServiceVersion = "1.0.0"
)

// gin.Context 中由认证中间件写入的键
const (
	ContextUserIDKey   = "userID"
	ContextUsernameKey = "username"
	ContextRoleKey     = "role"
	ContextTokenIDKey  = "tokenID"
	ContextTokenExpKey = "tokenExp"
)

// 对象存储 Key 前缀
const (
	ObjectKeyPrefixPostImages = "post_images/"
	ObjectKeyPrefixAvatars    = "avatars/"
	ObjectKeyPrefixFiles      = "files/"
)

// 分页默认值
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

package vo

// 以下包装器仅供 swag 生成文档，对应 response.APIResponse[T] 的各个具体实例。

// LoginResponseWrapper 用于 登录/注册的成功响应。
type LoginResponseWrapper struct {
	Code      int           `json:"code" example:"0"`
	Message   string        `json:"message" example:"success"`
	Data      LoginResponse `json:"data"`
	Timestamp int64         `json:"timestamp" example:"1718000000000"`
}

// UserProfileResponseWrapper 用于 用户资料的成功响应。
type UserProfileResponseWrapper struct {
	Code      int           `json:"code" example:"0"`
	Message   string        `json:"message" example:"success"`
	Data      UserProfileVO `json:"data"`
	Timestamp int64         `json:"timestamp" example:"1718000000000"`
}

type PostResponseWrapper struct {
	Code      int          `json:"code" example:"0"`
	Message   string       `json:"message" example:"success"`
	Data      PostResponse `json:"data"`
	Timestamp int64        `json:"timestamp" example:"1718000000000"`
}

type PostDetailResponseWrapper struct {
	Code      int          `json:"code" example:"0"`
	Message   string       `json:"message" example:"success"`
	Data      PostDetailVO `json:"data"`
	Timestamp int64        `json:"timestamp" example:"1718000000000"`
}

type ListPostsByCursorResponseWrapper struct {
	Code      int                       `json:"code" example:"0"`
	Message   string                    `json:"message" example:"success"`
	Data      ListPostsByCursorResponse `json:"data"`
	Timestamp int64                     `json:"timestamp" example:"1718000000000"`
}

type ListHotPostsResponseWrapper struct {
	Code      int                          `json:"code" example:"0"`
	Message   string                       `json:"message" example:"success"`
	Data      ListHotPostsByCursorResponse `json:"data"`
	Timestamp int64                        `json:"timestamp" example:"1718000000000"`
}

// PostTimelinePageResponseWrapper 用于 GetPostsTimeline 接口的成功响应。
type PostTimelinePageResponseWrapper struct {
	Code      int                `json:"code" example:"0"`
	Message   string             `json:"message" example:"success"`
	Data      PostTimelinePageVO `json:"data"`
	Timestamp int64              `json:"timestamp" example:"1718000000000"`
}

type ListUserPostPageResponseWrapper struct {
	Code      int                `json:"code" example:"0"`
	Message   string             `json:"message" example:"success"`
	Data      ListUserPostPageVO `json:"data"`
	Timestamp int64              `json:"timestamp" example:"1718000000000"`
}

type ListPostsAdminResponseWrapper struct {
	Code      int                               `json:"code" example:"0"`
	Message   string                            `json:"message" example:"success"`
	Data      ListPostsAdminByConditionResponse `json:"data"`
	Timestamp int64                             `json:"timestamp" example:"1718000000000"`
}

type HotTagsResponseWrapper struct {
	Code      int     `json:"code" example:"0"`
	Message   string  `json:"message" example:"success"`
	Data      []TagVO `json:"data"`
	Timestamp int64   `json:"timestamp" example:"1718000000000"`
}

type CommentResponseWrapper struct {
	Code      int       `json:"code" example:"0"`
	Message   string    `json:"message" example:"success"`
	Data      CommentVO `json:"data"`
	Timestamp int64     `json:"timestamp" example:"1718000000000"`
}

type ListCommentsResponseWrapper struct {
	Code      int                  `json:"code" example:"0"`
	Message   string               `json:"message" example:"success"`
	Data      ListCommentsResponse `json:"data"`
	Timestamp int64                `json:"timestamp" example:"1718000000000"`
}

type LikeStatusResponseWrapper struct {
	Code      int          `json:"code" example:"0"`
	Message   string       `json:"message" example:"success"`
	Data      LikeStatusVO `json:"data"`
	Timestamp int64        `json:"timestamp" example:"1718000000000"`
}

type FollowStatusResponseWrapper struct {
	Code      int            `json:"code" example:"0"`
	Message   string         `json:"message" example:"success"`
	Data      FollowStatusVO `json:"data"`
	Timestamp int64          `json:"timestamp" example:"1718000000000"`
}

type ListFollowsResponseWrapper struct {
	Code      int                 `json:"code" example:"0"`
	Message   string              `json:"message" example:"success"`
	Data      ListFollowsResponse `json:"data"`
	Timestamp int64               `json:"timestamp" example:"1718000000000"`
}

type MessageResponseWrapper struct {
	Code      int       `json:"code" example:"0"`
	Message   string    `json:"message" example:"success"`
	Data      MessageVO `json:"data"`
	Timestamp int64     `json:"timestamp" example:"1718000000000"`
}

type ListSessionsResponseWrapper struct {
	Code      int         `json:"code" example:"0"`
	Message   string      `json:"message" example:"success"`
	Data      []SessionVO `json:"data"`
	Timestamp int64       `json:"timestamp" example:"1718000000000"`
}

type ListMessagesResponseWrapper struct {
	Code      int                  `json:"code" example:"0"`
	Message   string               `json:"message" example:"success"`
	Data      ListMessagesResponse `json:"data"`
	Timestamp int64                `json:"timestamp" example:"1718000000000"`
}

type TravelPlanResponseWrapper struct {
	Code      int          `json:"code" example:"0"`
	Message   string       `json:"message" example:"success"`
	Data      TravelPlanVO `json:"data"`
	Timestamp int64        `json:"timestamp" example:"1718000000000"`
}

type ListTravelPlansResponseWrapper struct {
	Code      int                     `json:"code" example:"0"`
	Message   string                  `json:"message" example:"success"`
	Data      ListTravelPlansResponse `json:"data"`
	Timestamp int64                   `json:"timestamp" example:"1718000000000"`
}

type HotDestinationsResponseWrapper struct {
	Code      int             `json:"code" example:"0"`
	Message   string          `json:"message" example:"success"`
	Data      []DestinationVO `json:"data"`
	Timestamp int64           `json:"timestamp" example:"1718000000000"`
}

type FileResponseWrapper struct {
	Code      int    `json:"code" example:"0"`
	Message   string `json:"message" example:"success"`
	Data      FileVO `json:"data"`
	Timestamp int64  `json:"timestamp" example:"1718000000000"`
}

type HotNewsListResponseWrapper struct {
	Code      int         `json:"code" example:"0"`
	Message   string      `json:"message" example:"success"`
	Data      []HotNewsVO `json:"data"`
	Timestamp int64       `json:"timestamp" example:"1718000000000"`
}

type HotNewsDetailResponseWrapper struct {
	Code      int             `json:"code" example:"0"`
	Message   string          `json:"message" example:"success"`
	Data      HotNewsDetailVO `json:"data"`
	Timestamp int64           `json:"timestamp" example:"1718000000000"`
}

type ListAuditLogsResponseWrapper struct {
	Code      int                   `json:"code" example:"0"`
	Message   string                `json:"message" example:"success"`
	Data      ListAuditLogsResponse `json:"data"`
	Timestamp int64                 `json:"timestamp" example:"1718000000000"`
}

// BaseResponseWrapper 错误响应或无数据的成功响应，Data 为 null。
type BaseResponseWrapper struct {
	Code      int    `json:"code" example:"1004"`
	Message   string `json:"message" example:"资源不存在"`
	Timestamp int64  `json:"timestamp" example:"1718000000000"`
}

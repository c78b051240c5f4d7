package dto

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50,alphanum" example:"traveler01"`
	Password string `json:"password" binding:"required,min=6,max=64" example:"s3cret!pass"`
	Email    string `json:"email" binding:"omitempty,email,max=100" example:"me@example.com"`
	Nickname string `json:"nickname" binding:"omitempty,max=50" example:"旅行者"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Password string `json:"password" binding:"required,max=64"`
}

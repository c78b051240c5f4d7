package dto

import "time"

// TravelPlanRequest 创建或整体更新旅行计划
type TravelPlanRequest struct {
	Title       string           `json:"title" binding:"required,max=100"`
	Destination string           `json:"destination" binding:"required,max=100"`
	StartDate   time.Time        `json:"start_date" binding:"required"`
	EndDate     time.Time        `json:"end_date" binding:"required"`
	Budget      float64          `json:"budget" binding:"gte=0"`
	Days        []PlanDayRequest `json:"days" binding:"omitempty,max=60,dive"`
	Tags        []string         `json:"tags" binding:"omitempty,max=10,dive,min=1,max=30"`
	IsPublic    bool             `json:"is_public"`
}

type PlanDayRequest struct {
	Day        int               `json:"day" binding:"required,gte=1"`
	Title      string            `json:"title" binding:"omitempty,max=100"`
	Activities []ActivityRequest `json:"activities" binding:"omitempty,max=30,dive"`
}

type ActivityRequest struct {
	Time     string  `json:"time" binding:"omitempty,max=20"`
	Title    string  `json:"title" binding:"required,max=100"`
	Location string  `json:"location" binding:"omitempty,max=100"`
	Note     string  `json:"note" binding:"omitempty,max=500"`
	Cost     float64 `json:"cost" binding:"gte=0"`
}

// ListPublicPlansRequest 公开计划列表，before 为上一页最后一条计划的 ID
type ListPublicPlansRequest struct {
	Before      string `form:"before" binding:"omitempty,len=24,hexadecimal"`
	Limit       int    `form:"limit" binding:"omitempty,gte=1,lte=50"`
	Destination string `form:"destination" binding:"omitempty,max=100"`
}

package documents

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// TravelPlan 旅行计划文档，集合 travel_plans。
// 行程按天嵌套存储，整份计划一次读写。
type TravelPlan struct {
	ID          bson.ObjectID `json:"id"          bson:"_id,omitempty"`
	UserID      uint64        `json:"userId"      bson:"user_id"`
	Title       string        `json:"title"       bson:"title"`
	Destination string        `json:"destination" bson:"destination"`
	StartDate   time.Time     `json:"startDate"   bson:"start_date"`
	EndDate     time.Time     `json:"endDate"     bson:"end_date"`
	Budget      float64       `json:"budget"      bson:"budget"`
	Days        []PlanDay     `json:"days"        bson:"days"`
	Tags        []string      `json:"tags"        bson:"tags"`
	IsPublic    bool          `json:"isPublic"    bson:"is_public"`
	CreatedAt   time.Time     `json:"createdAt"   bson:"created_at"`
	UpdatedAt   time.Time     `json:"updatedAt"   bson:"updated_at"`
}

// PlanDay 某一天的行程，Day 从 1 开始。
type PlanDay struct {
	Day        int        `json:"day"        bson:"day"`
	Title      string     `json:"title"      bson:"title"`
	Activities []Activity `json:"activities" bson:"activities"`
}

type Activity struct {
	Time     string  `json:"time"     bson:"time"`
	Title    string  `json:"title"    bson:"title"`
	Location string  `json:"location" bson:"location"`
	Note     string  `json:"note"     bson:"note"`
	Cost     float64 `json:"cost"     bson:"cost"`
}

// DurationDays 计划覆盖的天数（含首尾两天）。
func (p *TravelPlan) DurationDays() int {
	start := time.Date(p.StartDate.Year(), p.StartDate.Month(), p.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(p.EndDate.Year(), p.EndDate.Month(), p.EndDate.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours()/24) + 1
}

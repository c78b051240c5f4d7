package vo

import (
	"time"

	"github.com/Xushengqwer/social_service/models/documents"
)

type TravelPlanVO struct {
	ID           string              `json:"id"`
	UserID       uint64              `json:"user_id"`
	Title        string              `json:"title"`
	Destination  string              `json:"destination"`
	StartDate    time.Time           `json:"start_date"`
	EndDate      time.Time           `json:"end_date"`
	DurationDays int                 `json:"duration_days"`
	Budget       float64             `json:"budget"`
	TotalCost    float64             `json:"total_cost"` // 所有活动费用之和
	Days         []documents.PlanDay `json:"days"`
	Tags         []string            `json:"tags"`
	IsPublic     bool                `json:"is_public"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

func NewTravelPlanVO(p *documents.TravelPlan) *TravelPlanVO {
	v := &TravelPlanVO{
		ID:           p.ID.Hex(),
		UserID:       p.UserID,
		Title:        p.Title,
		Destination:  p.Destination,
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
		DurationDays: p.DurationDays(),
		Budget:       p.Budget,
		Days:         p.Days,
		Tags:         p.Tags,
		IsPublic:     p.IsPublic,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if v.Days == nil {
		v.Days = []documents.PlanDay{}
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}
	for _, d := range p.Days {
		for _, a := range d.Activities {
			v.TotalCost += a.Cost
		}
	}
	return v
}

func MapTravelPlansToVO(plans []*documents.TravelPlan) []*TravelPlanVO {
	out := make([]*TravelPlanVO, 0, len(plans))
	for _, p := range plans {
		out = append(out, NewTravelPlanVO(p))
	}
	return out
}

type ListTravelPlansResponse struct {
	Plans      []*TravelPlanVO `json:"plans"`
	NextBefore string          `json:"next_before"`
}

// DestinationVO 热门目的地
type DestinationVO struct {
	Destination string `json:"destination"`
	PlanCount   int64  `json:"plan_count"`
}

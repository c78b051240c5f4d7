package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/background"
	"github.com/Xushengqwer/social_service/models/documents"
	"github.com/Xushengqwer/social_service/models/dto"
	"github.com/Xushengqwer/social_service/models/events"
	"github.com/Xushengqwer/social_service/models/vo"
	"github.com/Xushengqwer/social_service/myErrors"
	"github.com/Xushengqwer/social_service/repo/mongodb"
	"github.com/Xushengqwer/social_service/repo/redis"
)

const (
	defaultPublicPlanLimit  = 20
	defaultHotDestinationsN = 10
)

// TravelPlanEventPublisher 旅行计划事件的发送方，*producer.KafkaProducer 实现该接口。
type TravelPlanEventPublisher interface {
	SendTravelPlanCreatedEvent(ctx context.Context, data events.TravelPlanData) error
	SendTravelPlanUpdatedEvent(ctx context.Context, data events.TravelPlanData, previousDestination string) error
}

type TravelPlanService interface {
	Create(ctx context.Context, userID uint64, req *dto.TravelPlanRequest) (*vo.TravelPlanVO, error)
	Update(ctx context.Context, userID uint64, planID string, req *dto.TravelPlanRequest) (*vo.TravelPlanVO, error)
	Delete(ctx context.Context, userID uint64, planID string) error

	// Get 私有计划仅作者可见，其他人得到 ErrPlanNotFound。
	Get(ctx context.Context, viewerID uint64, planID string) (*vo.TravelPlanVO, error)
	ListMine(ctx context.Context, userID uint64) ([]*vo.TravelPlanVO, error)
	ListPublic(ctx context.Context, req *dto.ListPublicPlansRequest) (*vo.ListTravelPlansResponse, error)
	HotDestinations(ctx context.Context, limit int) ([]*vo.DestinationVO, error)
}

type travelPlanService struct {
	planRepo  mongodb.TravelPlanRepository
	rank      redis.DestinationRank
	publisher TravelPlanEventPublisher
	tasks     background.Runner
	logger    *zap.Logger
	now       func() time.Time
}

// NewTravelPlanService publisher 可以为 nil，此时不发送事件。
func NewTravelPlanService(planRepo mongodb.TravelPlanRepository, rank redis.DestinationRank, publisher TravelPlanEventPublisher, tasks background.Runner, logger *zap.Logger) TravelPlanService {
	return &travelPlanService{planRepo: planRepo, rank: rank, publisher: publisher, tasks: tasks, logger: logger, now: time.Now}
}

func (s *travelPlanService) Create(ctx context.Context, userID uint64, req *dto.TravelPlanRequest) (*vo.TravelPlanVO, error) {
	plan, err := buildTravelPlan(req)
	if err != nil {
		return nil, err
	}
	now := s.now()
	plan.UserID = userID
	plan.CreatedAt = now
	plan.UpdatedAt = now

	if err := s.planRepo.Create(ctx, plan); err != nil {
		s.logger.Error("创建旅行计划失败", zap.Uint64("userID", userID), zap.Error(err))
		return nil, myErrors.NewSystemError("创建旅行计划失败", err)
	}

	s.publishAsync("travelPlanCreated", plan.ID.Hex(), func(ctx context.Context) error {
		return s.publisher.SendTravelPlanCreatedEvent(ctx, toTravelPlanData(plan))
	})
	return vo.NewTravelPlanVO(plan), nil
}

func (s *travelPlanService) Update(ctx context.Context, userID uint64, planID string, req *dto.TravelPlanRequest) (*vo.TravelPlanVO, error) {
	existing, err := s.loadOwnedPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	plan, err := buildTravelPlan(req)
	if err != nil {
		return nil, err
	}
	plan.ID = existing.ID
	plan.UserID = existing.UserID
	plan.CreatedAt = existing.CreatedAt
	plan.UpdatedAt = s.now()

	if err := s.planRepo.Replace(ctx, plan); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrPlanNotFound
		}
		return nil, myErrors.NewSystemError("更新旅行计划失败", err)
	}

	previous := ""
	if existing.Destination != plan.Destination {
		previous = existing.Destination
	}
	s.publishAsync("travelPlanUpdated", plan.ID.Hex(), func(ctx context.Context) error {
		return s.publisher.SendTravelPlanUpdatedEvent(ctx, toTravelPlanData(plan), previous)
	})
	return vo.NewTravelPlanVO(plan), nil
}

func (s *travelPlanService) Delete(ctx context.Context, userID uint64, planID string) error {
	plan, err := s.loadOwnedPlan(ctx, userID, planID)
	if err != nil {
		return err
	}
	if err := s.planRepo.Delete(ctx, plan.ID); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return myErrors.ErrPlanNotFound
		}
		return myErrors.NewSystemError("删除旅行计划失败", err)
	}
	if s.rank != nil {
		if rErr := s.rank.IncrDestination(ctx, plan.Destination, -1); rErr != nil {
			s.logger.Warn("更新目的地热度失败", zap.String("destination", plan.Destination), zap.Error(rErr))
		}
	}
	return nil
}

func (s *travelPlanService) Get(ctx context.Context, viewerID uint64, planID string) (*vo.TravelPlanVO, error) {
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !plan.IsPublic && plan.UserID != viewerID {
		return nil, myErrors.ErrPlanNotFound
	}
	return vo.NewTravelPlanVO(plan), nil
}

func (s *travelPlanService) ListMine(ctx context.Context, userID uint64) ([]*vo.TravelPlanVO, error) {
	plans, err := s.planRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, myErrors.NewSystemError("获取旅行计划失败", err)
	}
	return vo.MapTravelPlansToVO(plans), nil
}

func (s *travelPlanService) ListPublic(ctx context.Context, req *dto.ListPublicPlansRequest) (*vo.ListTravelPlansResponse, error) {
	var before bson.ObjectID
	if req.Before != "" {
		oid, err := bson.ObjectIDFromHex(req.Before)
		if err != nil {
			return nil, myErrors.ErrInvalidObjectID
		}
		before = oid
	}
	limit := pageLimit(req.Limit, defaultPublicPlanLimit, 0)

	plans, err := s.planRepo.ListPublic(ctx, before, int64(limit), req.Destination)
	if err != nil {
		return nil, myErrors.NewSystemError("获取公开旅行计划失败", err)
	}
	out := &vo.ListTravelPlansResponse{Plans: vo.MapTravelPlansToVO(plans)}
	if len(plans) == limit {
		out.NextBefore = plans[len(plans)-1].ID.Hex()
	}
	return out, nil
}

func (s *travelPlanService) HotDestinations(ctx context.Context, limit int) ([]*vo.DestinationVO, error) {
	list, err := s.rank.Top(ctx, int64(pageLimit(limit, defaultHotDestinationsN, 0)))
	if err != nil {
		return nil, myErrors.NewSystemError("获取热门目的地失败", err)
	}
	return list, nil
}

func (s *travelPlanService) loadPlan(ctx context.Context, planID string) (*documents.TravelPlan, error) {
	oid, err := bson.ObjectIDFromHex(planID)
	if err != nil {
		return nil, myErrors.ErrInvalidObjectID
	}
	plan, err := s.planRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrPlanNotFound
		}
		return nil, myErrors.NewSystemError("获取旅行计划失败", err)
	}
	return plan, nil
}

func (s *travelPlanService) loadOwnedPlan(ctx context.Context, userID uint64, planID string) (*documents.TravelPlan, error) {
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, myErrors.ErrForbidden
	}
	return plan, nil
}

func (s *travelPlanService) publishAsync(topic, planID string, send func(ctx context.Context) error) {
	if s.publisher == nil {
		return
	}
	s.tasks.Go(topic, eventPublishTimeout, func(ctx context.Context) error {
		if err := send(ctx); err != nil {
			return fmt.Errorf("发送旅行计划 %s 的事件: %w", planID, err)
		}
		return nil
	})
}

// buildTravelPlan 校验日期与行程天数，生成不含归属信息的文档。
func buildTravelPlan(req *dto.TravelPlanRequest) (*documents.TravelPlan, error) {
	if req.EndDate.Before(req.StartDate) {
		return nil, myErrors.ErrInvalidDates
	}
	plan := &documents.TravelPlan{
		Title:       req.Title,
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Budget:      req.Budget,
		Tags:        NormalizeTags(req.Tags),
		IsPublic:    req.IsPublic,
		Days:        make([]documents.PlanDay, 0, len(req.Days)),
	}
	duration := plan.DurationDays()
	for _, d := range req.Days {
		if d.Day < 1 || d.Day > duration {
			return nil, myErrors.ErrDayOutOfRange
		}
		day := documents.PlanDay{Day: d.Day, Title: d.Title, Activities: make([]documents.Activity, 0, len(d.Activities))}
		for _, a := range d.Activities {
			day.Activities = append(day.Activities, documents.Activity{
				Time:     a.Time,
				Title:    a.Title,
				Location: a.Location,
				Note:     a.Note,
				Cost:     a.Cost,
			})
		}
		plan.Days = append(plan.Days, day)
	}
	return plan, nil
}

func toTravelPlanData(p *documents.TravelPlan) events.TravelPlanData {
	return events.TravelPlanData{
		ID:          p.ID.Hex(),
		UserID:      p.UserID,
		Title:       p.Title,
		Destination: p.Destination,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		IsPublic:    p.IsPublic,
	}
}

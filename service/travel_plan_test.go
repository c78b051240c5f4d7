package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/background"
	"github.com/Xushengqwer/social_service/models/documents"
	"github.com/Xushengqwer/social_service/models/dto"
	"github.com/Xushengqwer/social_service/models/events"
	"github.com/Xushengqwer/social_service/myErrors"
	"github.com/Xushengqwer/social_service/repo/mongodb"
	"github.com/Xushengqwer/social_service/repo/redis"
)

type memPlanRepo struct {
	mongodb.TravelPlanRepository
	plans []*documents.TravelPlan
}

func (r *memPlanRepo) find(id bson.ObjectID) int {
	for i, p := range r.plans {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (r *memPlanRepo) Create(_ context.Context, plan *documents.TravelPlan) error {
	plan.ID = bson.NewObjectID()
	cp := *plan
	r.plans = append(r.plans, &cp)
	return nil
}

func (r *memPlanRepo) GetByID(_ context.Context, id bson.ObjectID) (*documents.TravelPlan, error) {
	i := r.find(id)
	if i < 0 {
		return nil, commonerrors.ErrRepoNotFound
	}
	cp := *r.plans[i]
	return &cp, nil
}

func (r *memPlanRepo) Replace(_ context.Context, plan *documents.TravelPlan) error {
	i := r.find(plan.ID)
	if i < 0 {
		return commonerrors.ErrRepoNotFound
	}
	cp := *plan
	r.plans[i] = &cp
	return nil
}

func (r *memPlanRepo) Delete(_ context.Context, id bson.ObjectID) error {
	i := r.find(id)
	if i < 0 {
		return commonerrors.ErrRepoNotFound
	}
	r.plans = append(r.plans[:i], r.plans[i+1:]...)
	return nil
}

func (r *memPlanRepo) ListByUser(_ context.Context, userID uint64) ([]*documents.TravelPlan, error) {
	var out []*documents.TravelPlan
	for _, p := range r.plans {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

// ListPublic 按插入倒序返回，与 ObjectID 倒序一致。
func (r *memPlanRepo) ListPublic(_ context.Context, before bson.ObjectID, limit int64, destination string) ([]*documents.TravelPlan, error) {
	var out []*documents.TravelPlan
	for i := len(r.plans) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		p := r.plans[i]
		if !p.IsPublic || (destination != "" && p.Destination != destination) {
			continue
		}
		if !before.IsZero() && p.ID.Hex() >= before.Hex() {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type planUpdate struct {
	plan     events.TravelPlanData
	previous string
}

type recordingPlanPublisher struct {
	mu      sync.Mutex
	created []events.TravelPlanData
	updated []planUpdate
}

func (p *recordingPlanPublisher) SendTravelPlanCreatedEvent(_ context.Context, data events.TravelPlanData) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, data)
	return nil
}

func (p *recordingPlanPublisher) SendTravelPlanUpdatedEvent(_ context.Context, data events.TravelPlanData, previous string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updated = append(p.updated, planUpdate{plan: data, previous: previous})
	return nil
}

type travelPlanFixture struct {
	service   TravelPlanService
	repo      *memPlanRepo
	rank      redis.DestinationRank
	publisher *recordingPlanPublisher
	tasks     *background.Tracker
}

func newTravelPlanFixture(t *testing.T) *travelPlanFixture {
	t.Helper()
	_, client := newTestRedis(t)
	f := &travelPlanFixture{
		repo:      &memPlanRepo{},
		rank:      redis.NewDestinationRank(client),
		publisher: &recordingPlanPublisher{},
		tasks:     background.NewTracker(zap.NewNop()),
	}
	f.service = NewTravelPlanService(f.repo, f.rank, f.publisher, f.tasks, zap.NewNop())
	return f
}

// flush 等待异步事件发送完成，之后不能再提交任务。
func (f *travelPlanFixture) flush(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, f.tasks.Shutdown(ctx))
}

func planRequest(destination string, public bool) *dto.TravelPlanRequest {
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	return &dto.TravelPlanRequest{
		Title:       destination + "赏樱",
		Destination: destination,
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 2),
		Budget:      5000,
		Days: []dto.PlanDayRequest{
			{Day: 1, Title: "抵达", Activities: []dto.ActivityRequest{{Title: "入住", Cost: 800}}},
		},
		Tags:     []string{"#赏樱", "赏樱"},
		IsPublic: public,
	}
}

func TestTravelPlanServiceCRUD(t *testing.T) {
	f := newTravelPlanFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, 1, planRequest("京都", true))
	require.NoError(t, err)
	assert.Equal(t, []string{"赏樱"}, created.Tags)
	assert.Equal(t, 3, created.DurationDays)

	got, err := f.service.Get(ctx, 2, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "京都", got.Destination)

	updated, err := f.service.Update(ctx, 1, created.ID, planRequest("大阪", true))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "大阪", updated.Destination)

	mine, err := f.service.ListMine(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "大阪", mine[0].Destination)

	f.flush(t)
	require.Len(t, f.publisher.created, 1)
	assert.Equal(t, "京都", f.publisher.created[0].Destination)
	require.Len(t, f.publisher.updated, 1)
	assert.Equal(t, "大阪", f.publisher.updated[0].plan.Destination)
	assert.Equal(t, "京都", f.publisher.updated[0].previous)
}

func TestTravelPlanServiceOwnership(t *testing.T) {
	f := newTravelPlanFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, 1, planRequest("京都", true))
	require.NoError(t, err)

	_, err = f.service.Update(ctx, 2, created.ID, planRequest("大阪", true))
	assert.ErrorIs(t, err, myErrors.ErrForbidden)
	err = f.service.Delete(ctx, 2, created.ID)
	assert.ErrorIs(t, err, myErrors.ErrForbidden)

	_, err = f.service.Get(ctx, 1, "not-an-object-id")
	assert.ErrorIs(t, err, myErrors.ErrInvalidObjectID)
	_, err = f.service.Get(ctx, 1, bson.NewObjectID().Hex())
	assert.ErrorIs(t, err, myErrors.ErrPlanNotFound)

	bad := planRequest("京都", true)
	bad.EndDate = bad.StartDate.AddDate(0, 0, -1)
	_, err = f.service.Update(ctx, 1, created.ID, bad)
	assert.ErrorIs(t, err, myErrors.ErrInvalidDates)
}

func TestTravelPlanServicePrivateVisibility(t *testing.T) {
	f := newTravelPlanFixture(t)
	ctx := context.Background()

	private, err := f.service.Create(ctx, 1, planRequest("京都", false))
	require.NoError(t, err)
	public, err := f.service.Create(ctx, 1, planRequest("京都", true))
	require.NoError(t, err)
	_, err = f.service.Create(ctx, 2, planRequest("大阪", true))
	require.NoError(t, err)

	_, err = f.service.Get(ctx, 2, private.ID)
	assert.ErrorIs(t, err, myErrors.ErrPlanNotFound)
	_, err = f.service.Get(ctx, 0, private.ID)
	assert.ErrorIs(t, err, myErrors.ErrPlanNotFound)
	got, err := f.service.Get(ctx, 1, private.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPublic)

	resp, err := f.service.ListPublic(ctx, &dto.ListPublicPlansRequest{Destination: "京都"})
	require.NoError(t, err)
	require.Len(t, resp.Plans, 1)
	assert.Equal(t, public.ID, resp.Plans[0].ID)
	assert.Empty(t, resp.NextBefore)

	// 每页一条时返回下一页游标
	resp, err = f.service.ListPublic(ctx, &dto.ListPublicPlansRequest{Limit: 1})
	require.NoError(t, err)
	require.Len(t, resp.Plans, 1)
	assert.Equal(t, "大阪", resp.Plans[0].Destination)
	require.NotEmpty(t, resp.NextBefore)

	resp, err = f.service.ListPublic(ctx, &dto.ListPublicPlansRequest{Limit: 1, Before: resp.NextBefore})
	require.NoError(t, err)
	require.Len(t, resp.Plans, 1)
	assert.Equal(t, public.ID, resp.Plans[0].ID)

	_, err = f.service.ListPublic(ctx, &dto.ListPublicPlansRequest{Before: "zz"})
	assert.ErrorIs(t, err, myErrors.ErrInvalidObjectID)
}

func TestTravelPlanServiceDeleteDecrementsDestination(t *testing.T) {
	f := newTravelPlanFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, 1, planRequest("京都", true))
	require.NoError(t, err)
	// 创建事件由消费者计入排行，这里直接模拟
	require.NoError(t, f.rank.IncrDestination(ctx, "京都", 2))

	require.NoError(t, f.service.Delete(ctx, 1, created.ID))
	top, err := f.service.HotDestinations(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "京都", top[0].Destination)
	assert.EqualValues(t, 1, top[0].PlanCount)

	err = f.service.Delete(ctx, 1, created.ID)
	assert.ErrorIs(t, err, myErrors.ErrPlanNotFound)
	assert.Empty(t, f.repo.plans)
}

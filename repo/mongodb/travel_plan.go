package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/models/documents"
)

const travelPlanCollection = "travel_plans"

// TravelPlanRepository 旅行计划文档的持久化操作。
type TravelPlanRepository interface {
	// EnsureIndexes 启动时调用，索引已存在时为空操作。
	EnsureIndexes(ctx context.Context) error

	// Create 写入后回填 plan.ID。
	Create(ctx context.Context, plan *documents.TravelPlan) error

	// GetByID 未找到返回 commonerrors.ErrRepoNotFound。
	GetByID(ctx context.Context, id bson.ObjectID) (*documents.TravelPlan, error)

	// Replace 整体替换可编辑字段，user_id 与 created_at 保持不变。
	Replace(ctx context.Context, plan *documents.TravelPlan) error

	Delete(ctx context.Context, id bson.ObjectID) error

	// ListByUser 用户自己的全部计划，按开始日期升序。
	ListByUser(ctx context.Context, userID uint64) ([]*documents.TravelPlan, error)

	// ListPublic 公开计划，按 _id 倒序游标分页；before 为零值表示首页。
	ListPublic(ctx context.Context, before bson.ObjectID, limit int64, destination string) ([]*documents.TravelPlan, error)
}

type travelPlanRepository struct {
	coll   *mongo.Collection
	logger *core.ZapLogger
}

func NewTravelPlanRepository(db *mongo.Database, logger *core.ZapLogger) TravelPlanRepository {
	return &travelPlanRepository{coll: db.Collection(travelPlanCollection), logger: logger}
}

func (r *travelPlanRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "start_date", Value: 1}}},
		{Keys: bson.D{{Key: "is_public", Value: 1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "destination", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("创建 %s 索引失败: %w", travelPlanCollection, err)
	}
	return nil
}

func (r *travelPlanRepository) Create(ctx context.Context, plan *documents.TravelPlan) error {
	res, err := r.coll.InsertOne(ctx, plan)
	if err != nil {
		r.logger.Error("写入旅行计划失败", zap.Error(err), zap.Uint64("userID", plan.UserID))
		return err
	}
	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		plan.ID = oid
	}
	return nil
}

func (r *travelPlanRepository) GetByID(ctx context.Context, id bson.ObjectID) (*documents.TravelPlan, error) {
	var plan documents.TravelPlan
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *travelPlanRepository) Replace(ctx context.Context, plan *documents.TravelPlan) error {
	plan.UpdatedAt = time.Now()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": plan.ID}, bson.M{"$set": bson.M{
		"title":       plan.Title,
		"destination": plan.Destination,
		"start_date":  plan.StartDate,
		"end_date":    plan.EndDate,
		"budget":      plan.Budget,
		"days":        plan.Days,
		"tags":        plan.Tags,
		"is_public":   plan.IsPublic,
		"updated_at":  plan.UpdatedAt,
	}})
	if err != nil {
		r.logger.Error("更新旅行计划失败", zap.Error(err), zap.String("planID", plan.ID.Hex()))
		return err
	}
	if res.MatchedCount == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

func (r *travelPlanRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

func (r *travelPlanRepository) ListByUser(ctx context.Context, userID uint64) ([]*documents.TravelPlan, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	plans := make([]*documents.TravelPlan, 0)
	if err := cur.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *travelPlanRepository) ListPublic(ctx context.Context, before bson.ObjectID, limit int64, destination string) ([]*documents.TravelPlan, error) {
	filter := bson.M{"is_public": true}
	if !before.IsZero() {
		filter["_id"] = bson.M{"$lt": before}
	}
	if destination != "" {
		filter["destination"] = destination
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}).SetLimit(limit)
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	plans := make([]*documents.TravelPlan, 0, limit)
	if err := cur.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

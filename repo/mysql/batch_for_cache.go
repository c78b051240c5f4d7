package mysql

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/social_service/config"
	"github.com/Xushengqwer/social_service/models/entities"
)

// PostBatchOperationsRepository 批量读写，服务于浏览量回写与热榜缓存填充。
type PostBatchOperationsRepository interface {
	// BatchUpdatePostViewCounts 并发地将 Redis 中的浏览量分批写回 MySQL。
	// 单个批次失败不会中断其它批次，所有失败聚合后一起返回。
	BatchUpdatePostViewCounts(ctx context.Context, viewCounts map[uint64]int64) error

	// GetPostDetailsByPostIDs 批量获取帖子详情。
	GetPostDetailsByPostIDs(ctx context.Context, postIDs []uint64) ([]*entities.PostDetail, error)

	// GetPostsByIDs 根据 ID 列表批量检索帖子，已删除的记录不会返回。
	GetPostsByIDs(ctx context.Context, ids []uint64) ([]*entities.Post, error)

	// BatchGetPostImages 返回 postID -> 图片列表，没有图片的帖子对应空切片。
	BatchGetPostImages(ctx context.Context, postIDs []uint64) (map[uint64][]*entities.PostImage, error)
}

type postBatchOperationsRepository struct {
	db          *gorm.DB
	logger      *core.ZapLogger
	viewSyncCfg config.ViewSyncConfig
}

func NewPostBatchOperationsRepository(db *gorm.DB, logger *core.ZapLogger, viewSyncCfg config.ViewSyncConfig) PostBatchOperationsRepository {
	return &postBatchOperationsRepository{db: db, logger: logger, viewSyncCfg: viewSyncCfg}
}

const (
	defaultViewSyncBatchSize   = 500
	defaultViewSyncConcurrency = 1
)

// BatchUpdatePostViewCounts 由定时任务调用。
// ID 排序后按 BatchSize 切分，ConcurrencyLevel 个 worker 从同一个通道领取批次，每批一条 CASE WHEN 语句。
func (r *postBatchOperationsRepository) BatchUpdatePostViewCounts(ctx context.Context, viewCounts map[uint64]int64) error {
	if len(viewCounts) == 0 {
		return nil
	}
	batchSize := r.viewSyncCfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultViewSyncBatchSize
	}
	workers := r.viewSyncCfg.ConcurrencyLevel
	if workers <= 0 {
		workers = defaultViewSyncConcurrency
	}

	batches := splitViewCountBatches(viewCounts, batchSize)
	if workers > len(batches) {
		workers = len(batches)
	}
	start := time.Now()

	jobs := make(chan []uint64)
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ids := range jobs {
				if err := r.updateViewCountBatch(ctx, ids, viewCounts); err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				}
			}
		}()
	}

dispatch:
	for _, ids := range batches {
		select {
		case <-ctx.Done():
			mu.Lock()
			errs = append(errs, fmt.Errorf("浏览量回写被取消: %w", ctx.Err()))
			mu.Unlock()
			break dispatch
		case jobs <- ids:
		}
	}
	close(jobs)
	wg.Wait()

	r.logger.Info("浏览量批量回写结束",
		zap.Int("帖子数", len(viewCounts)),
		zap.Int("批次数", len(batches)),
		zap.Int("worker数", workers),
		zap.Int("失败数", len(errs)),
		zap.Duration("耗时", time.Since(start)),
	)
	if len(errs) > 0 {
		return fmt.Errorf("%d/%d 个浏览量批次回写失败: %w", len(errs), len(batches), errors.Join(errs...))
	}
	return nil
}

func (r *postBatchOperationsRepository) updateViewCountBatch(ctx context.Context, ids []uint64, viewCounts map[uint64]int64) error {
	expr, args := viewCountCaseExpr(ids, viewCounts)
	err := r.db.WithContext(ctx).Model(&entities.Post{}).
		Where("id IN ?", ids).
		UpdateColumn("view_count", gorm.Expr(expr, args...)).Error
	if err != nil {
		r.logger.Error("浏览量批次回写失败", zap.Uint64("firstID", ids[0]), zap.Int("size", len(ids)), zap.Error(err))
		return fmt.Errorf("回写帖子 %d 起的 %d 条浏览量: %w", ids[0], len(ids), err)
	}
	return nil
}

// splitViewCountBatches 按 ID 升序切分，保证多实例或多 worker 间行锁顺序一致。
func splitViewCountBatches(viewCounts map[uint64]int64, batchSize int) [][]uint64 {
	ids := make([]uint64, 0, len(viewCounts))
	for id := range viewCounts {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	batches := make([][]uint64, 0, (len(ids)+batchSize-1)/batchSize)
	for len(ids) > 0 {
		n := min(batchSize, len(ids))
		batches = append(batches, ids[:n:n])
		ids = ids[n:]
	}
	return batches
}

// viewCountCaseExpr 生成 "GREATEST(view_count, CASE id WHEN ? THEN ? ... END)" 及其参数。
// 浏览量只增不减，Redis 计数器丢失或重建后不会把库里的值改小。
func viewCountCaseExpr(ids []uint64, viewCounts map[uint64]int64) (string, []interface{}) {
	var b strings.Builder
	args := make([]interface{}, 0, len(ids)*2)
	b.WriteString("GREATEST(view_count, CASE id")
	for _, id := range ids {
		b.WriteString(" WHEN ? THEN ?")
		args = append(args, id, viewCounts[id])
	}
	b.WriteString(" END)")
	return b.String(), args
}

// GetPostDetailsByPostIDs 批量获取帖子详情
func (r *postBatchOperationsRepository) GetPostDetailsByPostIDs(ctx context.Context, postIDs []uint64) ([]*entities.PostDetail, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var details []*entities.PostDetail
	if err := r.db.WithContext(ctx).Where("post_id IN ?", postIDs).Find(&details).Error; err != nil {
		return nil, fmt.Errorf("批量查询帖子详情: %w", err)
	}
	return details, nil
}

func (r *postBatchOperationsRepository) GetPostsByIDs(ctx context.Context, ids []uint64) ([]*entities.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var posts []*entities.Post
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("批量查询帖子: %w", err)
	}
	return posts, nil
}

func (r *postBatchOperationsRepository) BatchGetPostImages(ctx context.Context, postIDs []uint64) (map[uint64][]*entities.PostImage, error) {
	if len(postIDs) == 0 {
		return make(map[uint64][]*entities.PostImage), nil
	}

	var images []*entities.PostImage
	if err := r.db.WithContext(ctx).
		Where("post_id IN ?", postIDs).
		Order("post_id ASC, display_order ASC").
		Find(&images).Error; err != nil {
		return nil, err
	}

	imagesMap := make(map[uint64][]*entities.PostImage, len(postIDs))
	for _, img := range images {
		imagesMap[img.PostID] = append(imagesMap[img.PostID], img)
	}
	// 保证每个请求的 ID 都有条目，调用方无需判断 key 是否存在
	for _, id := range postIDs {
		if _, ok := imagesMap[id]; !ok {
			imagesMap[id] = []*entities.PostImage{}
		}
	}
	return imagesMap, nil
}

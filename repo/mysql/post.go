package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Xushengqwer/social_service/models/dto"
	"github.com/Xushengqwer/social_service/models/entities"
	"github.com/Xushengqwer/social_service/models/enums"
)

var postCounterColumns = map[string]struct{}{
	"like_count":    {},
	"comment_count": {},
}

// PostRepository 帖子主表。
type PostRepository interface {
	// CreatePost 持久化一个新的帖子记录，db 可以是事务对象。
	CreatePost(ctx context.Context, db *gorm.DB, post *entities.Post) error

	// UpdatePost 更新标题与标签，nil 表示不更新对应字段。
	// - 未找到记录时返回 commonerrors.ErrRepoNotFound。
	UpdatePost(ctx context.Context, db *gorm.DB, postID uint64, title *string, tags []string) error

	// GetPostsByUserIDCursor 用户帖子列表的游标分页查询，按 ID 降序。
	// - cursor 为 nil 表示首次加载；返回的 nextCursor 为 nil 表示没有更多数据。
	GetPostsByUserIDCursor(ctx context.Context, userID uint64, cursor *uint64, pageSize int) ([]*entities.Post, *uint64, error)

	// GetPostsByTimeline 按时间线、条件筛选和游标分页查询帖子列表。
	// - 返回: 帖子列表, 下一页游标时间, 下一页游标ID, 错误。
	GetPostsByTimeline(ctx context.Context, params *dto.TimelineQueryDTO) ([]*entities.Post, *time.Time, *uint64, error)

	// GetUserPostsByConditions 分页查询指定用户发布的帖子列表，包含被隐藏的帖子。
	GetUserPostsByConditions(ctx context.Context, authorID uint64, title *string, status *enums.PostStatus, offset, limit int) ([]*entities.Post, int64, error)

	// GetPostByID 未找到时返回 commonerrors.ErrRepoNotFound。
	GetPostByID(ctx context.Context, id uint64) (*entities.Post, error)

	// DeletePost 软删除。
	DeletePost(ctx context.Context, db *gorm.DB, id uint64) error

	// IncrementCounter 原子增减计数列 (like_count / comment_count)，结果不会小于 0。
	IncrementCounter(ctx context.Context, db *gorm.DB, postID uint64, column string, delta int64) error

	// UpdateAuthorSnapshot 用户修改头像后同步其所有帖子的作者快照。
	UpdateAuthorSnapshot(ctx context.Context, authorID uint64, username, avatar string) error

	// CountByAuthor 用户已发布（未隐藏）的帖子数。
	CountByAuthor(ctx context.Context, authorID uint64) (int64, error)
}

type postRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

func NewPostRepository(db *gorm.DB, logger *core.ZapLogger) PostRepository {
	return &postRepository{db: db, logger: logger}
}

const defaultTimelinePageSize = 20

// trimPage 列表查询统一多取一条，据此判断是否还有下一页。
func trimPage[T any](rows []T, size int) (page []T, hasMore bool) {
	if len(rows) > size {
		return rows[:size], true
	}
	return rows, false
}

func publishedOnly(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", enums.PostPublished)
}

func titleContains(title *string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if title == nil || *title == "" {
			return db
		}
		return db.Where("title LIKE ?", "%"+*title+"%")
	}
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}

func (r *postRepository) CreatePost(ctx context.Context, db *gorm.DB, post *entities.Post) error {
	return db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) UpdatePost(ctx context.Context, db *gorm.DB, postID uint64, title *string, tags []string) error {
	// tags 是 JSON 列，必须走结构体 + Select 才会经过序列化器
	patch := entities.Post{}
	columns := make([]string, 0, 3)
	if title != nil {
		patch.Title = *title
		columns = append(columns, "title")
	}
	if tags != nil {
		patch.Tags = tags
		columns = append(columns, "tags")
	}
	if len(columns) == 0 {
		return nil
	}
	// 带上 updated_at，内容没变时也能用 RowsAffected 判断记录是否存在
	patch.UpdatedAt = time.Now()
	columns = append(columns, "updated_at")

	res := db.WithContext(ctx).Model(&entities.Post{}).Where("id = ?", postID).Select(columns).Updates(&patch)
	if res.Error != nil {
		return fmt.Errorf("更新帖子 %d: %w", postID, res.Error)
	}
	if res.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

func (r *postRepository) GetPostsByUserIDCursor(ctx context.Context, userID uint64, cursor *uint64, pageSize int) ([]*entities.Post, *uint64, error) {
	query := r.db.WithContext(ctx).Scopes(publishedOnly).Where("author_id = ?", userID)
	if cursor != nil {
		query = query.Where("id < ?", *cursor)
	}

	var rows []*entities.Post
	if err := query.Order("id DESC").Limit(pageSize + 1).Find(&rows).Error; err != nil {
		return nil, nil, fmt.Errorf("查询用户 %d 的帖子: %w", userID, err)
	}
	page, more := trimPage(rows, pageSize)
	if !more {
		return page, nil, nil
	}
	next := page[len(page)-1].ID
	return page, &next, nil
}

func (r *postRepository) GetPostsByTimeline(ctx context.Context, params *dto.TimelineQueryDTO) ([]*entities.Post, *time.Time, *uint64, error) {
	size := params.PageSize
	if size <= 0 {
		size = defaultTimelinePageSize
	}

	query := r.db.WithContext(ctx).Model(&entities.Post{}).Scopes(publishedOnly, titleContains(params.Title))
	if params.AuthorUsername != nil {
		query = query.Where("author_username LIKE ?", "%"+*params.AuthorUsername+"%")
	}
	if params.Tag != nil {
		query = query.Where("JSON_CONTAINS(tags, JSON_QUOTE(?))", *params.Tag)
	}
	// 复合游标 (created_at, id)，只给一半时按首页处理
	if params.LastCreatedAt != nil && params.LastPostID != nil {
		query = query.Where("created_at < ? OR (created_at = ? AND id < ?)",
			*params.LastCreatedAt, *params.LastCreatedAt, *params.LastPostID)
	}

	var rows []*entities.Post
	if err := query.Scopes(newestFirst).Limit(size + 1).Find(&rows).Error; err != nil {
		r.logger.Error("查询时间线失败", zap.Error(err), zap.Int("pageSize", size))
		return nil, nil, nil, fmt.Errorf("查询时间线: %w", err)
	}
	page, more := trimPage(rows, size)
	if !more {
		return page, nil, nil, nil
	}
	last := page[len(page)-1]
	createdAt, id := last.CreatedAt, last.ID
	return page, &createdAt, &id, nil
}

func (r *postRepository) GetUserPostsByConditions(ctx context.Context, authorID uint64, title *string, status *enums.PostStatus, offset, limit int) ([]*entities.Post, int64, error) {
	query := r.db.WithContext(ctx).Model(&entities.Post{}).
		Where("author_id = ?", authorID).
		Scopes(titleContains(title))
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计用户 %d 的帖子: %w", authorID, err)
	}
	posts := make([]*entities.Post, 0)
	if total == 0 {
		return posts, 0, nil
	}
	if err := query.Scopes(newestFirst).Offset(offset).Limit(limit).Find(&posts).Error; err != nil {
		return nil, 0, fmt.Errorf("分页查询用户 %d 的帖子: %w", authorID, err)
	}
	return posts, total, nil
}

func (r *postRepository) GetPostByID(ctx context.Context, id uint64) (*entities.Post, error) {
	post := new(entities.Post)
	if err := r.db.WithContext(ctx).First(post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, fmt.Errorf("查询帖子 %d: %w", id, err)
	}
	return post, nil
}

func (r *postRepository) DeletePost(ctx context.Context, db *gorm.DB, id uint64) error {
	res := db.WithContext(ctx).Delete(&entities.Post{}, id)
	switch {
	case res.Error != nil:
		return fmt.Errorf("删除帖子 %d: %w", id, res.Error)
	case res.RowsAffected == 0:
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

func (r *postRepository) IncrementCounter(ctx context.Context, db *gorm.DB, postID uint64, column string, delta int64) error {
	if _, ok := postCounterColumns[column]; !ok {
		return fmt.Errorf("不支持的帖子计数列: %s", column)
	}
	// 无符号列先转 SIGNED 再相加，避免减到负数时溢出
	expr := gorm.Expr("GREATEST(CAST(? AS SIGNED) + ?, 0)", clause.Column{Name: column}, delta)
	res := db.WithContext(ctx).Model(&entities.Post{}).Where("id = ?", postID).UpdateColumn(column, expr)
	if res.Error != nil {
		r.logger.Error("更新帖子计数失败", zap.Error(res.Error), zap.Uint64("postID", postID), zap.String("column", column))
		return res.Error
	}
	if res.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

func (r *postRepository) UpdateAuthorSnapshot(ctx context.Context, authorID uint64, username, avatar string) error {
	return r.db.WithContext(ctx).Model(&entities.Post{}).
		Where("author_id = ?", authorID).
		UpdateColumns(map[string]interface{}{"author_username": username, "author_avatar": avatar}).Error
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entities.Post{}).Scopes(publishedOnly).
		Where("author_id = ?", authorID).Count(&n).Error
	return n, err
}

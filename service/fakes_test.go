package service

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/Xushengqwer/go-common/commonerrors"
	commonconfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Xushengqwer/social_service/models/entities"
	"github.com/Xushengqwer/social_service/models/enums"
	"github.com/Xushengqwer/social_service/models/events"
	"github.com/Xushengqwer/social_service/repo/mysql"
	"github.com/Xushengqwer/social_service/repo/redis"
)

func newTestLogger(t *testing.T) *core.ZapLogger {
	t.Helper()
	logger, err := core.NewZapLogger(commonconfig.ZapConfig{Level: "error", Encoding: "console"})
	require.NoError(t, err)
	return logger
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

// fakeTxRunner 直接执行 fn，tx 为 nil；内存仓储不关心事务对象。
type fakeTxRunner struct {
	calls int
}

func (f *fakeTxRunner) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	f.calls++
	return fn(nil)
}

// --- 帖子 ---

type memPostRepo struct {
	mysql.PostRepository
	posts  map[uint64]*entities.Post
	nextID uint64
}

func newMemPostRepo(posts ...*entities.Post) *memPostRepo {
	r := &memPostRepo{posts: map[uint64]*entities.Post{}, nextID: 100}
	for _, p := range posts {
		r.posts[p.ID] = p
	}
	return r
}

func (r *memPostRepo) CreatePost(_ context.Context, _ *gorm.DB, post *entities.Post) error {
	r.nextID++
	post.ID = r.nextID
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r *memPostRepo) GetPostByID(_ context.Context, id uint64) (*entities.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, commonerrors.ErrRepoNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memPostRepo) UpdatePost(_ context.Context, _ *gorm.DB, postID uint64, title *string, tags []string) error {
	p, ok := r.posts[postID]
	if !ok {
		return commonerrors.ErrRepoNotFound
	}
	if title != nil {
		p.Title = *title
	}
	if tags != nil {
		p.Tags = tags
	}
	return nil
}

func (r *memPostRepo) IncrementCounter(_ context.Context, _ *gorm.DB, postID uint64, column string, delta int64) error {
	p, ok := r.posts[postID]
	if !ok {
		return commonerrors.ErrRepoNotFound
	}
	field := &p.LikeCount
	if column == "comment_count" {
		field = &p.CommentCount
	}
	*field = max(*field+delta, 0)
	return nil
}

func (r *memPostRepo) DeletePost(_ context.Context, _ *gorm.DB, id uint64) error {
	delete(r.posts, id)
	return nil
}

type memPostDetailRepo struct {
	mysql.PostDetailRepository
	details map[uint64]*entities.PostDetail
}

func (r *memPostDetailRepo) CreatePostDetail(_ context.Context, _ *gorm.DB, detail *entities.PostDetail) error {
	r.details[detail.PostID] = detail
	return nil
}

func (r *memPostDetailRepo) GetPostDetailByPostID(_ context.Context, postID uint64) (*entities.PostDetail, error) {
	d, ok := r.details[postID]
	if !ok {
		return nil, commonerrors.ErrRepoNotFound
	}
	return d, nil
}

func (r *memPostDetailRepo) UpdatePostDetail(_ context.Context, _ *gorm.DB, postID uint64, content, location *string) error {
	d, ok := r.details[postID]
	if !ok {
		return commonerrors.ErrRepoNotFound
	}
	if content != nil {
		d.Content = *content
	}
	if location != nil {
		d.Location = *location
	}
	return nil
}

type memPostImageRepo struct {
	mysql.PostImageRepository
}

func (memPostImageRepo) GetImagesByPostID(context.Context, uint64) ([]*entities.PostImage, error) {
	return []*entities.PostImage{}, nil
}

// --- 标签 ---

type tagAdjustment struct {
	added, removed []string
}

type recordingTagRepo struct {
	mysql.TagRepository
	calls []tagAdjustment
	err   error
}

func (r *recordingTagRepo) AdjustUseCounts(_ context.Context, _ *gorm.DB, added, removed []string) error {
	if r.err != nil {
		return r.err
	}
	if len(added) == 0 && len(removed) == 0 {
		return nil
	}
	r.calls = append(r.calls, tagAdjustment{added: added, removed: removed})
	return nil
}

// --- 用户 ---

type memUserRepo struct {
	mysql.UserRepository
	users map[uint64]*entities.User
}

func (r *memUserRepo) GetUserByID(_ context.Context, id uint64) (*entities.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, commonerrors.ErrRepoNotFound
	}
	return u, nil
}

func (r *memUserRepo) GetProfileByUserID(context.Context, uint64) (*entities.UserProfile, error) {
	return nil, commonerrors.ErrRepoNotFound
}

// --- 评论 ---

type memCommentRepo struct {
	mysql.CommentRepository
	comments map[uint64]*entities.Comment
	nextID   uint64
}

func newMemCommentRepo(comments ...*entities.Comment) *memCommentRepo {
	r := &memCommentRepo{comments: map[uint64]*entities.Comment{}, nextID: 1000}
	for _, c := range comments {
		r.comments[c.ID] = c
	}
	return r
}

func (r *memCommentRepo) CreateComment(_ context.Context, _ *gorm.DB, c *entities.Comment) error {
	r.nextID++
	c.ID = r.nextID
	cp := *c
	r.comments[c.ID] = &cp
	return nil
}

func (r *memCommentRepo) GetCommentByID(_ context.Context, id uint64) (*entities.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, commonerrors.ErrRepoNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCommentRepo) DeleteCommentTree(_ context.Context, _ *gorm.DB, commentID uint64) (int64, error) {
	if _, ok := r.comments[commentID]; !ok {
		return 0, nil
	}
	doomed := []uint64{commentID}
	for i := 0; i < len(doomed); i++ {
		for id, c := range r.comments {
			if c.ParentID == doomed[i] {
				doomed = append(doomed, id)
			}
		}
	}
	for _, id := range doomed {
		delete(r.comments, id)
	}
	return int64(len(doomed)), nil
}

func (r *memCommentRepo) IncrementLikeCount(_ context.Context, _ *gorm.DB, commentID uint64, delta int64) error {
	c, ok := r.comments[commentID]
	if !ok {
		return commonerrors.ErrRepoNotFound
	}
	c.LikeCount = max(c.LikeCount+delta, 0)
	return nil
}

// --- 点赞 ---

type likeKey struct {
	userID, targetID uint64
	targetType       enums.LikeTargetType
}

type memLikeRepo struct {
	mysql.LikeRepository
	likes map[likeKey]bool
}

func newMemLikeRepo() *memLikeRepo {
	return &memLikeRepo{likes: map[likeKey]bool{}}
}

func (r *memLikeRepo) CreateLike(_ context.Context, _ *gorm.DB, like *entities.Like) error {
	k := likeKey{like.UserID, like.TargetID, like.TargetType}
	if r.likes[k] {
		return mysql.ErrDuplicateEntry
	}
	r.likes[k] = true
	return nil
}

func (r *memLikeRepo) DeleteLike(_ context.Context, _ *gorm.DB, userID, targetID uint64, targetType enums.LikeTargetType) (bool, error) {
	k := likeKey{userID, targetID, targetType}
	if !r.likes[k] {
		return false, nil
	}
	delete(r.likes, k)
	return true, nil
}

func (r *memLikeRepo) LikedTargets(_ context.Context, userID uint64, targetType enums.LikeTargetType, targetIDs []uint64) (map[uint64]bool, error) {
	out := map[uint64]bool{}
	for _, id := range targetIDs {
		if r.likes[likeKey{userID, id, targetType}] {
			out[id] = true
		}
	}
	return out, nil
}

// --- Redis 派生数据 ---

type recordingViewRepo struct {
	redis.PostViewRepository
	mu      sync.Mutex
	viewed  []uint64
	unrank  []uint64
	ranked  []uint64
	removed []uint64
}

func (r *recordingViewRepo) IncrementViewCount(_ context.Context, postID uint64, _ string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.viewed = append(r.viewed, postID)
	return true, nil
}

func (r *recordingViewRepo) Unrank(_ context.Context, postID uint64) error {
	r.unrank = append(r.unrank, postID)
	return nil
}

func (r *recordingViewRepo) EnsureRanked(_ context.Context, postID uint64) error {
	r.ranked = append(r.ranked, postID)
	return nil
}

func (r *recordingViewRepo) RemovePost(_ context.Context, postID uint64) error {
	r.removed = append(r.removed, postID)
	return nil
}

func (r *recordingViewRepo) viewedPosts() []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.viewed)
}

type recordingHotPostCache struct {
	redis.HotPostCache
	invalidated []uint64
}

func (c *recordingHotPostCache) Invalidate(_ context.Context, postID uint64) error {
	c.invalidated = append(c.invalidated, postID)
	return nil
}

// --- 事件 ---

type updatedEvent struct {
	post         events.PostData
	previousTags []string
}

type recordingPostPublisher struct {
	mu      sync.Mutex
	created []events.PostData
	updated []updatedEvent
}

func (p *recordingPostPublisher) SendPostCreatedEvent(_ context.Context, post events.PostData) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, post)
	return nil
}

func (p *recordingPostPublisher) SendPostUpdatedEvent(_ context.Context, post events.PostData, previousTags []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updated = append(p.updated, updatedEvent{post: post, previousTags: previousTags})
	return nil
}

var errInjected = errors.New("injected failure")

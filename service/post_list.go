package service

import (
	"context"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/models/dto"
	"github.com/Xushengqwer/social_service/models/vo"
	"github.com/Xushengqwer/social_service/myErrors"
	"github.com/Xushengqwer/social_service/repo/mysql"
)

const (
	defaultHotTagLimit = 20
	maxHotTagLimit     = 100
)

// PostListService 各种帖子列表，不包含详情与热榜。
type PostListService interface {
	// GetUserPosts 当前用户自己的帖子（含隐藏），offset 分页。
	GetUserPosts(ctx context.Context, userID uint64, queryDTO *dto.GetUserPostsRequestDTO) (*vo.ListUserPostPageVO, error)

	// GetPostsByTimeline 公开时间线，(created_at, id) 复合游标。
	GetPostsByTimeline(ctx context.Context, queryDTO *dto.TimelineQueryDTO) (*vo.PostTimelinePageVO, error)

	// ListPostsByUserID 个人主页，只含已发布的帖子。
	ListPostsByUserID(ctx context.Context, req *dto.ListPostsByUserIDRequest) (*vo.ListPostsByCursorResponse, error)

	ListHotTags(ctx context.Context, limit int) ([]*vo.TagVO, error)
}

type postListService struct {
	logger   *core.ZapLogger
	postRepo mysql.PostRepository
	tagRepo  mysql.TagRepository
}

func NewPostListService(logger *core.ZapLogger, postRepo mysql.PostRepository, tagRepo mysql.TagRepository) PostListService {
	return &postListService{logger: logger, postRepo: postRepo, tagRepo: tagRepo}
}

func (s *postListService) GetUserPosts(ctx context.Context, userID uint64, queryDTO *dto.GetUserPostsRequestDTO) (*vo.ListUserPostPageVO, error) {
	posts, total, err := s.postRepo.GetUserPostsByConditions(ctx, userID, queryDTO.Title, queryDTO.Status, queryDTO.GetOffset(), queryDTO.PageSize)
	if err != nil {
		return nil, s.listFailed("我的帖子", err, zap.Uint64("userID", userID))
	}
	return &vo.ListUserPostPageVO{Posts: vo.MapPostsToPostResponsesVO(posts), Total: total}, nil
}

func (s *postListService) GetPostsByTimeline(ctx context.Context, queryDTO *dto.TimelineQueryDTO) (*vo.PostTimelinePageVO, error) {
	if (queryDTO.LastCreatedAt == nil) != (queryDTO.LastPostID == nil) {
		return nil, myErrors.NewValidationError("lastCreatedAt", "lastCreatedAt 与 lastPostId 必须同时提供")
	}
	posts, nextCreatedAt, nextPostID, err := s.postRepo.GetPostsByTimeline(ctx, queryDTO)
	if err != nil {
		return nil, s.listFailed("时间线", err)
	}
	return &vo.PostTimelinePageVO{
		Posts:         vo.MapPostsToPostResponsesVO(posts),
		NextCreatedAt: nextCreatedAt,
		NextPostID:    nextPostID,
	}, nil
}

func (s *postListService) ListPostsByUserID(ctx context.Context, req *dto.ListPostsByUserIDRequest) (*vo.ListPostsByCursorResponse, error) {
	posts, next, err := s.postRepo.GetPostsByUserIDCursor(ctx, req.UserID, req.Cursor, req.PageSize)
	if err != nil {
		return nil, s.listFailed("用户主页帖子", err, zap.Uint64("userID", req.UserID))
	}
	return &vo.ListPostsByCursorResponse{Posts: vo.MapPostsToPostResponsesVO(posts), NextCursor: next}, nil
}

func (s *postListService) ListHotTags(ctx context.Context, limit int) ([]*vo.TagVO, error) {
	tags, err := s.tagRepo.ListHotTags(ctx, pageLimit(limit, defaultHotTagLimit, maxHotTagLimit))
	if err != nil {
		return nil, s.listFailed("热门标签", err)
	}
	return vo.MapTagsToVO(tags), nil
}

func (s *postListService) listFailed(what string, err error, fields ...zap.Field) error {
	s.logger.Error("查询"+what+"失败", append(fields, zap.Error(err))...)
	return myErrors.NewSystemError("获取"+what+"失败", err)
}

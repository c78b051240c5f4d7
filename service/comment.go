package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/social_service/models/dto"
	"github.com/Xushengqwer/social_service/models/entities"
	"github.com/Xushengqwer/social_service/models/enums"
	"github.com/Xushengqwer/social_service/models/vo"
	"github.com/Xushengqwer/social_service/myErrors"
	"github.com/Xushengqwer/social_service/repo/mysql"
)

// CommentService 帖子评论。评论数与 comments 表在同一事务中维护。
type CommentService interface {
	CreateComment(ctx context.Context, userID, postID uint64, req *dto.CreateCommentRequest) (*vo.CommentVO, error)
	ListComments(ctx context.Context, postID, viewerID uint64, page *dto.CursorPageRequest) (*vo.ListCommentsResponse, error)

	// DeleteComment 评论作者或帖子作者可删除，回复随之一起删除。
	DeleteComment(ctx context.Context, userID, commentID uint64) error
}

type commentService struct {
	txs         mysql.TxRunner
	commentRepo mysql.CommentRepository
	postRepo    mysql.PostRepository
	userRepo    mysql.UserRepository
	likeRepo    mysql.LikeRepository
	logger      *core.ZapLogger
}

func NewCommentService(txs mysql.TxRunner, commentRepo mysql.CommentRepository, postRepo mysql.PostRepository, userRepo mysql.UserRepository, likeRepo mysql.LikeRepository, logger *core.ZapLogger) CommentService {
	return &commentService{
		txs:         txs,
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		likeRepo:    likeRepo,
		logger:      logger,
	}
}

func (s *commentService) CreateComment(ctx context.Context, userID, postID uint64, req *dto.CreateCommentRequest) (*vo.CommentVO, error) {
	// 1. 帖子必须存在且可见
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrPostNotFound
		}
		return nil, myErrors.NewSystemError("获取帖子失败", err)
	}
	if post.Status == enums.PostHidden {
		return nil, myErrors.ErrPostNotFound
	}

	// 2. 父评论必须属于同一帖子
	if req.ParentID != 0 {
		parent, pErr := s.commentRepo.GetCommentByID(ctx, req.ParentID)
		if pErr != nil {
			if errors.Is(pErr, commonerrors.ErrRepoNotFound) {
				return nil, myErrors.ErrCommentNotFound
			}
			return nil, myErrors.NewSystemError("获取父评论失败", pErr)
		}
		if parent.PostID != postID {
			return nil, myErrors.ErrParentMismatch
		}
	}

	// 3. 评论者快照
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrUserNotFound
		}
		return nil, myErrors.NewSystemError("获取用户信息失败", err)
	}
	comment := &entities.Comment{
		PostID:   postID,
		UserID:   userID,
		ParentID: req.ParentID,
		Content:  req.Content,
		Username: user.Username,
	}
	if profile, pErr := s.userRepo.GetProfileByUserID(ctx, userID); pErr == nil {
		if profile.Nickname != "" {
			comment.Username = profile.Nickname
		}
		comment.Avatar = profile.AvatarURL
	}

	// 4. 写评论并累加评论数
	err = s.txs.InTx(ctx, func(tx *gorm.DB) error {
		if repoErr := s.commentRepo.CreateComment(ctx, tx, comment); repoErr != nil {
			return fmt.Errorf("创建评论失败: %w", repoErr)
		}
		if repoErr := s.postRepo.IncrementCounter(ctx, tx, postID, "comment_count", 1); repoErr != nil {
			return fmt.Errorf("更新评论数失败: %w", repoErr)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("创建评论事务失败", zap.Error(err), zap.Uint64("postID", postID), zap.Uint64("userID", userID))
		return nil, myErrors.NewSystemError("发表评论失败", err)
	}
	return vo.NewCommentVO(comment), nil
}

func (s *commentService) ListComments(ctx context.Context, postID, viewerID uint64, page *dto.CursorPageRequest) (*vo.ListCommentsResponse, error) {
	if _, err := s.postRepo.GetPostByID(ctx, postID); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrPostNotFound
		}
		return nil, myErrors.NewSystemError("获取帖子失败", err)
	}

	comments, nextCursor, err := s.commentRepo.ListByPostCursor(ctx, postID, page.Cursor, page.Size())
	if err != nil {
		return nil, myErrors.NewSystemError("获取评论列表失败", err)
	}

	liked := map[uint64]bool{}
	if viewerID != 0 && len(comments) > 0 {
		ids := make([]uint64, len(comments))
		for i, c := range comments {
			ids[i] = c.ID
		}
		if m, lErr := s.likeRepo.LikedTargets(ctx, viewerID, enums.LikeTargetComment, ids); lErr == nil {
			liked = m
		} else {
			s.logger.Warn("查询评论点赞状态失败", zap.Error(lErr))
		}
	}
	return &vo.ListCommentsResponse{
		Comments:   vo.MapCommentsToVO(comments, liked),
		NextCursor: nextCursor,
	}, nil
}

func (s *commentService) DeleteComment(ctx context.Context, userID, commentID uint64) error {
	comment, err := s.commentRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return myErrors.ErrCommentNotFound
		}
		return myErrors.NewSystemError("获取评论失败", err)
	}

	if comment.UserID != userID {
		post, pErr := s.postRepo.GetPostByID(ctx, comment.PostID)
		if pErr != nil && !errors.Is(pErr, commonerrors.ErrRepoNotFound) {
			return myErrors.NewSystemError("获取帖子失败", pErr)
		}
		if post == nil || post.AuthorID != userID {
			return myErrors.ErrForbidden
		}
	}

	err = s.txs.InTx(ctx, func(tx *gorm.DB) error {
		deleted, repoErr := s.commentRepo.DeleteCommentTree(ctx, tx, commentID)
		if repoErr != nil {
			return fmt.Errorf("删除评论失败: %w", repoErr)
		}
		if deleted == 0 {
			return nil
		}
		if repoErr := s.postRepo.IncrementCounter(ctx, tx, comment.PostID, "comment_count", -deleted); repoErr != nil && !errors.Is(repoErr, commonerrors.ErrRepoNotFound) {
			return fmt.Errorf("更新评论数失败: %w", repoErr)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("删除评论事务失败", zap.Error(err), zap.Uint64("commentID", commentID))
		return myErrors.NewSystemError("删除评论失败", err)
	}
	return nil
}

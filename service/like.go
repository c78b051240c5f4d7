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

// LikeService 帖子与评论的点赞。点赞记录与目标计数在同一事务中维护。
type LikeService interface {
	Like(ctx context.Context, userID uint64, req *dto.LikeRequest) (*vo.LikeStatusVO, error)
	Unlike(ctx context.Context, userID uint64, req *dto.LikeRequest) (*vo.LikeStatusVO, error)
	Status(ctx context.Context, userID uint64, req *dto.LikeRequest) (*vo.LikeStatusVO, error)
}

type likeService struct {
	txs         mysql.TxRunner
	likeRepo    mysql.LikeRepository
	postRepo    mysql.PostRepository
	commentRepo mysql.CommentRepository
	logger      *core.ZapLogger
}

func NewLikeService(txs mysql.TxRunner, likeRepo mysql.LikeRepository, postRepo mysql.PostRepository, commentRepo mysql.CommentRepository, logger *core.ZapLogger) LikeService {
	return &likeService{
		txs:         txs,
		likeRepo:    likeRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		logger:      logger,
	}
}

// targetLikeCount 校验目标存在并返回其当前点赞数。
func (s *likeService) targetLikeCount(ctx context.Context, targetID uint64, targetType enums.LikeTargetType) (int64, error) {
	switch targetType {
	case enums.LikeTargetPost:
		post, err := s.postRepo.GetPostByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, commonerrors.ErrRepoNotFound) {
				return 0, myErrors.ErrPostNotFound
			}
			return 0, myErrors.NewSystemError("获取帖子失败", err)
		}
		if post.Status == enums.PostHidden {
			return 0, myErrors.ErrPostNotFound
		}
		return post.LikeCount, nil
	case enums.LikeTargetComment:
		comment, err := s.commentRepo.GetCommentByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, commonerrors.ErrRepoNotFound) {
				return 0, myErrors.ErrCommentNotFound
			}
			return 0, myErrors.NewSystemError("获取评论失败", err)
		}
		return comment.LikeCount, nil
	default:
		return 0, myErrors.ErrInvalidTarget
	}
}

func (s *likeService) adjustCounter(ctx context.Context, tx *gorm.DB, targetID uint64, targetType enums.LikeTargetType, delta int64) error {
	var err error
	if targetType == enums.LikeTargetPost {
		err = s.postRepo.IncrementCounter(ctx, tx, targetID, "like_count", delta)
	} else {
		err = s.commentRepo.IncrementLikeCount(ctx, tx, targetID, delta)
	}
	// 计数已经为 0 时 UPDATE 不改变任何行
	if errors.Is(err, commonerrors.ErrRepoNotFound) {
		return nil
	}
	return err
}

func (s *likeService) Like(ctx context.Context, userID uint64, req *dto.LikeRequest) (*vo.LikeStatusVO, error) {
	count, err := s.targetLikeCount(ctx, req.TargetID, req.TargetType)
	if err != nil {
		return nil, err
	}

	err = s.txs.InTx(ctx, func(tx *gorm.DB) error {
		like := &entities.Like{UserID: userID, TargetID: req.TargetID, TargetType: req.TargetType}
		if repoErr := s.likeRepo.CreateLike(ctx, tx, like); repoErr != nil {
			return repoErr
		}
		return s.adjustCounter(ctx, tx, req.TargetID, req.TargetType, 1)
	})
	if err != nil {
		if errors.Is(err, mysql.ErrDuplicateEntry) {
			return nil, myErrors.ErrAlreadyLiked
		}
		s.logger.Error("点赞事务失败", zap.Error(err), zap.Uint64("targetID", req.TargetID), zap.String("targetType", string(req.TargetType)))
		return nil, myErrors.NewSystemError("点赞失败", err)
	}
	return &vo.LikeStatusVO{TargetID: req.TargetID, TargetType: string(req.TargetType), Liked: true, LikeCount: count + 1}, nil
}

func (s *likeService) Unlike(ctx context.Context, userID uint64, req *dto.LikeRequest) (*vo.LikeStatusVO, error) {
	count, err := s.targetLikeCount(ctx, req.TargetID, req.TargetType)
	if err != nil {
		return nil, err
	}

	errNotLiked := errors.New("not liked")
	err = s.txs.InTx(ctx, func(tx *gorm.DB) error {
		deleted, repoErr := s.likeRepo.DeleteLike(ctx, tx, userID, req.TargetID, req.TargetType)
		if repoErr != nil {
			return fmt.Errorf("删除点赞记录失败: %w", repoErr)
		}
		if !deleted {
			return errNotLiked
		}
		return s.adjustCounter(ctx, tx, req.TargetID, req.TargetType, -1)
	})
	if err != nil {
		if errors.Is(err, errNotLiked) {
			return nil, myErrors.ErrNotLiked
		}
		s.logger.Error("取消点赞事务失败", zap.Error(err), zap.Uint64("targetID", req.TargetID))
		return nil, myErrors.NewSystemError("取消点赞失败", err)
	}
	if count > 0 {
		count--
	}
	return &vo.LikeStatusVO{TargetID: req.TargetID, TargetType: string(req.TargetType), Liked: false, LikeCount: count}, nil
}

func (s *likeService) Status(ctx context.Context, userID uint64, req *dto.LikeRequest) (*vo.LikeStatusVO, error) {
	count, err := s.targetLikeCount(ctx, req.TargetID, req.TargetType)
	if err != nil {
		return nil, err
	}
	result := &vo.LikeStatusVO{TargetID: req.TargetID, TargetType: string(req.TargetType), LikeCount: count}
	if userID == 0 {
		return result, nil
	}
	liked, err := s.likeRepo.LikedTargets(ctx, userID, req.TargetType, []uint64{req.TargetID})
	if err != nil {
		return nil, myErrors.NewSystemError("查询点赞状态失败", err)
	}
	result.Liked = liked[req.TargetID]
	return result, nil
}

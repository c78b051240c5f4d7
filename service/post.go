package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/social_service/background"
	"github.com/Xushengqwer/social_service/constant"
	"github.com/Xushengqwer/social_service/dependencies"
	"github.com/Xushengqwer/social_service/models/dto"
	"github.com/Xushengqwer/social_service/models/entities"
	"github.com/Xushengqwer/social_service/models/enums"
	"github.com/Xushengqwer/social_service/models/events"
	"github.com/Xushengqwer/social_service/models/vo"
	"github.com/Xushengqwer/social_service/myErrors"
	"github.com/Xushengqwer/social_service/repo/mysql"
	"github.com/Xushengqwer/social_service/repo/redis"
)

// PostEventPublisher 帖子事件发布，由 producer.KafkaProducer 实现。
type PostEventPublisher interface {
	SendPostCreatedEvent(ctx context.Context, post events.PostData) error
	SendPostUpdatedEvent(ctx context.Context, post events.PostData, previousTags []string) error
}

// PostService 定义了处理帖子核心业务逻辑的接口。
type PostService interface {
	// CreatePost 处理用户发布新帖子的业务流程。
	// - 先上传图片，再在一个事务中写入帖子、详情、图片记录并累加标签使用次数。
	// - 事务失败时删除已上传的对象。
	// - 成功后异步发送帖子创建事件。
	CreatePost(ctx context.Context, authorID uint64, req *dto.CreatePostRequest, imageFiles []*multipart.FileHeader) (*vo.PostDetailVO, error)

	// UpdatePost 作者修改标题、正文、地点或标签，标签计数随同一事务调整，成功后异步发送帖子更新事件。
	// 被隐藏的帖子作者仍可修改。
	UpdatePost(ctx context.Context, userID, postID uint64, req *dto.UpdatePostRequest) (*vo.PostDetailVO, error)

	// DeletePost 作者删除帖子。
	// - 在一个事务中软删除帖子、详情、图片、评论并清理点赞记录。
	// - 事务成功后移出 Redis 排行榜并异步删除对象存储中的图片。
	DeletePost(ctx context.Context, userID, postID uint64) error

	// GetPostDetailByPostID 获取单个帖子的详细信息。
	// - viewerID 为 0 表示未登录，此时不计浏览量。
	// - 被隐藏的帖子只有作者本人可见。
	GetPostDetailByPostID(ctx context.Context, postID uint64, viewerID uint64) (*vo.PostDetailVO, error)
}

// postService 是 PostService 接口的具体实现。
type postService struct {
	txs            mysql.TxRunner
	postRepo       mysql.PostRepository
	postDetailRepo mysql.PostDetailRepository
	postImageRepo  mysql.PostImageRepository
	commentRepo    mysql.CommentRepository
	likeRepo       mysql.LikeRepository
	userRepo       mysql.UserRepository
	tagRepo        mysql.TagRepository
	storage        dependencies.ObjectStorage
	uploadPolicy   UploadPolicy
	postViewRepo   redis.PostViewRepository
	hotPostCache   redis.HotPostCache
	publisher      PostEventPublisher
	tasks          background.Runner
	logger         *core.ZapLogger
}

// NewPostService 是 postService 的构造函数。publisher 可以为 nil，此时不发送事件。
func NewPostService(
	txs mysql.TxRunner,
	postRepo mysql.PostRepository,
	postDetailRepo mysql.PostDetailRepository,
	postImageRepo mysql.PostImageRepository,
	commentRepo mysql.CommentRepository,
	likeRepo mysql.LikeRepository,
	userRepo mysql.UserRepository,
	tagRepo mysql.TagRepository,
	storage dependencies.ObjectStorage,
	uploadPolicy UploadPolicy,
	postViewRepo redis.PostViewRepository,
	hotPostCache redis.HotPostCache,
	publisher PostEventPublisher,
	tasks background.Runner,
	logger *core.ZapLogger,
) PostService {
	return &postService{
		txs:            txs,
		postRepo:       postRepo,
		postDetailRepo: postDetailRepo,
		postImageRepo:  postImageRepo,
		commentRepo:    commentRepo,
		likeRepo:       likeRepo,
		userRepo:       userRepo,
		tagRepo:        tagRepo,
		storage:        storage,
		uploadPolicy:   uploadPolicy,
		postViewRepo:   postViewRepo,
		hotPostCache:   hotPostCache,
		publisher:      publisher,
		tasks:          tasks,
		logger:         logger,
	}
}

type uploadedImage struct {
	ImageURL     string
	ObjectKey    string
	DisplayOrder int
}

// CreatePost 处理用户创建新帖子的请求，包括图片上传和数据库操作。
func (s *postService) CreatePost(ctx context.Context, authorID uint64, req *dto.CreatePostRequest, imageFiles []*multipart.FileHeader) (*vo.PostDetailVO, error) {
	// 1. 作者快照
	author, err := s.userRepo.GetUserByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrUserNotFound
		}
		return nil, myErrors.NewSystemError("获取作者信息失败", err)
	}
	var avatar string
	if profile, pErr := s.userRepo.GetProfileByUserID(ctx, authorID); pErr == nil {
		avatar = profile.AvatarURL
	}

	// 2. 校验并上传图片
	for _, fh := range imageFiles {
		if _, err := s.uploadPolicy.Check(fh); err != nil {
			return nil, err
		}
	}
	uploaded := make([]uploadedImage, 0, len(imageFiles))
	for i, fh := range imageFiles {
		img, upErr := s.uploadImage(ctx, authorID, fh, i)
		if upErr != nil {
			s.cleanupObjects(uploaded)
			return nil, upErr
		}
		uploaded = append(uploaded, img)
	}

	// 3. 事务写库
	tags := NormalizeTags(req.Tags)
	post := &entities.Post{
		Title:          req.Title,
		AuthorID:       authorID,
		AuthorAvatar:   avatar,
		AuthorUsername: author.Username,
		Status:         enums.PostPublished,
		Tags:           tags,
	}
	detail := &entities.PostDetail{Content: req.Content, Location: req.Location}
	images := make([]*entities.PostImage, 0, len(uploaded))

	err = s.txs.InTx(ctx, func(tx *gorm.DB) error {
		if repoErr := s.postRepo.CreatePost(ctx, tx, post); repoErr != nil {
			return fmt.Errorf("创建帖子失败: %w", repoErr)
		}
		detail.PostID = post.ID
		if repoErr := s.postDetailRepo.CreatePostDetail(ctx, tx, detail); repoErr != nil {
			return fmt.Errorf("创建帖子详情失败: %w", repoErr)
		}
		for _, img := range uploaded {
			images = append(images, &entities.PostImage{
				PostID:       post.ID,
				ImageURL:     img.ImageURL,
				ObjectKey:    img.ObjectKey,
				DisplayOrder: img.DisplayOrder,
			})
		}
		if len(images) > 0 {
			if repoErr := s.postImageRepo.BatchCreatePostImages(ctx, tx, images); repoErr != nil {
				return fmt.Errorf("创建帖子图片失败: %w", repoErr)
			}
		}
		if repoErr := s.tagRepo.AdjustUseCounts(ctx, tx, tags, nil); repoErr != nil {
			return fmt.Errorf("更新标签计数失败: %w", repoErr)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("创建帖子事务失败", zap.Error(err), zap.Uint64("authorID", authorID))
		s.cleanupObjects(uploaded)
		return nil, myErrors.NewSystemError("创建帖子失败", err)
	}

	// 4. 异步发送事件
	s.publishAsync(func(ctx context.Context) error {
		return s.publisher.SendPostCreatedEvent(ctx, toPostData(post))
	}, post.ID, "创建")

	s.logger.Info("帖子创建成功", zap.Uint64("postID", post.ID), zap.Uint64("authorID", authorID), zap.Int("images", len(images)))
	return vo.NewPostDetailVO(post, detail, images), nil
}

func (s *postService) uploadImage(ctx context.Context, authorID uint64, fh *multipart.FileHeader, order int) (uploadedImage, error) {
	contentType, _ := s.uploadPolicy.Check(fh)
	file, err := fh.Open()
	if err != nil {
		s.logger.Error("打开图片文件以上传失败", zap.String("filename", fh.Filename), zap.Error(err))
		return uploadedImage{}, myErrors.NewValidationError("images", fmt.Sprintf("无法读取图片 %s", fh.Filename))
	}
	defer file.Close()

	objectKey := BuildObjectKey(constant.ObjectKeyPrefixPostImages, authorID, fh.Filename, time.Now())
	url, err := s.storage.UploadFile(ctx, objectKey, file, fh.Size, contentType)
	if err != nil {
		s.logger.Error("上传帖子图片失败", zap.String("filename", fh.Filename), zap.String("objectKey", objectKey), zap.Error(err))
		return uploadedImage{}, myErrors.NewSystemError("上传图片失败", err)
	}
	return uploadedImage{ImageURL: url, ObjectKey: objectKey, DisplayOrder: order}, nil
}

// cleanupObjects 删除已上传但未落库的对象，失败只记日志。
func (s *postService) cleanupObjects(images []uploadedImage) {
	for _, img := range images {
		s.logger.Warn("清理孤立的图片对象", zap.String("objectKey", img.ObjectKey))
		if err := s.storage.DeleteObject(context.Background(), img.ObjectKey); err != nil {
			s.logger.Error("清理孤立的图片对象失败", zap.String("objectKey", img.ObjectKey), zap.Error(err))
		}
	}
}

func (s *postService) UpdatePost(ctx context.Context, userID, postID uint64, req *dto.UpdatePostRequest) (*vo.PostDetailVO, error) {
	post, err := s.loadOwnedPost(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	previousTags := post.Tags

	var tags, added, removed []string
	if req.Tags != nil {
		tags = NormalizeTags(req.Tags)
		added, removed = diffTags(previousTags, tags)
	}

	err = s.txs.InTx(ctx, func(tx *gorm.DB) error {
		if req.Title != nil || req.Tags != nil {
			if repoErr := s.postRepo.UpdatePost(ctx, tx, postID, req.Title, tags); repoErr != nil {
				return fmt.Errorf("更新帖子失败: %w", repoErr)
			}
		}
		if repoErr := s.tagRepo.AdjustUseCounts(ctx, tx, added, removed); repoErr != nil {
			return fmt.Errorf("更新标签计数失败: %w", repoErr)
		}
		if req.Content != nil || req.Location != nil {
			if repoErr := s.postDetailRepo.UpdatePostDetail(ctx, tx, postID, req.Content, req.Location); repoErr != nil {
				return fmt.Errorf("更新帖子详情失败: %w", repoErr)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("更新帖子事务失败", zap.Error(err), zap.Uint64("postID", postID))
		return nil, myErrors.NewSystemError("更新帖子失败", err)
	}

	if cacheErr := s.hotPostCache.Invalidate(ctx, postID); cacheErr != nil {
		s.logger.Warn("清理热帖缓存失败", zap.Uint64("postID", postID), zap.Error(cacheErr))
	}

	// 以作者身份重新读取，隐藏中的帖子同样可以返回
	updated, err := s.GetPostDetailByPostID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	// 异步发送更新事件，携带更新前的标签
	data := events.PostData{
		ID:             updated.ID,
		Title:          updated.Title,
		AuthorID:       updated.AuthorID,
		AuthorUsername: updated.AuthorUsername,
		Tags:           updated.Tags,
		CreatedAt:      updated.CreatedAt,
	}
	s.publishAsync(func(ctx context.Context) error {
		return s.publisher.SendPostUpdatedEvent(ctx, data, previousTags)
	}, postID, "更新")

	return updated, nil
}

// DeletePost 实现帖子的软删除逻辑。
func (s *postService) DeletePost(ctx context.Context, userID, postID uint64) error {
	if _, err := s.loadOwnedPost(ctx, userID, postID); err != nil {
		return err
	}

	var objectKeys []string
	err := s.txs.InTx(ctx, func(tx *gorm.DB) error {
		keys, repoErr := s.postImageRepo.DeleteImagesByPostID(ctx, tx, postID)
		if repoErr != nil {
			return fmt.Errorf("软删除帖子图片失败: %w", repoErr)
		}
		objectKeys = keys

		if repoErr := s.postDetailRepo.DeletePostDetailByPostID(ctx, tx, postID); repoErr != nil && !errors.Is(repoErr, commonerrors.ErrRepoNotFound) {
			return fmt.Errorf("软删除帖子详情失败: %w", repoErr)
		}
		if repoErr := s.commentRepo.DeleteByPostID(ctx, tx, postID); repoErr != nil {
			return fmt.Errorf("删除帖子评论失败: %w", repoErr)
		}
		if repoErr := s.likeRepo.DeleteByTargets(ctx, tx, enums.LikeTargetPost, []uint64{postID}); repoErr != nil {
			return fmt.Errorf("删除帖子点赞失败: %w", repoErr)
		}
		if repoErr := s.postRepo.DeletePost(ctx, tx, postID); repoErr != nil {
			return fmt.Errorf("软删除帖子主记录失败: %w", repoErr)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("删除帖子事务失败", zap.Error(err), zap.Uint64("postID", postID))
		return myErrors.NewSystemError("删除帖子失败", err)
	}

	// 事务成功后清理排行榜与缓存
	if redisErr := s.postViewRepo.RemovePost(ctx, postID); redisErr != nil {
		s.logger.Warn("从排行榜移除帖子失败", zap.Uint64("postID", postID), zap.Error(redisErr))
	}
	if cacheErr := s.hotPostCache.Invalidate(ctx, postID); cacheErr != nil {
		s.logger.Warn("清理热帖缓存失败", zap.Uint64("postID", postID), zap.Error(cacheErr))
	}

	if len(objectKeys) > 0 {
		s.tasks.Go("deletePostImages", objectCleanupTimeout, func(ctx context.Context) error {
			var errs []error
			for _, key := range objectKeys {
				if delErr := s.storage.DeleteObject(ctx, key); delErr != nil {
					errs = append(errs, fmt.Errorf("删除帖子图片对象 %s: %w", key, delErr))
				}
			}
			return errors.Join(errs...)
		})
	}

	s.logger.Info("帖子及其关联数据（软）删除完成", zap.Uint64("postID", postID))
	return nil
}

// GetPostDetailByPostID 实现获取帖子详情的逻辑。
func (s *postService) GetPostDetailByPostID(ctx context.Context, postID uint64, viewerID uint64) (*vo.PostDetailVO, error) {
	// 1. 帖子主记录
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrPostNotFound
		}
		return nil, myErrors.NewSystemError("获取帖子失败", err)
	}
	if post.Status == enums.PostHidden && post.AuthorID != viewerID {
		return nil, myErrors.ErrPostNotFound
	}

	// 2. 详情与图片
	detail, err := s.postDetailRepo.GetPostDetailByPostID(ctx, postID)
	if err != nil && !errors.Is(err, commonerrors.ErrRepoNotFound) {
		return nil, myErrors.NewSystemError("获取帖子详情失败", err)
	}
	images, err := s.postImageRepo.GetImagesByPostID(ctx, postID)
	if err != nil {
		return nil, myErrors.NewSystemError("获取帖子图片失败", err)
	}

	result := vo.NewPostDetailVO(post, detail, images)

	// 3. 登录用户: 点赞状态 + 异步浏览计数，作者查看隐藏中的帖子不计数
	if viewerID != 0 {
		liked, likeErr := s.likeRepo.LikedTargets(ctx, viewerID, enums.LikeTargetPost, []uint64{postID})
		if likeErr != nil {
			s.logger.Warn("查询点赞状态失败", zap.Uint64("postID", postID), zap.Error(likeErr))
		} else {
			result.Liked = liked[postID]
		}
		if post.Status == enums.PostPublished {
			s.incrementViewAsync(postID, viewerID)
		}
	}
	return result, nil
}

// incrementViewAsync 浏览量计数不阻塞请求，使用独立的短超时上下文。
func (s *postService) incrementViewAsync(postID, viewerID uint64) {
	uID := strconv.FormatUint(viewerID, 10)
	s.tasks.Go("incrementView", viewCountTimeout, func(ctx context.Context) error {
		counted, err := s.postViewRepo.IncrementViewCount(ctx, postID, uID)
		if err != nil {
			return fmt.Errorf("帖子 %d 浏览计数: %w", postID, err)
		}
		if !counted {
			s.logger.Debug("去重窗口内的重复浏览", zap.Uint64("postID", postID), zap.String("userID", uID))
		}
		return nil
	})
}

func (s *postService) loadOwnedPost(ctx context.Context, userID, postID uint64) (*entities.Post, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrPostNotFound
		}
		return nil, myErrors.NewSystemError("获取帖子失败", err)
	}
	if post.AuthorID != userID {
		return nil, myErrors.ErrForbidden
	}
	return post, nil
}

func (s *postService) publishAsync(send func(ctx context.Context) error, postID uint64, action string) {
	if s.publisher == nil {
		return
	}
	s.tasks.Go("postEvent:"+action, eventPublishTimeout, func(ctx context.Context) error {
		if err := send(ctx); err != nil {
			return fmt.Errorf("发送帖子 %d 的%s事件: %w", postID, action, err)
		}
		return nil
	})
}

// diffTags 返回 cur 相对 prev 新增和移除的标签，结果去重并保持输入顺序。
func diffTags(prev, cur []string) (added, removed []string) {
	prevSet := make(map[string]struct{}, len(prev))
	for _, t := range prev {
		prevSet[t] = struct{}{}
	}
	curSet := make(map[string]struct{}, len(cur))
	for _, t := range cur {
		if t == "" {
			continue
		}
		if _, seen := curSet[t]; seen {
			continue
		}
		curSet[t] = struct{}{}
		if _, ok := prevSet[t]; !ok {
			added = append(added, t)
		}
	}
	seenRemoved := make(map[string]struct{})
	for _, t := range prev {
		if t == "" {
			continue
		}
		if _, ok := curSet[t]; ok {
			continue
		}
		if _, dup := seenRemoved[t]; dup {
			continue
		}
		seenRemoved[t] = struct{}{}
		removed = append(removed, t)
	}
	return added, removed
}

func toPostData(post *entities.Post) events.PostData {
	return events.PostData{
		ID:             post.ID,
		Title:          post.Title,
		AuthorID:       post.AuthorID,
		AuthorUsername: post.AuthorUsername,
		Tags:           post.Tags,
		CreatedAt:      post.CreatedAt,
	}
}

// NormalizeTags 去掉首尾空白和 '#'，丢弃空标签，按首次出现顺序去重。
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(t), "#"))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

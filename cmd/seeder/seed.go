package main

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/models/dto"
	"github.com/Xushengqwer/social_service/models/enums"
	"github.com/Xushengqwer/social_service/service"
)

// 并发创建帖子时的最大 goroutine 数
const concurrencyLimit = 10

// 种子数据统一使用的密码，便于本地登录调试
const seedPassword = "seed-pass-123"

var travelTags = []string{"自驾", "徒步", "美食", "海岛", "古镇", "露营", "摄影", "亲子", "雪山", "城市漫步"}

type Services struct {
	Auth    service.AuthService
	Post    service.PostService
	Comment service.CommentService
	Like    service.LikeService
	Follow  service.FollowService
	HotNews service.HotNewsService
}

type SeedOptions struct {
	Users           int
	Posts           int
	CommentsPerPost int
	HotNews         int
}

type SeedReport struct {
	Users    int64 `json:"users"`
	Follows  int64 `json:"follows"`
	Posts    int64 `json:"posts"`
	Comments int64 `json:"comments"`
	Likes    int64 `json:"likes"`
	HotNews  int64 `json:"hot_news"`
}

// Seed 全部通过服务层写入，保证计数、排行榜与事件和线上路径一致。
func Seed(ctx context.Context, svcs Services, logger *zap.Logger, opts SeedOptions) *SeedReport {
	report := &SeedReport{}

	userIDs := seedUsers(ctx, svcs.Auth, logger, opts.Users)
	report.Users = int64(len(userIDs))
	if len(userIDs) == 0 {
		logger.Warn("没有成功注册的用户，跳过后续数据")
		return report
	}

	report.Follows = seedFollows(ctx, svcs.Follow, logger, userIDs)

	postIDs := seedPosts(ctx, svcs.Post, logger, userIDs, opts.Posts)
	report.Posts = int64(len(postIDs))

	for _, postID := range postIDs {
		n := gofakeit.Number(0, opts.CommentsPerPost)
		for i := 0; i < n; i++ {
			commenter := userIDs[gofakeit.Number(0, len(userIDs)-1)]
			if _, err := svcs.Comment.CreateComment(ctx, commenter, postID, &dto.CreateCommentRequest{
				Content: gofakeit.Sentence(gofakeit.Number(3, 20)),
			}); err != nil {
				logger.Warn("创建评论失败", zap.Uint64("postID", postID), zap.Error(err))
				continue
			}
			report.Comments++
		}

		liker := userIDs[gofakeit.Number(0, len(userIDs)-1)]
		if _, err := svcs.Like.Like(ctx, liker, &dto.LikeRequest{TargetID: postID, TargetType: enums.LikeTargetPost}); err == nil {
			report.Likes++
		}
	}

	for i := 0; i < opts.HotNews; i++ {
		if _, err := svcs.HotNews.Create(ctx, &dto.CreateHotNewsRequest{
			Title:       gofakeit.Sentence(gofakeit.Number(4, 10)),
			Source:      gofakeit.Company(),
			URL:         gofakeit.URL(),
			Category:    gofakeit.RandomString([]string{"旅游", "交通", "天气", "活动"}),
			HotValue:    int64(gofakeit.Number(100, 100000)),
			Rank:        i + 1,
			PublishedAt: gofakeit.DateRange(time.Now().AddDate(0, 0, -7), time.Now()),
			Content:     gofakeit.Paragraph(2, 4, 15, "\n\n"),
		}); err != nil {
			logger.Warn("创建热点资讯失败", zap.Error(err))
			continue
		}
		report.HotNews++
	}
	return report
}

func seedUsers(ctx context.Context, auth service.AuthService, logger *zap.Logger, n int) []uint64 {
	ids := make([]uint64, 0, n)
	for i := 0; i < n; i++ {
		// 用户名要求字母数字，追加序号避免重名
		username := fmt.Sprintf("%s%d", gofakeit.LetterN(8), i)
		profile, err := auth.Register(ctx, &dto.RegisterRequest{
			Username: username,
			Password: seedPassword,
			Email:    gofakeit.Email(),
			Nickname: gofakeit.Name(),
		})
		if err != nil {
			logger.Warn("注册用户失败", zap.String("username", username), zap.Error(err))
			continue
		}
		ids = append(ids, profile.UserID)
	}
	logger.Info("用户注册完成", zap.Int("count", len(ids)))
	return ids
}

func seedFollows(ctx context.Context, follow service.FollowService, logger *zap.Logger, userIDs []uint64) int64 {
	var count int64
	for _, follower := range userIDs {
		followee := userIDs[gofakeit.Number(0, len(userIDs)-1)]
		if followee == follower {
			continue
		}
		if _, err := follow.Follow(ctx, follower, followee); err != nil {
			logger.Warn("创建关注关系失败", zap.Uint64("follower", follower), zap.Uint64("followee", followee), zap.Error(err))
			continue
		}
		count++
	}
	return count
}

func seedPosts(ctx context.Context, posts service.PostService, logger *zap.Logger, userIDs []uint64, n int) []uint64 {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		failed  atomic.Int64
		postIDs = make([]uint64, 0, n)
	)
	semaphore := make(chan struct{}, concurrencyLimit)

	for i := 0; i < n; i++ {
		wg.Add(1)
		semaphore <- struct{}{}
		authorID := userIDs[i%len(userIDs)]

		go func(itemIndex int) {
			defer wg.Done()
			defer func() { <-semaphore }()

			req := &dto.CreatePostRequest{
				Title:    gofakeit.Sentence(gofakeit.Number(3, 10)),
				Content:  gofakeit.Paragraph(3, 5, 20, "\n\n"),
				Location: gofakeit.City(),
				Tags:     pickTags(gofakeit.Number(1, 3)),
			}
			resp, err := posts.CreatePost(ctx, authorID, req, nil)
			if err != nil {
				failed.Add(1)
				logger.Error(fmt.Sprintf("创建帖子 %d/%d 失败", itemIndex+1, n), zap.Error(err), zap.Uint64("author_id", authorID))
				return
			}
			mu.Lock()
			postIDs = append(postIDs, resp.ID)
			mu.Unlock()
		}(i)
	}

	wg.Wait()
	logger.Info("帖子填充完毕", zap.Int("created", len(postIDs)), zap.Int64("failed", failed.Load()))
	return postIDs
}

func pickTags(n int) []string {
	tags := append([]string(nil), travelTags...)
	gofakeit.ShuffleStrings(tags)
	if n > len(tags) {
		n = len(tags)
	}
	return tags[:n]
}

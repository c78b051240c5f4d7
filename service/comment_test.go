package service

import (
	"context"
	"testing"

	commonentities "github.com/Xushengqwer/go-common/models/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/social_service/models/dto"
	"github.com/Xushengqwer/social_service/models/entities"
	"github.com/Xushengqwer/social_service/models/enums"
	"github.com/Xushengqwer/social_service/myErrors"
)

const (
	postAuthorID uint64 = 1
	commenterID  uint64 = 2
	strangerID   uint64 = 3
)

func testUsers() *memUserRepo {
	return &memUserRepo{users: map[uint64]*entities.User{
		postAuthorID: {BaseModel: commonentities.BaseModel{ID: postAuthorID}, Username: "author"},
		commenterID:  {BaseModel: commonentities.BaseModel{ID: commenterID}, Username: "commenter"},
		strangerID:   {BaseModel: commonentities.BaseModel{ID: strangerID}, Username: "stranger"},
	}}
}

func testPost(id uint64, status enums.PostStatus) *entities.Post {
	return &entities.Post{
		BaseModel:      commonentities.BaseModel{ID: id},
		Title:          "京都三日游",
		AuthorID:       postAuthorID,
		AuthorUsername: "author",
		Status:         status,
	}
}

func newTestCommentService(t *testing.T, posts *memPostRepo, comments *memCommentRepo) CommentService {
	t.Helper()
	return NewCommentService(&fakeTxRunner{}, comments, posts, testUsers(), newMemLikeRepo(), newTestLogger(t))
}

func TestCommentServiceParentValidation(t *testing.T) {
	posts := newMemPostRepo(testPost(10, enums.PostPublished), testPost(11, enums.PostPublished), testPost(12, enums.PostHidden))
	comments := newMemCommentRepo(&entities.Comment{BaseModel: commonentities.BaseModel{ID: 500}, PostID: 11, UserID: commenterID})
	s := newTestCommentService(t, posts, comments)
	ctx := context.Background()

	// 父评论属于另一篇帖子
	_, err := s.CreateComment(ctx, commenterID, 10, &dto.CreateCommentRequest{Content: "同问", ParentID: 500})
	assert.ErrorIs(t, err, myErrors.ErrParentMismatch)

	_, err = s.CreateComment(ctx, commenterID, 10, &dto.CreateCommentRequest{Content: "同问", ParentID: 999})
	assert.ErrorIs(t, err, myErrors.ErrCommentNotFound)

	_, err = s.CreateComment(ctx, commenterID, 12, &dto.CreateCommentRequest{Content: "隐藏帖"})
	assert.ErrorIs(t, err, myErrors.ErrPostNotFound)

	_, err = s.CreateComment(ctx, commenterID, 404, &dto.CreateCommentRequest{Content: "不存在"})
	assert.ErrorIs(t, err, myErrors.ErrPostNotFound)

	// 校验失败不改变评论数
	assert.Zero(t, posts.posts[10].CommentCount)
	assert.Len(t, comments.comments, 1)
}

func TestCommentServiceCountFollowsTree(t *testing.T) {
	posts := newMemPostRepo(testPost(10, enums.PostPublished))
	comments := newMemCommentRepo()
	s := newTestCommentService(t, posts, comments)
	ctx := context.Background()

	root, err := s.CreateComment(ctx, commenterID, 10, &dto.CreateCommentRequest{Content: "好攻略"})
	require.NoError(t, err)
	reply, err := s.CreateComment(ctx, postAuthorID, 10, &dto.CreateCommentRequest{Content: "谢谢", ParentID: root.ID})
	require.NoError(t, err)
	_, err = s.CreateComment(ctx, commenterID, 10, &dto.CreateCommentRequest{Content: "不客气", ParentID: reply.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 3, posts.posts[10].CommentCount)

	// 陌生人既不是评论作者也不是帖子作者
	err = s.DeleteComment(ctx, strangerID, root.ID)
	assert.ErrorIs(t, err, myErrors.ErrForbidden)
	assert.EqualValues(t, 3, posts.posts[10].CommentCount)

	// 帖子作者删除一级评论，所有层级的回复一并删除
	require.NoError(t, s.DeleteComment(ctx, postAuthorID, root.ID))
	assert.Zero(t, posts.posts[10].CommentCount)
	assert.Empty(t, comments.comments)

	err = s.DeleteComment(ctx, commenterID, root.ID)
	assert.ErrorIs(t, err, myErrors.ErrCommentNotFound)
}

func TestCommentServiceAuthorDeletesOwnReply(t *testing.T) {
	posts := newMemPostRepo(testPost(10, enums.PostPublished))
	comments := newMemCommentRepo()
	s := newTestCommentService(t, posts, comments)
	ctx := context.Background()

	root, err := s.CreateComment(ctx, postAuthorID, 10, &dto.CreateCommentRequest{Content: "补充一下交通"})
	require.NoError(t, err)
	reply, err := s.CreateComment(ctx, commenterID, 10, &dto.CreateCommentRequest{Content: "地铁还是公交", ParentID: root.ID})
	require.NoError(t, err)

	require.NoError(t, s.DeleteComment(ctx, commenterID, reply.ID))
	assert.EqualValues(t, 1, posts.posts[10].CommentCount)
	assert.Contains(t, comments.comments, root.ID)
}

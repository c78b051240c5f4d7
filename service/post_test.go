package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/background"
	"github.com/Xushengqwer/social_service/models/dto"
	"github.com/Xushengqwer/social_service/models/entities"
	"github.com/Xushengqwer/social_service/models/enums"
	"github.com/Xushengqwer/social_service/myErrors"
)

type postFixture struct {
	service   PostService
	posts     *memPostRepo
	details   *memPostDetailRepo
	tags      *recordingTagRepo
	views     *recordingViewRepo
	cache     *recordingHotPostCache
	publisher *recordingPostPublisher
	tasks     *background.Tracker
}

func newPostFixture(t *testing.T, posts ...*entities.Post) *postFixture {
	t.Helper()
	f := &postFixture{
		posts:     newMemPostRepo(posts...),
		details:   &memPostDetailRepo{details: map[uint64]*entities.PostDetail{}},
		tags:      &recordingTagRepo{},
		views:     &recordingViewRepo{},
		cache:     &recordingHotPostCache{},
		publisher: &recordingPostPublisher{},
		tasks:     background.NewTracker(zap.NewNop()),
	}
	for _, p := range posts {
		f.details.details[p.ID] = &entities.PostDetail{PostID: p.ID, Content: "原正文"}
	}
	f.service = NewPostService(
		&fakeTxRunner{}, f.posts, f.details, memPostImageRepo{}, newMemCommentRepo(), newMemLikeRepo(),
		testUsers(), f.tags, nil, UploadPolicy{}, f.views, f.cache, f.publisher, f.tasks, newTestLogger(t),
	)
	return f
}

// flush 等待异步任务结束，之后不能再提交任务。
func (f *postFixture) flush(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, f.tasks.Shutdown(ctx))
}

func ptr[T any](v T) *T { return &v }

func TestPostServiceCreateCountsTags(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()

	post, err := f.service.CreatePost(ctx, postAuthorID, &dto.CreatePostRequest{
		Title:   "大理七日",
		Content: "洱海骑行",
		Tags:    []string{"#云南", "大理", "云南"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"云南", "大理"}, post.Tags)
	assert.Equal(t, "author", post.AuthorUsername)

	require.Len(t, f.tags.calls, 1)
	assert.Equal(t, []string{"云南", "大理"}, f.tags.calls[0].added)
	assert.Empty(t, f.tags.calls[0].removed)

	f.flush(t)
	require.Len(t, f.publisher.created, 1)
	assert.Equal(t, post.ID, f.publisher.created[0].ID)
}

func TestPostServiceCreateFailsWhenTagCountFails(t *testing.T) {
	f := newPostFixture(t)
	f.tags.err = errInjected

	_, err := f.service.CreatePost(context.Background(), postAuthorID, &dto.CreatePostRequest{Title: "t", Content: "c", Tags: []string{"a"}}, nil)
	var sysErr *myErrors.SystemError
	require.ErrorAs(t, err, &sysErr)

	f.flush(t)
	assert.Empty(t, f.publisher.created)
}

func TestPostServiceUpdateHiddenPost(t *testing.T) {
	hidden := testPost(20, enums.PostHidden)
	hidden.Tags = []string{"京都", "美食"}
	f := newPostFixture(t, hidden)
	ctx := context.Background()

	updated, err := f.service.UpdatePost(ctx, postAuthorID, 20, &dto.UpdatePostRequest{
		Title:   ptr("京都美食地图"),
		Content: ptr("新正文"),
		Tags:    []string{"京都", "甜品"},
	})
	require.NoError(t, err)
	assert.Equal(t, "京都美食地图", updated.Title)
	assert.Equal(t, "新正文", updated.Content)
	assert.Equal(t, enums.PostHidden, updated.Status)

	require.Len(t, f.tags.calls, 1)
	assert.Equal(t, []string{"甜品"}, f.tags.calls[0].added)
	assert.Equal(t, []string{"美食"}, f.tags.calls[0].removed)
	assert.Equal(t, []uint64{20}, f.cache.invalidated)

	f.flush(t)
	require.Len(t, f.publisher.updated, 1)
	assert.Equal(t, []string{"京都", "甜品"}, f.publisher.updated[0].post.Tags)
	assert.Equal(t, []string{"京都", "美食"}, f.publisher.updated[0].previousTags)
	// 作者重新读取隐藏帖不计浏览
	assert.Empty(t, f.views.viewedPosts())
}

func TestPostServiceUpdateRequiresAuthor(t *testing.T) {
	f := newPostFixture(t, testPost(20, enums.PostPublished))

	_, err := f.service.UpdatePost(context.Background(), strangerID, 20, &dto.UpdatePostRequest{Title: ptr("x")})
	assert.ErrorIs(t, err, myErrors.ErrForbidden)
	_, err = f.service.UpdatePost(context.Background(), postAuthorID, 404, &dto.UpdatePostRequest{Title: ptr("x")})
	assert.ErrorIs(t, err, myErrors.ErrPostNotFound)
	assert.Empty(t, f.tags.calls)
}

func TestPostServiceUpdateWithoutTagsKeepsCounts(t *testing.T) {
	post := testPost(20, enums.PostPublished)
	post.Tags = []string{"京都"}
	f := newPostFixture(t, post)

	updated, err := f.service.UpdatePost(context.Background(), postAuthorID, 20, &dto.UpdatePostRequest{Location: ptr("京都府")})
	require.NoError(t, err)
	assert.Equal(t, "京都府", updated.Location)
	assert.Equal(t, []string{"京都"}, updated.Tags)
	assert.Empty(t, f.tags.calls)
}

func TestPostServiceHiddenVisibility(t *testing.T) {
	f := newPostFixture(t, testPost(20, enums.PostHidden), testPost(21, enums.PostPublished))
	ctx := context.Background()

	_, err := f.service.GetPostDetailByPostID(ctx, 20, strangerID)
	assert.ErrorIs(t, err, myErrors.ErrPostNotFound)
	_, err = f.service.GetPostDetailByPostID(ctx, 20, 0)
	assert.ErrorIs(t, err, myErrors.ErrPostNotFound)

	own, err := f.service.GetPostDetailByPostID(ctx, 20, postAuthorID)
	require.NoError(t, err)
	assert.Equal(t, "原正文", own.Content)

	_, err = f.service.GetPostDetailByPostID(ctx, 21, strangerID)
	require.NoError(t, err)
	// 未登录不计数
	_, err = f.service.GetPostDetailByPostID(ctx, 21, 0)
	require.NoError(t, err)

	f.flush(t)
	assert.Equal(t, []uint64{21}, f.views.viewedPosts())
}

func TestDiffTags(t *testing.T) {
	tests := []struct {
		name          string
		prev, cur     []string
		added, remove []string
	}{
		{"新建", nil, []string{"a", "b"}, []string{"a", "b"}, nil},
		{"清空", []string{"a", "b"}, []string{}, nil, []string{"a", "b"}},
		{"部分替换", []string{"a", "b"}, []string{"b", "c"}, []string{"c"}, []string{"a"}},
		{"重复与空值", []string{"a", "a", ""}, []string{"c", "c", ""}, []string{"c"}, []string{"a"}},
		{"未变化", []string{"a"}, []string{"a"}, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			added, removed := diffTags(tt.prev, tt.cur)
			assert.Equal(t, tt.added, added)
			assert.Equal(t, tt.remove, removed)
		})
	}
}

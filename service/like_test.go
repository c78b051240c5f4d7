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

func TestLikeServicePostLifecycle(t *testing.T) {
	posts := newMemPostRepo(testPost(10, enums.PostPublished))
	likes := newMemLikeRepo()
	s := NewLikeService(&fakeTxRunner{}, likes, posts, newMemCommentRepo(), newTestLogger(t))
	ctx := context.Background()
	req := &dto.LikeRequest{TargetID: 10, TargetType: enums.LikeTargetPost}

	status, err := s.Like(ctx, commenterID, req)
	require.NoError(t, err)
	assert.True(t, status.Liked)
	assert.EqualValues(t, 1, status.LikeCount)

	_, err = s.Like(ctx, commenterID, req)
	assert.ErrorIs(t, err, myErrors.ErrAlreadyLiked)
	assert.EqualValues(t, 1, posts.posts[10].LikeCount)

	status, err = s.Status(ctx, commenterID, req)
	require.NoError(t, err)
	assert.True(t, status.Liked)
	status, err = s.Status(ctx, 0, req)
	require.NoError(t, err)
	assert.False(t, status.Liked)
	assert.EqualValues(t, 1, status.LikeCount)

	status, err = s.Unlike(ctx, commenterID, req)
	require.NoError(t, err)
	assert.False(t, status.Liked)
	assert.Zero(t, status.LikeCount)

	_, err = s.Unlike(ctx, commenterID, req)
	assert.ErrorIs(t, err, myErrors.ErrNotLiked)
	assert.Zero(t, posts.posts[10].LikeCount)
}

func TestLikeServiceComment(t *testing.T) {
	comments := newMemCommentRepo(&entities.Comment{BaseModel: commonentities.BaseModel{ID: 500}, PostID: 10, UserID: postAuthorID})
	s := NewLikeService(&fakeTxRunner{}, newMemLikeRepo(), newMemPostRepo(), comments, newTestLogger(t))
	ctx := context.Background()
	req := &dto.LikeRequest{TargetID: 500, TargetType: enums.LikeTargetComment}

	_, err := s.Like(ctx, commenterID, req)
	require.NoError(t, err)
	_, err = s.Like(ctx, strangerID, req)
	require.NoError(t, err)
	_, err = s.Like(ctx, strangerID, req)
	assert.ErrorIs(t, err, myErrors.ErrAlreadyLiked)
	assert.EqualValues(t, 2, comments.comments[500].LikeCount)

	_, err = s.Unlike(ctx, commenterID, req)
	require.NoError(t, err)
	assert.EqualValues(t, 1, comments.comments[500].LikeCount)

	_, err = s.Like(ctx, commenterID, &dto.LikeRequest{TargetID: 501, TargetType: enums.LikeTargetComment})
	assert.ErrorIs(t, err, myErrors.ErrCommentNotFound)
}

func TestLikeServiceRejectsInvalidTargets(t *testing.T) {
	posts := newMemPostRepo(testPost(12, enums.PostHidden))
	s := NewLikeService(&fakeTxRunner{}, newMemLikeRepo(), posts, newMemCommentRepo(), newTestLogger(t))
	ctx := context.Background()

	_, err := s.Like(ctx, commenterID, &dto.LikeRequest{TargetID: 12, TargetType: "story"})
	assert.ErrorIs(t, err, myErrors.ErrInvalidTarget)

	_, err = s.Like(ctx, commenterID, &dto.LikeRequest{TargetID: 12, TargetType: enums.LikeTargetPost})
	assert.ErrorIs(t, err, myErrors.ErrPostNotFound)
	assert.Zero(t, posts.posts[12].LikeCount)
}

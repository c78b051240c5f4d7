package service

import (
	"context"
	"testing"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/social_service/models/dto"
	"github.com/Xushengqwer/social_service/models/enums"
	"github.com/Xushengqwer/social_service/myErrors"
	"github.com/Xushengqwer/social_service/repo/mysql"
)

type memPostAdminRepo struct {
	mysql.PostAdminRepository
	status map[uint64]enums.PostStatus
}

func (r *memPostAdminRepo) UpdatePostStatus(_ context.Context, postID uint64, status enums.PostStatus) error {
	if _, ok := r.status[postID]; !ok {
		return commonerrors.ErrRepoNotFound
	}
	r.status[postID] = status
	return nil
}

func TestPostAdminHideKeepsViewCounter(t *testing.T) {
	repo := &memPostAdminRepo{status: map[uint64]enums.PostStatus{7: enums.PostPublished}}
	views := &recordingViewRepo{}
	cache := &recordingHotPostCache{}
	s := NewPostAdminService(repo, views, cache, newTestLogger(t))
	ctx := context.Background()

	require.NoError(t, s.UpdatePostStatus(ctx, &dto.UpdatePostStatusRequest{PostID: 7, Status: enums.PostHidden}))
	assert.Equal(t, enums.PostHidden, repo.status[7])
	// 隐藏只出榜，计数器留给恢复后继续使用
	assert.Equal(t, []uint64{7}, views.unrank)
	assert.Empty(t, views.removed)
	assert.Equal(t, []uint64{7}, cache.invalidated)

	require.NoError(t, s.UpdatePostStatus(ctx, &dto.UpdatePostStatusRequest{PostID: 7, Status: enums.PostPublished}))
	assert.Equal(t, []uint64{7}, views.ranked)
	assert.Empty(t, views.removed)
}

func TestPostAdminUpdateStatusErrors(t *testing.T) {
	repo := &memPostAdminRepo{status: map[uint64]enums.PostStatus{}}
	views := &recordingViewRepo{}
	s := NewPostAdminService(repo, views, &recordingHotPostCache{}, newTestLogger(t))
	ctx := context.Background()

	err := s.UpdatePostStatus(ctx, &dto.UpdatePostStatusRequest{PostID: 7, Status: enums.PostHidden})
	assert.ErrorIs(t, err, myErrors.ErrPostNotFound)

	err = s.UpdatePostStatus(ctx, &dto.UpdatePostStatusRequest{PostID: 7, Status: enums.PostStatus(9)})
	require.Error(t, err)
	assert.NotErrorIs(t, err, myErrors.ErrPostNotFound)
	assert.Empty(t, views.unrank)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/social_service/models/dto"
	"github.com/Xushengqwer/social_service/models/entities"
	"github.com/Xushengqwer/social_service/models/vo"
	"github.com/Xushengqwer/social_service/myErrors"
	"github.com/Xushengqwer/social_service/repo/mysql"
)

type followPair struct {
	follower, followee uint64
}

type memFollowRepo struct {
	mysql.FollowRepository
	pairs []followPair
}

func (r *memFollowRepo) index(followerID, followeeID uint64) int {
	for i, p := range r.pairs {
		if p.follower == followerID && p.followee == followeeID {
			return i
		}
	}
	return -1
}

func (r *memFollowRepo) CreateFollow(_ context.Context, f *entities.Follow) error {
	if r.index(f.FollowerID, f.FolloweeID) >= 0 {
		return mysql.ErrDuplicateEntry
	}
	r.pairs = append(r.pairs, followPair{f.FollowerID, f.FolloweeID})
	return nil
}

func (r *memFollowRepo) DeleteFollow(_ context.Context, followerID, followeeID uint64) (bool, error) {
	i := r.index(followerID, followeeID)
	if i < 0 {
		return false, nil
	}
	r.pairs = append(r.pairs[:i], r.pairs[i+1:]...)
	return true, nil
}

func (r *memFollowRepo) IsFollowing(_ context.Context, followerID, followeeID uint64) (bool, error) {
	return r.index(followerID, followeeID) >= 0, nil
}

func (r *memFollowRepo) ListFollowers(_ context.Context, userID uint64, _ *uint64, _ int) ([]*entities.Follow, *uint64, error) {
	var out []*entities.Follow
	for _, p := range r.pairs {
		if p.followee == userID {
			out = append(out, &entities.Follow{FollowerID: p.follower, FolloweeID: p.followee})
		}
	}
	return out, nil, nil
}

func newTestFollowService(t *testing.T, repo *memFollowRepo) FollowService {
	users := &fakeUserService{
		existing: map[uint64]bool{1: true, 2: true, 3: true},
		briefs:   map[uint64]*vo.UserBriefVO{2: {UserID: 2, Nickname: "小李"}},
	}
	return NewFollowService(repo, users, newTestLogger(t))
}

func TestFollowServiceFollowRules(t *testing.T) {
	repo := &memFollowRepo{}
	s := newTestFollowService(t, repo)
	ctx := context.Background()

	_, err := s.Follow(ctx, 1, 1)
	assert.ErrorIs(t, err, myErrors.ErrSelfFollow)

	_, err = s.Follow(ctx, 1, 404)
	assert.ErrorIs(t, err, myErrors.ErrUserNotFound)

	status, err := s.Follow(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, status.Following)

	_, err = s.Follow(ctx, 2, 1)
	assert.ErrorIs(t, err, myErrors.ErrAlreadyFollowing)
	assert.Len(t, repo.pairs, 1)

	status, err = s.Status(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, status.Following)
	status, err = s.Status(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, status.Following)
}

func TestFollowServiceUnfollow(t *testing.T) {
	repo := &memFollowRepo{}
	s := newTestFollowService(t, repo)
	ctx := context.Background()

	_, err := s.Follow(ctx, 2, 1)
	require.NoError(t, err)

	status, err := s.Unfollow(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, status.Following)

	_, err = s.Unfollow(ctx, 2, 1)
	assert.ErrorIs(t, err, myErrors.ErrNotFollowing)

	_, err = s.Unfollow(ctx, 2, 2)
	assert.ErrorIs(t, err, myErrors.ErrSelfFollow)
}

func TestFollowServiceListFollowersFillsMissingBriefs(t *testing.T) {
	repo := &memFollowRepo{}
	s := newTestFollowService(t, repo)
	ctx := context.Background()

	_, err := s.Follow(ctx, 2, 1)
	require.NoError(t, err)
	_, err = s.Follow(ctx, 3, 1)
	require.NoError(t, err)

	resp, err := s.ListFollowers(ctx, 1, &dto.CursorPageRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Users, 2)
	assert.Equal(t, "小李", resp.Users[0].Nickname)
	// 没有资料的用户只返回 ID
	assert.Equal(t, &vo.UserBriefVO{UserID: 3}, resp.Users[1])
	assert.Nil(t, resp.NextCursor)
}

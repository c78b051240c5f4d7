package vo

import (
	"testing"
	"time"

	commonentities "github.com/Xushengqwer/go-common/models/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Xushengqwer/social_service/models/documents"
	"github.com/Xushengqwer/social_service/models/entities"
)

func TestMapPostsToPostResponsesVO(t *testing.T) {
	assert.NotNil(t, MapPostsToPostResponsesVO(nil))
	assert.Empty(t, MapPostsToPostResponsesVO(nil))

	posts := []*entities.Post{
		{BaseModel: commonentities.BaseModel{ID: 1}, Title: "洱海骑行", AuthorID: 9, Tags: []string{"云南"}},
		nil,
		{BaseModel: commonentities.BaseModel{ID: 2}, Title: "无标签"},
	}
	got := MapPostsToPostResponsesVO(posts)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(9), got[0].AuthorID)
	assert.Equal(t, []string{"云南"}, got[0].Tags)
	assert.Equal(t, []string{}, got[1].Tags)
}

func TestNewPostDetailVO(t *testing.T) {
	post := &entities.Post{BaseModel: commonentities.BaseModel{ID: 3}, Title: "t"}
	detail := &entities.PostDetail{PostID: 3, Content: "正文", Location: "大理"}
	images := []*entities.PostImage{{ImageURL: "a", DisplayOrder: 0}, nil, {ImageURL: "b", DisplayOrder: 1}}

	got := NewPostDetailVO(post, detail, images)
	require.NotNil(t, got)
	assert.Equal(t, uint64(3), got.ID)
	assert.Equal(t, "正文", got.Content)
	assert.Equal(t, "大理", got.Location)
	assert.Len(t, got.Images, 2)

	assert.Nil(t, NewPostDetailVO(nil, detail, images))
	noDetail := NewPostDetailVO(post, nil, nil)
	assert.Empty(t, noDetail.Content)
	assert.NotNil(t, noDetail.Images)
}

func TestNewUserProfileVO(t *testing.T) {
	user := &entities.User{BaseModel: commonentities.BaseModel{ID: 5}, Username: "alice"}

	bare := NewUserProfileVO(user, nil)
	assert.Equal(t, "alice", bare.Nickname)
	assert.Equal(t, []string{}, bare.Interests)

	full := NewUserProfileVO(user, &entities.UserProfile{Nickname: "爱丽丝", Interests: []string{"徒步"}})
	assert.Equal(t, "爱丽丝", full.Nickname)
	assert.Equal(t, []string{"徒步"}, full.Interests)

	assert.Nil(t, NewUserProfileVO(nil, nil))
}

func TestNewSessionVOUsesViewerPerspective(t *testing.T) {
	s := &documents.DialogSession{
		ID:           bson.NewObjectID(),
		Participants: []uint64{1, 2},
		Unread:       map[string]int64{"1": 0, "2": 4},
	}
	v := NewSessionVO(s, 2)
	assert.Equal(t, uint64(1), v.Peer.UserID)
	assert.Equal(t, int64(4), v.Unread)

	v = NewSessionVO(s, 1)
	assert.Equal(t, uint64(2), v.Peer.UserID)
	assert.Equal(t, int64(0), v.Unread)
}

func TestNewTravelPlanVOTotals(t *testing.T) {
	p := &documents.TravelPlan{
		ID:        bson.NewObjectID(),
		StartDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC),
		Days: []documents.PlanDay{
			{Day: 1, Activities: []documents.Activity{{Title: "a", Cost: 100}, {Title: "b", Cost: 50.5}}},
			{Day: 2, Activities: []documents.Activity{{Title: "c", Cost: 20}}},
		},
	}
	v := NewTravelPlanVO(p)
	assert.Equal(t, 2, v.DurationDays)
	assert.InDelta(t, 170.5, v.TotalCost, 0.001)
	assert.Equal(t, []string{}, v.Tags)
	assert.Equal(t, p.ID.Hex(), v.ID)
}

func TestMapCommentsToVOMarksLiked(t *testing.T) {
	comments := []*entities.Comment{
		{BaseModel: commonentities.BaseModel{ID: 10}, Content: "x"},
		{BaseModel: commonentities.BaseModel{ID: 11}, Content: "y"},
	}
	got := MapCommentsToVO(comments, map[uint64]bool{11: true})
	assert.False(t, got[0].Liked)
	assert.True(t, got[1].Liked)

	got = MapCommentsToVO(comments, nil)
	assert.False(t, got[1].Liked)
}

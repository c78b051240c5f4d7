package service

import (
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/social_service/config"
	"github.com/Xushengqwer/social_service/constant"
	"github.com/Xushengqwer/social_service/models/dto"
	"github.com/Xushengqwer/social_service/myErrors"
)

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" #海岛 ", "美食", "", "##海岛", "  ", "美食", "徒步"})
	assert.Equal(t, []string{"海岛", "美食", "徒步"}, got)
	assert.Empty(t, NormalizeTags(nil))
}

func fileHeader(size int64, contentType string) *multipart.FileHeader {
	h := textproto.MIMEHeader{}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &multipart.FileHeader{Filename: "a.png", Size: size, Header: h}
}

func TestUploadPolicyCheck(t *testing.T) {
	policy := NewUploadPolicy(config.StorageConfig{MaxUploadSize: 1024, AllowedTypes: []string{" Image/PNG ", "image/jpeg"}})

	ct, err := policy.Check(fileHeader(100, "image/png; charset=binary"))
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)

	_, err = policy.Check(fileHeader(2048, "image/png"))
	assert.ErrorIs(t, err, myErrors.ErrFileTooLarge)

	_, err = policy.Check(fileHeader(100, "application/pdf"))
	assert.ErrorIs(t, err, myErrors.ErrFileTypeRejected)

	// 未配置允许列表时不限制类型
	open := NewUploadPolicy(config.StorageConfig{})
	ct, err = open.Check(fileHeader(100, ""))
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", ct)
}

func TestObjectKeyOwnership(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	key := BuildObjectKey(constant.ObjectKeyPrefixAvatars, 42, "Me.JPG", now)
	assert.True(t, strings.HasPrefix(key, "avatars/42/20250601/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	assert.True(t, OwnsObjectKey(constant.ObjectKeyPrefixAvatars, 42, key))
	assert.False(t, OwnsObjectKey(constant.ObjectKeyPrefixAvatars, 4, key), "用户 4 不能匹配 42 的目录")
	assert.False(t, OwnsObjectKey(constant.ObjectKeyPrefixAvatars, 42, "avatars/42/../7/x.png"))

	// 过长的扩展名被丢弃
	assert.NotContains(t, BuildObjectKey("p/", 1, "x.verylongextension", now), ".verylong")
}

func TestOwnsFileKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"files/common/7/20250601/abc.pdf", true},
		{"files/docs_v2/7/20250601/abc.pdf", true},
		{"files/common/8/20250601/abc.pdf", false},
		{"files/Bad Category/7/x", false},
		{"files/common", false},
		{"avatars/7/20250601/abc.png", false},
		{"files/common/7/../8/abc.pdf", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ownsFileKey(7, tt.key), tt.key)
	}
}

func TestBuildTravelPlan(t *testing.T) {
	start := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	base := func() *dto.TravelPlanRequest {
		return &dto.TravelPlanRequest{
			Title:       "国庆云南",
			Destination: "大理",
			StartDate:   start,
			EndDate:     start.AddDate(0, 0, 2),
			Tags:        []string{"#古镇", "古镇", "美食"},
			Days: []dto.PlanDayRequest{
				{Day: 1, Title: "古城", Activities: []dto.ActivityRequest{{Title: "洱海骑行", Cost: 50}}},
				{Day: 3, Title: "返程"},
			},
		}
	}

	plan, err := buildTravelPlan(base())
	require.NoError(t, err)
	assert.Equal(t, []string{"古镇", "美食"}, plan.Tags)
	require.Len(t, plan.Days, 2)
	assert.Equal(t, "洱海骑行", plan.Days[0].Activities[0].Title)

	req := base()
	req.EndDate = start.AddDate(0, 0, -1)
	_, err = buildTravelPlan(req)
	assert.ErrorIs(t, err, myErrors.ErrInvalidDates)

	req = base()
	req.Days = append(req.Days, dto.PlanDayRequest{Day: 4})
	_, err = buildTravelPlan(req)
	assert.ErrorIs(t, err, myErrors.ErrDayOutOfRange)
}

func TestPageLimit(t *testing.T) {
	assert.Equal(t, 20, pageLimit(0, 20, 100))
	assert.Equal(t, 20, pageLimit(-3, 20, 0))
	assert.Equal(t, 100, pageLimit(500, 20, 100))
	assert.Equal(t, 500, pageLimit(500, 20, 0))
	assert.Equal(t, 7, pageLimit(7, 20, 100))
}

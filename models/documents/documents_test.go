package documents

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionKeyIsOrderIndependent(t *testing.T) {
	assert.Equal(t, "3_15", SessionKey(15, 3))
	assert.Equal(t, SessionKey(15, 3), SessionKey(3, 15))
	assert.Equal(t, "7_7", SessionKey(7, 7))
}

func TestHasParticipant(t *testing.T) {
	s := &DialogSession{Participants: []uint64{1, 2}}
	assert.True(t, s.HasParticipant(1))
	assert.True(t, s.HasParticipant(2))
	assert.False(t, s.HasParticipant(3))
}

func TestDurationDays(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"同一天", time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC), time.Date(2025, 5, 1, 20, 0, 0, 0, time.UTC), 1},
		{"跨三天", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC), 3},
		{"跨月", time.Date(2025, 1, 30, 0, 0, 0, 0, time.UTC), time.Date(2025, 2, 2, 23, 0, 0, 0, time.UTC), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &TravelPlan{StartDate: tt.start, EndDate: tt.end}
			assert.Equal(t, tt.want, p.DurationDays())
		})
	}
}

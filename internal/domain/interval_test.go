package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func rangeAt(startHour, endHour int) TimeRange {
	day := time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)
	return TimeRange{
		Start: day.Add(time.Duration(startHour) * time.Hour),
		End:   day.Add(time.Duration(endHour) * time.Hour),
	}
}

func TestTimeRange_Overlaps(t *testing.T) {
	tests := []struct {
		name     string
		a, b     TimeRange
		overlaps bool
	}{
		{"identical", rangeAt(10, 12), rangeAt(10, 12), true},
		{"partial overlap", rangeAt(10, 12), rangeAt(11, 13), true},
		{"contained", rangeAt(10, 14), rangeAt(11, 12), true},
		{"touching endpoints", rangeAt(10, 12), rangeAt(12, 14), false},
		{"touching endpoints reversed", rangeAt(12, 14), rangeAt(10, 12), false},
		{"disjoint", rangeAt(10, 11), rangeAt(13, 14), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlaps, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.overlaps, tt.b.Overlaps(tt.a))
		})
	}
}

func TestTimeRange_IsValid(t *testing.T) {
	assert.True(t, rangeAt(10, 12).IsValid())
	assert.False(t, rangeAt(12, 10).IsValid())
	assert.False(t, rangeAt(10, 10).IsValid())
	assert.False(t, TimeRange{}.IsValid())
}

func TestTimeRange_HoursUntilStart(t *testing.T) {
	now := time.Date(2025, 11, 5, 8, 0, 0, 0, time.UTC)
	r := rangeAt(10, 12)
	assert.InDelta(t, 2.0, r.HoursUntilStart(now), 1e-9)

	after := time.Date(2025, 11, 5, 11, 0, 0, 0, time.UTC)
	assert.InDelta(t, -1.0, r.HoursUntilStart(after), 1e-9)
}

func TestCoachUnavailability_Blocks(t *testing.T) {
	date := time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)
	interval := rangeAt(10, 12)

	allDay := CoachUnavailability{CoachID: 1, Date: date}
	assert.True(t, allDay.Blocks(interval))

	otherDay := CoachUnavailability{CoachID: 1, Date: date.AddDate(0, 0, 1)}
	assert.False(t, otherDay.Blocks(interval))

	morning := CoachUnavailability{CoachID: 1, Date: date, StartTime: "08:00", EndTime: "11:00"}
	assert.True(t, morning.Blocks(interval))

	evening := CoachUnavailability{CoachID: 1, Date: date, StartTime: "14:00", EndTime: "16:00"}
	assert.False(t, evening.Blocks(interval))

	// касание границ не блокирует: [08:00,10:00) против [10:00,12:00)
	touching := CoachUnavailability{CoachID: 1, Date: date, StartTime: "08:00", EndTime: "10:00"}
	assert.False(t, touching.Blocks(interval))
}

package planner

import (
	"math"
	"testing"
	"time"

	"github.com/stemsi/studypilot-backend/internal/model"
)

func pacePlan() model.StudyPlan {
	return model.StudyPlan{
		TotalDaysAvailable: 10,
		HoursPerDay:        2,
		TotalHoursRequired: 20,
	}
}

func TestPace(t *testing.T) {
	tests := []struct {
		name        string
		plan        model.StudyPlan
		daysElapsed int
		hoursDone   float64
		wantStatus  model.PaceStatus
		wantRate    float64
	}{
		{"ahead", pacePlan(), 5, 12, model.PaceOnTrack, 2},
		{"exactly on schedule", pacePlan(), 5, 10, model.PaceOnTrack, 2},
		// expected 10, done 9 > 8 → remaining 11 over 5 days = 2.2 → 3
		{"slightly behind", pacePlan(), 5, 9, model.PaceSlightlyBehind, 3},
		// expected 10, done 4 → remaining 16 over 5 days = 3.2 + 1 → 5
		{"behind", pacePlan(), 5, 4, model.PaceBehind, 5},
		// plan over with 6 hours left
		{"no days remaining", pacePlan(), 10, 14, model.PaceBehind, 6},
		{"elapsed past end is clamped", pacePlan(), 15, 14.5, model.PaceBehind, 6},
		{"zero-day plan", model.StudyPlan{}, 0, 0, model.PaceOnTrack, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pace(tt.plan, tt.daysElapsed, tt.hoursDone)
			if got.Status != tt.wantStatus {
				t.Fatalf("status = %s, want %s", got.Status, tt.wantStatus)
			}
			if got.HoursNeededPerDay != tt.wantRate {
				t.Fatalf("hours needed = %v, want %v", got.HoursNeededPerDay, tt.wantRate)
			}
			if got.Recommendation == "" {
				t.Fatalf("recommendation is empty")
			}
			for _, v := range []float64{got.HoursNeededPerDay, got.ExpectedHours, got.HoursRemaining} {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("non-finite value in %+v", got)
				}
			}
		})
	}
}

func TestDaysElapsed(t *testing.T) {
	plan := model.StudyPlan{CreatedAt: time.Date(2026, time.January, 5, 22, 0, 0, 0, time.UTC)}

	tests := []struct {
		now  time.Time
		want int
	}{
		{time.Date(2026, time.January, 5, 23, 0, 0, 0, time.UTC), 0},
		{time.Date(2026, time.January, 6, 1, 0, 0, 0, time.UTC), 1},
		{time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC), 10},
		{time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), 0},
	}
	for _, tt := range tests {
		if got := DaysElapsed(plan, tt.now); got != tt.want {
			t.Errorf("DaysElapsed(%v) = %d, want %d", tt.now, got, tt.want)
		}
	}
}

package planner

import (
	"fmt"
	"math"
	"time"

	"github.com/stemsi/studypilot-backend/internal/model"
)

const slightlyBehindRatio = 0.8

// Pace compares hours completed with where the learner should be after
// daysElapsed days of the plan.
func Pace(plan model.StudyPlan, daysElapsed int, hoursCompleted float64) model.PaceRecommendation {
	total := plan.TotalDaysAvailable
	planned := plan.TotalHoursRequired

	if total <= 0 {
		return model.PaceRecommendation{
			Status:            model.PaceOnTrack,
			Recommendation:    "Your plan has no remaining study days.",
			HoursNeededPerDay: 0,
		}
	}

	if daysElapsed < 0 {
		daysElapsed = 0
	}
	if daysElapsed > total {
		daysElapsed = total
	}
	if hoursCompleted < 0 {
		hoursCompleted = 0
	}

	expected := float64(daysElapsed) / float64(total) * planned
	remaining := math.Max(planned-hoursCompleted, 0)
	daysRemaining := total - daysElapsed

	rec := model.PaceRecommendation{
		ExpectedHours:  round2(expected),
		HoursRemaining: round2(remaining),
		DaysRemaining:  daysRemaining,
	}

	if hoursCompleted >= expected {
		rec.Status = model.PaceOnTrack
		rec.HoursNeededPerDay = plan.HoursPerDay
		rec.Recommendation = fmt.Sprintf("You're on track. Keep studying %.1f hours a day.", plan.HoursPerDay)
		return rec
	}

	if daysRemaining <= 0 {
		rec.Status = model.PaceBehind
		rec.HoursNeededPerDay = math.Ceil(remaining)
		rec.Recommendation = fmt.Sprintf("The plan has ended with %.1f hours left. Cover them before the exam.", remaining)
		return rec
	}

	rate := remaining / float64(daysRemaining)
	if hoursCompleted > slightlyBehindRatio*expected {
		rec.Status = model.PaceSlightlyBehind
		rec.HoursNeededPerDay = math.Ceil(rate)
		rec.Recommendation = fmt.Sprintf("You're slightly behind. Study %.0f hours a day to catch up.", rec.HoursNeededPerDay)
		return rec
	}

	rec.Status = model.PaceBehind
	rec.HoursNeededPerDay = math.Ceil(rate + 1)
	rec.Recommendation = fmt.Sprintf("You're behind schedule. Increase to %.0f hours a day and prioritise weak topics.", rec.HoursNeededPerDay)
	return rec
}

// DaysElapsed counts whole calendar days from the plan's creation to now.
func DaysElapsed(plan model.StudyPlan, now time.Time) int {
	start := startOfDay(plan.CreatedAt.In(now.Location()))
	elapsed := int(startOfDay(now).Sub(start) / day)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

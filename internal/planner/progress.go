package planner

import (
	"time"

	"github.com/stemsi/studypilot-backend/internal/model"
)

// SetTaskCompleted returns a copy of plan with the task's completion flag set
// and the status percentage recomputed. It reports false when no task has
// the given ID; the plan is then returned unchanged.
func SetTaskCompleted(plan model.StudyPlan, taskID string, completed bool, now time.Time) (model.StudyPlan, bool) {
	out := Clone(plan)
	found := false
	for i := range out.Schedule {
		for j := range out.Schedule[i].Tasks {
			if out.Schedule[i].Tasks[j].TaskID == taskID {
				out.Schedule[i].Tasks[j].Completed = completed
				found = true
			}
		}
	}
	if !found {
		return plan, false
	}
	out.StatusPercentage = StatusPercentage(out)
	out.UpdatedAt = now
	return out, true
}

// StatusPercentage is completed task minutes over planned minutes.
func StatusPercentage(plan model.StudyPlan) float64 {
	var done, planned int
	for _, d := range plan.Schedule {
		for _, t := range d.Tasks {
			planned += t.DurationMinutes
			if t.Completed {
				done += t.DurationMinutes
			}
		}
	}
	if planned == 0 {
		return 0
	}
	return round2(float64(done) / float64(planned) * 100)
}

// CompletedHours sums the minutes of finished tasks, in hours.
func CompletedHours(plan model.StudyPlan) float64 {
	var done int
	for _, d := range plan.Schedule {
		for _, t := range d.Tasks {
			if t.Completed {
				done += t.DurationMinutes
			}
		}
	}
	return round2(float64(done) / minutesPerHour)
}

// Clone deep-copies a plan.
func Clone(plan model.StudyPlan) model.StudyPlan {
	out := plan
	out.Subjects = append([]string(nil), plan.Subjects...)
	out.WeakTopics = append([]string(nil), plan.WeakTopics...)
	out.Schedule = make([]model.DailyPlan, len(plan.Schedule))
	for i, d := range plan.Schedule {
		d.Tasks = append([]model.StudyTask(nil), d.Tasks...)
		out.Schedule[i] = d
	}
	return out
}

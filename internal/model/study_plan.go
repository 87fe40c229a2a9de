package model

import (
	"time"

	"github.com/google/uuid"
)

// Activity is the kind of work a study task asks for.
type Activity string

const (
	ActivityLesson   Activity = "lesson"
	ActivityPractice Activity = "practice"
	ActivityQuiz     Activity = "quiz"
	ActivityRevision Activity = "revision"
	ActivityMockExam Activity = "mockexam"
)

// Priority ranks a task within its day.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Phase is one of the four fractional bands of a study plan.
type Phase string

const (
	PhaseFoundation    Phase = "foundation"
	PhaseDepth         Phase = "depth"
	PhaseConsolidation Phase = "consolidation"
	PhaseFinalRevision Phase = "final_revision"
)

// StudyTask is a single scheduled activity.
type StudyTask struct {
	TaskID          string     `json:"task_id"`
	Subject         string     `json:"subject"`
	Topic           string     `json:"topic"`
	Activity        Activity   `json:"activity"`
	DurationMinutes int        `json:"duration_minutes"`
	Difficulty      Difficulty `json:"difficulty"`
	Priority        Priority   `json:"priority"`
	Completed       bool       `json:"completed"`
}

// DailyPlan is the schedule for one day of a plan.
type DailyPlan struct {
	Date           time.Time   `json:"date"`
	DayNumber      int         `json:"day_number"`
	Phase          Phase       `json:"phase"`
	Tasks          []StudyTask `json:"tasks"`
	EstimatedHours float64     `json:"estimated_hours"`
}

// StudyProfile is the learner input to plan generation.
type StudyProfile struct {
	UserID      string    `json:"user_id"`
	ExamType    string    `json:"exam_type"`
	Deadline    time.Time `json:"deadline"`
	HoursPerDay float64   `json:"hours_per_day"`
	Subjects    []string  `json:"subjects"`
	WeakTopics  []string  `json:"weak_topics"`
	Strength    string    `json:"strength,omitempty"`
}

// StudyPlan is a generated day-by-day schedule.
type StudyPlan struct {
	PlanID             uuid.UUID   `json:"plan_id"`
	UserID             string      `json:"user_id"`
	ExamType           string      `json:"exam_type"`
	Deadline           time.Time   `json:"deadline"`
	TotalDaysAvailable int         `json:"total_days_available"`
	HoursPerDay        float64     `json:"hours_per_day"`
	Subjects           []string    `json:"subjects"`
	WeakTopics         []string    `json:"weak_topics"`
	Schedule           []DailyPlan `json:"schedule"`
	TotalHoursRequired float64     `json:"total_hours_required"`
	StatusPercentage   float64     `json:"status_percentage"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// PaceStatus classifies progress against the plan.
type PaceStatus string

const (
	PaceOnTrack        PaceStatus = "on_track"
	PaceSlightlyBehind PaceStatus = "slightly_behind"
	PaceBehind         PaceStatus = "behind"
)

// PaceRecommendation is pacing feedback for a plan in progress.
type PaceRecommendation struct {
	Status            PaceStatus `json:"status"`
	Recommendation    string     `json:"recommendation"`
	HoursNeededPerDay float64    `json:"hours_needed_per_day"`
	ExpectedHours     float64    `json:"expected_hours"`
	HoursRemaining    float64    `json:"hours_remaining"`
	DaysRemaining     int        `json:"days_remaining"`
}

// CreateStudyPlanRequest is the payload for generating a plan.
// Deadline uses the YYYY-MM-DD form.
type CreateStudyPlanRequest struct {
	ExamType    string   `json:"exam_type" binding:"required,min=2,max=100"`
	Deadline    string   `json:"deadline" binding:"required,datetime=2006-01-02"`
	HoursPerDay float64  `json:"hours_per_day" binding:"required,gt=0,lte=16"`
	Subjects    []string `json:"subjects" binding:"required,min=1,max=20,dive,required,max=100"`
	WeakTopics  []string `json:"weak_topics" binding:"omitempty,max=50,dive,required,max=150"`
	Strength    string   `json:"strength" binding:"omitempty,max=100"`
}

// UpdateTaskRequest toggles a task's completion flag.
type UpdateTaskRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// PlanExport is the result of exporting a plan to object storage.
type PlanExport struct {
	PlanID uuid.UUID `json:"plan_id"`
	Key    string    `json:"key"`
	URL    string    `json:"url"`
}

// PaceQuery optionally overrides the hours counted as done.
type PaceQuery struct {
	HoursCompleted *float64 `form:"hours_completed" binding:"omitempty,gte=0,lte=10000"`
}

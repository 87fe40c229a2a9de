// Package planner expands a learner's study profile into a day-by-day
// schedule and reports pacing against it.
package planner

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/studypilot-backend/internal/model"
)

// Phase boundaries as fractions of the plan.
const (
	foundationEnd    = 0.20
	depthEnd         = 0.60
	consolidationEnd = 0.85
)

const (
	defaultTopic     = "Core Concepts"
	defaultSubject   = "General"
	advancedTopics   = "Advanced Topics"
	confidenceTopic  = "Confidence Building"
	weakAreaTopic    = "Weak Areas"
	finalReviewTopic = "Full Syllabus Review"
	quizEveryNthDay  = 5
	hoursPerDayCeil  = 24.0
	minutesPerHour   = 60.0
	day              = 24 * time.Hour
)

// Generator builds study plans. Now and Rand are injectable for tests; nil
// values fall back to the wall clock and the global source. A Generator is
// safe for concurrent use.
type Generator struct {
	Now  func() time.Time
	Rand *rand.Rand

	mu sync.Mutex // guards Rand
}

// NewGenerator returns a Generator on the wall clock.
func NewGenerator() *Generator {
	return &Generator{
		Now:  time.Now,
		Rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (g *Generator) now() time.Time {
	if g.Now == nil {
		return time.Now()
	}
	return g.Now()
}

func (g *Generator) pick(items []string) string {
	if len(items) == 1 {
		return items[0]
	}
	if g.Rand == nil {
		return items[rand.Intn(len(items))]
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return items[g.Rand.Intn(len(items))]
}

// TotalDays is the number of days (rounded up) from now to the deadline,
// never negative.
func TotalDays(today, deadline time.Time) int {
	if !deadline.After(today) {
		return 0
	}
	return int(math.Ceil(float64(deadline.Sub(today)) / float64(day)))
}

// Generate builds a plan covering every day from today until the deadline.
// Day d sits at fraction d/totalDays and takes the task template of the
// phase that fraction falls in.
func (g *Generator) Generate(p model.StudyProfile) model.StudyPlan {
	now := g.now()
	// Day dates follow the deadline's calendar, not the server's.
	today := startOfDay(now.In(p.Deadline.Location()))

	subjects := nonEmpty(p.Subjects, defaultSubject)
	weak := nonEmpty(p.WeakTopics, defaultTopic)
	hours := math.Min(math.Max(p.HoursPerDay, 0), hoursPerDayCeil)
	totalDays := TotalDays(now, p.Deadline)

	plan := model.StudyPlan{
		PlanID:             uuid.New(),
		UserID:             p.UserID,
		ExamType:           p.ExamType,
		Deadline:           p.Deadline,
		TotalDaysAvailable: totalDays,
		HoursPerDay:        hours,
		Subjects:           subjects,
		WeakTopics:         weak,
		Schedule:           make([]model.DailyPlan, 0, totalDays),
		TotalHoursRequired: float64(totalDays) * hours,
		StatusPercentage:   0,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	dailyMinutes := hours * minutesPerHour
	for d := 1; d <= totalDays; d++ {
		phase := PhaseFor(d, totalDays)
		subject := subjects[(d-1)%len(subjects)]
		tasks := g.tasksFor(phase, d, subject, weak, dailyMinutes)

		var minutes int
		for _, t := range tasks {
			minutes += t.DurationMinutes
		}

		plan.Schedule = append(plan.Schedule, model.DailyPlan{
			Date:           today.AddDate(0, 0, d-1),
			DayNumber:      d,
			Phase:          phase,
			Tasks:          tasks,
			EstimatedHours: round2(float64(minutes) / minutesPerHour),
		})
	}
	return plan
}

// PhaseFor returns the phase of day d in a plan of totalDays.
func PhaseFor(d, totalDays int) model.Phase {
	if totalDays <= 0 {
		return model.PhaseFinalRevision
	}
	f := float64(d) / float64(totalDays)
	switch {
	case f <= foundationEnd:
		return model.PhaseFoundation
	case f <= depthEnd:
		return model.PhaseDepth
	case f <= consolidationEnd:
		return model.PhaseConsolidation
	default:
		return model.PhaseFinalRevision
	}
}

func (g *Generator) tasksFor(phase model.Phase, d int, subject string, weak []string, dailyMinutes float64) []model.StudyTask {
	mins := func(frac float64) int { return int(math.Floor(dailyMinutes * frac)) }
	task := func(n int, subj, topic string, a model.Activity, m int, diff model.Difficulty, pr model.Priority) model.StudyTask {
		return model.StudyTask{
			TaskID:          fmt.Sprintf("day%d-task%d", d, n),
			Subject:         subj,
			Topic:           topic,
			Activity:        a,
			DurationMinutes: m,
			Difficulty:      diff,
			Priority:        pr,
		}
	}

	switch phase {
	case model.PhaseFoundation:
		topic := g.pick(weak)
		return []model.StudyTask{
			task(1, subject, topic, model.ActivityLesson, mins(0.50), model.DifficultyEasy, model.PriorityHigh),
			task(2, subject, topic, model.ActivityPractice, mins(0.50), model.DifficultyEasy, model.PriorityHigh),
		}

	case model.PhaseDepth:
		tasks := []model.StudyTask{
			task(1, subject, advancedTopics, model.ActivityLesson, mins(0.40), model.DifficultyMedium, model.PriorityMedium),
			task(2, subject, advancedTopics, model.ActivityPractice, mins(0.35), model.DifficultyMedium, model.PriorityMedium),
		}
		if d%quizEveryNthDay == 0 {
			tasks = append(tasks, task(3, subject, advancedTopics, model.ActivityQuiz, mins(0.25), model.DifficultyMedium, model.PriorityHigh))
		}
		return tasks

	case model.PhaseConsolidation:
		return []model.StudyTask{
			task(1, defaultSubject, "Full Mock Exam", model.ActivityMockExam, mins(0.70), model.DifficultyHard, model.PriorityHigh),
			task(2, subject, weakAreaTopic+": "+g.pick(weak), model.ActivityPractice, mins(0.30), model.DifficultyHard, model.PriorityHigh),
		}

	default:
		return []model.StudyTask{
			task(1, subject, finalReviewTopic, model.ActivityRevision, mins(0.60), model.DifficultyMedium, model.PriorityHigh),
			task(2, defaultSubject, confidenceTopic, model.ActivityMockExam, mins(0.40), model.DifficultyMedium, model.PriorityHigh),
		}
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func nonEmpty(items []string, fallback string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return []string{fallback}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

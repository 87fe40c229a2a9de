// Package gamification implements XP, levels, badges, streaks and subject
// mastery. Every function returns a new profile and never modifies its
// input.
package gamification

import (
	"math"
	"time"

	"github.com/stemsi/studypilot-backend/internal/model"
)

const (
	startingMaxLevelXP = 100
	levelGrowth        = 1.2
)

var xpTable = map[model.XPActivity]int{
	model.XPQuestionCorrect: 10,
	model.XPQuizCompleted:   50,
	model.XPExamTaken:       100,
	model.XPLessonFinished:  30,
	model.XPPerfectScore:    150,
}

// Tools unlocked on reaching a level.
var toolUnlocks = []struct {
	level int
	tool  string
}{
	{1, "practice"},
	{2, "flashcards"},
	{3, "mock_exams"},
	{5, "study_planner"},
	{8, "ai_tutor"},
}

// IsKnownActivity reports whether an activity earns XP.
func IsKnownActivity(a model.XPActivity) bool {
	_, ok := xpTable[a]
	return ok
}

// CalculateXPReward returns the XP for an activity scaled by multiplier.
// Unknown activities earn nothing; a non-positive multiplier counts as 1.
func CalculateXPReward(activity model.XPActivity, multiplier float64) int {
	base, ok := xpTable[activity]
	if !ok {
		return 0
	}
	if multiplier <= 0 {
		multiplier = 1
	}
	return int(math.Floor(float64(base) * multiplier))
}

// ExamXP is the XP for taking an exam, including the perfect score bonus.
// Badge bonuses come on top.
func ExamXP(result model.ExamResult) int {
	xp := CalculateXPReward(model.XPExamTaken, 1)
	if IsPerfect(result) {
		xp += CalculateXPReward(model.XPPerfectScore, 1)
	}
	return xp
}

// IsPerfect reports whether every question of a non-empty exam was right.
func IsPerfect(result model.ExamResult) bool {
	return result.TotalQuestions > 0 && result.Score == 100
}

// NewProfile is the starting state of a learner.
func NewProfile(userID string, now time.Time) model.UserGameProfile {
	return model.UserGameProfile{
		UserID:         userID,
		Level:          1,
		MaxLevelXP:     startingMaxLevelXP,
		StreakLevel:    model.StreakBronze,
		Badges:         []model.Badge{},
		UnlockedTools:  []string{"practice"},
		SubjectMastery: map[string]float64{},
		UpdatedAt:      now,
	}
}

// AddXP credits amount and applies any level-ups it causes.
func AddXP(p model.UserGameProfile, amount int) model.UserGameProfile {
	out := Clone(p)
	if amount <= 0 {
		return out
	}
	out.TotalXP += amount
	out.CurrentLevelXP += amount
	return CheckLevelUp(out)
}

// CheckLevelUp advances levels while the current bar is full. XP past the
// bar is not reset: the overflow carries into the next level, so one large
// award can advance several levels at once.
func CheckLevelUp(p model.UserGameProfile) model.UserGameProfile {
	out := Clone(p)
	if out.MaxLevelXP <= 0 {
		out.MaxLevelXP = startingMaxLevelXP
	}
	for out.CurrentLevelXP >= out.MaxLevelXP {
		out.CurrentLevelXP -= out.MaxLevelXP
		out.Level++
		out.MaxLevelXP = int(math.Floor(float64(out.MaxLevelXP) * levelGrowth))
	}
	out.UnlockedTools = unlockTools(out.UnlockedTools, out.Level)
	return out
}

func unlockTools(tools []string, level int) []string {
	have := make(map[string]struct{}, len(tools))
	for _, t := range tools {
		have[t] = struct{}{}
	}
	for _, u := range toolUnlocks {
		if u.level > level {
			break
		}
		if _, ok := have[u.tool]; !ok {
			tools = append(tools, u.tool)
			have[u.tool] = struct{}{}
		}
	}
	return tools
}

// Clone deep-copies a profile.
func Clone(p model.UserGameProfile) model.UserGameProfile {
	out := p
	out.Badges = append([]model.Badge{}, p.Badges...)
	out.UnlockedTools = append([]string{}, p.UnlockedTools...)
	out.SubjectMastery = make(map[string]float64, len(p.SubjectMastery))
	for k, v := range p.SubjectMastery {
		out.SubjectMastery[k] = v
	}
	if p.LastStudyDate != nil {
		d := *p.LastStudyDate
		out.LastStudyDate = &d
	}
	return out
}

package gamification

import (
	"math"
	"strings"
	"time"

	"github.com/stemsi/studypilot-backend/internal/model"
)

// StreakLevelFor maps a streak length to its tier.
func StreakLevelFor(streak int) model.StreakLevel {
	switch {
	case streak >= 100:
		return model.StreakPlatinum
	case streak >= 30:
		return model.StreakGold
	case streak >= 7:
		return model.StreakSilver
	default:
		return model.StreakBronze
	}
}

// UpdateStreak extends the streak on a study day and resets it otherwise.
// Resetting an empty streak is a no-op.
func UpdateStreak(p model.UserGameProfile, studiedToday bool) model.UserGameProfile {
	out := Clone(p)
	if studiedToday {
		out.Streak++
		out.StreakLevel = StreakLevelFor(out.Streak)
		return out
	}
	if out.Streak > 0 {
		out.Streak = 0
		out.StreakLevel = model.StreakBronze
	}
	return out
}

// RecordStudyDay applies a study session on day to the streak. A second
// session on the same day changes nothing; a missed day resets the streak
// before counting day.
func RecordStudyDay(p model.UserGameProfile, day time.Time) model.UserGameProfile {
	today := truncateDay(day)
	out := Clone(p)

	if out.LastStudyDate != nil {
		last := truncateDay(*out.LastStudyDate)
		gap := int(today.Sub(last).Hours() / 24)
		switch {
		case gap <= 0:
			return out
		case gap > 1:
			out = UpdateStreak(out, false)
		}
	}

	out = UpdateStreak(out, true)
	out.LastStudyDate = &today
	out.UpdatedAt = day
	return out
}

// UpdateMastery folds a new score into a subject's mastery. The first score
// sets it; later scores average with the current value.
func UpdateMastery(p model.UserGameProfile, subject string, score float64) model.UserGameProfile {
	out := Clone(p)
	key := strings.TrimSpace(subject)
	if key == "" {
		return out
	}
	score = math.Max(0, math.Min(100, score))
	if prev, ok := out.SubjectMastery[key]; ok {
		score = (prev + score) / 2
	}
	out.SubjectMastery[key] = math.Round(score*100) / 100
	return out
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

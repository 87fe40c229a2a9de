package gamification

import (
	"time"

	"github.com/stemsi/studypilot-backend/internal/model"
)

const (
	BadgeFirstExam    model.BadgeType = "first_exam"
	BadgePerfectScore model.BadgeType = "perfect_score"
	BadgeWeekWarrior  model.BadgeType = "week_warrior"
	BadgeMonthMaster  model.BadgeType = "month_master"
	BadgeQuizChampion model.BadgeType = "quiz_champion"
	BadgeLevelFive    model.BadgeType = "level_five"
)

var catalog = map[model.BadgeType]model.Badge{
	BadgeFirstExam: {
		Type: BadgeFirstExam, Name: "First Steps", Icon: "🎯", XPBonus: 50,
		Description: "Completed your first mock exam",
	},
	BadgePerfectScore: {
		Type: BadgePerfectScore, Name: "Perfectionist", Icon: "💯", XPBonus: 200,
		Description: "Scored 100% on an exam",
	},
	BadgeWeekWarrior: {
		Type: BadgeWeekWarrior, Name: "Week Warrior", Icon: "🔥", XPBonus: 100,
		Description: "Studied 7 days in a row",
	},
	BadgeMonthMaster: {
		Type: BadgeMonthMaster, Name: "Month Master", Icon: "🏆", XPBonus: 500,
		Description: "Studied 30 days in a row",
	},
	BadgeQuizChampion: {
		Type: BadgeQuizChampion, Name: "Quiz Champion", Icon: "👑", XPBonus: 150,
		Description: "Completed 10 quizzes",
	},
	BadgeLevelFive: {
		Type: BadgeLevelFive, Name: "Rising Star", Icon: "⭐", XPBonus: 100,
		Description: "Reached level 5",
	},
}

// catalogOrder fixes the listing order of Catalog.
var catalogOrder = []model.BadgeType{
	BadgeFirstExam, BadgePerfectScore, BadgeWeekWarrior,
	BadgeMonthMaster, BadgeQuizChampion, BadgeLevelFive,
}

// Catalog lists every badge definition.
func Catalog() []model.Badge {
	out := make([]model.Badge, 0, len(catalogOrder))
	for _, t := range catalogOrder {
		out = append(out, catalog[t])
	}
	return out
}

// HasBadge reports whether the profile holds the badge.
func HasBadge(p model.UserGameProfile, t model.BadgeType) bool {
	for _, b := range p.Badges {
		if b.Type == t {
			return true
		}
	}
	return false
}

// AwardBadge grants a catalog badge. Unknown or already-held badges leave
// the profile as is and return a nil badge with isNew false.
func AwardBadge(userID string, p model.UserGameProfile, t model.BadgeType, now time.Time) (model.UserGameProfile, *model.Badge, bool) {
	out := Clone(p)
	def, ok := catalog[t]
	if !ok || HasBadge(out, t) {
		return out, nil, false
	}
	if out.UserID == "" {
		out.UserID = userID
	}
	badge := def
	badge.AwardedAt = now
	out.Badges = append(out.Badges, badge)
	out.UpdatedAt = now
	return out, &badge, true
}

// EligibleBadges lists catalog badges the profile has earned but not yet
// received. result may be nil when no exam was just taken.
func EligibleBadges(p model.UserGameProfile, result *model.ExamResult) []model.BadgeType {
	var earned []model.BadgeType
	add := func(t model.BadgeType, cond bool) {
		if cond && !HasBadge(p, t) {
			earned = append(earned, t)
		}
	}
	if result != nil {
		add(BadgeFirstExam, true)
		add(BadgePerfectScore, result.TotalQuestions > 0 && result.Score == 100)
	}
	add(BadgeWeekWarrior, p.Streak >= 7)
	add(BadgeMonthMaster, p.Streak >= 30)
	add(BadgeLevelFive, p.Level >= 5)
	return earned
}

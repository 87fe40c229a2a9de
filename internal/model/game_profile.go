package model

import "time"

// StreakLevel is the tier earned by a study streak.
type StreakLevel string

const (
	StreakBronze   StreakLevel = "bronze"
	StreakSilver   StreakLevel = "silver"
	StreakGold     StreakLevel = "gold"
	StreakPlatinum StreakLevel = "platinum"
)

// BadgeType is the catalog key of a badge.
type BadgeType string

// Badge is an award held by a learner.
type Badge struct {
	Type        BadgeType `json:"type"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	XPBonus     int       `json:"xp_bonus"`
	AwardedAt   time.Time `json:"awarded_at"`
}

// XPActivity is a rewardable learner action.
type XPActivity string

const (
	XPQuestionCorrect XPActivity = "question_correct"
	XPQuizCompleted   XPActivity = "quiz_completed"
	XPExamTaken       XPActivity = "exam_taken"
	XPLessonFinished  XPActivity = "lesson_finished"
	XPPerfectScore    XPActivity = "perfect_score"
)

// UserGameProfile is a learner's gamification state.
type UserGameProfile struct {
	UserID         string             `json:"user_id"`
	TotalXP        int                `json:"total_xp"`
	Level          int                `json:"level"`
	CurrentLevelXP int                `json:"current_level_xp"`
	MaxLevelXP     int                `json:"max_level_xp"`
	Streak         int                `json:"streak"`
	StreakLevel    StreakLevel        `json:"streak_level"`
	Badges         []Badge            `json:"badges"`
	UnlockedTools  []string           `json:"unlocked_tools"`
	SubjectMastery map[string]float64 `json:"subject_mastery"`
	LastStudyDate  *time.Time         `json:"last_study_date,omitempty"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// RecordActivityRequest is the payload for logging a rewardable action.
type RecordActivityRequest struct {
	Activity   string  `json:"activity" binding:"required,oneof=question_correct quiz_completed exam_taken lesson_finished perfect_score"`
	Multiplier float64 `json:"multiplier" binding:"omitempty,gt=0,lte=10"`
}

// ActivityReward is the outcome of a recorded activity.
type ActivityReward struct {
	XPAwarded int             `json:"xp_awarded"`
	LeveledUp bool            `json:"leveled_up"`
	NewBadges []Badge         `json:"new_badges,omitempty"`
	Profile   UserGameProfile `json:"profile"`
}

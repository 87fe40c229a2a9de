package model

import (
	"time"

	"github.com/google/uuid"
)

// Accuracy is a correct/answered tally with its percentage.
type Accuracy struct {
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// TopicPerformance is the accuracy of a single topic within one exam.
type TopicPerformance struct {
	Topic string `json:"topic"`
	Accuracy
}

// ExamResult is the outcome of marking one exam attempt.
type ExamResult struct {
	TotalQuestions          int                     `json:"total_questions"`
	CorrectAnswers          int                     `json:"correct_answers"`
	WrongAnswers            int                     `json:"wrong_answers"`
	Skipped                 int                     `json:"skipped"`
	Score                   float64                 `json:"score"`
	Grade                   string                  `json:"grade"`
	PerformanceByDifficulty map[Difficulty]Accuracy `json:"performance_by_difficulty"`
	TopicPerformance        []TopicPerformance      `json:"topic_performance"`
	WeakTopics              []string                `json:"weak_topics"`
	StrongTopics            []string                `json:"strong_topics"`
	Recommendations         []string                `json:"recommendations"`
}

// Prediction is a forecast of the final exam score.
type Prediction struct {
	Prediction float64    `json:"prediction"`
	Range      [2]float64 `json:"range"`
}

// AttemptSource tells where the graded questions came from.
type AttemptSource string

const (
	AttemptSourceMock   AttemptSource = "mock"
	AttemptSourceCustom AttemptSource = "custom"
)

// ExamAttempt is a persisted, graded attempt. Retries is only set while the
// attempt waits in the worker queue.
type ExamAttempt struct {
	ID        uuid.UUID     `json:"id"`
	UserID    string        `json:"user_id"`
	Subject   string        `json:"subject"`
	Source    AttemptSource `json:"source"`
	Result    ExamResult    `json:"result"`
	AITips    []string      `json:"ai_tips,omitempty"`
	XPAwarded int           `json:"xp_awarded"`
	CreatedAt time.Time     `json:"created_at"`
	Retries   int           `json:"retries,omitempty"`
}

// MockExamSession is the cached state of a generated mock exam.
type MockExamSession struct {
	ID          uuid.UUID  `json:"id"`
	UserID      string     `json:"user_id"`
	Subject     string     `json:"subject"`
	Difficulty  Difficulty `json:"difficulty,omitempty"`
	QuestionIDs []string   `json:"question_ids"`
	CreatedAt   time.Time  `json:"created_at"`
}

// MockExamPayload is returned to a learner when a mock exam starts.
type MockExamPayload struct {
	SessionID uuid.UUID            `json:"session_id"`
	Subject   string               `json:"subject"`
	ExpiresAt time.Time            `json:"expires_at"`
	Questions []QuestionForLearner `json:"questions"`
}

// GenerateMockExamRequest is the payload for starting a mock exam.
type GenerateMockExamRequest struct {
	Subject    string `json:"subject" binding:"required,min=2,max=100"`
	Difficulty string `json:"difficulty" binding:"omitempty,oneof=easy medium hard mixed"`
	Count      int    `json:"count" binding:"required,min=1,max=100"`
}

// SubmitAnswersRequest carries a learner's answers keyed by question ID.
type SubmitAnswersRequest struct {
	Answers map[string]string `json:"answers" binding:"required"`
}

// MarkExamRequest grades an ad-hoc set of bank questions.
type MarkExamRequest struct {
	Subject string            `json:"subject" binding:"required,min=2,max=100"`
	Answers map[string]string `json:"answers" binding:"required,min=1"`
}

// GradedAttempt is the API view of a freshly graded attempt.
type GradedAttempt struct {
	AttemptID uuid.UUID        `json:"attempt_id"`
	Result    ExamResult       `json:"result"`
	AITips    []string         `json:"ai_tips,omitempty"`
	XPAwarded int              `json:"xp_awarded"`
	NewBadges []Badge          `json:"new_badges,omitempty"`
	Profile   *UserGameProfile `json:"profile,omitempty"`
}

// PredictionQuery selects the subject and horizon of a score forecast.
type PredictionQuery struct {
	Subject       string `form:"subject" binding:"required,min=2,max=100"`
	DaysUntilExam int    `form:"days_until_exam" binding:"min=0,max=3650"`
}

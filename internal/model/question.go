package model

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Difficulty is the authored difficulty band of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the bands in ascending order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// QuestionType enumerates how a question is answered.
type QuestionType string

const (
	QuestionTypeMCQ    QuestionType = "mcq"
	QuestionTypeTheory QuestionType = "theory"
	QuestionTypeEssay  QuestionType = "essay"
)

// Question represents a single bank question.
type Question struct {
	ID              string            `json:"id"`
	Subject         string            `json:"subject"`
	Topic           string            `json:"topic"`
	Difficulty      Difficulty        `json:"difficulty"`
	QuestionType    QuestionType      `json:"question_type"`
	QuestionText    string            `json:"question_text"`
	Options         map[string]string `json:"options,omitempty"`
	CorrectAnswer   AnswerKey         `json:"correct_answer"`
	Explanation     string            `json:"explanation"`
	DifficultyScore int               `json:"difficulty_score"`
	CreatedBy       *int              `json:"created_by,omitempty"`
	CreatedAt       time.Time         `json:"created_at,omitempty"`
}

// QuestionForLearner is the question payload served while an exam is running.
// It never carries the answer key or the explanation.
type QuestionForLearner struct {
	ID           string            `json:"id"`
	Subject      string            `json:"subject"`
	Topic        string            `json:"topic"`
	Difficulty   Difficulty        `json:"difficulty"`
	QuestionType QuestionType      `json:"question_type"`
	QuestionText string            `json:"question_text"`
	Options      map[string]string `json:"options,omitempty"`
}

// ForLearner strips grading data from the question.
func (q Question) ForLearner() QuestionForLearner {
	return QuestionForLearner{
		ID:           q.ID,
		Subject:      q.Subject,
		Topic:        q.Topic,
		Difficulty:   q.Difficulty,
		QuestionType: q.QuestionType,
		QuestionText: q.QuestionText,
		Options:      q.Options,
	}
}

// AnswerKey holds one or more accepted answers. On the wire it is either a
// JSON string (single answer) or an array of strings (multi-select).
type AnswerKey []string

// Single builds a one-answer key.
func Single(answer string) AnswerKey { return AnswerKey{answer} }

// IsMulti reports whether the key requires more than one selection.
func (k AnswerKey) IsMulti() bool { return len(k) > 1 }

// String joins the key with commas, the same form learners submit.
func (k AnswerKey) String() string { return strings.Join(k, ",") }

// MarshalJSON emits a plain string for single-answer keys.
func (k AnswerKey) MarshalJSON() ([]byte, error) {
	if len(k) == 1 {
		return json.Marshal(k[0])
	}
	return json.Marshal([]string(k))
}

// UnmarshalJSON accepts a string or an array of strings.
func (k *AnswerKey) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*k = nil
		return nil
	}
	if strings.HasPrefix(trimmed, "\"") {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*k = AnswerKey{s}
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var arr []string
		if err := json.Unmarshal(data, &arr); err != nil {
			return err
		}
		*k = AnswerKey(arr)
		return nil
	}
	return errors.New("correct_answer must be a string or an array of strings")
}

// CreateQuestionRequest is the payload for authoring a bank question.
type CreateQuestionRequest struct {
	Subject         string            `json:"subject" binding:"required,min=2,max=100"`
	Topic           string            `json:"topic" binding:"required,min=2,max=150"`
	Difficulty      string            `json:"difficulty" binding:"required,oneof=easy medium hard"`
	QuestionType    string            `json:"question_type" binding:"required,oneof=mcq theory essay"`
	QuestionText    string            `json:"question_text" binding:"required,min=1,max=4000"`
	Options         map[string]string `json:"options" binding:"omitempty"`
	CorrectAnswer   AnswerKey         `json:"correct_answer" binding:"required,min=1,dive,required,max=500"`
	Explanation     string            `json:"explanation" binding:"omitempty,max=4000"`
	DifficultyScore int               `json:"difficulty_score" binding:"required,min=1,max=5"`
}

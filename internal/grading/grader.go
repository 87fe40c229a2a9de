// Package grading marks exam attempts, assembles mock exams and forecasts
// final scores. Everything here is pure; callers own persistence.
package grading

import (
	"fmt"
	"math"
	"strings"

	"github.com/stemsi/studypilot-backend/internal/model"
)

// Topic accuracy thresholds, in percent.
const (
	WeakTopicThreshold   = 60.0
	StrongTopicThreshold = 80.0
)

type tally struct {
	total   int
	correct int
}

func (t tally) accuracy() float64 {
	if t.total == 0 {
		return 0
	}
	return float64(t.correct) / float64(t.total) * 100
}

// MarkExam grades answers (keyed by question ID) against questions.
// Unanswered questions count as skipped and do not affect accuracy.
func MarkExam(answers map[string]string, questions []model.Question) model.ExamResult {
	res := model.ExamResult{
		TotalQuestions:          len(questions),
		PerformanceByDifficulty: make(map[model.Difficulty]model.Accuracy),
		TopicPerformance:        []model.TopicPerformance{},
		WeakTopics:              []string{},
		StrongTopics:            []string{},
	}

	topics := make(map[string]*tally)
	var order []string
	byDifficulty := make(map[model.Difficulty]*tally)

	for _, q := range questions {
		given := strings.TrimSpace(answers[q.ID])
		if given == "" {
			res.Skipped++
			continue
		}

		t, ok := topics[q.Topic]
		if !ok {
			t = &tally{}
			topics[q.Topic] = t
			order = append(order, q.Topic)
		}
		d, ok := byDifficulty[q.Difficulty]
		if !ok {
			d = &tally{}
			byDifficulty[q.Difficulty] = d
		}

		t.total++
		d.total++
		if IsCorrect(given, q.CorrectAnswer) {
			res.CorrectAnswers++
			t.correct++
			d.correct++
		} else {
			res.WrongAnswers++
		}
	}

	if answered := res.TotalQuestions - res.Skipped; answered > 0 {
		res.Score = float64(res.CorrectAnswers) / float64(answered) * 100
	}
	res.Grade = LetterGrade(res.Score)

	for diff, t := range byDifficulty {
		res.PerformanceByDifficulty[diff] = model.Accuracy{
			Total:    t.total,
			Correct:  t.correct,
			Accuracy: round2(t.accuracy()),
		}
	}

	for _, topic := range order {
		t := topics[topic]
		acc := t.accuracy()
		res.TopicPerformance = append(res.TopicPerformance, model.TopicPerformance{
			Topic: topic,
			Accuracy: model.Accuracy{
				Total:    t.total,
				Correct:  t.correct,
				Accuracy: round2(acc),
			},
		})
		switch {
		case acc < WeakTopicThreshold:
			res.WeakTopics = append(res.WeakTopics, topic)
		case acc >= StrongTopicThreshold:
			res.StrongTopics = append(res.StrongTopics, topic)
		}
	}

	res.Recommendations = Recommendations(res.Score, res.WeakTopics)
	return res
}

// IsCorrect compares a learner answer with the key, ignoring case and
// surrounding whitespace. Multi-answer keys need the exact set of options,
// submitted comma-separated in any order.
func IsCorrect(given string, key model.AnswerKey) bool {
	if len(key) == 0 {
		return false
	}
	if !key.IsMulti() {
		return strings.EqualFold(strings.TrimSpace(given), strings.TrimSpace(key[0]))
	}

	want := answerSet(key)
	got := answerSet(strings.Split(given, ","))
	if len(want) != len(got) {
		return false
	}
	for v := range want {
		if _, ok := got[v]; !ok {
			return false
		}
	}
	return true
}

func answerSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

// LetterGrade maps a percentage score to a letter.
func LetterGrade(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 75:
		return "B"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	default:
		return "F"
	}
}

// Recommendations returns the score-tier message followed by one line per
// weak topic.
func Recommendations(score float64, weakTopics []string) []string {
	recs := make([]string, 0, len(weakTopics)+1)
	switch {
	case score >= 90:
		recs = append(recs, "Excellent work! You are well prepared. Keep revising to stay sharp.")
	case score >= 75:
		recs = append(recs, "Good performance. Review the questions you missed to push your score higher.")
	case score >= 60:
		recs = append(recs, "Fair attempt. Focus on your weak topics and practise more questions.")
	default:
		recs = append(recs, "You need more preparation. Revisit the fundamentals before your next attempt.")
	}
	for _, topic := range weakTopics {
		recs = append(recs, fmt.Sprintf("Master '%s' with targeted practice", topic))
	}
	return recs
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

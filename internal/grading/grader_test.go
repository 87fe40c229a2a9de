package grading

import (
	"reflect"
	"testing"

	"github.com/stemsi/studypilot-backend/internal/model"
)

func question(id, topic string, d model.Difficulty, key ...string) model.Question {
	return model.Question{
		ID:            id,
		Subject:       "Mathematics",
		Topic:         topic,
		Difficulty:    d,
		QuestionType:  model.QuestionTypeMCQ,
		CorrectAnswer: model.AnswerKey(key),
	}
}

func sampleExam() []model.Question {
	return []model.Question{
		question("q1", "Algebra", model.DifficultyEasy, "B"),
		question("q2", "Algebra", model.DifficultyMedium, "C"),
		question("q3", "Geometry", model.DifficultyMedium, "A"),
		question("q4", "Geometry", model.DifficultyHard, "D"),
		question("q5", "Fractions", model.DifficultyEasy, "A"),
	}
}

func TestMarkExam_SingleCorrectAnswer(t *testing.T) {
	qs := []model.Question{question("q1", "Algebra", model.DifficultyEasy, "B")}

	res := MarkExam(map[string]string{"q1": "B"}, qs)

	if res.Score != 100 {
		t.Fatalf("score = %v, want 100", res.Score)
	}
	if res.CorrectAnswers != 1 {
		t.Fatalf("correct = %d, want 1", res.CorrectAnswers)
	}
	if len(res.WeakTopics) != 0 {
		t.Fatalf("weak topics = %v, want none", res.WeakTopics)
	}
	if !reflect.DeepEqual(res.StrongTopics, []string{"Algebra"}) {
		t.Fatalf("strong topics = %v, want [Algebra]", res.StrongTopics)
	}
	if res.Grade != "A" {
		t.Fatalf("grade = %q, want A", res.Grade)
	}
}

func TestMarkExam_AllCorrect(t *testing.T) {
	answers := map[string]string{"q1": "b", "q2": " C ", "q3": "A", "q4": "d", "q5": "a"}

	res := MarkExam(answers, sampleExam())

	if res.Score != 100 {
		t.Fatalf("score = %v, want 100", res.Score)
	}
	if len(res.WeakTopics) != 0 {
		t.Fatalf("weak topics = %v, want none", res.WeakTopics)
	}
	if res.WrongAnswers != 0 || res.Skipped != 0 {
		t.Fatalf("wrong=%d skipped=%d, want 0/0", res.WrongAnswers, res.Skipped)
	}
}

func TestMarkExam_AllWrong(t *testing.T) {
	answers := map[string]string{"q1": "A", "q2": "A", "q3": "B", "q4": "A", "q5": "C"}

	res := MarkExam(answers, sampleExam())

	if res.Score != 0 {
		t.Fatalf("score = %v, want 0", res.Score)
	}
	want := []string{"Algebra", "Geometry", "Fractions"}
	if !reflect.DeepEqual(res.WeakTopics, want) {
		t.Fatalf("weak topics = %v, want %v", res.WeakTopics, want)
	}
	if res.Grade != "F" {
		t.Fatalf("grade = %q, want F", res.Grade)
	}
	wantRecs := []string{
		"You need more preparation. Revisit the fundamentals before your next attempt.",
		"Master 'Algebra' with targeted practice",
		"Master 'Geometry' with targeted practice",
		"Master 'Fractions' with targeted practice",
	}
	if !reflect.DeepEqual(res.Recommendations, wantRecs) {
		t.Fatalf("recommendations = %v, want %v", res.Recommendations, wantRecs)
	}
}

func TestMarkExam_ScoreWithoutSkips(t *testing.T) {
	// 3 of 5 correct.
	answers := map[string]string{"q1": "B", "q2": "C", "q3": "A", "q4": "A", "q5": "B"}

	res := MarkExam(answers, sampleExam())

	want := float64(res.CorrectAnswers) / float64(res.TotalQuestions) * 100
	if res.Score != want {
		t.Fatalf("score = %v, want %v", res.Score, want)
	}
	if res.Score != 60 {
		t.Fatalf("score = %v, want 60", res.Score)
	}
	// Algebra 100%, Geometry 50%, Fractions 0%.
	if !reflect.DeepEqual(res.StrongTopics, []string{"Algebra"}) {
		t.Fatalf("strong topics = %v", res.StrongTopics)
	}
	if !reflect.DeepEqual(res.WeakTopics, []string{"Geometry", "Fractions"}) {
		t.Fatalf("weak topics = %v", res.WeakTopics)
	}
}

func TestMarkExam_SkippedExcludedFromAccuracy(t *testing.T) {
	answers := map[string]string{"q1": "B", "q2": "   ", "q3": "A"}

	res := MarkExam(answers, sampleExam())

	if res.Skipped != 3 {
		t.Fatalf("skipped = %d, want 3", res.Skipped)
	}
	if res.Score != 100 {
		t.Fatalf("score = %v, want 100", res.Score)
	}
	if _, ok := res.PerformanceByDifficulty[model.DifficultyHard]; ok {
		t.Fatalf("hard band should be absent when no hard question was answered")
	}
	easy := res.PerformanceByDifficulty[model.DifficultyEasy]
	if easy.Total != 1 || easy.Correct != 1 {
		t.Fatalf("easy = %+v, want 1/1", easy)
	}
}

func TestMarkExam_DegenerateInputs(t *testing.T) {
	tests := []struct {
		name      string
		answers   map[string]string
		questions []model.Question
		skipped   int
	}{
		{name: "empty question list", answers: map[string]string{"q1": "A"}, questions: nil, skipped: 0},
		{name: "all skipped", answers: map[string]string{}, questions: sampleExam(), skipped: 5},
		{name: "nil answers", answers: nil, questions: sampleExam(), skipped: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := MarkExam(tt.answers, tt.questions)
			if res.Score != 0 {
				t.Fatalf("score = %v, want 0", res.Score)
			}
			if res.Skipped != tt.skipped {
				t.Fatalf("skipped = %d, want %d", res.Skipped, tt.skipped)
			}
			if res.WeakTopics == nil || res.StrongTopics == nil {
				t.Fatalf("topic lists must be non-nil")
			}
		})
	}
}

func TestMarkExam_Idempotent(t *testing.T) {
	answers := map[string]string{"q1": "B", "q2": "A", "q4": "D"}
	qs := sampleExam()

	first := MarkExam(answers, qs)
	second := MarkExam(answers, qs)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ:\n%+v\n%+v", first, second)
	}
}

func TestIsCorrect(t *testing.T) {
	tests := []struct {
		name  string
		given string
		key   model.AnswerKey
		want  bool
	}{
		{"exact", "B", model.Single("B"), true},
		{"case insensitive", "personification", model.Single("Personification"), true},
		{"trimmed", "  b ", model.Single("B"), true},
		{"wrong", "C", model.Single("B"), false},
		{"multi any order", "b, a", model.AnswerKey{"A", "B"}, true},
		{"multi duplicates", "A,B,a", model.AnswerKey{"A", "B"}, true},
		{"multi missing one", "A", model.AnswerKey{"A", "B"}, false},
		{"multi extra", "A,B,C", model.AnswerKey{"A", "B"}, false},
		{"empty key", "A", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCorrect(tt.given, tt.key); got != tt.want {
				t.Fatalf("IsCorrect(%q, %v) = %v, want %v", tt.given, tt.key, got, tt.want)
			}
		})
	}
}

func TestLetterGrade(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{100, "A"}, {90, "A"}, {89.99, "B"}, {75, "B"},
		{60, "C"}, {50, "D"}, {49.9, "F"}, {0, "F"},
	}
	for _, tt := range tests {
		if got := LetterGrade(tt.score); got != tt.want {
			t.Errorf("LetterGrade(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestRecommendations_Tiers(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{95, "Excellent work! You are well prepared. Keep revising to stay sharp."},
		{80, "Good performance. Review the questions you missed to push your score higher."},
		{65, "Fair attempt. Focus on your weak topics and practise more questions."},
		{10, "You need more preparation. Revisit the fundamentals before your next attempt."},
	}
	for _, tt := range tests {
		recs := Recommendations(tt.score, nil)
		if len(recs) != 1 || recs[0] != tt.want {
			t.Errorf("Recommendations(%v) = %v", tt.score, recs)
		}
	}
}

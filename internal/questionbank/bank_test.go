package questionbank

import (
	"strings"
	"testing"

	"github.com/stemsi/studypilot-backend/internal/grading"
	"github.com/stemsi/studypilot-backend/internal/model"
)

func TestBank_BySubject(t *testing.T) {
	b := New([]model.Question{
		{ID: "p1", Subject: "Physics"},
		{ID: "m1", Subject: "Mathematics"},
		{ID: "p2", Subject: "Physics"},
	})

	got := b.BySubject("  physics ")
	if len(got) != 2 || got[0].ID != "p1" || got[1].ID != "p2" {
		t.Fatalf("BySubject = %+v, want p1, p2 in bank order", got)
	}

	got[0].ID = "changed"
	if b.BySubject("Physics")[0].ID != "p1" {
		t.Fatal("BySubject returned the bank's backing slice")
	}

	if subjects := b.Subjects(); len(subjects) != 2 || subjects[0] != "Mathematics" {
		t.Fatalf("Subjects = %v, want sorted [Mathematics Physics]", subjects)
	}
}

func TestBank_ByIDs(t *testing.T) {
	b := New([]model.Question{{ID: "a"}, {ID: "b"}, {ID: "c"}})

	got := b.ByIDs([]string{"c", "missing", "a"})
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "a" {
		t.Fatalf("ByIDs = %+v, want c, a", got)
	}
	if _, ok := b.Get("missing"); ok {
		t.Fatal("Get found an unknown ID")
	}
}

func TestDefault_SeedIsConsistent(t *testing.T) {
	b := Default()
	if len(b.Subjects()) != 5 {
		t.Fatalf("subjects = %v, want 5", b.Subjects())
	}

	for _, subject := range b.Subjects() {
		qs := b.BySubject(subject)
		seen := map[model.Difficulty]bool{}
		for _, q := range qs {
			seen[q.Difficulty] = true
			if q.DifficultyScore < 1 || q.DifficultyScore > 5 {
				t.Errorf("%s: difficulty score %d out of range", q.ID, q.DifficultyScore)
			}
			if q.QuestionType != model.QuestionTypeMCQ {
				continue
			}
			for _, key := range q.CorrectAnswer {
				if _, ok := q.Options[key]; !ok {
					t.Errorf("%s: answer %q is not an option", q.ID, key)
				}
			}
		}
		if len(seen) != 3 {
			t.Errorf("%s covers %d difficulties, want 3", subject, len(seen))
		}
	}

	// Answering every question with its own key scores 100.
	qs := b.BySubject("Mathematics")
	answers := make(map[string]string, len(qs))
	for _, q := range qs {
		answers[q.ID] = strings.Join(q.CorrectAnswer, ",")
	}
	if got := grading.MarkExam(answers, qs).Score; got != 100 {
		t.Fatalf("score = %v, want 100", got)
	}
}

package service

import (
	"testing"
	"time"

	"github.com/stemsi/studypilot-backend/internal/gamification"
	"github.com/stemsi/studypilot-backend/internal/model"
)

var testNow = time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)

func TestAwardEligible_FirstExam(t *testing.T) {
	p := gamification.NewProfile("u1", testNow)
	result := &model.ExamResult{TotalQuestions: 5, CorrectAnswers: 3, Score: 60}

	out, badges, bonus := awardEligible("u1", p, result, testNow)
	if len(badges) != 1 || badges[0].Type != gamification.BadgeFirstExam {
		t.Fatalf("badges = %+v", badges)
	}
	if bonus != 50 || out.TotalXP != 50 {
		t.Fatalf("bonus = %d total = %d, want 50", bonus, out.TotalXP)
	}

	_, badges, bonus = awardEligible("u1", out, result, testNow)
	if len(badges) != 0 || bonus != 0 {
		t.Fatalf("second exam re-awarded %v (+%d)", badges, bonus)
	}
}

func TestAwardEligible_BonusUnlocksLevelBadge(t *testing.T) {
	// 100 + 120 + 144 = 364 XP ends at level 4; one perfect exam with its
	// first_exam and perfect_score bonuses (250) pushes past level 5.
	p := gamification.AddXP(gamification.NewProfile("u1", testNow), 364)
	if p.Level != 4 {
		t.Fatalf("setup level = %d, want 4", p.Level)
	}
	result := &model.ExamResult{TotalQuestions: 2, CorrectAnswers: 2, Score: 100}

	out, badges, bonus := awardEligible("u1", p, result, testNow)

	got := map[model.BadgeType]bool{}
	for _, b := range badges {
		got[b.Type] = true
	}
	for _, want := range []model.BadgeType{gamification.BadgeFirstExam, gamification.BadgePerfectScore, gamification.BadgeLevelFive} {
		if !got[want] {
			t.Errorf("missing badge %s in %v", want, badges)
		}
	}
	if bonus != 350 {
		t.Fatalf("bonus = %d, want 350", bonus)
	}
	if out.Level < 5 {
		t.Fatalf("level = %d, want >= 5", out.Level)
	}
}

func TestTaskCompleted(t *testing.T) {
	plan := model.StudyPlan{Schedule: []model.DailyPlan{
		{Tasks: []model.StudyTask{{TaskID: "day1-task1", Completed: true}, {TaskID: "day1-task2"}}},
	}}
	if !taskCompleted(plan, "day1-task1") {
		t.Fatal("day1-task1 should be completed")
	}
	if taskCompleted(plan, "day1-task2") || taskCompleted(plan, "missing") {
		t.Fatal("unexpected completed task")
	}
}

package grading

import (
	"testing"

	"github.com/stemsi/studypilot-backend/internal/model"
)

func TestPredictFinalScore(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		days   int
		want   model.Prediction
	}{
		{
			name:   "no history",
			scores: nil,
			days:   30,
			want:   model.Prediction{Prediction: 50, Range: [2]float64{40, 60}},
		},
		{
			name:   "single score has no trend",
			scores: []float64{72},
			days:   14,
			want:   model.Prediction{Prediction: 72, Range: [2]float64{62, 82}},
		},
		{
			name:   "rising trend",
			scores: []float64{80, 90},
			days:   7,
			want:   model.Prediction{Prediction: 95, Range: [2]float64{85, 100}},
		},
		{
			name:   "falling trend clamps at zero",
			scores: []float64{40, 10},
			days:   70,
			want:   model.Prediction{Prediction: 0, Range: [2]float64{0, 10}},
		},
		{
			name:   "clamps at hundred",
			scores: []float64{60, 80, 100},
			days:   28,
			want:   model.Prediction{Prediction: 100, Range: [2]float64{90, 100}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PredictFinalScore(tt.scores, tt.days)
			if got != tt.want {
				t.Fatalf("PredictFinalScore(%v, %d) = %+v, want %+v", tt.scores, tt.days, got, tt.want)
			}
		})
	}
}

func TestPredictFinalScore_EmptyIgnoresDays(t *testing.T) {
	for _, days := range []int{-5, 0, 1, 365} {
		got := PredictFinalScore([]float64{}, days)
		if got.Prediction != 50 || got.Range != [2]float64{40, 60} {
			t.Fatalf("days=%d: got %+v", days, got)
		}
	}
}

func TestGenerateMockExam(t *testing.T) {
	pool := sampleExam()

	tests := []struct {
		name       string
		difficulty string
		count      int
		wantIDs    []string
	}{
		{"mixed keeps bank order", "mixed", 3, []string{"q1", "q2", "q3"}},
		{"empty difficulty keeps all", "", 10, []string{"q1", "q2", "q3", "q4", "q5"}},
		{"filters easy", "easy", 5, []string{"q1", "q5"}},
		{"filters medium with cap", "Medium", 1, []string{"q2"}},
		{"zero count", "", 0, nil},
		{"no match", "expert", 3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateMockExam(pool, tt.difficulty, tt.count)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d questions, want %d", len(got), len(tt.wantIDs))
			}
			for i, q := range got {
				if q.ID != tt.wantIDs[i] {
					t.Fatalf("question %d = %s, want %s", i, q.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

package gemini

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/stemsi/studypilot-backend/internal/model"
)

func TestParseTips(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{
			name: "plain json",
			raw:  `{"tips": ["Revise fractions daily.", "Time yourself on mock exams."]}`,
			want: []string{"Revise fractions daily.", "Time yourself on mock exams."},
		},
		{
			name: "fenced json with blanks",
			raw:  "```json\n{\"tips\": [\"  Practise vectors.  \", \"\", \"   \"]}\n```",
			want: []string{"Practise vectors."},
		},
		{
			name: "caps at five",
			raw:  `{"tips": ["1","2","3","4","5","6","7"]}`,
			want: []string{"1", "2", "3", "4", "5"},
		},
		{
			name:    "not json",
			raw:     "Study harder!",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTips(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("Physics", model.ExamResult{
		Score:          40,
		Grade:          "F",
		CorrectAnswers: 2,
		WrongAnswers:   3,
		WeakTopics:     []string{"Electricity", "Waves"},
	})

	for _, want := range []string{"Physics", "40.0%", "grade F", "Electricity, Waves", "Strong topics: none"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q:\n%s", want, p)
		}
	}
}

func TestNilAdvisor(t *testing.T) {
	var a *Advisor
	tips, err := a.StudyTips(context.Background(), "Physics", model.ExamResult{})
	if err != nil || tips != nil {
		t.Fatalf("nil advisor returned %v, %v", tips, err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

package grading

import (
	"strings"

	"github.com/stemsi/studypilot-backend/internal/model"
)

// MixedDifficulty keeps every difficulty band in a mock exam.
const MixedDifficulty = "mixed"

// GenerateMockExam picks up to count questions in bank order. A concrete
// difficulty filters the pool; "" or "mixed" keeps all of it.
func GenerateMockExam(pool []model.Question, difficulty string, count int) []model.Question {
	if count <= 0 {
		return []model.Question{}
	}

	difficulty = strings.ToLower(strings.TrimSpace(difficulty))
	out := make([]model.Question, 0, min(count, len(pool)))
	for _, q := range pool {
		if len(out) == count {
			break
		}
		if difficulty != "" && difficulty != MixedDifficulty && string(q.Difficulty) != difficulty {
			continue
		}
		out = append(out, q)
	}
	return out
}

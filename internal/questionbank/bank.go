// Package questionbank holds the built-in question bank that admin-authored
// questions are served alongside.
package questionbank

import (
	"sort"
	"strings"

	"github.com/stemsi/studypilot-backend/internal/model"
)

// Bank is an ordered, subject-keyed question collection. A Bank is read-only
// after construction and safe for concurrent use.
type Bank struct {
	bySubject map[string][]model.Question
	byID      map[string]model.Question
	subjects  []string
}

// New builds a bank from a flat question list, keeping input order within
// each subject.
func New(questions []model.Question) *Bank {
	b := &Bank{
		bySubject: make(map[string][]model.Question),
		byID:      make(map[string]model.Question, len(questions)),
	}
	for _, q := range questions {
		key := normalize(q.Subject)
		if _, ok := b.bySubject[key]; !ok {
			b.subjects = append(b.subjects, q.Subject)
		}
		b.bySubject[key] = append(b.bySubject[key], q)
		b.byID[q.ID] = q
	}
	sort.Strings(b.subjects)
	return b
}

// Subjects returns the subject names present in the bank, sorted.
func (b *Bank) Subjects() []string {
	out := make([]string, len(b.subjects))
	copy(out, b.subjects)
	return out
}

// BySubject returns the subject's questions in bank order. Subject matching
// ignores case and surrounding whitespace.
func (b *Bank) BySubject(subject string) []model.Question {
	qs := b.bySubject[normalize(subject)]
	out := make([]model.Question, len(qs))
	copy(out, qs)
	return out
}

// ByIDs resolves question IDs in the requested order, skipping unknown IDs.
func (b *Bank) ByIDs(ids []string) []model.Question {
	out := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := b.byID[id]; ok {
			out = append(out, q)
		}
	}
	return out
}

// Get returns a single question by ID.
func (b *Bank) Get(id string) (model.Question, bool) {
	q, ok := b.byID[id]
	return q, ok
}

// Len is the number of questions in the bank.
func (b *Bank) Len() int { return len(b.byID) }

func normalize(subject string) string {
	return strings.ToLower(strings.TrimSpace(subject))
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/studypilot-backend/internal/config"
	"github.com/stemsi/studypilot-backend/internal/model"
	"github.com/stemsi/studypilot-backend/internal/questionbank"
	"github.com/stemsi/studypilot-backend/internal/repository"
	"github.com/stemsi/studypilot-backend/internal/response"
)

var (
	ErrNotFound         = errors.New("resource not found")
	ErrSubjectNotFound  = errors.New("subject has no questions")
	ErrQuestionNotFound = errors.New("question not found")
	ErrInvalidQuestion  = errors.New("correct answer is not one of the options")
)

const subjectCacheTTL = 10 * time.Minute

// QuestionService serves the built-in bank merged with admin-authored
// questions. Authored pools are cached in Redis per subject.
type QuestionService struct {
	questionRepo *repository.QuestionRepository
	bank         *questionbank.Bank
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(
	questionRepo *repository.QuestionRepository,
	bank *questionbank.Bank,
	rdb *redis.Client,
	log zerolog.Logger,
) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		bank:         bank,
		rdb:          rdb,
		log:          log.With().Str("component", "question_service").Logger(),
	}
}

// Subjects lists every subject with at least one question, sorted.
func (s *QuestionService) Subjects(ctx context.Context) ([]string, error) {
	authored, err := s.questionRepo.ListSubjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}

	seen := make(map[string]struct{})
	subjects := make([]string, 0, len(authored)+len(s.bank.Subjects()))
	for _, subj := range append(s.bank.Subjects(), authored...) {
		key := strings.ToLower(strings.TrimSpace(subj))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		subjects = append(subjects, subj)
	}
	slices.Sort(subjects)
	return subjects, nil
}

// Pool returns the built-in questions of a subject followed by the
// authored ones.
func (s *QuestionService) Pool(ctx context.Context, subject string) ([]model.Question, error) {
	pool := s.bank.BySubject(subject)
	authored, err := s.authored(ctx, subject)
	if err != nil {
		return nil, err
	}
	pool = append(pool, authored...)
	if len(pool) == 0 {
		return nil, ErrSubjectNotFound
	}
	return pool, nil
}

// Resolve looks questions up by ID in the requested order. Unknown and
// repeated IDs are skipped.
func (s *QuestionService) Resolve(ctx context.Context, ids []string) ([]model.Question, error) {
	found := make(map[string]model.Question, len(ids))
	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; ok || slices.Contains(missing, id) {
			continue
		}
		if q, ok := s.bank.Get(id); ok {
			found[id] = q
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		authored, err := s.questionRepo.GetByIDs(ctx, missing)
		if err != nil {
			return nil, fmt.Errorf("get questions: %w", err)
		}
		for _, q := range authored {
			found[q.ID] = q
		}
	}

	out := make([]model.Question, 0, len(found))
	for _, id := range ids {
		if q, ok := found[id]; ok {
			out = append(out, q)
			delete(found, id)
		}
	}
	return out, nil
}

// ─── Admin authoring ────────────────────────────────────────────────────────

// List returns authored questions, optionally for a single subject.
func (s *QuestionService) List(ctx context.Context, subject string, page, perPage int) ([]model.Question, *response.Pagination, error) {
	questions, total, err := s.questionRepo.ListPaged(ctx, subject, page, perPage)
	if err != nil {
		return nil, nil, err
	}
	if questions == nil {
		questions = []model.Question{}
	}
	return questions, response.NewPagination(page, perPage, total), nil
}

// Create stores an authored question and drops the subject's cached pool.
func (s *QuestionService) Create(ctx context.Context, adminID int, req model.CreateQuestionRequest) (*model.Question, error) {
	q := &model.Question{
		Subject:         strings.TrimSpace(req.Subject),
		Topic:           strings.TrimSpace(req.Topic),
		Difficulty:      model.Difficulty(req.Difficulty),
		QuestionType:    model.QuestionType(req.QuestionType),
		QuestionText:    req.QuestionText,
		Options:         req.Options,
		CorrectAnswer:   req.CorrectAnswer,
		Explanation:     req.Explanation,
		DifficultyScore: req.DifficultyScore,
		CreatedBy:       &adminID,
	}

	if q.QuestionType == model.QuestionTypeMCQ {
		if len(q.Options) < 2 {
			return nil, ErrInvalidQuestion
		}
		for _, ans := range q.CorrectAnswer {
			if _, ok := q.Options[strings.TrimSpace(ans)]; !ok {
				return nil, ErrInvalidQuestion
			}
		}
	}

	if err := s.questionRepo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	s.invalidate(ctx, q.Subject)

	s.log.Info().
		Str("question_id", q.ID).
		Str("subject", q.Subject).
		Int("admin_id", adminID).
		Msg("Question created")
	return q, nil
}

// Delete removes an authored question. Built-in questions cannot be deleted.
func (s *QuestionService) Delete(ctx context.Context, id string) error {
	existing, err := s.questionRepo.GetByIDs(ctx, []string{id})
	if err != nil {
		return fmt.Errorf("get question: %w", err)
	}
	if len(existing) == 0 {
		return ErrQuestionNotFound
	}

	if err := s.questionRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("delete question: %w", err)
	}
	s.invalidate(ctx, existing[0].Subject)
	return nil
}

// ─── Cache ──────────────────────────────────────────────────────────────────

func (s *QuestionService) authored(ctx context.Context, subject string) ([]model.Question, error) {
	key := config.CacheKey.SubjectQuestionsKey(strings.ToLower(strings.TrimSpace(subject)))

	raw, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached []model.Question
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			return cached, nil
		}
	case !errors.Is(err, redis.Nil):
		s.log.Warn().Err(err).Str("subject", subject).Msg("Question cache read failed")
	}

	questions, err := s.questionRepo.ListBySubject(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	if raw, err := json.Marshal(questions); err == nil {
		if err := s.rdb.Set(ctx, key, raw, subjectCacheTTL).Err(); err != nil {
			s.log.Warn().Err(err).Str("subject", subject).Msg("Question cache write failed")
		}
	}
	return questions, nil
}

func (s *QuestionService) invalidate(ctx context.Context, subject string) {
	key := config.CacheKey.SubjectQuestionsKey(strings.ToLower(strings.TrimSpace(subject)))
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		s.log.Warn().Err(err).Str("subject", subject).Msg("Question cache invalidation failed")
	}
}

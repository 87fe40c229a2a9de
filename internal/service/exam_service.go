package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/studypilot-backend/internal/config"
	"github.com/stemsi/studypilot-backend/internal/gamification"
	"github.com/stemsi/studypilot-backend/internal/gemini"
	"github.com/stemsi/studypilot-backend/internal/grading"
	"github.com/stemsi/studypilot-backend/internal/model"
	"github.com/stemsi/studypilot-backend/internal/monitoring"
	"github.com/stemsi/studypilot-backend/internal/response"
)

// Domain Errors
var (
	ErrSessionNotFound  = errors.New("mock exam session not found")
	ErrSessionSubmitted = errors.New("mock exam session already submitted")
	ErrNoQuestions      = errors.New("no questions match the request")
)

const (
	// recentScoreWindow is how many past attempts feed a prediction.
	recentScoreWindow = 10
	submittedMarkTTL  = 24 * time.Hour
)

// AttemptStore reads and writes graded attempts.
type AttemptStore interface {
	Create(ctx context.Context, a *model.ExamAttempt) error
	ListByUser(ctx context.Context, userID string, page, perPage int) ([]model.ExamAttempt, int, error)
	RecentScores(ctx context.Context, userID, subject string, limit int) ([]float64, error)
}

// ExamRewarder credits a learner's profile for a graded exam.
type ExamRewarder interface {
	RecordExam(ctx context.Context, userID, subject string, result model.ExamResult) (*model.ActivityReward, error)
}

// ExamService runs mock exams and grades attempts. Graded attempts are
// queued in Redis and written to Postgres by worker.AttemptWorker.
type ExamService struct {
	questions   *QuestionService
	games       ExamRewarder
	attemptRepo AttemptStore
	advisor     *gemini.Advisor
	rdb         *redis.Client
	sessionTTL  time.Duration
	log         zerolog.Logger
	now         func() time.Time
}

// NewExamService creates a new ExamService. advisor may be nil.
func NewExamService(
	questions *QuestionService,
	games ExamRewarder,
	attemptRepo AttemptStore,
	advisor *gemini.Advisor,
	rdb *redis.Client,
	cfg *config.Config,
	log zerolog.Logger,
) *ExamService {
	return &ExamService{
		questions:   questions,
		games:       games,
		attemptRepo: attemptRepo,
		advisor:     advisor,
		rdb:         rdb,
		sessionTTL:  cfg.MockSessionTTL,
		log:         log.With().Str("component", "exam_service").Logger(),
		now:         time.Now,
	}
}

// ─── Mock exams ─────────────────────────────────────────────────────────────

// StartMockExam picks questions for a new mock exam and caches the session.
func (s *ExamService) StartMockExam(ctx context.Context, userID string, req model.GenerateMockExamRequest) (*model.MockExamPayload, error) {
	pool, err := s.questions.Pool(ctx, req.Subject)
	if err != nil {
		return nil, err
	}

	picked := grading.GenerateMockExam(pool, req.Difficulty, req.Count)
	if len(picked) == 0 {
		return nil, ErrNoQuestions
	}

	now := s.now()
	session := model.MockExamSession{
		ID:          uuid.New(),
		UserID:      userID,
		Subject:     picked[0].Subject,
		Difficulty:  model.Difficulty(req.Difficulty),
		QuestionIDs: make([]string, 0, len(picked)),
		CreatedAt:   now,
	}
	learnerQuestions := make([]model.QuestionForLearner, 0, len(picked))
	for _, q := range picked {
		session.QuestionIDs = append(session.QuestionIDs, q.ID)
		learnerQuestions = append(learnerQuestions, q.ForLearner())
	}

	raw, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	if err := s.rdb.Set(ctx, config.CacheKey.MockSessionKey(session.ID.String()), raw, s.sessionTTL).Err(); err != nil {
		return nil, fmt.Errorf("cache session: %w", err)
	}

	s.log.Info().
		Str("user_id", userID).
		Str("session_id", session.ID.String()).
		Str("subject", session.Subject).
		Int("questions", len(picked)).
		Msg("Mock exam started")

	return &model.MockExamPayload{
		SessionID: session.ID,
		Subject:   session.Subject,
		ExpiresAt: now.Add(s.sessionTTL),
		Questions: learnerQuestions,
	}, nil
}

// GetSession loads a learner's cached mock exam session. Sessions of other
// learners are reported as not found.
func (s *ExamService) GetSession(ctx context.Context, userID string, sessionID uuid.UUID) (*model.MockExamSession, error) {
	raw, err := s.rdb.Get(ctx, config.CacheKey.MockSessionKey(sessionID.String())).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var session model.MockExamSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

// Autosave stores one in-progress answer for the session.
func (s *ExamService) Autosave(ctx context.Context, session *model.MockExamSession, questionID, answer string) error {
	if !slices.Contains(session.QuestionIDs, questionID) {
		return ErrQuestionNotFound
	}

	key := config.CacheKey.MockAnswersKey(session.UserID, session.ID.String())
	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, key, questionID, answer)
	pipe.Expire(ctx, key, s.sessionTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("autosave answer: %w", err)
	}
	return nil
}

// SavedAnswers returns the autosaved answers of a session.
func (s *ExamService) SavedAnswers(ctx context.Context, session *model.MockExamSession) (map[string]string, error) {
	answers, err := s.rdb.HGetAll(ctx, config.CacheKey.MockAnswersKey(session.UserID, session.ID.String())).Result()
	if err != nil {
		return nil, fmt.Errorf("get autosaved answers: %w", err)
	}
	return answers, nil
}

// SubmitMockExam grades a mock exam once. Submitted answers override the
// autosaved ones.
func (s *ExamService) SubmitMockExam(ctx context.Context, userID string, sessionID uuid.UUID, answers map[string]string) (*model.GradedAttempt, error) {
	session, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	markKey := config.CacheKey.MockSubmittedKey(sessionID.String())
	claimed, err := s.rdb.SetNX(ctx, markKey, userID, submittedMarkTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("claim submission: %w", err)
	}
	if !claimed {
		return nil, ErrSessionSubmitted
	}

	attempt, err := s.submit(ctx, session, answers)
	if err != nil {
		// Release the claim so the learner can retry.
		_ = s.rdb.Del(ctx, markKey).Err()
		return nil, err
	}

	_ = s.rdb.Del(ctx,
		config.CacheKey.MockSessionKey(sessionID.String()),
		config.CacheKey.MockAnswersKey(userID, sessionID.String()),
	).Err()
	return attempt, nil
}

func (s *ExamService) submit(ctx context.Context, session *model.MockExamSession, answers map[string]string) (*model.GradedAttempt, error) {
	merged, err := s.SavedAnswers(ctx, session)
	if err != nil {
		return nil, err
	}
	for qID, ans := range answers {
		merged[qID] = ans
	}

	questions, err := s.questions.Resolve(ctx, session.QuestionIDs)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return s.grade(ctx, session.UserID, session.Subject, model.AttemptSourceMock, merged, questions)
}

// ─── Ad-hoc marking ─────────────────────────────────────────────────────────

// MarkExam grades answers to arbitrary questions of one subject. Answers to
// questions of other subjects are ignored.
func (s *ExamService) MarkExam(ctx context.Context, userID string, req model.MarkExamRequest) (*model.GradedAttempt, error) {
	ids := make([]string, 0, len(req.Answers))
	for id := range req.Answers {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	resolved, err := s.questions.Resolve(ctx, ids)
	if err != nil {
		return nil, err
	}

	subject := strings.TrimSpace(req.Subject)
	questions := make([]model.Question, 0, len(resolved))
	for _, q := range resolved {
		if strings.EqualFold(q.Subject, subject) {
			questions = append(questions, q)
		}
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return s.grade(ctx, userID, questions[0].Subject, model.AttemptSourceCustom, req.Answers, questions)
}

// grade marks the attempt, queues it for persistence and then rewards the
// learner. XP is credited only after the attempt is handed off. Study tips
// and gamification are best effort.
func (s *ExamService) grade(
	ctx context.Context,
	userID, subject string,
	source model.AttemptSource,
	answers map[string]string,
	questions []model.Question,
) (*model.GradedAttempt, error) {
	result := grading.MarkExam(answers, questions)
	monitoring.ExamsGraded.WithLabelValues(string(source), result.Grade).Inc()
	monitoring.ExamScore.Observe(result.Score)

	tips, err := s.advisor.StudyTips(ctx, subject, result)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("Study tips unavailable")
	}

	attempt := model.ExamAttempt{
		ID:        uuid.New(),
		UserID:    userID,
		Subject:   subject,
		Source:    source,
		Result:    result,
		AITips:    tips,
		XPAwarded: gamification.ExamXP(result),
		CreatedAt: s.now(),
	}
	if err := s.enqueue(ctx, attempt); err != nil {
		return nil, err
	}

	graded := &model.GradedAttempt{
		AttemptID: attempt.ID,
		Result:    result,
		AITips:    tips,
	}
	reward, err := s.games.RecordExam(ctx, userID, subject, result)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Str("attempt_id", attempt.ID.String()).Msg("Failed to reward exam")
	} else {
		graded.XPAwarded = reward.XPAwarded
		graded.NewBadges = reward.NewBadges
		graded.Profile = &reward.Profile
	}

	s.log.Info().
		Str("user_id", userID).
		Str("attempt_id", attempt.ID.String()).
		Str("subject", subject).
		Float64("score", result.Score).
		Str("grade", result.Grade).
		Msg("Exam graded")
	return graded, nil
}

// enqueue hands the attempt to the attempt worker, writing it directly
// when the queue is unavailable.
func (s *ExamService) enqueue(ctx context.Context, attempt model.ExamAttempt) error {
	raw, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("encode attempt: %w", err)
	}
	err = s.rdb.RPush(ctx, config.WorkerKey.PersistAttemptsQueue, raw).Err()
	if err == nil {
		return nil
	}
	s.log.Warn().Err(err).Msg("Attempt queue unavailable, writing directly")

	if err := s.attemptRepo.Create(ctx, &attempt); err != nil {
		return fmt.Errorf("persist attempt: %w", err)
	}
	return nil
}

// ─── History & prediction ───────────────────────────────────────────────────

// History lists a learner's persisted attempts, newest first.
func (s *ExamService) History(ctx context.Context, userID string, page, perPage int) ([]model.ExamAttempt, *response.Pagination, error) {
	attempts, total, err := s.attemptRepo.ListByUser(ctx, userID, page, perPage)
	if err != nil {
		return nil, nil, fmt.Errorf("list attempts: %w", err)
	}
	if attempts == nil {
		attempts = []model.ExamAttempt{}
	}
	return attempts, response.NewPagination(page, perPage, total), nil
}

// Predict forecasts the final score of a subject from the learner's recent
// attempts.
func (s *ExamService) Predict(ctx context.Context, userID, subject string, daysUntilExam int) (model.Prediction, error) {
	scores, err := s.attemptRepo.RecentScores(ctx, userID, subject, recentScoreWindow)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("recent scores: %w", err)
	}
	return grading.PredictFinalScore(scores, daysUntilExam), nil
}

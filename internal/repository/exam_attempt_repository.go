package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/studypilot-backend/internal/model"
)

// ExamAttemptRepository handles graded attempt data access.
type ExamAttemptRepository struct {
	pool *pgxpool.Pool
}

// NewExamAttemptRepository creates a new ExamAttemptRepository.
func NewExamAttemptRepository(pool *pgxpool.Pool) *ExamAttemptRepository {
	return &ExamAttemptRepository{pool: pool}
}

// Create inserts a single attempt. Re-inserting an existing ID is a no-op.
func (r *ExamAttemptRepository) Create(ctx context.Context, a *model.ExamAttempt) error {
	result, err := json.Marshal(a.Result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO exam_attempts (id, user_id, subject, source, score, grade,
		                            weak_topics, strong_topics, result, ai_tips, xp_awarded, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, $10, $11, $12)
		 ON CONFLICT (id) DO NOTHING`,
		a.ID, a.UserID, a.Subject, a.Source, a.Result.Score, a.Result.Grade,
		nonNil(a.Result.WeakTopics), nonNil(a.Result.StrongTopics), string(result),
		nonNil(a.AITips), a.XPAwarded, a.CreatedAt,
	)
	return err
}

// BulkCreate inserts many attempts in one statement. Array columns are
// carried as JSON text because UNNEST flattens multi-dimensional arrays.
func (r *ExamAttemptRepository) BulkCreate(ctx context.Context, attempts []model.ExamAttempt) error {
	n := len(attempts)
	if n == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, n)
	users := make([]string, 0, n)
	subjects := make([]string, 0, n)
	sources := make([]string, 0, n)
	results := make([]string, 0, n)
	tips := make([]string, 0, n)
	xps := make([]int, 0, n)
	createdAts := make([]time.Time, 0, n)

	for _, a := range attempts {
		res, err := json.Marshal(a.Result)
		if err != nil {
			return fmt.Errorf("encode result %s: %w", a.ID, err)
		}
		tip, err := json.Marshal(nonNil(a.AITips))
		if err != nil {
			return fmt.Errorf("encode tips %s: %w", a.ID, err)
		}
		ids = append(ids, a.ID)
		users = append(users, a.UserID)
		subjects = append(subjects, a.Subject)
		sources = append(sources, string(a.Source))
		results = append(results, string(res))
		tips = append(tips, string(tip))
		xps = append(xps, a.XPAwarded)
		createdAts = append(createdAts, a.CreatedAt)
	}

	query := `
		INSERT INTO exam_attempts (id, user_id, subject, source, score, grade,
		                           weak_topics, strong_topics, result, ai_tips, xp_awarded, created_at)
		SELECT
			u.id,
			u.user_id,
			u.subject,
			u.source,
			(u.result::jsonb ->> 'score')::numeric,
			u.result::jsonb ->> 'grade',
			ARRAY(SELECT jsonb_array_elements_text(COALESCE(u.result::jsonb -> 'weak_topics', '[]'))),
			ARRAY(SELECT jsonb_array_elements_text(COALESCE(u.result::jsonb -> 'strong_topics', '[]'))),
			u.result::jsonb,
			ARRAY(SELECT jsonb_array_elements_text(u.ai_tips::jsonb)),
			u.xp_awarded,
			u.created_at
		FROM UNNEST(
			$1::uuid[],
			$2::text[],
			$3::text[],
			$4::text[],
			$5::text[],
			$6::text[],
			$7::int[],
			$8::timestamptz[]
		) AS u (id, user_id, subject, source, result, ai_tips, xp_awarded, created_at)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query, ids, users, subjects, sources, results, tips, xps, createdAts)
	return err
}

// ListByUser returns a page of the user's attempts, newest first.
func (r *ExamAttemptRepository) ListByUser(ctx context.Context, userID string, page, perPage int) ([]model.ExamAttempt, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM exam_attempts WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, subject, source, result, ai_tips, xp_awarded, created_at
		 FROM exam_attempts WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`, userID, perPage, (page-1)*perPage,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	attempts := []model.ExamAttempt{}
	for rows.Next() {
		var (
			a   model.ExamAttempt
			raw []byte
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.Subject, &a.Source, &raw, &a.AITips, &a.XPAwarded, &a.CreatedAt); err != nil {
			return nil, 0, err
		}
		if err := json.Unmarshal(raw, &a.Result); err != nil {
			return nil, 0, fmt.Errorf("decode result %s: %w", a.ID, err)
		}
		attempts = append(attempts, a)
	}
	return attempts, total, rows.Err()
}

// RecentScores returns up to limit of the user's latest scores for a
// subject, oldest first.
func (r *ExamAttemptRepository) RecentScores(ctx context.Context, userID, subject string, limit int) ([]float64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT score::float8 FROM (
			SELECT score, created_at FROM exam_attempts
			WHERE user_id = $1 AND LOWER(subject) = LOWER($2)
			ORDER BY created_at DESC
			LIMIT $3
		 ) recent
		 ORDER BY created_at ASC`, userID, subject, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := []float64{}
	for rows.Next() {
		var s float64
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

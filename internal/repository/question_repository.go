package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/studypilot-backend/internal/model"
)

// QuestionRepository handles authored question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

const questionColumns = `id, subject, topic, difficulty, question_type, question_text,
	options, correct_answer, explanation, difficulty_score, created_by, created_at`

func scanQuestion(row pgx.Row) (model.Question, error) {
	var (
		q       model.Question
		options []byte
		answer  []byte
	)
	err := row.Scan(&q.ID, &q.Subject, &q.Topic, &q.Difficulty, &q.QuestionType, &q.QuestionText,
		&options, &answer, &q.Explanation, &q.DifficultyScore, &q.CreatedBy, &q.CreatedAt)
	if err != nil {
		return q, err
	}
	if len(options) > 0 {
		if err := json.Unmarshal(options, &q.Options); err != nil {
			return q, fmt.Errorf("decode options of %s: %w", q.ID, err)
		}
	}
	if err := json.Unmarshal(answer, &q.CorrectAnswer); err != nil {
		return q, fmt.Errorf("decode answer of %s: %w", q.ID, err)
	}
	return q, nil
}

func collectQuestions(rows pgx.Rows) ([]model.Question, error) {
	defer rows.Close()
	questions := []model.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// ListBySubject retrieves a subject's questions in authoring order.
func (r *QuestionRepository) ListBySubject(ctx context.Context, subject string) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+`
		 FROM questions WHERE LOWER(subject) = LOWER($1)
		 ORDER BY created_at, id`, subject,
	)
	if err != nil {
		return nil, err
	}
	return collectQuestions(rows)
}

// ListPaged lists questions, optionally for one subject, newest first.
func (r *QuestionRepository) ListPaged(ctx context.Context, subject string, page, perPage int) ([]model.Question, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM questions WHERE $1 = '' OR LOWER(subject) = LOWER($1)`, subject,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+`
		 FROM questions WHERE $1 = '' OR LOWER(subject) = LOWER($1)
		 ORDER BY created_at DESC, id
		 LIMIT $2 OFFSET $3`, subject, perPage, (page-1)*perPage,
	)
	if err != nil {
		return nil, 0, err
	}
	questions, err := collectQuestions(rows)
	return questions, total, err
}

// GetByIDs resolves authored questions by ID. Order is not guaranteed.
func (r *QuestionRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Question, error) {
	if len(ids) == 0 {
		return []model.Question{}, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = ANY($1::text[])`, ids,
	)
	if err != nil {
		return nil, err
	}
	return collectQuestions(rows)
}

// ListSubjects returns the distinct subjects with authored questions.
func (r *QuestionRepository) ListSubjects(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT subject FROM questions ORDER BY subject`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// Create inserts a new question.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	var options []byte
	if len(q.Options) > 0 {
		var err error
		if options, err = json.Marshal(q.Options); err != nil {
			return err
		}
	}
	answer, err := json.Marshal(q.CorrectAnswer)
	if err != nil {
		return err
	}

	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (subject, topic, difficulty, question_type, question_text,
		                        options, correct_answer, explanation, difficulty_score, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7::jsonb, $8, $9, $10)
		 RETURNING id, created_at`,
		q.Subject, q.Topic, q.Difficulty, q.QuestionType, q.QuestionText,
		nullableJSON(options), string(answer), q.Explanation, q.DifficultyScore, q.CreatedBy,
	).Scan(&q.ID, &q.CreatedAt)
}

// Delete removes a question. It reports pgx.ErrNoRows when nothing matched.
func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func nullableJSON(b []byte) *string {
	if len(b) == 0 {
		return nil
	}
	s := string(b)
	return &s
}

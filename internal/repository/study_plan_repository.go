package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/studypilot-backend/internal/model"
)

// StudyPlanRepository handles study plan data access. The schedule is
// stored as a single JSONB document.
type StudyPlanRepository struct {
	pool *pgxpool.Pool
}

// NewStudyPlanRepository creates a new StudyPlanRepository.
func NewStudyPlanRepository(pool *pgxpool.Pool) *StudyPlanRepository {
	return &StudyPlanRepository{pool: pool}
}

const planColumns = `id, user_id, exam_type, deadline, total_days_available, hours_per_day::float8,
	subjects, weak_topics, schedule, total_hours_required::float8, status_percentage::float8,
	created_at, updated_at`

func scanPlan(row pgx.Row) (*model.StudyPlan, error) {
	var (
		p   model.StudyPlan
		raw []byte
	)
	err := row.Scan(&p.PlanID, &p.UserID, &p.ExamType, &p.Deadline, &p.TotalDaysAvailable, &p.HoursPerDay,
		&p.Subjects, &p.WeakTopics, &raw, &p.TotalHoursRequired, &p.StatusPercentage,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &p.Schedule); err != nil {
		return nil, fmt.Errorf("decode schedule %s: %w", p.PlanID, err)
	}
	return &p, nil
}

// Create inserts a generated plan.
func (r *StudyPlanRepository) Create(ctx context.Context, p *model.StudyPlan) error {
	schedule, err := json.Marshal(p.Schedule)
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO study_plans (id, user_id, exam_type, deadline, total_days_available, hours_per_day,
		                          subjects, weak_topics, schedule, total_hours_required, status_percentage,
		                          created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, $10, $11, $12, $13)`,
		p.PlanID, p.UserID, p.ExamType, p.Deadline, p.TotalDaysAvailable, p.HoursPerDay,
		p.Subjects, p.WeakTopics, string(schedule), p.TotalHoursRequired, p.StatusPercentage,
		p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// GetByID retrieves a plan owned by userID.
func (r *StudyPlanRepository) GetByID(ctx context.Context, id uuid.UUID, userID string) (*model.StudyPlan, error) {
	return scanPlan(r.pool.QueryRow(ctx,
		`SELECT `+planColumns+` FROM study_plans WHERE id = $1 AND user_id = $2`, id, userID,
	))
}

// ListByUser returns a page of the user's plans, newest first.
func (r *StudyPlanRepository) ListByUser(ctx context.Context, userID string, page, perPage int) ([]model.StudyPlan, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM study_plans WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+planColumns+` FROM study_plans WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`, userID, perPage, (page-1)*perPage,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	plans := []model.StudyPlan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, 0, err
		}
		plans = append(plans, *p)
	}
	return plans, total, rows.Err()
}

// UpdateProgress stores a plan's schedule and status percentage.
func (r *StudyPlanRepository) UpdateProgress(ctx context.Context, p *model.StudyPlan) error {
	schedule, err := json.Marshal(p.Schedule)
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE study_plans
		 SET schedule = $1::jsonb, status_percentage = $2, updated_at = $3
		 WHERE id = $4 AND user_id = $5`,
		string(schedule), p.StatusPercentage, p.UpdatedAt, p.PlanID, p.UserID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

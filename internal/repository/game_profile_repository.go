package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/studypilot-backend/internal/model"
)

// GameProfileRepository handles gamification profile data access.
type GameProfileRepository struct {
	pool *pgxpool.Pool
}

// NewGameProfileRepository creates a new GameProfileRepository.
func NewGameProfileRepository(pool *pgxpool.Pool) *GameProfileRepository {
	return &GameProfileRepository{pool: pool}
}

const profileColumns = `user_id, total_xp, level, current_level_xp, max_level_xp, streak, streak_level,
	badges, unlocked_tools, subject_mastery, last_study_date, updated_at`

func scanProfile(row pgx.Row) (*model.UserGameProfile, error) {
	var (
		p       model.UserGameProfile
		badges  []byte
		mastery []byte
	)
	err := row.Scan(&p.UserID, &p.TotalXP, &p.Level, &p.CurrentLevelXP, &p.MaxLevelXP, &p.Streak, &p.StreakLevel,
		&badges, &p.UnlockedTools, &mastery, &p.LastStudyDate, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(badges, &p.Badges); err != nil {
		return nil, fmt.Errorf("decode badges: %w", err)
	}
	if err := json.Unmarshal(mastery, &p.SubjectMastery); err != nil {
		return nil, fmt.Errorf("decode mastery: %w", err)
	}
	return &p, nil
}

// Get retrieves a profile. It returns pgx.ErrNoRows for unknown users.
func (r *GameProfileRepository) Get(ctx context.Context, userID string) (*model.UserGameProfile, error) {
	return scanProfile(r.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM game_profiles WHERE user_id = $1`, userID,
	))
}

// Update loads the profile under a row lock, applies fn and stores the
// result in the same transaction. Users without a profile get a row with
// the column defaults first.
func (r *GameProfileRepository) Update(
	ctx context.Context,
	userID string,
	fn func(model.UserGameProfile) (model.UserGameProfile, error),
) (*model.UserGameProfile, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO game_profiles (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID,
	); err != nil {
		return nil, err
	}

	current, err := scanProfile(tx.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM game_profiles WHERE user_id = $1 FOR UPDATE`, userID,
	))
	if err != nil {
		return nil, err
	}

	next, err := fn(*current)
	if err != nil {
		return nil, err
	}

	if err := saveProfile(ctx, tx, &next); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &next, nil
}

func saveProfile(ctx context.Context, tx pgx.Tx, p *model.UserGameProfile) error {
	badges, err := json.Marshal(p.Badges)
	if err != nil {
		return fmt.Errorf("encode badges: %w", err)
	}
	mastery, err := json.Marshal(p.SubjectMastery)
	if err != nil {
		return fmt.Errorf("encode mastery: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO game_profiles (user_id, total_xp, level, current_level_xp, max_level_xp, streak,
		                            streak_level, badges, unlocked_tools, subject_mastery, last_study_date, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9, $10::jsonb, $11, $12)
		 ON CONFLICT (user_id) DO UPDATE
		 SET total_xp = EXCLUDED.total_xp,
		     level = EXCLUDED.level,
		     current_level_xp = EXCLUDED.current_level_xp,
		     max_level_xp = EXCLUDED.max_level_xp,
		     streak = EXCLUDED.streak,
		     streak_level = EXCLUDED.streak_level,
		     badges = EXCLUDED.badges,
		     unlocked_tools = EXCLUDED.unlocked_tools,
		     subject_mastery = EXCLUDED.subject_mastery,
		     last_study_date = EXCLUDED.last_study_date,
		     updated_at = EXCLUDED.updated_at`,
		p.UserID, p.TotalXP, p.Level, p.CurrentLevelXP, p.MaxLevelXP, p.Streak,
		p.StreakLevel, string(badges), p.UnlockedTools, string(mastery), p.LastStudyDate, p.UpdatedAt,
	)
	return err
}

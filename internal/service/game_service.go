package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/studypilot-backend/internal/config"
	"github.com/stemsi/studypilot-backend/internal/gamification"
	"github.com/stemsi/studypilot-backend/internal/model"
	"github.com/stemsi/studypilot-backend/internal/monitoring"
	"github.com/stemsi/studypilot-backend/internal/repository"
)

var ErrUnknownActivity = errors.New("unknown activity")

const profileCacheTTL = 5 * time.Minute

// BadgeStatus is a catalog badge with the learner's progress on it.
type BadgeStatus struct {
	model.Badge
	Earned bool `json:"earned"`
}

// GameService applies gamification rules to stored learner profiles.
type GameService struct {
	profileRepo *repository.GameProfileRepository
	rdb         *redis.Client
	log         zerolog.Logger
	now         func() time.Time
}

// NewGameService creates a new GameService.
func NewGameService(profileRepo *repository.GameProfileRepository, rdb *redis.Client, log zerolog.Logger) *GameService {
	return &GameService{
		profileRepo: profileRepo,
		rdb:         rdb,
		log:         log.With().Str("component", "game_service").Logger(),
		now:         time.Now,
	}
}

// Profile returns the learner's profile, or a fresh one if they have none yet.
func (s *GameService) Profile(ctx context.Context, userID string) (*model.UserGameProfile, error) {
	key := config.CacheKey.GameProfileKey(userID)
	if raw, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
		var p model.UserGameProfile
		if err := json.Unmarshal(raw, &p); err == nil {
			return &p, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("Profile cache read failed")
	}

	p, err := s.profileRepo.Get(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		fresh := gamification.NewProfile(userID, s.now())
		return &fresh, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	s.cache(ctx, p)
	return p, nil
}

// Badges lists the whole catalog, marking the badges the learner holds.
func (s *GameService) Badges(ctx context.Context, userID string) ([]BadgeStatus, error) {
	p, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	held := make(map[model.BadgeType]model.Badge, len(p.Badges))
	for _, b := range p.Badges {
		held[b.Type] = b
	}

	catalog := gamification.Catalog()
	out := make([]BadgeStatus, 0, len(catalog))
	for _, b := range catalog {
		if got, ok := held[b.Type]; ok {
			out = append(out, BadgeStatus{Badge: got, Earned: true})
			continue
		}
		out = append(out, BadgeStatus{Badge: b})
	}
	return out, nil
}

// RecordActivity credits XP for a learner action and counts the day
// towards the study streak.
func (s *GameService) RecordActivity(ctx context.Context, userID string, req model.RecordActivityRequest) (*model.ActivityReward, error) {
	activity := model.XPActivity(req.Activity)
	if !gamification.IsKnownActivity(activity) {
		return nil, ErrUnknownActivity
	}

	xp := gamification.CalculateXPReward(activity, req.Multiplier)
	reward, err := s.apply(ctx, userID, nil, func(p model.UserGameProfile) model.UserGameProfile {
		return gamification.AddXP(p, xp)
	})
	if err != nil {
		return nil, err
	}

	monitoring.XPAwarded.WithLabelValues(string(activity)).Add(float64(xp))
	reward.XPAwarded += xp
	return reward, nil
}

// RecordExam rewards a graded exam: XP for taking it, a bonus for a
// perfect score, subject mastery and any badges now earned.
func (s *GameService) RecordExam(ctx context.Context, userID, subject string, result model.ExamResult) (*model.ActivityReward, error) {
	xp := gamification.ExamXP(result)
	perfect := gamification.IsPerfect(result)

	reward, err := s.apply(ctx, userID, &result, func(p model.UserGameProfile) model.UserGameProfile {
		p = gamification.AddXP(p, xp)
		return gamification.UpdateMastery(p, subject, result.Score)
	})
	if err != nil {
		return nil, err
	}

	monitoring.XPAwarded.WithLabelValues(string(model.XPExamTaken)).Add(float64(gamification.CalculateXPReward(model.XPExamTaken, 1)))
	if perfect {
		monitoring.XPAwarded.WithLabelValues(string(model.XPPerfectScore)).Add(float64(gamification.CalculateXPReward(model.XPPerfectScore, 1)))
	}
	reward.XPAwarded += xp
	return reward, nil
}

// apply runs change under the profile row lock, then records the study day
// and awards eligible badges. reward.XPAwarded holds only badge bonuses.
func (s *GameService) apply(
	ctx context.Context,
	userID string,
	result *model.ExamResult,
	change func(model.UserGameProfile) model.UserGameProfile,
) (*model.ActivityReward, error) {
	now := s.now()
	reward := &model.ActivityReward{}

	profile, err := s.profileRepo.Update(ctx, userID, func(p model.UserGameProfile) (model.UserGameProfile, error) {
		startLevel := p.Level
		p = change(p)
		p = gamification.RecordStudyDay(p, now)

		var bonus int
		p, reward.NewBadges, bonus = awardEligible(userID, p, result, now)
		reward.XPAwarded = bonus
		reward.LeveledUp = p.Level > startLevel
		p.UpdatedAt = now
		return p, nil
	})
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if reward.XPAwarded > 0 {
		monitoring.XPAwarded.WithLabelValues("badge_bonus").Add(float64(reward.XPAwarded))
	}
	for _, b := range reward.NewBadges {
		s.log.Info().Str("user_id", userID).Str("badge", string(b.Type)).Msg("Badge awarded")
	}

	s.cache(ctx, profile)
	reward.Profile = *profile
	return reward, nil
}

// awardEligible grants every badge the profile qualifies for, crediting
// each badge's XP bonus. Bonus XP can unlock further badges, so it repeats
// until nothing new is earned.
func awardEligible(userID string, p model.UserGameProfile, result *model.ExamResult, now time.Time) (model.UserGameProfile, []model.Badge, int) {
	var awarded []model.Badge
	bonus := 0
	for {
		eligible := gamification.EligibleBadges(p, result)
		if len(eligible) == 0 {
			return p, awarded, bonus
		}
		for _, t := range eligible {
			var badge *model.Badge
			var isNew bool
			p, badge, isNew = gamification.AwardBadge(userID, p, t, now)
			if !isNew {
				continue
			}
			awarded = append(awarded, *badge)
			p = gamification.AddXP(p, badge.XPBonus)
			bonus += badge.XPBonus
		}
	}
}

func (s *GameService) cache(ctx context.Context, p *model.UserGameProfile) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, config.CacheKey.GameProfileKey(p.UserID), raw, profileCacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Str("user_id", p.UserID).Msg("Profile cache write failed")
	}
}

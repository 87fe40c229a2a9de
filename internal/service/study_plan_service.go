package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stemsi/studypilot-backend/internal/model"
	"github.com/stemsi/studypilot-backend/internal/monitoring"
	"github.com/stemsi/studypilot-backend/internal/objectstore"
	"github.com/stemsi/studypilot-backend/internal/planner"
	"github.com/stemsi/studypilot-backend/internal/repository"
	"github.com/stemsi/studypilot-backend/internal/response"
)

var (
	ErrPlanNotFound   = errors.New("study plan not found")
	ErrTaskNotFound   = errors.New("study task not found")
	ErrDeadlinePassed = errors.New("deadline is not in the future")
	ErrExportDisabled = errors.New("plan export is not configured")
)

const deadlineLayout = "2006-01-02"

// StudyPlanService generates, tracks and exports study plans.
type StudyPlanService struct {
	planRepo  *repository.StudyPlanRepository
	generator *planner.Generator
	games     *GameService
	store     *objectstore.Store
	log       zerolog.Logger
	now       func() time.Time
}

// NewStudyPlanService creates a new StudyPlanService. store may be nil, in
// which case Export reports ErrExportDisabled.
func NewStudyPlanService(
	planRepo *repository.StudyPlanRepository,
	generator *planner.Generator,
	games *GameService,
	store *objectstore.Store,
	log zerolog.Logger,
) *StudyPlanService {
	return &StudyPlanService{
		planRepo:  planRepo,
		generator: generator,
		games:     games,
		store:     store,
		log:       log.With().Str("component", "study_plan_service").Logger(),
		now:       time.Now,
	}
}

// Create generates a plan for the learner and stores it.
func (s *StudyPlanService) Create(ctx context.Context, userID string, req model.CreateStudyPlanRequest) (*model.StudyPlan, error) {
	deadline, err := time.Parse(deadlineLayout, req.Deadline)
	if err != nil {
		return nil, fmt.Errorf("parse deadline: %w", err)
	}
	if planner.TotalDays(s.now(), deadline) < 1 {
		return nil, ErrDeadlinePassed
	}

	plan := s.generator.Generate(model.StudyProfile{
		UserID:      userID,
		ExamType:    strings.TrimSpace(req.ExamType),
		Deadline:    deadline,
		HoursPerDay: req.HoursPerDay,
		Subjects:    req.Subjects,
		WeakTopics:  req.WeakTopics,
		Strength:    req.Strength,
	})

	if err := s.planRepo.Create(ctx, &plan); err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}
	monitoring.PlansGenerated.Inc()

	s.log.Info().
		Str("user_id", userID).
		Str("plan_id", plan.PlanID.String()).
		Int("days", plan.TotalDaysAvailable).
		Float64("hours", plan.TotalHoursRequired).
		Msg("Study plan generated")
	return &plan, nil
}

// List returns the learner's plans, newest first.
func (s *StudyPlanService) List(ctx context.Context, userID string, page, perPage int) ([]model.StudyPlan, *response.Pagination, error) {
	plans, total, err := s.planRepo.ListByUser(ctx, userID, page, perPage)
	if err != nil {
		return nil, nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, response.NewPagination(page, perPage, total), nil
}

// Get returns one of the learner's plans.
func (s *StudyPlanService) Get(ctx context.Context, userID string, planID uuid.UUID) (*model.StudyPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return plan, nil
}

// Pace reports how the learner is tracking against the plan today. A nil
// hoursCompleted uses the hours of the tasks ticked off so far.
func (s *StudyPlanService) Pace(ctx context.Context, userID string, planID uuid.UUID, hoursCompleted *float64) (*model.PaceRecommendation, error) {
	plan, err := s.Get(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	hours := planner.CompletedHours(*plan)
	if hoursCompleted != nil {
		hours = *hoursCompleted
	}
	rec := planner.Pace(*plan, planner.DaysElapsed(*plan, s.now()), hours)
	return &rec, nil
}

// SetTaskCompleted ticks a task on or off. Newly finished tasks earn
// lesson XP.
func (s *StudyPlanService) SetTaskCompleted(ctx context.Context, userID string, planID uuid.UUID, taskID string, completed bool) (*model.StudyPlan, error) {
	plan, err := s.Get(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	wasCompleted := taskCompleted(*plan, taskID)
	updated, ok := planner.SetTaskCompleted(*plan, taskID, completed, s.now())
	if !ok {
		return nil, ErrTaskNotFound
	}

	if err := s.planRepo.UpdateProgress(ctx, &updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("update plan progress: %w", err)
	}

	if completed && !wasCompleted {
		_, err := s.games.RecordActivity(ctx, userID, model.RecordActivityRequest{
			Activity: string(model.XPLessonFinished),
		})
		if err != nil {
			s.log.Error().Err(err).Str("user_id", userID).Str("task_id", taskID).Msg("Failed to reward task")
		}
	}
	return &updated, nil
}

// Export uploads the plan as JSON and returns a link to it.
func (s *StudyPlanService) Export(ctx context.Context, userID string, planID uuid.UUID) (*model.PlanExport, error) {
	if s.store == nil {
		return nil, ErrExportDisabled
	}

	plan, err := s.Get(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	body, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode plan: %w", err)
	}

	key := objectstore.PlanKey(userID, planID.String())
	url, err := s.store.Put(ctx, key, "application/json", body)
	if err != nil {
		return nil, fmt.Errorf("export plan: %w", err)
	}

	s.log.Info().Str("user_id", userID).Str("plan_id", planID.String()).Msg("Study plan exported")
	return &model.PlanExport{PlanID: planID, Key: key, URL: url}, nil
}

func taskCompleted(plan model.StudyPlan, taskID string) bool {
	for _, d := range plan.Schedule {
		for _, t := range d.Tasks {
			if t.TaskID == taskID {
				return t.Completed
			}
		}
	}
	return false
}

package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/studypilot-backend/internal/config"
	"github.com/stemsi/studypilot-backend/internal/handler"
	"github.com/stemsi/studypilot-backend/internal/middleware"
	"github.com/stemsi/studypilot-backend/internal/model"
	"github.com/stemsi/studypilot-backend/internal/monitoring"
	"github.com/stemsi/studypilot-backend/internal/response"
	"github.com/stemsi/studypilot-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Question *handler.QuestionHandler
	Exam     *handler.ExamHandler
	Plan     *handler.PlanHandler
	Game     *handler.GameHandler
	WS       *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds the rate limiter's background cleanup.
func SetupRouter(
	ctx context.Context,
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))
	router.Use(monitoring.MetricsMiddleware())
	router.Use(middleware.Brotli())

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.RunCleanup(ctx)

	// ─── Ops ───────────────────────────────────────────────────────────
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", monitoring.PrometheusHandler())

	// ─── 1. Auth Group ─────────────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(middleware.NoStore())
	{
		auth.POST("/admin/login", limiter.Middleware(), handlers.Auth.AdminLogin)
		auth.GET("/admin/me", middleware.RequireAdminJWT(authService), handlers.Auth.GetAdminProfile)
		auth.GET("/me", middleware.RequireLearnerJWT(authService), handlers.Auth.GetLearnerProfile)
	}

	// ─── 2. Learner Group (Supabase JWT) ───────────────────────────────
	learnerAPI := router.Group("/api/v1")
	learnerAPI.Use(
		middleware.RequireLearnerJWT(authService),
		limiter.Middleware(),
	)
	{
		learnerAPI.GET("/subjects", middleware.CacheControl(300), handlers.Question.ListSubjects)

		exams := learnerAPI.Group("/exams", middleware.NoStore())
		{
			exams.POST("/mock", handlers.Exam.StartMockExam)
			exams.POST("/mock/:session_id/submit", handlers.Exam.SubmitMockExam)
			exams.POST("/mark", handlers.Exam.MarkExam)
			exams.GET("/attempts", handlers.Exam.ListAttempts)
			exams.GET("/prediction", handlers.Exam.GetPrediction)
		}

		plans := learnerAPI.Group("/plans", middleware.NoStore())
		{
			plans.POST("", handlers.Plan.CreatePlan)
			plans.GET("", handlers.Plan.ListPlans)
			plans.GET("/:id", handlers.Plan.GetPlan)
			plans.GET("/:id/pace", handlers.Plan.GetPace)
			plans.PATCH("/:id/tasks/:task_id", handlers.Plan.UpdateTask)
			plans.POST("/:id/export", handlers.Plan.ExportPlan)
		}

		game := learnerAPI.Group("/game", middleware.NoStore())
		{
			game.GET("/profile", handlers.Game.GetProfile)
			game.POST("/activity", handlers.Game.RecordActivity)
			game.GET("/badges", handlers.Game.ListBadges)
		}
	}

	// ─── 3. WebSocket Group (Learner WS Auth) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireLearnerWSAuth(authService))
	{
		ws.GET("/exams/mock/:session_id/stream", handlers.WS.MockExamStream)
	}

	// ─── 4. Admin Group (JWT + RBAC) ───────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService), middleware.NoStore())
	{
		adminAPI.GET("/questions",
			middleware.RequireAnyPermission(model.PermissionQuestionsRead, model.PermissionQuestionsWrite),
			handlers.Question.ListQuestions,
		)
		adminAPI.POST("/questions",
			middleware.RequirePermission(model.PermissionQuestionsWrite),
			handlers.Question.CreateQuestion,
		)
		adminAPI.DELETE("/questions/:id",
			middleware.RequirePermission(model.PermissionQuestionsWrite),
			handlers.Question.DeleteQuestion,
		)
	}

	return router
}

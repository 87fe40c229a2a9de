package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/studypilot-backend/internal/middleware"
	"github.com/stemsi/studypilot-backend/internal/model"
	"github.com/stemsi/studypilot-backend/internal/monitoring"
	"github.com/stemsi/studypilot-backend/internal/response"
	"github.com/stemsi/studypilot-backend/internal/service"
	ws "github.com/stemsi/studypilot-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams a running mock exam: autosave, submit and ping.
type WSHandler struct {
	examService *service.ExamService
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(examService *service.ExamService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		examService: examService,
		log:         log.With().Str("component", "ws_handler").Logger(),
		upgrader:    buildUpgrader(allowedOrigins),
	}
}

// MockExamStream godoc
// WS /ws/v1/exams/mock/:session_id/stream?token=
// Upgrades to WebSocket for autosave and instant grading.
func (h *WSHandler) MockExamStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	// The session must exist and belong to the caller before upgrading.
	session, err := h.examService.GetSession(c.Request.Context(), claims.UserID(), sessionID)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	monitoring.ActiveExamStreams.Inc()
	defer monitoring.ActiveExamStreams.Dec()

	wsLog := h.log.With().
		Str("user_id", session.UserID).
		Str("session_id", sessionID.String()).
		Logger()
	wsLog.Info().Msg("Learner connected")

	ctx := c.Request.Context()

	saved, err := h.examService.SavedAnswers(ctx, session)
	if err != nil {
		wsLog.Error().Err(err).Msg("Load autosaved answers failed")
		saved = map[string]string{}
	}
	_ = ws.WriteTyped(conn, ws.StateResponse{Event: ws.EventState, SessionID: sessionID.String(), Answers: saved})

	for {
		raw, err := ws.ReadMessage(conn)
		if err != nil {
			if ws.IsClosed(err) {
				wsLog.Debug().Msg("Connection closed")
			} else {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}

		var env ws.RequestEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			_ = ws.WriteError(conn, "invalid message")
			continue
		}

		switch env.Action {
		case ws.ActionAutosave:
			h.handleAutosave(ctx, conn, wsLog, session, raw)
		case ws.ActionSubmit:
			if h.handleSubmit(ctx, conn, wsLog, session, raw) {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "submitted"))
				return
			}
		case ws.ActionPing:
			_ = ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(env.Action)).Msg("Unknown action")
			_ = ws.WriteError(conn, "unknown action: "+string(env.Action))
		}
	}
}

// handleAutosave stores a single answer in Redis.
func (h *WSHandler) handleAutosave(ctx context.Context, conn *websocket.Conn, wsLog zerolog.Logger, session *model.MockExamSession, raw []byte) {
	var msg ws.AutosaveRequest
	if err := json.Unmarshal(raw, &msg); err != nil || msg.QID == "" {
		_ = ws.WriteError(conn, "q_id and ans are required")
		return
	}

	if err := h.examService.Autosave(ctx, session, msg.QID, msg.Answer); err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			_ = ws.WriteError(conn, "question is not part of this exam")
			return
		}
		wsLog.Error().Err(err).Msg("Autosave failed")
		_ = ws.WriteError(conn, "save failed")
		return
	}

	_ = ws.WriteTyped(conn, ws.AutosaveResponse{Event: ws.EventSuccess, Status: "saved", QID: msg.QID})
}

// handleSubmit grades the session and reports whether the stream is done.
func (h *WSHandler) handleSubmit(ctx context.Context, conn *websocket.Conn, wsLog zerolog.Logger, session *model.MockExamSession, raw []byte) bool {
	var msg ws.SubmitRequest
	if err := json.Unmarshal(raw, &msg); err != nil {
		_ = ws.WriteError(conn, "invalid submit payload")
		return false
	}

	graded, err := h.examService.SubmitMockExam(ctx, session.UserID, session.ID, msg.Answers)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrSessionSubmitted):
		_ = ws.WriteError(conn, "exam already submitted")
		return true
	case errors.Is(err, service.ErrSessionNotFound):
		_ = ws.WriteError(conn, "session expired")
		return true
	default:
		wsLog.Error().Err(err).Msg("Grading failed")
		_ = ws.WriteError(conn, "grading failed")
		return false
	}

	wsLog.Info().
		Float64("score", graded.Result.Score).
		Int("correct", graded.Result.CorrectAnswers).
		Int("total", graded.Result.TotalQuestions).
		Msg("Mock exam submitted and graded")

	_ = ws.WriteTyped(conn, ws.GradedResponse{
		Event:   ws.EventGraded,
		Status:  "completed",
		Score:   graded.Result.Score,
		Attempt: graded,
	})
	return true
}

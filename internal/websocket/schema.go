package websocket

import "github.com/stemsi/studypilot-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionAutosave Action = "autosave"
	ActionSubmit   Action = "submit"
	ActionPing     Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// AutosaveRequest is sent by the client to save a single answer.
type AutosaveRequest struct {
	Action Action `json:"action"`
	QID    string `json:"q_id"`
	Answer string `json:"ans"`
}

// SubmitRequest finishes the mock exam. Answers are optional and override
// the autosaved ones.
type SubmitRequest struct {
	Action  Action            `json:"action"`
	Answers map[string]string `json:"answers,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventState   Event = "state"
	EventError   Event = "error"
	EventSuccess Event = "success"
	EventGraded  Event = "graded"
	EventPong    Event = "pong"
)

// StateResponse is sent once on connect so a reconnecting client can
// restore its answers.
type StateResponse struct {
	Event     Event             `json:"event"`
	SessionID string            `json:"session_id"`
	Answers   map[string]string `json:"answers"`
}

type AutosaveResponse struct {
	Event  Event  `json:"event"`
	Status string `json:"status"`
	QID    string `json:"q_id"`
}

type GradedResponse struct {
	Event   Event                `json:"event"`
	Status  string               `json:"status"`
	Score   float64              `json:"score"`
	Attempt *model.GradedAttempt `json:"attempt"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}

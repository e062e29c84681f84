package relay

import (
	"encoding/json"

	model "github.com/opsdesk/opsdesk/internal/model/relay"
)

// Event names shared by the user and admin channels.
const (
	EventSession    = "session"
	EventQuestion   = "question"
	EventAnswer     = "answer"
	EventFetchQueue = "fetchQueue"
	EventHistory    = "history"
	EventQueue      = "queue"
	EventError      = "error"
)

// Envelope frames every inbound websocket message.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Outbound frames every message pushed to a client.
type Outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// QuestionPayload is the user-side question event body.
type QuestionPayload struct {
	Text string `json:"text"`
}

// AnswerPayload is the admin-side answer event body.
type AnswerPayload struct {
	SessionID string `json:"sessionId"`
	Text      string `json:"text"`
}

// HistoryPayload is the admin-side history request body.
type HistoryPayload struct {
	SessionID string `json:"sessionId"`
}

// HistoryReply carries a full transcript back to the requesting admin.
type HistoryReply struct {
	SessionID string          `json:"sessionId"`
	Messages  []model.Message `json:"messages"`
}

// SessionPayload announces the server-assigned session identity to a user.
type SessionPayload struct {
	SessionID string `json:"sessionId"`
}

// ErrorPayload is pushed to a client that sent a malformed event.
type ErrorPayload struct {
	Message string `json:"message"`
}

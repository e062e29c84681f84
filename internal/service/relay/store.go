package relay

import (
	"time"

	model "github.com/opsdesk/opsdesk/internal/model/relay"
)

// SessionStore maps session identities to ordered transcripts. Transcripts
// are append-only and never evicted; unbounded growth is an accepted
// limitation of the in-memory design.
//
// The store carries no lock: it is owned by the hub goroutine, which
// serializes every mutation (see Hub.Run).
type SessionStore struct {
	sessions map[string][]model.Message
}

// NewSessionStore bootstraps an empty in-memory store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string][]model.Message)}
}

// CreateOrGet provisions an empty transcript for id if none exists.
// Idempotent: an existing transcript is left untouched.
func (s *SessionStore) CreateOrGet(id string) []model.Message {
	if _, ok := s.sessions[id]; !ok {
		s.sessions[id] = make([]model.Message, 0, 8)
	}
	return s.sessions[id]
}

// Has reports whether the store has ever seen the session.
func (s *SessionStore) Has(id string) bool {
	_, ok := s.sessions[id]
	return ok
}

// Append records a message on the session transcript and returns it.
// Unknown sessions are a silent no-op, reported through the second return.
func (s *SessionStore) Append(id, role, text string) (model.Message, bool) {
	if _, ok := s.sessions[id]; !ok {
		return model.Message{}, false
	}
	msg := model.Message{Role: role, Text: text, Ts: time.Now().UnixMilli()}
	s.sessions[id] = append(s.sessions[id], msg)
	return msg, true
}

// History returns a copy of the session transcript in append order.
// Unknown sessions yield an empty, non-nil slice rather than an error so the
// result always marshals as a JSON array.
func (s *SessionStore) History(id string) []model.Message {
	messages := s.sessions[id]
	copied := make([]model.Message, len(messages))
	copy(copied, messages)
	return copied
}

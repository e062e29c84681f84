package relay

import (
	"context"

	"go.uber.org/zap"

	model "github.com/opsdesk/opsdesk/internal/model/relay"
)

// Hub relays events between user and admin clients while keeping the
// session store and pending queue consistent.
//
// It is a single-writer actor: every register, disconnect, and inbound
// event is posted to one FIFO channel and applied by the Run goroutine, so
// handlers are atomic with respect to each other and per-connection event
// order is preserved without any locking in the store or queue.
type Hub struct {
	store *SessionStore
	queue *PendingQueue
	log   *zap.Logger

	ops  chan func()
	done chan struct{}

	users  map[string]*Client
	admins map[*Client]struct{}
}

// NewHub wires the hub to its owned state. The store and queue are injected
// so tests can seed and inspect them in isolation.
func NewHub(store *SessionStore, queue *PendingQueue, log *zap.Logger) *Hub {
	return &Hub{
		store:  store,
		queue:  queue,
		log:    log,
		ops:    make(chan func(), 64),
		done:   make(chan struct{}),
		users:  make(map[string]*Client),
		admins: make(map[*Client]struct{}),
	}
}

// Run applies posted operations until ctx is cancelled. It must be running
// before any client is registered.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			return
		case op := <-h.ops:
			op()
		}
	}
}

// post hands an operation to the Run goroutine. After shutdown, posts are
// discarded so connection goroutines never block on a stopped hub.
func (h *Hub) post(op func()) {
	select {
	case h.ops <- op:
	case <-h.done:
	}
}

// RegisterUser binds the client's session into the registry, provisions its
// transcript, and tells the client which session it was assigned.
func (h *Hub) RegisterUser(c *Client) {
	h.post(func() {
		h.users[c.sessionID] = c
		h.store.CreateOrGet(c.sessionID)
		c.push(Outbound{Event: EventSession, Data: SessionPayload{SessionID: c.sessionID}})
		h.log.Info("user connected", zap.String("session", c.sessionID))
	})
}

// RegisterAdmin adds the client to the broadcast group.
func (h *Hub) RegisterAdmin(c *Client) {
	h.post(func() {
		h.admins[c] = struct{}{}
		h.log.Info("admin connected", zap.Int("admins", len(h.admins)))
	})
}

// Unregister discards the connection binding and closes the client outbox.
// Session transcripts are retained; a reconnecting user gets a fresh
// session identity.
func (h *Hub) Unregister(c *Client) {
	h.post(func() {
		if c.admin {
			if _, ok := h.admins[c]; !ok {
				return
			}
			delete(h.admins, c)
			h.log.Info("admin disconnected", zap.Int("admins", len(h.admins)))
		} else {
			if h.users[c.sessionID] != c {
				return
			}
			delete(h.users, c.sessionID)
			h.log.Info("user disconnected", zap.String("session", c.sessionID))
		}
		close(c.send)
	})
}

// Question records a user question and pushes the new queue entry to every
// admin. The sender gets no acknowledgment.
func (h *Hub) Question(c *Client, text string) {
	h.post(func() {
		msg, ok := h.store.Append(c.sessionID, model.RoleUser, text)
		if !ok {
			return
		}
		entry := model.QueueEntry{
			SessionID:    c.sessionID,
			LastQuestion: text,
			Ts:           msg.Ts,
			Text:         text,
		}
		h.queue.Enqueue(entry)
		h.broadcastAdmins(Outbound{Event: EventQuestion, Data: entry})
	})
}

// Answer records an operator reply, delivers it to the bound user
// connection if one is still live, clears every queue entry for the
// session, and re-broadcasts the queue to all admins. Answers for sessions
// the store never saw are dropped without any state change or outbound
// event.
func (h *Hub) Answer(c *Client, sessionID, text string) {
	h.post(func() {
		if !h.store.Has(sessionID) {
			h.log.Debug("answer for unknown session dropped", zap.String("session", sessionID))
			return
		}
		msg, _ := h.store.Append(sessionID, model.RoleAssistant, text)
		if user, ok := h.users[sessionID]; ok {
			if !user.push(Outbound{Event: EventAnswer, Data: msg}) {
				h.log.Warn("answer push dropped, user outbox full", zap.String("session", sessionID))
			}
		}
		h.queue.Dequeue(sessionID)
		h.broadcastAdmins(Outbound{Event: EventQueue, Data: h.queue.Snapshot()})
	})
}

// FetchQueue replies to the requesting admin only with the current queue.
func (h *Hub) FetchQueue(c *Client) {
	h.post(func() {
		c.push(Outbound{Event: EventQueue, Data: h.queue.Snapshot()})
	})
}

// History replies to the requesting admin only with the session transcript.
// Unknown sessions yield an empty message list, not an error.
func (h *Hub) History(c *Client, sessionID string) {
	h.post(func() {
		c.push(Outbound{Event: EventHistory, Data: HistoryReply{
			SessionID: sessionID,
			Messages:  h.store.History(sessionID),
		}})
	})
}

// Reject pushes an error event to a client that sent a malformed payload.
func (h *Hub) Reject(c *Client, message string) {
	h.post(func() {
		c.push(Outbound{Event: EventError, Data: ErrorPayload{Message: message}})
	})
}

func (h *Hub) broadcastAdmins(ev Outbound) {
	for admin := range h.admins {
		if !admin.push(ev) {
			h.log.Warn("admin push dropped, outbox full", zap.String("event", ev.Event))
		}
	}
}

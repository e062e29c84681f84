package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/opsdesk/opsdesk/internal/service/relay"
)

// Options tunes the per-connection transport behaviour.
type Options struct {
	SendBuffer   int
	PingInterval time.Duration
	PongWait     time.Duration
	WriteWait    time.Duration
}

// Handler upgrades the user and admin channels and bridges each connection
// to the relay hub: one read pump decoding envelopes into hub events, one
// write pump draining the client outbox.
type Handler struct {
	hub      *relay.Hub
	log      *zap.Logger
	opts     Options
	upgrader websocket.Upgrader
}

// New creates the websocket handler. Origins are not checked; both channels
// are open to any connecting party.
func New(hub *relay.Hub, log *zap.Logger, opts Options) *Handler {
	return &Handler{
		hub:  hub,
		log:  log,
		opts: opts,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the two channels.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/user", h.handleUser)
	r.Get("/ws/admin", h.handleAdmin)
}

func (h *Handler) handleUser(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("user upgrade failed", zap.Error(err))
		return
	}

	client := relay.NewUserClient(h.opts.SendBuffer)
	h.hub.RegisterUser(client)
	defer h.hub.Unregister(client)

	go h.writePump(conn, client)
	h.readPump(conn, client, h.dispatchUser)
}

func (h *Handler) handleAdmin(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("admin upgrade failed", zap.Error(err))
		return
	}

	client := relay.NewAdminClient(h.opts.SendBuffer)
	h.hub.RegisterAdmin(client)
	defer h.hub.Unregister(client)

	go h.writePump(conn, client)
	h.readPump(conn, client, h.dispatchAdmin)
}

// readPump decodes inbound frames until the connection drops. Malformed
// frames earn the sender an error event and keep the connection open; they
// are never fatal to the process or to other connections.
func (h *Handler) readPump(conn *websocket.Conn, client *relay.Client, dispatch func(*relay.Client, relay.Envelope)) {
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(h.opts.PongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(h.opts.PongWait))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warn("read error", zap.Error(err))
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(h.opts.PongWait))

		var env relay.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			h.hub.Reject(client, "invalid message framing")
			continue
		}
		dispatch(client, env)
	}
}

func (h *Handler) dispatchUser(client *relay.Client, env relay.Envelope) {
	switch env.Event {
	case relay.EventQuestion:
		var payload relay.QuestionPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil || payload.Text == "" {
			h.hub.Reject(client, "question requires text")
			return
		}
		h.hub.Question(client, payload.Text)
	default:
		h.hub.Reject(client, "unsupported event: "+env.Event)
	}
}

func (h *Handler) dispatchAdmin(client *relay.Client, env relay.Envelope) {
	switch env.Event {
	case relay.EventFetchQueue:
		h.hub.FetchQueue(client)
	case relay.EventHistory:
		var payload relay.HistoryPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil || payload.SessionID == "" {
			h.hub.Reject(client, "history requires sessionId")
			return
		}
		h.hub.History(client, payload.SessionID)
	case relay.EventAnswer:
		var payload relay.AnswerPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil || payload.SessionID == "" || payload.Text == "" {
			h.hub.Reject(client, "answer requires sessionId and text")
			return
		}
		h.hub.Answer(client, payload.SessionID, payload.Text)
	default:
		h.hub.Reject(client, "unsupported event: "+env.Event)
	}
}

// writePump drains the client outbox onto the wire and keeps the
// connection alive with periodic pings. It exits when the hub closes the
// outbox or a write fails.
func (h *Handler) writePump(conn *websocket.Conn, client *relay.Client) {
	ticker := time.NewTicker(h.opts.PingInterval)
	defer ticker.Stop()
	defer conn.Close()

	for {
		select {
		case ev, ok := <-client.Outbox():
			conn.SetWriteDeadline(time.Now().Add(h.opts.WriteWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				h.log.Warn("write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(h.opts.WriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

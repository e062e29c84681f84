package relay

import "github.com/google/uuid"

// Client is one live peer as the hub sees it. The websocket pumps live in
// the handler layer; the hub only pushes envelopes into the outbox, and the
// write pump drains it. The outbox is closed by the hub on unregister.
type Client struct {
	sessionID string
	admin     bool
	send      chan Outbound
}

// NewUserClient binds a fresh session identity to a user connection.
// Identities are random UUIDs, so collisions are treated as impossible.
func NewUserClient(buffer int) *Client {
	return &Client{sessionID: uuid.NewString(), send: make(chan Outbound, buffer)}
}

// NewAdminClient creates a client for the operator channel.
func NewAdminClient(buffer int) *Client {
	return &Client{admin: true, send: make(chan Outbound, buffer)}
}

// SessionID returns the session bound to a user connection. Empty for
// admin clients.
func (c *Client) SessionID() string {
	return c.sessionID
}

// Admin reports whether this client is on the operator channel.
func (c *Client) Admin() bool {
	return c.admin
}

// Outbox exposes the envelopes queued for this client, in push order.
func (c *Client) Outbox() <-chan Outbound {
	return c.send
}

// push queues an envelope without blocking. A full outbox drops the
// envelope: delivery is best-effort and a slow peer must never stall the
// hub. Only the hub goroutine calls push, so it never races the close.
func (c *Client) push(ev Outbound) bool {
	select {
	case c.send <- ev:
		return true
	default:
		return false
	}
}

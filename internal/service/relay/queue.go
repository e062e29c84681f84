package relay

import model "github.com/opsdesk/opsdesk/internal/model/relay"

// PendingQueue holds the unanswered questions operators work through,
// oldest first. Like SessionStore it is lock-free and owned by the hub
// goroutine.
type PendingQueue struct {
	entries []model.QueueEntry
}

// NewPendingQueue bootstraps an empty queue.
func NewPendingQueue() *PendingQueue {
	return &PendingQueue{entries: make([]model.QueueEntry, 0, 8)}
}

// Enqueue appends an entry to the tail. A session that asks again while
// already queued gets a second entry; Dequeue clears both.
func (q *PendingQueue) Enqueue(entry model.QueueEntry) {
	q.entries = append(q.entries, entry)
}

// Dequeue removes every entry for the session and reports whether any
// were removed.
func (q *PendingQueue) Dequeue(sessionID string) bool {
	kept := q.entries[:0]
	removed := false
	for _, entry := range q.entries {
		if entry.SessionID == sessionID {
			removed = true
			continue
		}
		kept = append(kept, entry)
	}
	q.entries = kept
	return removed
}

// Len reports the number of queued entries.
func (q *PendingQueue) Len() int {
	return len(q.entries)
}

// Snapshot returns the queue in arrival order. The slice is a non-nil copy
// so it always marshals as a JSON array and callers cannot alias internal
// state.
func (q *PendingQueue) Snapshot() []model.QueueEntry {
	copied := make([]model.QueueEntry, len(q.entries))
	copy(copied, q.entries)
	return copied
}

package relay

// QueueEntry records one session's currently unanswered question, as shown
// to operators. Text mirrors LastQuestion for older admin clients that read
// the short field name.
type QueueEntry struct {
	SessionID    string `json:"sessionId"`
	LastQuestion string `json:"lastQuestion"`
	Ts           int64  `json:"ts"`
	Text         string `json:"text"`
}

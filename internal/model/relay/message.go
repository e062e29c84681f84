package relay

// Message roles. Operator replies are surfaced to users as "assistant".
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a session transcript. Immutable once appended.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
	Ts   int64  `json:"ts"`
}

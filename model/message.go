package model

// Message type constants. Status messages are the synthetic join/leave
// notices appended by the registry and the sweeper.
const (
	TypeMessage = "message"
	TypePrivate = "private_message"
	TypeStatus  = "status"
)

// BroadcastRecipient is the reserved recipient name for messages addressed
// to the whole room.
const BroadcastRecipient = "Todos"

// Message is a single chat event: a user message or a synthetic notice.
type Message struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
	Type string `json:"type"`
	Time string `json:"time"`
}

// VisibleTo reports whether the message may be shown to the given user:
// broadcasts and room-wide notices are visible to everyone, private
// messages only to their two ends.
func (m Message) VisibleTo(user string) bool {
	return m.To == user ||
		m.To == BroadcastRecipient ||
		m.From == user ||
		m.Type == TypeMessage
}

// MessageRequest is the body of POST /messages and PUT /messages/:id.
type MessageRequest struct {
	To   string `json:"to" validate:"required"`
	Text string `json:"text" validate:"required"`
	Type string `json:"type" validate:"required,oneof=message private_message"`
}

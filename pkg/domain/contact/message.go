package contact

import "time"

// Message is a contact form submission. Messages are append-only.
type Message struct {
	Name      string
	Email     string
	Message   string
	Timestamp time.Time
}

// NewMessage stamps a submission at now, truncated to the second.
func NewMessage(name, email, message string, now time.Time) *Message {
	return &Message{
		Name:      name,
		Email:     email,
		Message:   message,
		Timestamp: now.Truncate(time.Second),
	}
}

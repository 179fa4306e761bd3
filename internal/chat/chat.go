package chat

import "strings"

// GuestName labels messages posted without an authenticated account.
const GuestName = "Guest"

// Message is one chat entry. UserID is nil for guests.
type Message struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
	UserID    *int   `json:"userId,omitempty"`
	UserName  string `json:"userName"`
}

// DisplayName resolves the name shown next to the message.
func (m Message) DisplayName() string {
	if strings.TrimSpace(m.UserName) != "" {
		return m.UserName
	}
	return GuestName
}

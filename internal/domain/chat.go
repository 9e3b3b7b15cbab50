package domain

import "time"

// ChatMessage is a public room message. The persisted log is append-only and
// trimmed to a fixed window; entries are never mutated.
type ChatMessage struct {
	Id   MessageId `json:"id"`
	Name string    `json:"name"`
	Text string    `json:"text"`
	Time time.Time `json:"time"`
}

// DirectMessage goes to exactly one recipient plus a sender echo. Never persisted.
type DirectMessage struct {
	Id       MessageId    `json:"id"`
	From     ConnectionId `json:"from"`
	FromName string       `json:"fromName"`
	To       ConnectionId `json:"to"`
	Text     string       `json:"text"`
	Time     time.Time    `json:"time"`
}

// ChatUser is one presence registry entry as seen in snapshots.
type ChatUser struct {
	Id   ConnectionId `json:"id"`
	Name DisplayName  `json:"name"`
}

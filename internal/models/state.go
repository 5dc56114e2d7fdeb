package models

import "time"

// Conversational states. Each user is in exactly one state; inbound
// messages are routed by the current state before command matching.
const (
	StateIdle                   = "idle"
	StateAwaitingBroadcastText  = "awaiting_broadcast_text"
	StateAwaitingBroadcastPhoto = "awaiting_broadcast_photo"
)

// ChatState is the persisted per-user conversational state. Data
// carries whatever the flow collected so far (e.g. the pending
// broadcast text while waiting for its photo).
type ChatState struct {
	UserID    int64 // Telegram id, not the internal user id
	State     string
	Data      string
	UpdatedAt time.Time
}

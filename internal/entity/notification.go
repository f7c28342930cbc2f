package entity

import "time"

// Notification kinds mirror the socket event payloads the web client
// listens for.
const (
	NotificationItemStatus   = "item-status"
	NotificationSwapRequest  = "swap-request"
	NotificationSwapResponse = "swap-response"
	NotificationItemPending  = "item-pending"
)

// Notification is an ephemeral event pushed over the fan-out channel.
// It is never persisted; delivery is at-most-once and best-effort.
type Notification struct {
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	ItemID    string    `json:"itemId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

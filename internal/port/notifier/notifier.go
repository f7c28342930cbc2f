package notifier

import (
	"context"

	"github.com/shlok1014/ReWear/internal/entity"
)

// AdminChannel is the shared channel every admin-capable session joins.
const AdminChannel = "admin-room"

// UserChannel names the per-user channel for the given user id.
func UserChannel(userID string) string {
	return "user-" + userID
}

// Publisher delivers ephemeral notifications to a named channel.
// Delivery is at-most-once and best-effort: a channel with no subscriber
// drops the event, and a publish failure must never fail the mutation
// that triggered it.
type Publisher interface {
	Publish(ctx context.Context, channel string, n *entity.Notification) error
}

package ports

import "context"

// Notifier is owned by the surrounding chat-bot layer. A delivery failure
// is logged by the caller and never reverses a committed HP change.
type Notifier interface {
	DirectMessage(ctx context.Context, userID int64, text string) error
}

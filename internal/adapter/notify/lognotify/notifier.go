// Package lognotify is the fallback Notifier used when no chat transport is
// wired in: deliveries are recorded in the log instead of being sent.
package lognotify

import (
	"context"
	"log/slog"
)

type Notifier struct {
	Logger *slog.Logger
}

func (n Notifier) DirectMessage(ctx context.Context, userID int64, text string) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "direct message",
		slog.Int64("user_id", userID), slog.String("text", text))
	return nil
}

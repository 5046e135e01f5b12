package recovery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"rpverse/internal/app/ports"
	"rpverse/internal/domain/rp"
)

// Recovered is one user the sweep healed this cycle.
type Recovered struct {
	UserID int64 `json:"user_id"`
	NewHP  int   `json:"new_hp"`
}

// Sweeper periodically heals users whose incapacitation window has elapsed,
// independent of user-triggered traffic. One instance runs per process; a
// racing second sweep sees the cleared recovery window and does nothing.
type Sweeper struct {
	Store    ports.VitalityRepository
	Events   ports.EventRepository
	Notifier ports.Notifier
	Interval time.Duration
	Logger   *slog.Logger
	Now      func() time.Time
}

// Run loops until the context is cancelled.
func (s Sweeper) Run(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = rp.DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger().InfoContext(ctx, "recovery sweeper started", slog.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			s.logger().InfoContext(ctx, "recovery sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx, s.now()); err != nil {
				s.logger().ErrorContext(ctx, "recovery sweep failed", slog.Any("error", err))
			}
		}
	}
}

// RunOnce performs a single sweep cycle. Each due user is processed
// independently: a heal or notify failure for one user never aborts the
// rest of the cycle.
func (s Sweeper) RunOnce(ctx context.Context, now time.Time) ([]Recovered, error) {
	due, err := s.Store.ListDueForRecovery(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("list due for recovery: %w", err)
	}

	recovered := make([]Recovered, 0, len(due))
	for _, entry := range due {
		res, healed, err := s.Store.ApplyRecovery(ctx, entry.UserID, now)
		if err != nil {
			s.logger().WarnContext(ctx, "recovery heal failed",
				slog.Int64("user_id", entry.UserID), slog.Any("error", err))
			continue
		}
		if !healed {
			// Recovered through another path since the listing, for
			// example a catch-up heal at the actor gate.
			continue
		}
		recovered = append(recovered, Recovered{UserID: entry.UserID, NewHP: res.NewHP})
		s.logger().InfoContext(ctx, "user recovered",
			slog.Int64("user_id", entry.UserID), slog.Int("hp", res.NewHP))

		s.appendEvent(ctx, entry.UserID, res.NewHP, now)
		s.notify(ctx, entry.UserID, res.NewHP)
	}
	return recovered, nil
}

func (s Sweeper) appendEvent(ctx context.Context, userID int64, hp int, now time.Time) {
	if s.Events == nil {
		return
	}
	event := rp.DomainEvent{
		Type:       rp.EventRecovered,
		OccurredAt: now,
		Payload:    map[string]any{"user_id": userID, "hp": hp},
	}
	if err := s.Events.Append(ctx, userID, []rp.DomainEvent{event}); err != nil {
		s.logger().WarnContext(ctx, "append recovery event",
			slog.Int64("user_id", userID), slog.Any("error", err))
	}
}

func (s Sweeper) notify(ctx context.Context, userID int64, hp int) {
	if s.Notifier == nil {
		return
	}
	text := fmt.Sprintf("Your HP is restored to %d/%d. You are back in action.", hp, rp.MaxHP)
	if err := s.Notifier.DirectMessage(ctx, userID, text); err != nil {
		s.logger().WarnContext(ctx, "recovery notification failed",
			slog.Int64("user_id", userID), slog.Any("error", err))
	}
}

func (s Sweeper) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s Sweeper) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

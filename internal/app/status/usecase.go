package status

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"rpverse/internal/app/ports"
	"rpverse/internal/domain/rp"
)

var ErrInvalidRequest = errors.New("invalid status request")

type Request struct {
	UserID int64 `json:"user_id"`
}

type Response struct {
	UserID        int64 `json:"user_id"`
	HP            int   `json:"hp"`
	MaxHP         int   `json:"max_hp"`
	Incapacitated bool  `json:"incapacitated"`

	// Remaining waits in seconds, zero when not applicable.
	RecoveryRemainingSeconds     int `json:"recovery_remaining_seconds,omitempty"`
	HealCooldownRemainingSeconds int `json:"heal_cooldown_remaining_seconds,omitempty"`

	// RecoveredNow is set when the check itself performed the catch-up heal
	// because the recovery window had already elapsed.
	RecoveredNow bool `json:"recovered_now,omitempty"`
}

// UseCase reports a user's vitality, performing the same lazy catch-up heal
// the actor gate does when the recovery window has passed but the sweep has
// not run yet.
type UseCase struct {
	Store  ports.VitalityRepository
	Logger *slog.Logger
	Now    func() time.Time
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if req.UserID == 0 {
		return Response{}, ErrInvalidRequest
	}
	now := u.now()
	rec, err := u.Store.Get(ctx, req.UserID)
	if err != nil {
		return Response{}, fmt.Errorf("load vitality for %d: %w", req.UserID, err)
	}

	resp := Response{
		UserID:                       req.UserID,
		HP:                           rec.HP,
		MaxHP:                        rp.MaxHP,
		Incapacitated:                rec.Incapacitated(),
		HealCooldownRemainingSeconds: rp.RemainingSeconds(rec.HealCooldownUntil, now),
	}

	if rec.Incapacitated() {
		if now.Before(rec.RecoveryDueAt) {
			resp.RecoveryRemainingSeconds = rp.RemainingSeconds(rec.RecoveryDueAt, now)
			return resp, nil
		}
		res, healed, err := u.Store.ApplyRecovery(ctx, req.UserID, now)
		if err != nil {
			return Response{}, fmt.Errorf("catch-up heal for %d: %w", req.UserID, err)
		}
		if healed {
			u.logger().InfoContext(ctx, "user recovered on status check",
				slog.Int64("user_id", req.UserID), slog.Int("hp", res.NewHP))
		}
		resp.HP = res.NewHP
		resp.Incapacitated = res.NewHP <= rp.MinHP
		resp.RecoveredNow = healed
	}
	return resp, nil
}

func (u UseCase) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now()
}

func (u UseCase) logger() *slog.Logger {
	if u.Logger != nil {
		return u.Logger
	}
	return slog.Default()
}

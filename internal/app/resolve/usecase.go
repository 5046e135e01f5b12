package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"rpverse/internal/app/ports"
	"rpverse/internal/domain/rp"
)

var (
	ErrInvalidRequest  = errors.New("invalid resolve request")
	ErrNoActionCommand = errors.New("text does not start with an action command")
)

// Config is the per-deployment tuning the resolver needs beyond the static
// action table.
type Config struct {
	// BotID is the bot's own user id; the bot is never a legal target.
	BotID int64
	// FinishingAction is exempt from the piling-on guard.
	FinishingAction string
}

func DefaultConfig() Config {
	return Config{FinishingAction: rp.DefaultFinishingAction}
}

// UseCase resolves one chat command into HP mutations on the actor and the
// target. All business refusals come back as Response.Rejection; only store
// failures are returned as errors.
type UseCase struct {
	Store       ports.VitalityRepository
	Resolutions ports.ResolutionRepository
	Events      ports.EventRepository
	Registry    *rp.Registry
	Metrics     ports.ResolveMetrics
	Config      Config
	Logger      *slog.Logger
	Now         func() time.Time
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	resp, err := u.execute(ctx, req)
	if u.Metrics != nil {
		switch {
		case err != nil && errors.Is(err, ports.ErrConflict):
			u.Metrics.RecordConflict()
		case err != nil:
			u.Metrics.RecordFailure()
		case resp.Rejection != nil:
			u.Metrics.RecordRejected(resp.Rejection.Reason)
		case resp.Outcome != nil && !resp.Replayed:
			u.Metrics.RecordResolved(resp.Outcome.Category)
		}
	}
	return resp, err
}

func (u UseCase) execute(ctx context.Context, req Request) (Response, error) {
	if req.Sender.ID == 0 || req.Text == "" {
		return Response{}, ErrInvalidRequest
	}
	def, remainder, ok := u.Registry.Match(req.Text)
	if !ok {
		return Response{}, ErrNoActionCommand
	}
	now := u.now()

	if replay, ok, err := u.replayResolved(ctx, req.MessageID); err != nil {
		return Response{}, err
	} else if ok {
		return replay, nil
	}

	// Actor gate.
	actor, err := u.Store.Get(ctx, req.Sender.ID)
	if err != nil {
		return Response{}, fmt.Errorf("load actor %d: %w", req.Sender.ID, err)
	}
	actorRecovered := false
	actorHP := actor.HP
	if actor.Incapacitated() {
		if now.Before(actor.RecoveryDueAt) {
			return rejected(rp.Rejection{
				Reason:           rp.RejectIncapacitated,
				RemainingSeconds: rp.RemainingSeconds(actor.RecoveryDueAt, now),
				RemoveMessage:    true,
			}), nil
		}
		// The sweep has not caught this user yet; grant the standard
		// recovery heal inline and continue. ApplyRecovery no-ops when a
		// concurrent sweep got there first, so the heal lands exactly once.
		res, healed, err := u.Store.ApplyRecovery(ctx, req.Sender.ID, now)
		if err != nil {
			return Response{}, fmt.Errorf("catch-up heal for actor %d: %w", req.Sender.ID, err)
		}
		actorRecovered = healed
		actorHP = res.NewHP
		if healed {
			u.logger().InfoContext(ctx, "actor recovered at gate",
				slog.Int64("user_id", req.Sender.ID), slog.Int("hp", res.NewHP))
		}
	}

	// Target resolution: the replied-to user wins, then the first mention.
	target, ok := resolveTarget(req)
	if !ok {
		return rejected(rp.Rejection{Reason: rp.RejectNoTarget}), nil
	}
	if target.ID == req.Sender.ID {
		return rejected(rp.Rejection{Reason: rp.RejectSelfTargetDenied, RemoveMessage: true}), nil
	}
	if target.IsBot || (u.Config.BotID != 0 && target.ID == u.Config.BotID) {
		return rejected(rp.Rejection{Reason: rp.RejectInvalidTarget, RemoveMessage: true}), nil
	}

	// Cooldown gate for healing actions. The new cooldown is committed here
	// even if a later step rejects: the attempt itself was legitimate.
	if def.Category == rp.CategoryBeneficial && def.TargetDelta > 0 {
		if now.Before(actor.HealCooldownUntil) {
			return rejected(rp.Rejection{
				Reason:           rp.RejectOnCooldown,
				RemainingSeconds: rp.RemainingSeconds(actor.HealCooldownUntil, now),
			}), nil
		}
		if err := u.Store.SetHealCooldown(ctx, req.Sender.ID, now.Add(rp.HealCooldown)); err != nil {
			return Response{}, fmt.Errorf("set heal cooldown for %d: %w", req.Sender.ID, err)
		}
	}

	targetRec, err := u.Store.Get(ctx, target.ID)
	if err != nil {
		return Response{}, fmt.Errorf("load target %d: %w", target.ID, err)
	}
	if targetRec.Incapacitated() && def.TargetDelta < 0 && def.Name != u.Config.FinishingAction {
		return rejected(rp.Rejection{Reason: rp.RejectTargetAlreadyDown}), nil
	}

	outcome := rp.Outcome{
		Action:         def.Name,
		Category:       def.Category,
		Remainder:      remainder,
		Actor:          req.Sender,
		Target:         target,
		ActorHP:        actorHP,
		TargetHP:       targetRec.HP,
		ActorRecovered: actorRecovered,
	}

	// The two balances are independent counters: each ApplyDelta is its own
	// atomic unit and there is no cross-entity transaction. A target failure
	// aborts the command; an actor failure after the target committed is a
	// degraded outcome that is logged and reported without the actor delta.
	if def.TargetDelta != 0 {
		res, err := u.Store.ApplyDelta(ctx, target.ID, def.TargetDelta, now)
		if err != nil {
			return Response{}, fmt.Errorf("apply target delta for %d: %w", target.ID, err)
		}
		outcome.TargetDelta = def.TargetDelta
		outcome.TargetHP = res.NewHP
		outcome.TargetIncapacitated = res.BecameIncapacitated
	}
	if def.ActorDelta != 0 {
		res, err := u.Store.ApplyDelta(ctx, req.Sender.ID, def.ActorDelta, now)
		if err != nil {
			u.logger().WarnContext(ctx, "actor delta dropped after target committed",
				slog.Int64("user_id", req.Sender.ID),
				slog.String("action", def.Name),
				slog.Any("error", err))
		} else {
			outcome.ActorDelta = def.ActorDelta
			outcome.ActorHP = res.NewHP
			outcome.ActorIncapacitated = res.BecameIncapacitated
		}
	}

	u.recordResolved(ctx, req, outcome, now)
	return Response{Outcome: &outcome}, nil
}

// replayResolved serves a previously committed outcome for a redelivered
// message. Rejections are never replayed so remaining-wait times are always
// recomputed fresh.
func (u UseCase) replayResolved(ctx context.Context, messageID string) (Response, bool, error) {
	if messageID == "" || u.Resolutions == nil {
		return Response{}, false, nil
	}
	record, err := u.Resolutions.GetByMessageID(ctx, messageID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return Response{}, false, nil
		}
		return Response{}, false, fmt.Errorf("lookup resolution %q: %w", messageID, err)
	}
	outcome := record.Outcome
	return Response{Outcome: &outcome, Replayed: true}, true, nil
}

// recordResolved persists the idempotency record and the domain events.
// Both are observational: failures here are logged and never undo the HP
// changes that already committed.
func (u UseCase) recordResolved(ctx context.Context, req Request, outcome rp.Outcome, now time.Time) {
	if u.Resolutions != nil && req.MessageID != "" {
		err := u.Resolutions.Save(ctx, ports.ResolutionRecord{
			MessageID: req.MessageID,
			SenderID:  req.Sender.ID,
			Outcome:   outcome,
			AppliedAt: now,
		})
		if err != nil {
			u.logger().WarnContext(ctx, "save resolution record",
				slog.String("message_id", req.MessageID), slog.Any("error", err))
		}
	}
	if u.Events != nil {
		event := rp.DomainEvent{
			Type:       rp.EventActionResolved,
			OccurredAt: now,
			Payload: map[string]any{
				"action":       outcome.Action,
				"category":     string(outcome.Category),
				"actor_id":     outcome.Actor.ID,
				"target_id":    outcome.Target.ID,
				"actor_delta":  outcome.ActorDelta,
				"target_delta": outcome.TargetDelta,
				"actor_hp":     outcome.ActorHP,
				"target_hp":    outcome.TargetHP,
			},
		}
		// Both participants' feeds carry the action.
		for _, userID := range []int64{outcome.Target.ID, outcome.Actor.ID} {
			if err := u.Events.Append(ctx, userID, []rp.DomainEvent{event}); err != nil {
				u.logger().WarnContext(ctx, "append action event",
					slog.Int64("user_id", userID), slog.Any("error", err))
			}
		}
	}
}

func resolveTarget(req Request) (rp.User, bool) {
	if req.ReplyTo != nil && req.ReplyTo.ID != 0 {
		return *req.ReplyTo, true
	}
	for _, mention := range req.Mentions {
		if mention.ID != 0 {
			return mention, true
		}
	}
	return rp.User{}, false
}

func rejected(r rp.Rejection) Response {
	return Response{Rejection: &r}
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

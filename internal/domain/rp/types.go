package rp

import "time"

type Category string

const (
	CategoryBeneficial Category = "beneficial"
	CategoryNeutral    Category = "neutral"
	CategoryHostile    Category = "hostile"
)

// ActionDefinition is one entry of the static action table. Name is the
// lexical key and may contain spaces; deltas are signed HP changes.
type ActionDefinition struct {
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	TargetDelta int      `json:"target_delta"`
	ActorDelta  int      `json:"actor_delta"`
}

// User is the identity a chat message exposes. ID is the stable numeric key;
// DisplayName is presentation-only and never used for lookups.
type User struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
	IsBot       bool   `json:"is_bot,omitempty"`
}

// VitalityRecord is the persisted per-user state. Zero timestamps mean
// "not on cooldown" and "not incapacitated" respectively.
type VitalityRecord struct {
	UserID            int64
	HP                int
	HealCooldownUntil time.Time
	RecoveryDueAt     time.Time
	Version           int64
}

func DefaultVitality(userID int64) VitalityRecord {
	return VitalityRecord{UserID: userID, HP: DefaultHP, Version: 1}
}

func (r VitalityRecord) Incapacitated() bool {
	return r.HP <= MinHP
}

// ApplyDelta computes the record after a bounded HP change. It reports
// whether the change dropped the user to zero for the first time, in which
// case the recovery window is armed. Healing back above zero disarms it.
func ApplyDelta(rec VitalityRecord, delta int, now time.Time) (VitalityRecord, bool) {
	oldHP := rec.HP
	rec.HP = ClampHP(oldHP + delta)

	became := false
	if rec.HP <= MinHP && oldHP > MinHP {
		rec.RecoveryDueAt = now.Add(RecoveryWindow)
		became = true
	} else if rec.HP > MinHP && !rec.RecoveryDueAt.IsZero() {
		rec.RecoveryDueAt = time.Time{}
	}
	return rec, became
}

type RejectReason string

const (
	RejectIncapacitated     RejectReason = "incapacitated"
	RejectNoTarget          RejectReason = "no_target"
	RejectSelfTargetDenied  RejectReason = "self_target_denied"
	RejectInvalidTarget     RejectReason = "invalid_target"
	RejectOnCooldown        RejectReason = "on_cooldown"
	RejectTargetAlreadyDown RejectReason = "target_already_down"
)

// Rejection is a business-rule refusal. RemoveMessage signals the chat layer
// that the offending message should be deleted from the channel.
type Rejection struct {
	Reason           RejectReason `json:"reason"`
	RemainingSeconds int          `json:"remaining_seconds,omitempty"`
	RemoveMessage    bool         `json:"remove_message,omitempty"`
}

// Outcome reports one successfully applied action. Deltas are the changes
// actually committed; a degraded partial apply reports a zero actor delta.
type Outcome struct {
	Action      string   `json:"action"`
	Category    Category `json:"category"`
	Remainder   string   `json:"remainder,omitempty"`
	Actor       User     `json:"actor"`
	Target      User     `json:"target"`
	ActorDelta  int      `json:"actor_delta"`
	TargetDelta int      `json:"target_delta"`
	ActorHP     int      `json:"actor_hp"`
	TargetHP    int      `json:"target_hp"`

	ActorIncapacitated  bool `json:"actor_incapacitated,omitempty"`
	TargetIncapacitated bool `json:"target_incapacitated,omitempty"`

	// ActorRecovered is set when the actor gate performed the lazy
	// catch-up heal before the action proceeded.
	ActorRecovered bool `json:"actor_recovered,omitempty"`
}

type DomainEvent struct {
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

const (
	EventActionResolved = "rp_action"
	EventRecovered      = "rp_recovery"
)

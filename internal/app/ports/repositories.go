package ports

import (
	"context"
	"time"

	"rpverse/internal/domain/rp"
)

// DeltaResult reports one committed HP change.
type DeltaResult struct {
	NewHP               int
	BecameIncapacitated bool
}

// DueRecovery is a user whose incapacitation window has elapsed.
type DueRecovery struct {
	UserID int64
	HP     int
}

// VitalityRepository is the Vitality Store. Get creates and persists the
// default record on first reference. ApplyDelta is a single atomic
// read-modify-write per user: concurrent calls against the same user must
// never lose an update, and the clamp is always computed against the latest
// committed value.
//
// ApplyRecovery grants the recovery heal as one atomic unit: the heal and
// the window clear happen only while the window is still armed, and
// healed=false reports that another path already recovered the user. The
// returned result carries the user's current HP either way so callers can
// continue.
type VitalityRepository interface {
	Get(ctx context.Context, userID int64) (rp.VitalityRecord, error)
	ApplyDelta(ctx context.Context, userID int64, delta int, now time.Time) (DeltaResult, error)
	ApplyRecovery(ctx context.Context, userID int64, now time.Time) (DeltaResult, bool, error)
	SetHealCooldown(ctx context.Context, userID int64, until time.Time) error
	ListDueForRecovery(ctx context.Context, now time.Time) ([]DueRecovery, error)
}

// ResolutionRecord stores the outcome of a successfully resolved message so
// a redelivered webhook replays the response instead of re-applying deltas.
type ResolutionRecord struct {
	MessageID string
	SenderID  int64
	Outcome   rp.Outcome
	AppliedAt time.Time
}

type ResolutionRepository interface {
	GetByMessageID(ctx context.Context, messageID string) (*ResolutionRecord, error)
	Save(ctx context.Context, record ResolutionRecord) error
}

type EventRepository interface {
	Append(ctx context.Context, userID int64, events []rp.DomainEvent) error
	ListByUserID(ctx context.Context, userID int64, limit int) ([]rp.DomainEvent, error)
}

package gormrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rpverse/internal/adapter/repo/gorm/model"
	"rpverse/internal/app/ports"
	"rpverse/internal/domain/rp"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// applyDeltaMaxRetries bounds the optimistic CAS loop before the conflict
// surfaces to the caller as retryable.
const applyDeltaMaxRetries = 5

type VitalityRepo struct {
	db *gorm.DB
}

func NewVitalityRepo(db *gorm.DB) VitalityRepo {
	return VitalityRepo{db: db}
}

// Get returns the user's record, creating and persisting the default on
// first reference so subsequent reads are stable.
func (r VitalityRepo) Get(ctx context.Context, userID int64) (rp.VitalityRecord, error) {
	rec, err := r.load(ctx, userID)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return rp.VitalityRecord{}, err
	}

	seed := rp.DefaultVitality(userID)
	row := toRow(seed)
	// DoNothing absorbs a concurrent first reference; the re-read below wins
	// either way.
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if create.Error != nil {
		return rp.VitalityRecord{}, fmt.Errorf("seed vitality for %d: %w", userID, create.Error)
	}
	return r.load(ctx, userID)
}

// ApplyDelta is the atomic bounded HP mutation: read, compute the transition
// in the domain, then compare-and-swap on the row version. A lost race
// retries against the freshly committed value.
func (r VitalityRepo) ApplyDelta(ctx context.Context, userID int64, delta int, now time.Time) (ports.DeltaResult, error) {
	for attempt := 0; attempt < applyDeltaMaxRetries; attempt++ {
		rec, err := r.Get(ctx, userID)
		if err != nil {
			return ports.DeltaResult{}, err
		}
		updated, became := rp.ApplyDelta(rec, delta, now)

		res := r.db.WithContext(ctx).Model(&model.Vitality{}).
			Where("user_id = ? AND version = ?", userID, rec.Version).
			Updates(map[string]any{
				"hp":              int32(updated.HP),
				"recovery_due_at": unixOrZero(updated.RecoveryDueAt),
				"version":         rec.Version + 1,
				"updated_at":      now,
			})
		if res.Error != nil {
			return ports.DeltaResult{}, res.Error
		}
		if res.RowsAffected == 0 {
			continue
		}
		return ports.DeltaResult{NewHP: updated.HP, BecameIncapacitated: became}, nil
	}
	return ports.DeltaResult{}, ports.ErrConflict
}

// ApplyRecovery heals only while the recovery window is still armed. The
// version CAS makes the check-and-heal one atomic unit, so a racing sweep
// and catch-up heal resolve to exactly one heal.
func (r VitalityRepo) ApplyRecovery(ctx context.Context, userID int64, now time.Time) (ports.DeltaResult, bool, error) {
	for attempt := 0; attempt < applyDeltaMaxRetries; attempt++ {
		rec, err := r.Get(ctx, userID)
		if err != nil {
			return ports.DeltaResult{}, false, err
		}
		if rec.RecoveryDueAt.IsZero() {
			return ports.DeltaResult{NewHP: rec.HP}, false, nil
		}
		updated, became := rp.ApplyDelta(rec, rp.RecoveryAmount, now)

		res := r.db.WithContext(ctx).Model(&model.Vitality{}).
			Where("user_id = ? AND version = ?", userID, rec.Version).
			Updates(map[string]any{
				"hp":              int32(updated.HP),
				"recovery_due_at": unixOrZero(updated.RecoveryDueAt),
				"version":         rec.Version + 1,
				"updated_at":      now,
			})
		if res.Error != nil {
			return ports.DeltaResult{}, false, res.Error
		}
		if res.RowsAffected == 0 {
			continue
		}
		return ports.DeltaResult{NewHP: updated.HP, BecameIncapacitated: became}, true, nil
	}
	return ports.DeltaResult{}, false, ports.ErrConflict
}

func (r VitalityRepo) SetHealCooldown(ctx context.Context, userID int64, until time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Vitality{}).
		Where("user_id = ?", userID).
		Update("heal_cooldown_until", unixOrZero(until))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r VitalityRepo) ListDueForRecovery(ctx context.Context, now time.Time) ([]ports.DueRecovery, error) {
	rows := []model.Vitality{}
	err := r.db.WithContext(ctx).
		Where("hp <= ? AND recovery_due_at > 0 AND recovery_due_at <= ?", rp.MinHP, now.Unix()).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]ports.DueRecovery, 0, len(rows))
	for _, row := range rows {
		out = append(out, ports.DueRecovery{UserID: row.UserID, HP: int(row.Hp)})
	}
	return out, nil
}

func (r VitalityRepo) load(ctx context.Context, userID int64) (rp.VitalityRecord, error) {
	var row model.Vitality
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rp.VitalityRecord{}, ports.ErrNotFound
		}
		return rp.VitalityRecord{}, err
	}
	return fromRow(row), nil
}

func toRow(rec rp.VitalityRecord) model.Vitality {
	return model.Vitality{
		UserID:            rec.UserID,
		Hp:                int32(rec.HP),
		HealCooldownUntil: unixOrZero(rec.HealCooldownUntil),
		RecoveryDueAt:     unixOrZero(rec.RecoveryDueAt),
		Version:           rec.Version,
	}
}

func fromRow(row model.Vitality) rp.VitalityRecord {
	return rp.VitalityRecord{
		UserID:            row.UserID,
		HP:                int(row.Hp),
		HealCooldownUntil: timeOrZero(row.HealCooldownUntil),
		RecoveryDueAt:     timeOrZero(row.RecoveryDueAt),
		Version:           row.Version,
	}
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func timeOrZero(unix int64) time.Time {
	if unix == 0 {
		return time.Time{}
	}
	return time.Unix(unix, 0)
}

package resolve

import (
	"context"
	"time"

	"rpverse/internal/app/ports"
	"rpverse/internal/domain/rp"
)

// faultyStore wraps a real store and injects failures per operation.
type faultyStore struct {
	inner       ports.VitalityRepository
	getErr      error
	cooldownErr error
	// applyErrFor fails ApplyDelta only for the listed user ids.
	applyErrFor map[int64]error
}

func (s *faultyStore) Get(ctx context.Context, userID int64) (rp.VitalityRecord, error) {
	if s.getErr != nil {
		return rp.VitalityRecord{}, s.getErr
	}
	return s.inner.Get(ctx, userID)
}

func (s *faultyStore) ApplyDelta(ctx context.Context, userID int64, delta int, now time.Time) (ports.DeltaResult, error) {
	if err, ok := s.applyErrFor[userID]; ok {
		return ports.DeltaResult{}, err
	}
	return s.inner.ApplyDelta(ctx, userID, delta, now)
}

func (s *faultyStore) ApplyRecovery(ctx context.Context, userID int64, now time.Time) (ports.DeltaResult, bool, error) {
	if err, ok := s.applyErrFor[userID]; ok {
		return ports.DeltaResult{}, false, err
	}
	return s.inner.ApplyRecovery(ctx, userID, now)
}

func (s *faultyStore) SetHealCooldown(ctx context.Context, userID int64, until time.Time) error {
	if s.cooldownErr != nil {
		return s.cooldownErr
	}
	return s.inner.SetHealCooldown(ctx, userID, until)
}

func (s *faultyStore) ListDueForRecovery(ctx context.Context, now time.Time) ([]ports.DueRecovery, error) {
	return s.inner.ListDueForRecovery(ctx, now)
}

type stubMetrics struct {
	resolved  int
	rejected  int
	conflicts int
	failures  int

	lastCategory rp.Category
	lastReason   rp.RejectReason
}

func (m *stubMetrics) RecordResolved(category rp.Category) {
	m.resolved++
	m.lastCategory = category
}

func (m *stubMetrics) RecordRejected(reason rp.RejectReason) {
	m.rejected++
	m.lastReason = reason
}

func (m *stubMetrics) RecordConflict() { m.conflicts++ }
func (m *stubMetrics) RecordFailure()  { m.failures++ }

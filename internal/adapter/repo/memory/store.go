// Package memory is a mutex-serialized vitality store for tests and
// DSN-less development runs. It is the reference model for the per-user
// atomicity the Postgres adapter provides via version CAS.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"rpverse/internal/app/ports"
	"rpverse/internal/domain/rp"
)

type Store struct {
	mu      sync.Mutex
	records map[int64]rp.VitalityRecord
}

func NewStore() *Store {
	return &Store{records: map[int64]rp.VitalityRecord{}}
}

// Seed installs a record verbatim, for tests.
func (s *Store) Seed(rec rp.VitalityRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.UserID] = rec
}

func (s *Store) Get(_ context.Context, userID int64) (rp.VitalityRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(userID), nil
}

func (s *Store) ApplyDelta(_ context.Context, userID int64, delta int, now time.Time) (ports.DeltaResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.getLocked(userID)
	updated, became := rp.ApplyDelta(rec, delta, now)
	updated.Version++
	s.records[userID] = updated
	return ports.DeltaResult{NewHP: updated.HP, BecameIncapacitated: became}, nil
}

// ApplyRecovery heals only while the recovery window is still armed, so a
// racing sweep and catch-up heal resolve to exactly one heal.
func (s *Store) ApplyRecovery(_ context.Context, userID int64, now time.Time) (ports.DeltaResult, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.getLocked(userID)
	if rec.RecoveryDueAt.IsZero() {
		return ports.DeltaResult{NewHP: rec.HP}, false, nil
	}
	updated, became := rp.ApplyDelta(rec, rp.RecoveryAmount, now)
	updated.Version++
	s.records[userID] = updated
	return ports.DeltaResult{NewHP: updated.HP, BecameIncapacitated: became}, true, nil
}

func (s *Store) SetHealCooldown(_ context.Context, userID int64, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.getLocked(userID)
	rec.HealCooldownUntil = until
	s.records[userID] = rec
	return nil
}

func (s *Store) ListDueForRecovery(_ context.Context, now time.Time) ([]ports.DueRecovery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []ports.DueRecovery
	for _, rec := range s.records {
		if rec.HP <= rp.MinHP && !rec.RecoveryDueAt.IsZero() && !rec.RecoveryDueAt.After(now) {
			due = append(due, ports.DueRecovery{UserID: rec.UserID, HP: rec.HP})
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].UserID < due[j].UserID })
	return due, nil
}

func (s *Store) getLocked(userID int64) rp.VitalityRecord {
	rec, ok := s.records[userID]
	if !ok {
		rec = rp.DefaultVitality(userID)
		s.records[userID] = rec
	}
	return rec
}

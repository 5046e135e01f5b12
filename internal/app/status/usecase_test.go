package status

import (
	"context"
	"errors"
	"testing"
	"time"

	"rpverse/internal/adapter/repo/memory"
	"rpverse/internal/domain/rp"
)

func TestExecute_ReportsDefaults(t *testing.T) {
	now := time.Unix(1700000000, 0)
	uc := UseCase{Store: memory.NewStore(), Now: func() time.Time { return now }}

	resp, err := uc.Execute(context.Background(), Request{UserID: 5})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if resp.HP != rp.DefaultHP || resp.MaxHP != rp.MaxHP {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Incapacitated || resp.RecoveryRemainingSeconds != 0 || resp.HealCooldownRemainingSeconds != 0 {
		t.Fatalf("fresh user must have no pending waits: %+v", resp)
	}
}

func TestExecute_ReportsRemainingWaits(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := memory.NewStore()
	store.Seed(rp.VitalityRecord{
		UserID:            5,
		HP:                0,
		RecoveryDueAt:     now.Add(2 * time.Minute),
		HealCooldownUntil: now.Add(10 * time.Minute),
		Version:           1,
	})
	uc := UseCase{Store: store, Now: func() time.Time { return now }}

	resp, err := uc.Execute(context.Background(), Request{UserID: 5})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !resp.Incapacitated {
		t.Fatal("expected incapacitated status")
	}
	if resp.RecoveryRemainingSeconds != 120 {
		t.Fatalf("recovery remaining=%d, want 120", resp.RecoveryRemainingSeconds)
	}
	if resp.HealCooldownRemainingSeconds != 600 {
		t.Fatalf("cooldown remaining=%d, want 600", resp.HealCooldownRemainingSeconds)
	}
}

func TestExecute_CatchUpHealOnElapsedWindow(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := memory.NewStore()
	store.Seed(rp.VitalityRecord{UserID: 5, HP: 0, RecoveryDueAt: now.Add(-time.Second), Version: 1})
	uc := UseCase{Store: store, Now: func() time.Time { return now }}

	resp, err := uc.Execute(context.Background(), Request{UserID: 5})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !resp.RecoveredNow {
		t.Fatalf("expected catch-up recovery, got %+v", resp)
	}
	if resp.HP != rp.RecoveryAmount || resp.Incapacitated {
		t.Fatalf("unexpected post-recovery state: %+v", resp)
	}
	rec, _ := store.Get(context.Background(), 5)
	if !rec.RecoveryDueAt.IsZero() {
		t.Fatal("recovery window must clear")
	}
}

func TestExecute_InvalidRequest(t *testing.T) {
	uc := UseCase{Store: memory.NewStore()}
	if _, err := uc.Execute(context.Background(), Request{}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

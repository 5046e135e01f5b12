package inmemory

import (
	"testing"

	"rpverse/internal/domain/rp"
)

func TestRecorderSnapshot(t *testing.T) {
	r := NewRecorder()
	r.RecordResolved(rp.CategoryHostile)
	r.RecordResolved(rp.CategoryHostile)
	r.RecordResolved(rp.CategoryBeneficial)
	r.RecordRejected(rp.RejectOnCooldown)
	r.RecordConflict()
	r.RecordFailure()

	snap := r.Snapshot()
	if snap.ResolvedTotal != 3 {
		t.Fatalf("resolved=%d, want 3", snap.ResolvedTotal)
	}
	if snap.ByCategory[string(rp.CategoryHostile)] != 2 {
		t.Fatalf("hostile=%d, want 2", snap.ByCategory[string(rp.CategoryHostile)])
	}
	if snap.RejectedTotal != 1 || snap.ByRejection[string(rp.RejectOnCooldown)] != 1 {
		t.Fatalf("unexpected rejection counters: %+v", snap)
	}
	if snap.ConflictTotal != 1 || snap.FailureTotal != 1 {
		t.Fatalf("unexpected conflict/failure counters: %+v", snap)
	}

	// Snapshot is a copy; mutating it must not touch the recorder.
	snap.ByCategory["hostile"] = 99
	if r.Snapshot().ByCategory[string(rp.CategoryHostile)] != 2 {
		t.Fatal("snapshot must be detached from recorder state")
	}
}

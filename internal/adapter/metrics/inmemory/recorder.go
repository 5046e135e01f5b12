package inmemory

import (
	"sync"

	"rpverse/internal/domain/rp"
)

type Snapshot struct {
	ResolvedTotal uint64            `json:"resolved_total"`
	RejectedTotal uint64            `json:"rejected_total"`
	ConflictTotal uint64            `json:"conflict_total"`
	FailureTotal  uint64            `json:"failure_total"`
	ByCategory    map[string]uint64 `json:"by_category"`
	ByRejection   map[string]uint64 `json:"by_rejection"`
}

// Recorder counts resolution outcomes for the /ops/kpi endpoint.
type Recorder struct {
	mu          sync.Mutex
	resolved    uint64
	rejected    uint64
	conflict    uint64
	failure     uint64
	byCategory  map[string]uint64
	byRejection map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byCategory:  map[string]uint64{},
		byRejection: map[string]uint64{},
	}
}

func (r *Recorder) RecordResolved(category rp.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolved++
	r.byCategory[string(category)]++
}

func (r *Recorder) RecordRejected(reason rp.RejectReason) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected++
	r.byRejection[string(reason)]++
}

func (r *Recorder) RecordConflict() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflict++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		ResolvedTotal: r.resolved,
		RejectedTotal: r.rejected,
		ConflictTotal: r.conflict,
		FailureTotal:  r.failure,
		ByCategory:    make(map[string]uint64, len(r.byCategory)),
		ByRejection:   make(map[string]uint64, len(r.byRejection)),
	}
	for k, v := range r.byCategory {
		out.ByCategory[k] = v
	}
	for k, v := range r.byRejection {
		out.ByRejection[k] = v
	}
	return out
}

package memory

import (
	"context"
	"sync"

	"rpverse/internal/app/ports"
	"rpverse/internal/domain/rp"
)

type EventLog struct {
	mu     sync.Mutex
	byUser map[int64][]rp.DomainEvent
}

func NewEventLog() *EventLog {
	return &EventLog{byUser: map[int64][]rp.DomainEvent{}}
}

func (l *EventLog) Append(_ context.Context, userID int64, events []rp.DomainEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.byUser[userID] = append(l.byUser[userID], events...)
	return nil
}

// ListByUserID returns events newest first, mirroring the Postgres adapter.
func (l *EventLog) ListByUserID(_ context.Context, userID int64, limit int) ([]rp.DomainEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	events := l.byUser[userID]
	if len(events) == 0 {
		return nil, ports.ErrNotFound
	}
	out := make([]rp.DomainEvent, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		out = append(out, events[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

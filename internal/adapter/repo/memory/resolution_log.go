package memory

import (
	"context"
	"sync"

	"rpverse/internal/app/ports"
)

type ResolutionLog struct {
	mu    sync.Mutex
	byKey map[string]ports.ResolutionRecord
}

func NewResolutionLog() *ResolutionLog {
	return &ResolutionLog{byKey: map[string]ports.ResolutionRecord{}}
}

func (l *ResolutionLog) GetByMessageID(_ context.Context, messageID string) (*ports.ResolutionRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	record, ok := l.byKey[messageID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	out := record
	return &out, nil
}

func (l *ResolutionLog) Save(_ context.Context, record ports.ResolutionRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.byKey[record.MessageID]; !exists {
		l.byKey[record.MessageID] = record
	}
	return nil
}

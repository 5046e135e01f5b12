package gormrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"rpverse/internal/adapter/repo/gorm/model"
	"rpverse/internal/app/ports"
	"rpverse/internal/domain/rp"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, userID int64, events []rp.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]model.Event, 0, len(events))
	for _, e := range events {
		b, err := json.Marshal(e.Payload)
		if err != nil {
			return fmt.Errorf("encode %s event payload: %w", e.Type, err)
		}
		rows = append(rows, model.Event{
			UserID:     userID,
			Type:       e.Type,
			OccurredAt: e.OccurredAt,
			Payload:    b,
		})
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r EventRepo) ListByUserID(ctx context.Context, userID int64, limit int) ([]rp.DomainEvent, error) {
	rows := []model.Event{}
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "occurred_at"}, Desc: true}},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ports.ErrNotFound
	}

	out := make([]rp.DomainEvent, 0, len(rows))
	for _, row := range rows {
		var payload map[string]any
		if len(row.Payload) > 0 {
			_ = json.Unmarshal(row.Payload, &payload)
		}
		out = append(out, rp.DomainEvent{
			Type:       row.Type,
			OccurredAt: row.OccurredAt,
			Payload:    payload,
		})
	}
	return out, nil
}

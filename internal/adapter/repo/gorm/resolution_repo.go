package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"rpverse/internal/adapter/repo/gorm/model"
	"rpverse/internal/app/ports"
	"rpverse/internal/domain/rp"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResolutionRepo struct {
	db *gorm.DB
}

func NewResolutionRepo(db *gorm.DB) ResolutionRepo {
	return ResolutionRepo{db: db}
}

func (r ResolutionRepo) GetByMessageID(ctx context.Context, messageID string) (*ports.ResolutionRecord, error) {
	var row model.Resolution
	if err := r.db.WithContext(ctx).Where("message_id = ?", messageID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	var outcome rp.Outcome
	if err := json.Unmarshal(row.Outcome, &outcome); err != nil {
		return nil, fmt.Errorf("decode resolution %q: %w", messageID, err)
	}
	return &ports.ResolutionRecord{
		MessageID: row.MessageID,
		SenderID:  row.SenderID,
		Outcome:   outcome,
		AppliedAt: row.AppliedAt,
	}, nil
}

func (r ResolutionRepo) Save(ctx context.Context, record ports.ResolutionRecord) error {
	b, err := json.Marshal(record.Outcome)
	if err != nil {
		return fmt.Errorf("encode resolution %q: %w", record.MessageID, err)
	}
	row := model.Resolution{
		MessageID: record.MessageID,
		SenderID:  record.SenderID,
		Outcome:   b,
		AppliedAt: record.AppliedAt,
	}
	// A duplicate save from a racing redelivery keeps the first record.
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

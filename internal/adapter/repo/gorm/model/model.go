// Package model holds the row structs backing the rp tables. Timestamps
// that carry "not set" semantics are stored as unix seconds with zero as
// the sentinel.
package model

import "time"

type Vitality struct {
	UserID            int64     `gorm:"column:user_id;primaryKey"`
	Hp                int32     `gorm:"column:hp"`
	HealCooldownUntil int64     `gorm:"column:heal_cooldown_until"`
	RecoveryDueAt     int64     `gorm:"column:recovery_due_at"`
	Version           int64     `gorm:"column:version"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (Vitality) TableName() string { return "rp_vitality" }

type Event struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID     int64     `gorm:"column:user_id;index"`
	Type       string    `gorm:"column:type"`
	OccurredAt time.Time `gorm:"column:occurred_at"`
	Payload    []byte    `gorm:"column:payload;type:jsonb"`
}

func (Event) TableName() string { return "rp_events" }

type Resolution struct {
	MessageID string    `gorm:"column:message_id;primaryKey"`
	SenderID  int64     `gorm:"column:sender_id"`
	Outcome   []byte    `gorm:"column:outcome;type:jsonb"`
	AppliedAt time.Time `gorm:"column:applied_at"`
}

func (Resolution) TableName() string { return "rp_resolutions" }

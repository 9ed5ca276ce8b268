package models

import (
	"time"

	"gorm.io/datatypes"
)

// Transaction records an immutable billable event. Amounts are euro cents.
type Transaction struct {
	ID           int64             `gorm:"column:id;primaryKey;autoIncrement"`
	UserID       int64             `gorm:"column:user_id;not null;index"`
	Service      string            `gorm:"column:service;type:text;not null"`
	AmountCents  int64             `gorm:"column:amount_cents;not null"`
	CharityCents int64             `gorm:"column:charity_cents;not null;default:0"`
	CharityID    *int64            `gorm:"column:charity_id"`
	Metadata     datatypes.JSONMap `gorm:"column:metadata"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
}

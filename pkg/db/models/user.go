package models

import (
	"time"

	"github.com/pdflex/pdflex-backend/pkg/enums"
)

// User represents the canonical identity entity.
type User struct {
	ID           int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Email        string     `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	Plan         enums.Plan `gorm:"column:plan;type:text;not null;default:'free'"`
	CharityID    *int64     `gorm:"column:charity_id"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
}

package models

import (
	"time"

	"github.com/pdflex/pdflex-backend/pkg/enums"
)

// Subscription is the recurring plan attached to a user. Its lifecycle is
// managed outside this service; only the active row is read. Active carries
// no gorm default so an explicit false is written rather than omitted.
type Subscription struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement"`
	UserID      int64      `gorm:"column:user_id;not null;index"`
	Plan        enums.Plan `gorm:"column:plan;type:text;not null"`
	CharityID   *int64     `gorm:"column:charity_id"`
	StartedAt   time.Time  `gorm:"column:started_at;not null"`
	RenewedAt   *time.Time `gorm:"column:renewed_at"`
	NextRenewAt *time.Time `gorm:"column:next_renew_at"`
	Active      bool       `gorm:"column:active;not null"`
}

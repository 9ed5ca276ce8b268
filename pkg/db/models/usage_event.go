package models

import (
	"time"

	"github.com/pdflex/pdflex-backend/pkg/enums"
)

// UsageEvent is one quota-consuming action. Rows are never updated.
type UsageEvent struct {
	ID        int64             `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int64             `gorm:"column:user_id;not null;index:idx_usage_events_user_created,priority:1"`
	Action    enums.UsageAction `gorm:"column:action;type:text;not null"`
	CreatedAt time.Time         `gorm:"column:created_at;not null;index:idx_usage_events_user_created,priority:2"`
}

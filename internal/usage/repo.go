package usage

import (
	"context"
	"time"

	"github.com/pdflex/pdflex-backend/pkg/db/models"
	"github.com/pdflex/pdflex-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository persists usage events. Events are inserted once and only read in
// aggregate.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, event *models.UsageEvent) error
	CountInRange(ctx context.Context, userID int64, start, end time.Time) (int64, error)
	CountByActionInRange(ctx context.Context, userID int64, start, end time.Time) (map[enums.UsageAction]int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a usage repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, event *models.UsageEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// CountInRange counts events in the half-open window [start, end).
func (r *repository) CountInRange(ctx context.Context, userID int64, start, end time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UsageEvent{}).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) CountByActionInRange(ctx context.Context, userID int64, start, end time.Time) (map[enums.UsageAction]int64, error) {
	var rows []struct {
		Action enums.UsageAction
		Total  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.UsageEvent{}).
		Select("action, COUNT(*) AS total").
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Group("action").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[enums.UsageAction]int64, len(rows))
	for _, row := range rows {
		out[row.Action] = row.Total
	}
	return out, nil
}

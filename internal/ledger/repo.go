package ledger

import (
	"context"

	"github.com/pdflex/pdflex-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists transactions. It is append-only: there is no update or
// delete method.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, txn *models.Transaction) error
	ListByUser(ctx context.Context, userID int64) ([]models.Transaction, error)
	SumAmountByUser(ctx context.Context, userID int64) (int64, error)
	SumCharityByUser(ctx context.Context, userID int64) (int64, error)
	SumCharity(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Create is a single INSERT; concurrent callers never contend on a shared row.
func (r *repository) Create(ctx context.Context, txn *models.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *repository) ListByUser(ctx context.Context, userID int64) ([]models.Transaction, error) {
	var txns []models.Transaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *repository) SumAmountByUser(ctx context.Context, userID int64) (int64, error) {
	return r.sum(ctx, "amount_cents", "user_id = ?", userID)
}

func (r *repository) SumCharityByUser(ctx context.Context, userID int64) (int64, error) {
	return r.sum(ctx, "charity_cents", "user_id = ?", userID)
}

func (r *repository) SumCharity(ctx context.Context) (int64, error) {
	return r.sum(ctx, "charity_cents", "")
}

func (r *repository) sum(ctx context.Context, column, where string, args ...any) (int64, error) {
	var total int64
	q := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("COALESCE(SUM(" + column + "), 0)")
	if where != "" {
		q = q.Where(where, args...)
	}
	if err := q.Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

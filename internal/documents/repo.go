package documents

import (
	"context"

	"github.com/pdflex/pdflex-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists document rows. Every lookup is scoped to the owner.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, doc *models.Document) error
	FindOwned(ctx context.Context, id, userID int64) (*models.Document, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Document, error)
	Delete(ctx context.Context, id, userID int64) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a documents repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, doc *models.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

// FindOwned returns gorm.ErrRecordNotFound when the document is missing or
// belongs to someone else.
func (r *repository) FindOwned(ctx context.Context, id, userID int64) (*models.Document, error) {
	var doc models.Document
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int64) ([]models.Document, error) {
	var docs []models.Document
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&docs).Error
	return docs, err
}

func (r *repository) Delete(ctx context.Context, id, userID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Document{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

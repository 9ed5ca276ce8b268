package billing

import (
	"context"
	"errors"

	"github.com/pdflex/pdflex-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository reads the charity catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListCharities(ctx context.Context) ([]models.Charity, error)
	FindCharity(ctx context.Context, id int64) (*models.Charity, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a charity repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListCharities(ctx context.Context) ([]models.Charity, error) {
	var charities []models.Charity
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&charities).Error; err != nil {
		return nil, err
	}
	return charities, nil
}

// FindCharity returns nil without error when the id is unknown.
func (r *repository) FindCharity(ctx context.Context, id int64) (*models.Charity, error) {
	var charity models.Charity
	err := r.db.WithContext(ctx).First(&charity, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &charity, nil
}

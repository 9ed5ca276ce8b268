package users

import (
	"context"
	"errors"

	"github.com/pdflex/pdflex-backend/pkg/db/models"
	"github.com/pdflex/pdflex-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePasswordHash replaces the stored hash, used to upgrade legacy digests.
func (r *Repository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("password_hash", hash).Error
}

// UpdateCharity points the user at a charity.
func (r *Repository) UpdateCharity(ctx context.Context, id int64, charityID int64) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("charity_id", charityID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindProfile resolves the billing profile. A missing user yields a free
// profile without a charity; the most recent active subscription overrides
// the plan stored on the user row.
func (r *Repository) FindProfile(ctx context.Context, userID int64) (*Profile, error) {
	profile := &Profile{UserID: userID, Plan: enums.PlanFree}

	user, err := r.FindByID(ctx, userID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return profile, nil
	case err != nil:
		return nil, err
	}
	profile.Plan = enums.NormalizePlan(string(user.Plan))
	profile.CharityID = user.CharityID

	var sub models.Subscription
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Order("started_at DESC").
		First(&sub).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return profile, nil
	case err != nil:
		return nil, err
	}

	if plan, perr := enums.ParsePlan(string(sub.Plan)); perr == nil {
		profile.Plan = plan
	}
	if profile.CharityID == nil && sub.CharityID != nil {
		profile.CharityID = sub.CharityID
	}
	return profile, nil
}

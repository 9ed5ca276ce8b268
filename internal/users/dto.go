package users

import (
	"time"

	"github.com/pdflex/pdflex-backend/pkg/db/models"
	"github.com/pdflex/pdflex-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	Plan      enums.Plan `json:"plan"`
	CreatedAt time.Time  `json:"created_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	Plan         enums.Plan
}

// Profile is the billing view of a user: the effective plan after applying
// an active subscription, and the selected charity.
type Profile struct {
	UserID    int64
	Plan      enums.Plan
	CharityID *int64
}

func (dto CreateUserDTO) ToModel() *models.User {
	plan := dto.Plan
	if !plan.IsValid() {
		plan = enums.PlanFree
	}
	return &models.User{
		Email:        dto.Email,
		PasswordHash: dto.PasswordHash,
		Plan:         plan,
	}
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Plan:      enums.NormalizePlan(string(u.Plan)),
		CreatedAt: u.CreatedAt,
	}
}

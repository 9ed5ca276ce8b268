package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdflex/pdflex-backend/pkg/db/models"
	pkgerrors "github.com/pdflex/pdflex-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes the profile of the authenticated user.
type Service interface {
	Me(ctx context.Context, userID int64) (*UserDTO, error)
}

type lookup interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

type service struct {
	repo lookup
}

// NewService builds a users service.
func NewService(repo lookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Me(ctx context.Context, userID int64) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "User not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return FromModel(user), nil
}

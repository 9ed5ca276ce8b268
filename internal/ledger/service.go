package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pdflex/pdflex-backend/pkg/db/models"
	"gorm.io/datatypes"
)

// ErrInvalidTransaction marks input that would violate ledger invariants.
var ErrInvalidTransaction = errors.New("invalid transaction")

// Service defines operations on the transaction ledger.
type Service interface {
	Record(ctx context.Context, input RecordInput) (*models.Transaction, error)
	ListForUser(ctx context.Context, userID int64) ([]models.Transaction, error)
	SumAmountForUser(ctx context.Context, userID int64) (int64, error)
	SumCharityForUser(ctx context.Context, userID int64) (int64, error)
	GlobalCharityTotal(ctx context.Context) (int64, error)
}

type service struct {
	repo Repository
}

// RecordInput captures the immutable data a transaction requires.
type RecordInput struct {
	UserID       int64          `json:"user_id"`
	Service      string         `json:"service"`
	AmountCents  int64          `json:"amount_cents"`
	CharityCents int64          `json:"charity_cents"`
	CharityID    *int64         `json:"charity_id"`
	Metadata     map[string]any `json:"metadata"`
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, input RecordInput) (*models.Transaction, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		UserID:       input.UserID,
		Service:      input.Service,
		AmountCents:  input.AmountCents,
		CharityCents: input.CharityCents,
		CharityID:    input.CharityID,
	}
	if len(input.Metadata) > 0 {
		txn.Metadata = datatypes.JSONMap(input.Metadata)
	}

	if err := s.repo.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("recording transaction: %w", err)
	}
	return txn, nil
}

func (in RecordInput) validate() error {
	switch {
	case in.UserID <= 0:
		return fmt.Errorf("%w: user id is required", ErrInvalidTransaction)
	case strings.TrimSpace(in.Service) == "":
		return fmt.Errorf("%w: service is required", ErrInvalidTransaction)
	case in.AmountCents < 0:
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidTransaction)
	case in.CharityCents < 0:
		return fmt.Errorf("%w: charity share must not be negative", ErrInvalidTransaction)
	case in.CharityCents > in.AmountCents:
		return fmt.Errorf("%w: charity share %d exceeds amount %d", ErrInvalidTransaction, in.CharityCents, in.AmountCents)
	case in.CharityCents > 0 && (in.CharityID == nil || *in.CharityID <= 0):
		return fmt.Errorf("%w: charity id is required when a share is donated", ErrInvalidTransaction)
	}
	return nil
}

func (s *service) ListForUser(ctx context.Context, userID int64) ([]models.Transaction, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidTransaction)
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) SumAmountForUser(ctx context.Context, userID int64) (int64, error) {
	return s.repo.SumAmountByUser(ctx, userID)
}

func (s *service) SumCharityForUser(ctx context.Context, userID int64) (int64, error) {
	return s.repo.SumCharityByUser(ctx, userID)
}

func (s *service) GlobalCharityTotal(ctx context.Context) (int64, error) {
	return s.repo.SumCharity(ctx)
}

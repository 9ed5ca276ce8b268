package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pdflex/pdflex-backend/internal/ledger"
	"github.com/pdflex/pdflex-backend/internal/users"
	"github.com/pdflex/pdflex-backend/pkg/db/models"
	pkgerrors "github.com/pdflex/pdflex-backend/pkg/errors"
	"github.com/pdflex/pdflex-backend/pkg/logger"
	"github.com/pdflex/pdflex-backend/pkg/metrics"
	"github.com/pdflex/pdflex-backend/pkg/pricing"
)

// Charger bills one successful chargeable action. Implementations write
// exactly one ledger entry per call and never retry.
type Charger interface {
	Charge(ctx context.Context, input ChargeInput) (*models.Transaction, error)
}

// ChargeInput describes a chargeable action.
type ChargeInput struct {
	UserID    int64          `json:"user_id"`
	Service   string         `json:"service"`
	Donate    bool           `json:"donate"`
	CharityID *int64         `json:"charity_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// ProfileStore resolves the billing profile of a user.
type ProfileStore interface {
	FindProfile(ctx context.Context, userID int64) (*users.Profile, error)
	UpdateCharity(ctx context.Context, userID, charityID int64) error
}

// ServiceParams groups dependencies for the billing service.
type ServiceParams struct {
	Repo     Repository
	Profiles ProfileStore
	Ledger   ledger.Service
	Policy   pricing.Policy
	Metrics  *metrics.BillingMetrics
	Logger   *logger.Logger
}

// Service prices chargeable actions and owns the charity catalog.
type Service struct {
	repo     Repository
	profiles ProfileStore
	ledger   ledger.Service
	policy   pricing.Policy
	metrics  *metrics.BillingMetrics
	logg     *logger.Logger
}

var _ Charger = (*Service)(nil)

// NewService builds a billing service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.Profiles == nil {
		return nil, errors.New("profile store is required")
	}
	if params.Ledger == nil {
		return nil, errors.New("ledger is required")
	}
	if len(params.Policy.Services()) == 0 {
		return nil, errors.New("pricing policy is required")
	}
	return &Service{
		repo:     params.Repo,
		profiles: params.Profiles,
		ledger:   params.Ledger,
		policy:   params.Policy,
		metrics:  params.Metrics,
		logg:     params.Logger,
	}, nil
}

// Charge prices the service for the user and appends one transaction.
// Unknown services fail with pricing.ErrUnknownService before anything is written.
func (s *Service) Charge(ctx context.Context, input ChargeInput) (*models.Transaction, error) {
	service := strings.TrimSpace(input.Service)
	amount, err := s.policy.PriceFor(service)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.FindProfile(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("loading billing profile: %w", err)
	}

	charityCents := s.policy.CharityShare(amount, profile.Plan, input.Donate)
	charityID, err := s.resolveCharity(ctx, input.CharityID, profile.CharityID)
	if err != nil {
		return nil, err
	}

	txn, err := s.ledger.Record(ctx, ledger.RecordInput{
		UserID:       input.UserID,
		Service:      service,
		AmountCents:  amount,
		CharityCents: charityCents,
		CharityID:    &charityID,
		Metadata:     input.Metadata,
	})
	if err != nil {
		s.metrics.IncFailure(service)
		return nil, err
	}
	s.metrics.RecordCharge(service, charityCents)

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"transaction_id": txn.ID,
			"service":        service,
			"amount_cents":   amount,
			"charity_cents":  charityCents,
			"charity_id":     charityID,
			"plan":           string(profile.Plan),
		})
		s.logg.Info(logCtx, "billing.charged")
	}
	return txn, nil
}

// resolveCharity prefers an existing chosen charity, then the user's, then the default.
func (s *Service) resolveCharity(ctx context.Context, chosen, userCharity *int64) (int64, error) {
	if chosen != nil && *chosen > 0 {
		charity, err := s.repo.FindCharity(ctx, *chosen)
		if err != nil {
			return 0, fmt.Errorf("loading charity: %w", err)
		}
		if charity != nil {
			return charity.ID, nil
		}
	}
	if userCharity != nil && *userCharity > 0 {
		return *userCharity, nil
	}
	return s.policy.DefaultCharityID(), nil
}

// ListCharities returns the catalog ordered by id.
func (s *Service) ListCharities(ctx context.Context) ([]CharityDTO, error) {
	rows, err := s.repo.ListCharities(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list charities")
	}
	out := make([]CharityDTO, 0, len(rows))
	for _, c := range rows {
		out = append(out, charityFromModel(c))
	}
	return out, nil
}

// SelectCharity stores the user's donation target.
func (s *Service) SelectCharity(ctx context.Context, userID, charityID int64) (*SelectCharityResult, error) {
	charity, err := s.repo.FindCharity(ctx, charityID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load charity")
	}
	if charity == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Charity not found")
	}
	if err := s.profiles.UpdateCharity(ctx, userID, charity.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update charity")
	}
	return &SelectCharityResult{OK: true, CharityID: charity.ID, CharityName: charity.Name}, nil
}

// Summary reports the user's plan, charity bracket and lifetime totals.
func (s *Service) Summary(ctx context.Context, userID int64) (*Summary, error) {
	profile, err := s.profiles.FindProfile(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load billing profile")
	}
	amount, err := s.ledger.SumAmountForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum transactions")
	}
	charity, err := s.ledger.SumCharityForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum charity")
	}

	charityID := s.policy.DefaultCharityID()
	if profile.CharityID != nil && *profile.CharityID > 0 {
		charityID = *profile.CharityID
	}
	return &Summary{
		SubscriptionPlan:  profile.Plan,
		CharityID:         charityID,
		CharityPercent:    pricing.PercentWhole(s.policy.CharityPercentFor(profile.Plan)),
		TotalCharityEUR:   pricing.CentsToEUR(charity),
		TotalAmountEUR:    pricing.CentsToEUR(amount),
		TotalCharityCents: charity,
		TotalAmountCents:  amount,
	}, nil
}

// Transactions returns the user's history, newest first.
func (s *Service) Transactions(ctx context.Context, userID int64) (*TransactionList, error) {
	rows, err := s.ledger.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list transactions")
	}
	list := &TransactionList{UserID: userID, Transactions: make([]TransactionDTO, 0, len(rows))}
	for _, t := range rows {
		list.TotalAmountCents += t.AmountCents
		list.TotalCharityCents += t.CharityCents
		list.Transactions = append(list.Transactions, transactionFromModel(t))
	}
	return list, nil
}

// GlobalCharityTotal sums charity shares across every user.
func (s *Service) GlobalCharityTotal(ctx context.Context) (*CharityStats, error) {
	total, err := s.ledger.GlobalCharityTotal(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum charity")
	}
	return &CharityStats{TotalCharityEUR: pricing.CentsToEUR(total)}, nil
}

// MockPurchase charges a catalog service without a document operation.
// The purchase always donates.
func (s *Service) MockPurchase(ctx context.Context, userID int64, service string) (*PurchaseResult, error) {
	txn, err := s.Charge(ctx, ChargeInput{
		UserID:   userID,
		Service:  service,
		Donate:   true,
		Metadata: map[string]any{"source": "mock_purchase"},
	})
	if errors.Is(err, pricing.ErrUnknownService) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Unknown service")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record purchase")
	}
	return purchaseFromModel(txn), nil
}

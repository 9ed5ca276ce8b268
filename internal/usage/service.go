package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/pdflex/pdflex-backend/pkg/db/models"
	"github.com/pdflex/pdflex-backend/pkg/enums"
	"github.com/pdflex/pdflex-backend/pkg/logger"
)

// QuotaExceededError reports the usage observed when the quota check failed.
type QuotaExceededError struct {
	Used  int64
	Limit int64
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("monthly limit reached: %d/%d", e.Used, e.Limit)
}

// Summary is the per-month usage view returned to the owner.
type Summary struct {
	UserID        int64            `json:"user_id"`
	UsedThisMonth int64            `json:"used_this_month"`
	Limit         int64            `json:"limit"`
	Remaining     int64            `json:"remaining"`
	ByAction      map[string]int64 `json:"by_action"`
	MonthStartUTC time.Time        `json:"month_start_utc"`
}

// Service defines the usage ledger operations.
//
// EnforceQuota is a read-then-decide check. Two concurrent requests may both
// pass before either records its event, so the limit can be overshot by the
// number of in-flight requests.
type Service interface {
	RecordAction(ctx context.Context, userID int64, action enums.UsageAction) error
	MonthlyCount(ctx context.Context, userID int64, asOf time.Time) (int64, error)
	RemainingQuota(ctx context.Context, userID int64, asOf time.Time) (int64, error)
	EnforceQuota(ctx context.Context, userID int64, asOf time.Time) error
	Summary(ctx context.Context, userID int64, asOf time.Time) (*Summary, error)
	Limit() int64
}

// ServiceParams wires the usage service.
type ServiceParams struct {
	Repo   Repository
	Limit  int
	Logger *logger.Logger
	Now    func() time.Time
}

type service struct {
	repo  Repository
	limit int64
	logg  *logger.Logger
	now   func() time.Time
}

// NewService wires a usage service. Now defaults to time.Now.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("usage repository required")
	}
	if params.Limit <= 0 {
		return nil, fmt.Errorf("usage limit must be positive")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:  params.Repo,
		limit: int64(params.Limit),
		logg:  params.Logger,
		now:   now,
	}, nil
}

// MonthBounds returns the UTC calendar month containing t as [start, end).
func MonthBounds(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func (s *service) Limit() int64 {
	return s.limit
}

func (s *service) RecordAction(ctx context.Context, userID int64, action enums.UsageAction) error {
	if userID <= 0 {
		return fmt.Errorf("user id is required")
	}
	if !action.IsValid() {
		return fmt.Errorf("invalid usage action %q", action)
	}
	event := &models.UsageEvent{
		UserID:    userID,
		Action:    action,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return fmt.Errorf("recording usage: %w", err)
	}
	return nil
}

func (s *service) MonthlyCount(ctx context.Context, userID int64, asOf time.Time) (int64, error) {
	start, end := MonthBounds(s.asOf(asOf))
	return s.repo.CountInRange(ctx, userID, start, end)
}

func (s *service) RemainingQuota(ctx context.Context, userID int64, asOf time.Time) (int64, error) {
	used, err := s.MonthlyCount(ctx, userID, asOf)
	if err != nil {
		return 0, err
	}
	return remaining(s.limit, used), nil
}

func (s *service) EnforceQuota(ctx context.Context, userID int64, asOf time.Time) error {
	used, err := s.MonthlyCount(ctx, userID, asOf)
	if err != nil {
		return err
	}
	if used >= s.limit {
		if s.logg != nil {
			ctx = s.logg.WithFields(ctx, map[string]any{"used": used, "limit": s.limit})
			s.logg.Warn(ctx, "usage.quota_exceeded")
		}
		return &QuotaExceededError{Used: used, Limit: s.limit}
	}
	return nil
}

func (s *service) Summary(ctx context.Context, userID int64, asOf time.Time) (*Summary, error) {
	start, end := MonthBounds(s.asOf(asOf))
	byAction, err := s.repo.CountByActionInRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	var used int64
	actions := make(map[string]int64, len(byAction))
	for action, count := range byAction {
		actions[string(action)] = count
		used += count
	}

	return &Summary{
		UserID:        userID,
		UsedThisMonth: used,
		Limit:         s.limit,
		Remaining:     remaining(s.limit, used),
		ByAction:      actions,
		MonthStartUTC: start,
	}, nil
}

func (s *service) asOf(t time.Time) time.Time {
	if t.IsZero() {
		return s.now()
	}
	return t
}

func remaining(limit, used int64) int64 {
	if used >= limit {
		return 0
	}
	return limit - used
}

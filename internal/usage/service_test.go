package usage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pdflex/pdflex-backend/pkg/db/models"
	"github.com/pdflex/pdflex-backend/pkg/enums"
	"gorm.io/gorm"
)

type fakeRepository struct {
	events []models.UsageEvent
	err    error
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, event *models.UsageEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeRepository) CountInRange(ctx context.Context, userID int64, start, end time.Time) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	for _, e := range f.events {
		if e.UserID == userID && !e.CreatedAt.Before(start) && e.CreatedAt.Before(end) {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepository) CountByActionInRange(ctx context.Context, userID int64, start, end time.Time) (map[enums.UsageAction]int64, error) {
	out := map[enums.UsageAction]int64{}
	for _, e := range f.events {
		if e.UserID == userID && !e.CreatedAt.Before(start) && e.CreatedAt.Before(end) {
			out[e.Action]++
		}
	}
	return out, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestService(t *testing.T, repo Repository, now time.Time) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, Limit: 20, Now: fixedClock(now)})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestMonthBoundsUsesUTC(t *testing.T) {
	berlin := time.FixedZone("CET", 2*60*60)
	// 00:30 on Nov 1 in UTC+2 is still October in UTC.
	local := time.Date(2026, time.November, 1, 0, 30, 0, 0, berlin)

	start, end := MonthBounds(local)
	if !start.Equal(time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %s", start)
	}
	if !end.Equal(time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected end %s", end)
	}
	if start.Location() != time.UTC {
		t.Fatalf("expected UTC bounds")
	}

	start, end = MonthBounds(time.Date(2026, time.December, 31, 23, 59, 59, 0, time.UTC))
	if start.Month() != time.December || end.Year() != 2027 || end.Month() != time.January {
		t.Fatalf("unexpected year rollover %s - %s", start, end)
	}
}

func TestRecordActionIncrementsMonthlyCountByOne(t *testing.T) {
	now := time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepository{}
	svc := newTestService(t, repo, now)
	ctx := context.Background()

	for i := int64(0); i < 5; i++ {
		before, err := svc.MonthlyCount(ctx, 1, now)
		if err != nil {
			t.Fatalf("MonthlyCount: %v", err)
		}
		if err := svc.RecordAction(ctx, 1, enums.UsageActionUpload); err != nil {
			t.Fatalf("RecordAction: %v", err)
		}
		after, _ := svc.MonthlyCount(ctx, 1, now)
		if after != before+1 {
			t.Fatalf("expected count to grow by one: %d -> %d", before, after)
		}
	}
}

func TestMonthlyCountIgnoresOtherMonthsAndUsers(t *testing.T) {
	now := time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepository{events: []models.UsageEvent{
		{UserID: 1, Action: enums.UsageActionUpload, CreatedAt: time.Date(2026, time.September, 30, 23, 59, 59, 0, time.UTC)},
		{UserID: 1, Action: enums.UsageActionUpload, CreatedAt: time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC)},
		{UserID: 2, Action: enums.UsageActionUpload, CreatedAt: now},
		{UserID: 1, Action: enums.UsageActionProtect, CreatedAt: time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)},
	}}
	svc := newTestService(t, repo, now)

	got, err := svc.MonthlyCount(context.Background(), 1, now)
	if err != nil {
		t.Fatalf("MonthlyCount: %v", err)
	}
	if got != 1 {
		t.Fatalf("expected 1 event in October, got %d", got)
	}
}

func TestEnforceQuotaBoundary(t *testing.T) {
	now := time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepository{}
	for i := 0; i < 19; i++ {
		repo.events = append(repo.events, models.UsageEvent{UserID: 1, Action: enums.UsageActionUpload, CreatedAt: now})
	}
	svc := newTestService(t, repo, now)
	ctx := context.Background()

	if err := svc.EnforceQuota(ctx, 1, now); err != nil {
		t.Fatalf("19 events should pass, got %v", err)
	}

	repo.events = append(repo.events, models.UsageEvent{UserID: 1, Action: enums.UsageActionUpload, CreatedAt: now})
	err := svc.EnforceQuota(ctx, 1, now)
	var quotaErr *QuotaExceededError
	if !errors.As(err, &quotaErr) {
		t.Fatalf("expected QuotaExceededError, got %v", err)
	}
	if quotaErr.Used != 20 || quotaErr.Limit != 20 {
		t.Fatalf("unexpected quota error %+v", quotaErr)
	}

	remaining, err := svc.RemainingQuota(ctx, 1, now)
	if err != nil || remaining != 0 {
		t.Fatalf("expected 0 remaining, got %d err=%v", remaining, err)
	}
}

func TestRemainingQuotaNeverNegative(t *testing.T) {
	now := time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepository{}
	for i := 0; i < 25; i++ {
		repo.events = append(repo.events, models.UsageEvent{UserID: 1, Action: enums.UsageActionAnalyze, CreatedAt: now})
	}
	svc := newTestService(t, repo, now)
	remaining, err := svc.RemainingQuota(context.Background(), 1, time.Time{})
	if err != nil {
		t.Fatalf("RemainingQuota: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected 0, got %d", remaining)
	}
}

func TestSummaryGroupsByAction(t *testing.T) {
	now := time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepository{}
	svc := newTestService(t, repo, now)
	ctx := context.Background()

	for _, action := range []enums.UsageAction{enums.UsageActionUpload, enums.UsageActionUpload, enums.UsageActionProtect} {
		if err := svc.RecordAction(ctx, 3, action); err != nil {
			t.Fatalf("RecordAction: %v", err)
		}
	}

	summary, err := svc.Summary(ctx, 3, time.Time{})
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.UsedThisMonth != 3 || summary.Remaining != 17 || summary.Limit != 20 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if summary.ByAction["upload"] != 2 || summary.ByAction["protect"] != 1 {
		t.Fatalf("unexpected by_action %v", summary.ByAction)
	}
	if !summary.MonthStartUTC.Equal(time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected month start %s", summary.MonthStartUTC)
	}
}

func TestRecordActionValidation(t *testing.T) {
	svc := newTestService(t, &fakeRepository{}, time.Now())
	if err := svc.RecordAction(context.Background(), 0, enums.UsageActionUpload); err == nil {
		t.Fatal("expected error for missing user")
	}
	if err := svc.RecordAction(context.Background(), 1, enums.UsageAction("download")); err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestNewServiceValidation(t *testing.T) {
	if _, err := NewService(ServiceParams{Limit: 20}); err == nil {
		t.Fatal("expected error for missing repo")
	}
	if _, err := NewService(ServiceParams{Repo: &fakeRepository{}}); err == nil {
		t.Fatal("expected error for zero limit")
	}
}

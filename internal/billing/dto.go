package billing

import (
	"time"

	"github.com/pdflex/pdflex-backend/pkg/db/models"
	"github.com/pdflex/pdflex-backend/pkg/enums"
	"github.com/pdflex/pdflex-backend/pkg/pricing"
)

// CharityDTO is the public view of a charity.
type CharityDTO struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Website     *string `json:"website"`
	LogoURL     *string `json:"logo_url"`
}

// SelectCharityResult confirms a charity selection.
type SelectCharityResult struct {
	OK          bool   `json:"ok"`
	CharityID   int64  `json:"charity_id"`
	CharityName string `json:"charity_name"`
}

// Summary is the billing overview for one user.
type Summary struct {
	SubscriptionPlan  enums.Plan `json:"subscription_plan"`
	CharityID         int64      `json:"charity_id"`
	CharityPercent    int64      `json:"charity_percent"`
	TotalCharityEUR   float64    `json:"total_charity_eur"`
	TotalAmountEUR    float64    `json:"total_amount_eur"`
	TotalCharityCents int64      `json:"total_charity_cents"`
	TotalAmountCents  int64      `json:"total_amount_cents"`
}

// TransactionDTO is one ledger entry as returned to its owner.
type TransactionDTO struct {
	ID           int64          `json:"id"`
	Service      string         `json:"service"`
	AmountCents  int64          `json:"amount_cents"`
	CharityCents int64          `json:"charity_cents"`
	CharityID    *int64         `json:"charity_id"`
	Metadata     map[string]any `json:"metadata"`
	CreatedAt    time.Time      `json:"created_at"`
}

// TransactionList is the full history of one user with totals.
type TransactionList struct {
	UserID            int64            `json:"user_id"`
	TotalAmountCents  int64            `json:"total_amount_cents"`
	TotalCharityCents int64            `json:"total_charity_cents"`
	Transactions      []TransactionDTO `json:"transactions"`
}

// PurchaseResult is returned by the mock purchase flow.
type PurchaseResult struct {
	OK            bool    `json:"ok"`
	TransactionID int64   `json:"transaction_id"`
	Service       string  `json:"service"`
	AmountEUR     float64 `json:"amount_eur"`
	CharityEUR    float64 `json:"charity_eur"`
	CharityID     *int64  `json:"charity_id"`
}

// CharityStats is the platform-wide donation total.
type CharityStats struct {
	TotalCharityEUR float64 `json:"total_charity_eur"`
}

func charityFromModel(c models.Charity) CharityDTO {
	return CharityDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Website:     c.Website,
		LogoURL:     c.LogoURL,
	}
}

func transactionFromModel(t models.Transaction) TransactionDTO {
	dto := TransactionDTO{
		ID:           t.ID,
		Service:      t.Service,
		AmountCents:  t.AmountCents,
		CharityCents: t.CharityCents,
		CharityID:    t.CharityID,
		Metadata:     map[string]any{},
		CreatedAt:    t.CreatedAt,
	}
	for k, v := range t.Metadata {
		dto.Metadata[k] = v
	}
	return dto
}

func purchaseFromModel(t *models.Transaction) *PurchaseResult {
	return &PurchaseResult{
		OK:            true,
		TransactionID: t.ID,
		Service:       t.Service,
		AmountEUR:     pricing.CentsToEUR(t.AmountCents),
		CharityEUR:    pricing.CentsToEUR(t.CharityCents),
		CharityID:     t.CharityID,
	}
}

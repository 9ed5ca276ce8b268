package billing

import (
	"context"
	"net/http"

	"github.com/pdflex/pdflex-backend/api/middleware"
	"github.com/pdflex/pdflex-backend/api/responses"
	"github.com/pdflex/pdflex-backend/api/validators"
	billingsvc "github.com/pdflex/pdflex-backend/internal/billing"
	"github.com/pdflex/pdflex-backend/pkg/logger"
)

// Service describes the billing methods used by the HTTP controllers.
type Service interface {
	ListCharities(ctx context.Context) ([]billingsvc.CharityDTO, error)
	SelectCharity(ctx context.Context, userID, charityID int64) (*billingsvc.SelectCharityResult, error)
	Summary(ctx context.Context, userID int64) (*billingsvc.Summary, error)
	Transactions(ctx context.Context, userID int64) (*billingsvc.TransactionList, error)
	GlobalCharityTotal(ctx context.Context) (*billingsvc.CharityStats, error)
	MockPurchase(ctx context.Context, userID int64, service string) (*billingsvc.PurchaseResult, error)
}

type selectCharityRequest struct {
	CharityID int64 `json:"charity_id" validate:"required,gt=0"`
}

type mockPurchaseRequest struct {
	Service string `json:"service" validate:"required"`
}

// Charities lists the donation targets. Public.
func Charities(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		charities, err := svc.ListCharities(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, charities)
	}
}

// CharityStats reports the platform-wide donation total. Public.
func CharityStats(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.GlobalCharityTotal(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

func SelectCharity(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := middleware.RequireUserID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body selectCharityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SelectCharity(r.Context(), userID, body.CharityID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// Me returns the caller's plan, charity bracket and lifetime totals.
func Me(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := middleware.RequireUserID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		summary, err := svc.Summary(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

func Transactions(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := middleware.RequireUserID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.Transactions(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// MockPurchase charges a catalog service without running a document operation.
func MockPurchase(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := middleware.RequireUserID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body mockPurchaseRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.MockPurchase(r.Context(), userID, body.Service)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

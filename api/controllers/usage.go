package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/pdflex/pdflex-backend/api/middleware"
	"github.com/pdflex/pdflex-backend/api/responses"
	"github.com/pdflex/pdflex-backend/internal/usage"
	pkgerrors "github.com/pdflex/pdflex-backend/pkg/errors"
	"github.com/pdflex/pdflex-backend/pkg/logger"
)

// UsageSummarizer is the slice of the usage ledger the HTTP layer reads.
type UsageSummarizer interface {
	Summary(ctx context.Context, userID int64, asOf time.Time) (*usage.Summary, error)
}

// UsageMe reports the caller's usage for the current UTC month.
func UsageMe(svc UsageSummarizer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := middleware.RequireUserID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summary(r.Context(), userID, time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load usage"))
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

package controllers

import (
	"net/http"

	"github.com/pdflex/pdflex-backend/api/middleware"
	"github.com/pdflex/pdflex-backend/api/responses"
	"github.com/pdflex/pdflex-backend/internal/users"
	"github.com/pdflex/pdflex-backend/pkg/logger"
)

// UsersMe returns the caller's profile.
func UsersMe(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := middleware.RequireUserID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Me(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/pdflex/pdflex-backend/api/responses"
	pkgAuth "github.com/pdflex/pdflex-backend/pkg/auth"
	"github.com/pdflex/pdflex-backend/pkg/config"
	pkgerrors "github.com/pdflex/pdflex-backend/pkg/errors"
	"github.com/pdflex/pdflex-backend/pkg/logger"
)

const invalidTokenMessage = "invalid or expired token"

// Auth validates a bearer token and seeds the request context with the user id.
// Every failure answers with the same 401 message.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidTokenMessage))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, invalidTokenMessage))
				return
			}
			userID, err := claims.UserID()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, invalidTokenMessage))
				return
			}

			ctx := WithUserID(r.Context(), userID)
			if logg != nil {
				ctx = logg.WithUserID(ctx, userID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) string {
	raw := strings.TrimSpace(header)
	if len(raw) < 7 || !strings.EqualFold(raw[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(raw[7:])
}

package middleware

import (
	"context"

	pkgerrors "github.com/pdflex/pdflex-backend/pkg/errors"
)

type contextKey string

const ctxUserID contextKey = "user_id"

// UserIDFromContext returns the authenticated user id, or false when the
// request did not pass through Auth.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	if ctx == nil {
		return 0, false
	}
	id, ok := ctx.Value(ctxUserID).(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID int64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// RequireUserID is UserIDFromContext for handlers mounted behind Auth; a
// missing id is reported as unauthorized.
func RequireUserID(ctx context.Context) (int64, error) {
	id, ok := UserIDFromContext(ctx)
	if !ok {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidTokenMessage)
	}
	return id, nil
}

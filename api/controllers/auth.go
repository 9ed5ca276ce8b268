package controllers

import (
	"context"
	"net/http"

	"github.com/pdflex/pdflex-backend/api/responses"
	"github.com/pdflex/pdflex-backend/api/validators"
	"github.com/pdflex/pdflex-backend/internal/auth"
	pkgerrors "github.com/pdflex/pdflex-backend/pkg/errors"
	"github.com/pdflex/pdflex-backend/pkg/logger"
)

// AuthLogin exchanges email and password for a bearer token.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return unavailable("auth service unavailable", logg)
	}
	return jsonAction(logg, svc.Login)
}

// AuthRegister creates an account on the free plan.
func AuthRegister(reg auth.RegisterService, logg *logger.Logger) http.HandlerFunc {
	if reg == nil {
		return unavailable("auth service unavailable", logg)
	}
	return jsonAction(logg, func(ctx context.Context, req auth.RegisterRequest) (*auth.RegisterResponse, error) {
		res, err := reg.Register(ctx, req)
		if err == nil && logg != nil {
			logg.Info(logg.WithUserID(ctx, res.ID), "auth.registered")
		}
		return res, err
	})
}

// jsonAction decodes and validates a JSON body into Req, runs call and writes
// its result as the JSON body.
func jsonAction[Req, Res any](logg *logger.Logger, call func(context.Context, Req) (Res, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Req
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		res, err := call(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, res)
	}
}

func unavailable(msg string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, msg))
	}
}

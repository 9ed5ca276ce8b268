package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/pdflex/pdflex-backend/pkg/errors"
)

// ParsePathID reads a positive integer URL parameter.
func ParsePathID(r *http.Request, key string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "path parameter must be a positive integer").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// FormBool parses an optional boolean form field. Missing means false.
func FormBool(r *http.Request, key string) (bool, error) {
	raw := strings.TrimSpace(r.FormValue(key))
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(strings.ToLower(raw))
	if err != nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "form field must be a boolean").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// FormOptionalInt64 parses an optional positive integer form field.
func FormOptionalInt64(r *http.Request, key string) (*int64, error) {
	raw := strings.TrimSpace(r.FormValue(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "form field must be a positive integer").WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}

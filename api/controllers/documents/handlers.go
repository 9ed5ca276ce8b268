package documents

import (
	"errors"
	"io"
	"net/http"

	"github.com/pdflex/pdflex-backend/api/middleware"
	"github.com/pdflex/pdflex-backend/api/responses"
	"github.com/pdflex/pdflex-backend/api/validators"
	docsvc "github.com/pdflex/pdflex-backend/internal/documents"
	pkgerrors "github.com/pdflex/pdflex-backend/pkg/errors"
	"github.com/pdflex/pdflex-backend/pkg/logger"
)

const (
	uploadField       = "file"
	maxFilenameRunes  = 255
	multipartOverhead = 1 << 20
	multipartMemory   = 8 << 20
)

// Upload accepts a multipart "file" field and stores it as a new document.
func Upload(svc docsvc.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := middleware.RequireUserID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			responses.WriteError(r.Context(), logg, w, uploadError(err))
			return
		}
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()

		file, header, err := r.FormFile(uploadField)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file is required").
				WithDetails(map[string]any{"field": uploadField}))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read upload"))
			return
		}

		result, err := svc.Upload(r.Context(), docsvc.UploadInput{
			UserID:      userID,
			Filename:    validators.SanitizeFilename(header.Filename, maxFilenameRunes),
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// List returns the caller's documents, newest first.
func List(svc docsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := middleware.RequireUserID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		docs, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, docs)
	}
}

func Get(svc docsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return withDocument(logg, func(w http.ResponseWriter, r *http.Request, userID, docID int64) {
		doc, err := svc.Get(r.Context(), userID, docID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, doc)
	})
}

func Delete(svc docsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return withDocument(logg, func(w http.ResponseWriter, r *http.Request, userID, docID int64) {
		result, err := svc.Delete(r.Context(), userID, docID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	})
}

// Download streams one of the document's artifacts as an attachment.
func Download(svc docsvc.Service, kind docsvc.ArtifactKind, logg *logger.Logger) http.HandlerFunc {
	return withDocument(logg, func(w http.ResponseWriter, r *http.Request, userID, docID int64) {
		file, err := svc.Download(r.Context(), userID, docID, kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteAttachment(w, file.Filename, file.ContentType, file.Body)
	})
}

// Protect accepts JSON or form fields: password, donate, charity_id.
func Protect(svc docsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return withDocument(logg, func(w http.ResponseWriter, r *http.Request, userID, docID int64) {
		var req docsvc.ProtectRequest
		if validators.IsForm(r) {
			opts, err := chargeOptionsFromForm(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			req = docsvc.ProtectRequest{Password: r.FormValue("password"), ChargeOptions: opts}
		} else if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Protect(r.Context(), userID, docID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	})
}

// ConvertDocx accepts an optional JSON or form body: donate, charity_id.
func ConvertDocx(svc docsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return withDocument(logg, func(w http.ResponseWriter, r *http.Request, userID, docID int64) {
		var req docsvc.ConvertRequest
		if validators.IsForm(r) {
			opts, err := chargeOptionsFromForm(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			req.ChargeOptions = opts
		} else if err := validators.DecodeOptionalJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Convert(r.Context(), userID, docID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	})
}

// Analyze extracts the document text and returns word statistics.
func Analyze(svc docsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return withDocument(logg, func(w http.ResponseWriter, r *http.Request, userID, docID int64) {
		result, err := svc.Analyze(r.Context(), userID, docID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	})
}

type documentHandler func(w http.ResponseWriter, r *http.Request, userID, docID int64)

func withDocument(logg *logger.Logger, next documentHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := middleware.RequireUserID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		docID, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithDocumentID(ctx, docID)
		}
		next(w, r.WithContext(ctx), userID, docID)
	}
}

func chargeOptionsFromForm(r *http.Request) (docsvc.ChargeOptions, error) {
	donate, err := validators.FormBool(r, "donate")
	if err != nil {
		return docsvc.ChargeOptions{}, err
	}
	charityID, err := validators.FormOptionalInt64(r, "charity_id")
	if err != nil {
		return docsvc.ChargeOptions{}, err
	}
	return docsvc.ChargeOptions{Donate: donate, CharityID: charityID}, nil
}

func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file exceeds the upload limit")
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body")
}

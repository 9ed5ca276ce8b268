package documents

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pdflex/pdflex-backend/internal/billing"
	"github.com/pdflex/pdflex-backend/internal/usage"
	"github.com/pdflex/pdflex-backend/internal/users"
	"github.com/pdflex/pdflex-backend/pkg/db/models"
	"github.com/pdflex/pdflex-backend/pkg/enums"
	pkgerrors "github.com/pdflex/pdflex-backend/pkg/errors"
	"github.com/pdflex/pdflex-backend/pkg/logger"
	"github.com/pdflex/pdflex-backend/pkg/metrics"
	"github.com/pdflex/pdflex-backend/pkg/pdf"
	"github.com/pdflex/pdflex-backend/pkg/storage"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

var (
	// ErrSourceMissing means the row exists but the uploaded file is gone.
	ErrSourceMissing = errors.New("source file is missing")
	// ErrArtifactMissing means a derived file was never generated.
	ErrArtifactMissing = errors.New("artifact not found")
	// ErrPasswordTooShort rejects protect requests before any work happens.
	ErrPasswordTooShort = errors.New("password too short")
)

const (
	minPasswordLen = 3

	sourceText = "text"
	sourceOCR  = "ocr"

	billingErrorMessage = "transaction could not be recorded"
)

var allowedContentTypes = map[string]struct{}{
	"application/pdf":   {},
	"application/x-pdf": {},
}

// Service runs document operations: process first, then bill and record usage.
type Service interface {
	Upload(ctx context.Context, input UploadInput) (*UploadResult, error)
	List(ctx context.Context, userID int64) ([]DocumentDTO, error)
	Get(ctx context.Context, userID, docID int64) (*DocumentDTO, error)
	Protect(ctx context.Context, userID, docID int64, req ProtectRequest) (*ProtectResult, error)
	Convert(ctx context.Context, userID, docID int64, req ConvertRequest) (*ConvertResult, error)
	Analyze(ctx context.Context, userID, docID int64) (*AnalyzeResult, error)
	Delete(ctx context.Context, userID, docID int64) (*DeleteResult, error)
	Download(ctx context.Context, userID, docID int64, kind ArtifactKind) (*Download, error)
}

// ProfileLookup resolves the effective plan used for quota checks.
type ProfileLookup interface {
	FindProfile(ctx context.Context, userID int64) (*users.Profile, error)
}

// ServiceParams wires the pipeline collaborators.
type ServiceParams struct {
	Repo           Repository
	Store          storage.Store
	Tools          pdf.Toolkit
	Charger        billing.Charger
	Usage          usage.Service
	Profiles       ProfileLookup
	Metrics        *metrics.DocumentMetrics
	Logger         *logger.Logger
	MaxUploadBytes int64
}

type service struct {
	repo     Repository
	store    storage.Store
	tools    pdf.Toolkit
	charger  billing.Charger
	usage    usage.Service
	profiles ProfileLookup
	metrics  *metrics.DocumentMetrics
	logg     *logger.Logger
	maxBytes int64
}

// NewService validates and wires the pipeline.
func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.Repo == nil:
		return nil, fmt.Errorf("documents repository required")
	case params.Store == nil:
		return nil, fmt.Errorf("artifact store required")
	case params.Tools.Inspector == nil || params.Tools.Encrypter == nil || params.Tools.Converter == nil ||
		params.Tools.Text == nil || params.Tools.OCR == nil:
		return nil, fmt.Errorf("pdf toolkit incomplete")
	case params.Charger == nil:
		return nil, fmt.Errorf("charger required")
	case params.Usage == nil:
		return nil, fmt.Errorf("usage service required")
	case params.Profiles == nil:
		return nil, fmt.Errorf("profile lookup required")
	}
	return &service{
		repo:     params.Repo,
		store:    params.Store,
		tools:    params.Tools,
		charger:  params.Charger,
		usage:    params.Usage,
		profiles: params.Profiles,
		metrics:  params.Metrics,
		logg:     params.Logger,
		maxBytes: params.MaxUploadBytes,
	}, nil
}

func (s *service) Upload(ctx context.Context, input UploadInput) (result *UploadResult, err error) {
	defer s.observe("upload", time.Now(), &err)

	contentType := strings.ToLower(strings.TrimSpace(input.ContentType))
	if _, ok := allowedContentTypes[contentType]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Only PDF is allowed")
	}
	if len(input.Data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is empty")
	}
	if s.maxBytes > 0 && int64(len(input.Data)) > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file exceeds the upload limit")
	}
	if err := s.enforceQuota(ctx, input.UserID); err != nil {
		return nil, err
	}

	stored := storedName(input.UserID)
	if err := s.store.Put(ctx, stored, input.Data, contentTypePDF); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store upload")
	}

	doc := &models.Document{
		UserID:           input.UserID,
		OriginalFilename: originalName(input.Filename, stored),
		StoredFilename:   stored,
		Status:           enums.DocumentStatusUploaded,
	}
	pages := 0
	doc.Pages = &pages
	if info, inspectErr := s.tools.Inspector.Inspect(ctx, input.Data); inspectErr != nil {
		s.warn(ctx, "documents.extraction_failed", map[string]any{"stored_filename": stored, "error": inspectErr.Error()})
	} else {
		pages = info.Pages
		excerpt := info.Excerpt
		doc.TextExcerpt = &excerpt
		doc.Status = enums.DocumentStatusProcessed
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		// keep storage and rows in step
		_ = s.store.Delete(ctx, stored)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create document")
	}

	s.recordUsage(ctx, input.UserID, enums.UsageActionUpload)
	return &UploadResult{DocumentDTO: FromModel(doc), Path: stored}, nil
}

func (s *service) List(ctx context.Context, userID int64) ([]DocumentDTO, error) {
	docs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list documents")
	}
	out := make([]DocumentDTO, 0, len(docs))
	for i := range docs {
		out = append(out, FromModel(&docs[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, userID, docID int64) (*DocumentDTO, error) {
	doc, err := s.owned(ctx, userID, docID)
	if err != nil {
		return nil, err
	}
	dto := FromModel(doc)
	return &dto, nil
}

func (s *service) Protect(ctx context.Context, userID, docID int64, req ProtectRequest) (result *ProtectResult, err error) {
	defer s.observe("protect", time.Now(), &err)

	if len([]rune(req.Password)) < minPasswordLen {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, ErrPasswordTooShort, "Password must be at least 3 characters")
	}
	doc, err := s.owned(ctx, userID, docID)
	if err != nil {
		return nil, err
	}
	if err := s.enforceQuota(ctx, userID); err != nil {
		return nil, err
	}
	source, err := s.source(ctx, doc)
	if err != nil {
		return nil, err
	}

	encrypted, err := s.tools.Encrypter.Encrypt(ctx, source, req.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeProcessing, err, pdf.ErrEncrypt.Error())
	}
	target := protectedKey(doc.StoredFilename)
	if err := s.store.Put(ctx, target, encrypted, contentTypePDF); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store protected copy")
	}

	result = &ProtectResult{
		OK:                true,
		OriginalFilename:  doc.OriginalFilename,
		ProtectedFilename: target,
		Billing:           s.charge(ctx, doc, enums.ServiceProtect, req.ChargeOptions),
	}
	s.recordUsage(ctx, userID, enums.UsageActionProtect)
	return result, nil
}

func (s *service) Convert(ctx context.Context, userID, docID int64, req ConvertRequest) (result *ConvertResult, err error) {
	defer s.observe("convert", time.Now(), &err)

	doc, err := s.owned(ctx, userID, docID)
	if err != nil {
		return nil, err
	}
	if err := s.enforceQuota(ctx, userID); err != nil {
		return nil, err
	}
	source, err := s.source(ctx, doc)
	if err != nil {
		return nil, err
	}

	target := docxKey(doc.StoredFilename)
	// stale renditions are dropped before a new conversion starts
	for _, key := range []string{protectedKey(doc.StoredFilename), target} {
		if err := s.store.Delete(ctx, key); err != nil {
			s.warn(ctx, "documents.cleanup_failed", map[string]any{"key": key, "error": err.Error()})
		}
	}

	docx, err := s.tools.Converter.ToDocx(ctx, source)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeProcessing, err, pdf.ErrConvert.Error())
	}
	if err := s.store.Put(ctx, target, docx, contentTypeDocx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store docx")
	}

	result = &ConvertResult{
		OK:               true,
		OriginalFilename: doc.OriginalFilename,
		DocxFilename:     target,
		Billing:          s.charge(ctx, doc, enums.ServiceConvertDocx, req.ChargeOptions),
	}
	s.recordUsage(ctx, userID, enums.UsageActionConvert)
	return result, nil
}

func (s *service) Analyze(ctx context.Context, userID, docID int64) (result *AnalyzeResult, err error) {
	defer s.observe("analyze", time.Now(), &err)

	doc, err := s.owned(ctx, userID, docID)
	if err != nil {
		return nil, err
	}
	if err := s.enforceQuota(ctx, userID); err != nil {
		return nil, err
	}
	source, err := s.source(ctx, doc)
	if err != nil {
		return nil, err
	}

	origin := sourceText
	raw, extractErr := s.tools.Text.ExtractText(ctx, source, 0, 0)
	if extractErr != nil {
		s.warn(ctx, "documents.extraction_failed", map[string]any{"document_id": doc.ID, "error": extractErr.Error()})
	}
	text := cleanText(raw)
	if text == "" {
		origin = sourceOCR
		raw, err = s.tools.OCR.Recognize(ctx, source)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeProcessing, err, ocrFailureMessage(err))
		}
		text = cleanText(raw)
	}

	action := enums.UsageActionAnalyze
	if origin == sourceOCR {
		action = enums.UsageActionOCRText
	}
	s.recordUsage(ctx, userID, action)

	return &AnalyzeResult{
		OK:          true,
		DocumentID:  doc.ID,
		Source:      origin,
		Stats:       computeStats(text),
		TextPreview: pdf.Truncate(text, previewLimit),
	}, nil
}

// Delete removes artifacts before the row so a failure never leaves files
// without an owner record.
func (s *service) Delete(ctx context.Context, userID, docID int64) (*DeleteResult, error) {
	doc, err := s.owned(ctx, userID, docID)
	if err != nil {
		return nil, err
	}
	// All artifacts are attempted; the row stays until every one is gone.
	var removeErr error
	for _, key := range []string{doc.StoredFilename, protectedKey(doc.StoredFilename), docxKey(doc.StoredFilename)} {
		removeErr = multierr.Append(removeErr, s.store.Delete(ctx, key))
	}
	if removeErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, removeErr, "delete artifact")
	}
	if err := s.repo.Delete(ctx, doc.ID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Document not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete document")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithDocumentID(ctx, doc.ID), "documents.deleted")
	}
	return &DeleteResult{OK: true, DeletedID: doc.ID}, nil
}

func (s *service) Download(ctx context.Context, userID, docID int64, kind ArtifactKind) (*Download, error) {
	doc, err := s.owned(ctx, userID, docID)
	if err != nil {
		return nil, err
	}

	switch kind {
	case ArtifactOriginal:
		body, err := s.store.Get(ctx, doc.StoredFilename)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeGone, ErrSourceMissing, "File no longer exists")
		}
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read document")
		}
		return &Download{Filename: doc.OriginalFilename, ContentType: contentTypePDF, Body: body}, nil
	case ArtifactProtected:
		return s.artifact(ctx, protectedKey(doc.StoredFilename), stem(doc.OriginalFilename)+" (protected).pdf",
			contentTypePDF, "Protected copy not found. Call /protect first.")
	case ArtifactDocx:
		return s.artifact(ctx, docxKey(doc.StoredFilename), stem(doc.OriginalFilename)+".docx",
			contentTypeDocx, "DOCX not found. Call /convert/docx first.")
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown artifact")
	}
}

func (s *service) artifact(ctx context.Context, key, filename, contentType, missing string) (*Download, error) {
	body, err := s.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, ErrArtifactMissing, missing)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read artifact")
	}
	return &Download{Filename: filename, ContentType: contentType, Body: body}, nil
}

func (s *service) owned(ctx context.Context, userID, docID int64) (*models.Document, error) {
	doc, err := s.repo.FindOwned(ctx, docID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Document not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load document")
	}
	return doc, nil
}

func (s *service) source(ctx context.Context, doc *models.Document) ([]byte, error) {
	data, err := s.store.Get(ctx, doc.StoredFilename)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeGone, ErrSourceMissing, "Source file is missing")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read source")
	}
	return data, nil
}

// enforceQuota blocks free-plan users over their monthly allowance.
func (s *service) enforceQuota(ctx context.Context, userID int64) error {
	profile, err := s.profiles.FindProfile(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}
	if profile.Plan.IsPaid() {
		return nil
	}
	err = s.usage.EnforceQuota(ctx, userID, time.Time{})
	var quotaErr *usage.QuotaExceededError
	if errors.As(err, &quotaErr) {
		return pkgerrors.Wrap(pkgerrors.CodeQuotaExceeded, err, "Monthly limit reached").
			WithDetails(map[string]int64{"used": quotaErr.Used, "limit": quotaErr.Limit})
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check quota")
	}
	return nil
}

// charge bills a finished operation once. A ledger failure is reported in the
// result and logged, never retried.
func (s *service) charge(ctx context.Context, doc *models.Document, svc enums.BillableService, opts ChargeOptions) Billing {
	input := billing.ChargeInput{
		UserID:    doc.UserID,
		Service:   string(svc),
		Donate:    opts.Donate,
		CharityID: opts.CharityID,
		Metadata:  map[string]any{"doc_id": doc.ID},
	}
	txn, err := s.charger.Charge(ctx, input)
	if err != nil {
		if s.logg != nil {
			logCtx := s.logg.WithDocumentID(ctx, doc.ID)
			logCtx = s.logg.WithFields(logCtx, map[string]any{
				"service":    input.Service,
				"donate":     input.Donate,
				"charity_id": input.CharityID,
			})
			s.logg.Error(logCtx, "billing.failed_after_processing", err)
		}
		return Billing{BillingError: billingErrorMessage}
	}
	id := txn.ID
	return Billing{TransactionID: &id}
}

func (s *service) recordUsage(ctx context.Context, userID int64, action enums.UsageAction) {
	if err := s.usage.RecordAction(ctx, userID, action); err != nil && s.logg != nil {
		logCtx := s.logg.WithField(ctx, "action", string(action))
		s.logg.Error(logCtx, "usage.record_failed", err)
	}
}

func (s *service) observe(operation string, start time.Time, errp *error) {
	result := metrics.ResultSuccess
	if *errp != nil {
		result = metrics.ResultFailure
		if typed := pkgerrors.As(*errp); typed != nil && typed.Code() == pkgerrors.CodeQuotaExceeded {
			result = metrics.ResultQuota
		}
	}
	s.metrics.Observe(operation, result, time.Since(start))
}

func (s *service) warn(ctx context.Context, msg string, fields map[string]any) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(s.logg.WithFields(ctx, fields), msg)
}

func ocrFailureMessage(err error) string {
	if errors.Is(err, pdf.ErrRasterize) {
		return pdf.ErrRasterize.Error()
	}
	return pdf.ErrRecognize.Error()
}

func storedName(userID int64) string {
	return strconv.FormatInt(userID, 10) + "_" + strings.ReplaceAll(uuid.NewString(), "-", "") + ".pdf"
}

// originalName keeps only the base name the client sent.
func originalName(filename, fallback string) string {
	name := filepath.Base(strings.ReplaceAll(strings.TrimSpace(filename), `\`, "/"))
	if name == "" || name == "." || name == "/" {
		return fallback
	}
	return name
}

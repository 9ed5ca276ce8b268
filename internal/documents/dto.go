package documents

import (
	"path"
	"strings"

	"github.com/pdflex/pdflex-backend/pkg/db/models"
	"github.com/pdflex/pdflex-backend/pkg/enums"
)

// DocumentDTO is the public view of a document row.
type DocumentDTO struct {
	ID               int64                `json:"id"`
	OriginalFilename string               `json:"original_filename"`
	StoredFilename   string               `json:"stored_filename"`
	Status           enums.DocumentStatus `json:"status"`
	Pages            int                  `json:"pages"`
}

// UploadInput is a received file.
type UploadInput struct {
	UserID      int64
	Filename    string
	ContentType string
	Data        []byte
}

// UploadResult adds the artifact location to the stored row.
type UploadResult struct {
	DocumentDTO
	Path string `json:"path"`
}

// ChargeOptions carries the donation choice of a billable operation.
type ChargeOptions struct {
	Donate    bool   `json:"donate"`
	CharityID *int64 `json:"charity_id,omitempty"`
}

// ProtectRequest asks for a password-protected copy.
type ProtectRequest struct {
	Password string `json:"password"`
	ChargeOptions
}

// ConvertRequest asks for a DOCX rendition.
type ConvertRequest struct {
	ChargeOptions
}

// Billing reports the charge made for a successful operation. BillingError is
// set instead of TransactionID when the ledger write failed.
type Billing struct {
	TransactionID *int64 `json:"transaction_id,omitempty"`
	BillingError  string `json:"billing_error,omitempty"`
}

type ProtectResult struct {
	OK                bool   `json:"ok"`
	OriginalFilename  string `json:"original_filename"`
	ProtectedFilename string `json:"protected_filename"`
	Billing
}

type ConvertResult struct {
	OK               bool   `json:"ok"`
	OriginalFilename string `json:"original_filename"`
	DocxFilename     string `json:"docx_filename"`
	Billing
}

// WordCount is one entry of the frequency table.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// TextStats summarizes extracted text.
type TextStats struct {
	Chars       int         `json:"chars"`
	Words       int         `json:"words"`
	UniqueWords int         `json:"unique_words"`
	TopWords    []WordCount `json:"top_words"`
}

// AnalyzeResult is returned by the text endpoint. Source is "text" when the
// embedded layer was used and "ocr" when recognition filled in.
type AnalyzeResult struct {
	OK          bool      `json:"ok"`
	DocumentID  int64     `json:"doc_id"`
	Source      string    `json:"source"`
	Stats       TextStats `json:"stats"`
	TextPreview string    `json:"text_preview"`
}

type DeleteResult struct {
	OK        bool  `json:"ok"`
	DeletedID int64 `json:"deleted_id"`
}

// ArtifactKind selects what a download returns.
type ArtifactKind string

const (
	ArtifactOriginal  ArtifactKind = "original"
	ArtifactProtected ArtifactKind = "protected"
	ArtifactDocx      ArtifactKind = "docx"
)

// Download is a file ready to be sent.
type Download struct {
	Filename    string
	ContentType string
	Body        []byte
}

const (
	contentTypePDF  = "application/pdf"
	contentTypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

func FromModel(doc *models.Document) DocumentDTO {
	dto := DocumentDTO{
		ID:               doc.ID,
		OriginalFilename: doc.OriginalFilename,
		StoredFilename:   doc.StoredFilename,
		Status:           doc.Status,
	}
	if doc.Pages != nil {
		dto.Pages = *doc.Pages
	}
	return dto
}

func stem(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}

func protectedKey(stored string) string {
	return stem(stored) + "_protected.pdf"
}

func docxKey(stored string) string {
	return stem(stored) + ".docx"
}

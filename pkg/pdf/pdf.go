// Package pdf wraps the document toolchain: pdfcpu for structure and
// encryption, poppler and tesseract for text, LibreOffice for DOCX output.
// Every collaborator takes and returns bytes so callers stay storage-agnostic.
package pdf

import (
	"context"
	"errors"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

var (
	// ErrRasterize is returned when pages cannot be rendered for OCR.
	ErrRasterize = errors.New("PDF to image failed")
	// ErrRecognize is returned when the OCR engine fails on a rendered page.
	ErrRecognize = errors.New("OCR failed")
	// ErrConvert is returned when the DOCX conversion produced nothing.
	ErrConvert = errors.New("PDF->DOCX failed")
	// ErrEncrypt is returned when the document cannot be encrypted.
	ErrEncrypt = errors.New("Encrypt failed")
)

const (
	// ExcerptPages is how many leading pages feed the upload excerpt.
	ExcerptPages = 3
	// ExcerptLimit caps the stored excerpt, in runes.
	ExcerptLimit = 500
)

// Info is the best-effort metadata read at upload time.
type Info struct {
	Pages   int
	Excerpt string
}

type Inspector interface {
	Inspect(ctx context.Context, data []byte) (*Info, error)
}

type Encrypter interface {
	Encrypt(ctx context.Context, data []byte, password string) ([]byte, error)
}

type Converter interface {
	ToDocx(ctx context.Context, data []byte) ([]byte, error)
}

// TextExtractor reads the embedded text layer. lastPage 0 means through the end.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte, firstPage, lastPage int) (string, error)
}

type OCR interface {
	Recognize(ctx context.Context, data []byte) (string, error)
}

func init() {
	// pdfcpu would otherwise create a config directory under $HOME.
	api.DisableConfigDir()
}

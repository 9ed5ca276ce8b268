package pdf

import "github.com/pdflex/pdflex-backend/pkg/config"

// Toolkit bundles the collaborators the document pipeline needs.
type Toolkit struct {
	Inspector Inspector
	Encrypter Encrypter
	Converter Converter
	Text      TextExtractor
	OCR       OCR
}

// NewToolkit wires the external tools named in cfg behind one runner.
func NewToolkit(cfg config.PDFConfig) Toolkit {
	return newToolkit(cfg, NewRunner(cfg.Timeout))
}

func newToolkit(cfg config.PDFConfig, runner Runner) Toolkit {
	text := &Pdftotext{Bin: cfg.PdftotextBin, Runner: runner}
	return Toolkit{
		Inspector: NewInspector(text),
		Encrypter: AESEncrypter{},
		Converter: &Office{Bin: cfg.OfficeBin, Runner: runner},
		Text:      text,
		OCR: &Tesseract{
			PdftoppmBin:  cfg.PdftoppmBin,
			TesseractBin: cfg.TesseractBin,
			Language:     cfg.OCRLanguage,
			DPI:          cfg.OCRDPI,
			Runner:       runner,
		},
	}
}

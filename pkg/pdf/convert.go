package pdf

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// Office converts PDFs to DOCX with a headless LibreOffice.
type Office struct {
	Bin    string
	Runner Runner
}

func (o *Office) ToDocx(ctx context.Context, data []byte) ([]byte, error) {
	var docx []byte
	err := workspace(data, func(dir, input string) error {
		outDir := filepath.Join(dir, "out")
		// a private profile lets concurrent conversions run side by side
		profile := url.URL{Scheme: "file", Path: filepath.Join(dir, "profile")}
		_, err := o.Runner.Run(ctx, dir, o.Bin,
			"-env:UserInstallation="+profile.String(),
			"--headless",
			"--infilter=writer_pdf_import",
			"--convert-to", "docx:MS Word 2007 XML",
			"--outdir", outDir,
			input,
		)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrConvert, err)
		}
		docx, err = os.ReadFile(filepath.Join(outDir, "input.docx"))
		if err != nil || len(docx) == 0 {
			return fmt.Errorf("%w: no output produced", ErrConvert)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docx, nil
}

package pdf

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Tesseract renders pages with pdftoppm and recognizes each image.
type Tesseract struct {
	PdftoppmBin  string
	TesseractBin string
	Language     string
	DPI          int
	Runner       Runner
}

func (t *Tesseract) Recognize(ctx context.Context, data []byte) (string, error) {
	var text string
	err := workspace(data, func(dir, input string) error {
		dpi := t.DPI
		if dpi <= 0 {
			dpi = 200
		}
		prefix := filepath.Join(dir, "page")
		if _, err := t.Runner.Run(ctx, dir, t.PdftoppmBin, "-r", strconv.Itoa(dpi), "-png", input, prefix); err != nil {
			return fmt.Errorf("%w: %v", ErrRasterize, err)
		}
		images, err := filepath.Glob(prefix + "-*.png")
		if err != nil || len(images) == 0 {
			return fmt.Errorf("%w: no pages rendered", ErrRasterize)
		}
		// pdftoppm zero-pads page numbers, so lexical order is page order
		sort.Strings(images)

		chunks := make([]string, 0, len(images))
		for _, img := range images {
			out, err := t.recognizePage(ctx, dir, img)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrRecognize, err)
			}
			chunks = append(chunks, out)
		}
		text = strings.Join(chunks, "\n")
		return nil
	})
	return text, err
}

// recognizePage retries without a language pack when the configured one fails.
func (t *Tesseract) recognizePage(ctx context.Context, dir, img string) (string, error) {
	if t.Language != "" {
		out, err := t.Runner.Run(ctx, dir, t.TesseractBin, img, "stdout", "-l", t.Language)
		if err == nil {
			return string(out), nil
		}
	}
	out, err := t.Runner.Run(ctx, dir, t.TesseractBin, img, "stdout")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PageInspector counts pages with pdfcpu and reads the excerpt through text.
type PageInspector struct {
	text TextExtractor
}

func NewInspector(text TextExtractor) *PageInspector {
	return &PageInspector{text: text}
}

// Inspect fails only when the page count cannot be read. A missing text layer
// leaves the excerpt empty.
func (p *PageInspector) Inspect(ctx context.Context, data []byte) (*Info, error) {
	pages, err := api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}

	info := &Info{Pages: pages}
	if p.text == nil || pages == 0 {
		return info, nil
	}
	last := ExcerptPages
	if pages < last {
		last = pages
	}
	text, err := p.text.ExtractText(ctx, data, 1, last)
	if err != nil {
		return info, nil
	}
	info.Excerpt = Truncate(strings.TrimSpace(text), ExcerptLimit)
	return info, nil
}

// Truncate cuts s to at most limit runes.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

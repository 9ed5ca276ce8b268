package pdf

import (
	"context"
	"strconv"
)

// Pdftotext extracts the text layer with poppler's pdftotext.
type Pdftotext struct {
	Bin    string
	Runner Runner
}

func (p *Pdftotext) ExtractText(ctx context.Context, data []byte, firstPage, lastPage int) (string, error) {
	var text string
	err := workspace(data, func(dir, input string) error {
		args := []string{"-enc", "UTF-8"}
		if firstPage > 0 {
			args = append(args, "-f", strconv.Itoa(firstPage))
		}
		if lastPage > 0 {
			args = append(args, "-l", strconv.Itoa(lastPage))
		}
		args = append(args, input, "-")
		out, err := p.Runner.Run(ctx, dir, p.Bin, args...)
		if err != nil {
			return err
		}
		text = string(out)
		return nil
	})
	return text, err
}

package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Runner executes an external tool in dir and returns its stdout.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

type execRunner struct {
	timeout time.Duration
}

// NewRunner returns a Runner backed by os/exec. A non-positive timeout
// leaves the caller's deadline in charge.
func NewRunner(timeout time.Duration) Runner {
	return execRunner{timeout: timeout}
}

func (r execRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
	}
	return stdout.Bytes(), nil
}

// workspace writes data to a fresh temp dir as input.pdf and hands both to fn.
func workspace(data []byte, fn func(dir, input string) error) error {
	dir, err := os.MkdirTemp("", "pdflex-*")
	if err != nil {
		return fmt.Errorf("temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	input := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(input, data, 0o600); err != nil {
		return fmt.Errorf("write input: %w", err)
	}
	return fn(dir, input)
}

package migrate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const versionLayout = "20060102150405"

var slugInvalidRe = regexp.MustCompile(`[^a-z0-9_]+`)

const migrationStub = `-- +goose Up
-- +goose StatementBegin
-- %[1]s
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- undo %[1]s
-- +goose StatementEnd
`

// CreateSQLMigration writes an empty goose migration named after the UTC
// clock into dir and returns its path. A name already used in dir is an
// error even when the version differs.
func CreateSQLMigration(dir, name string) (string, error) {
	if dir == "" {
		return "", errors.New("migrations dir is required")
	}
	slug := migrationSlug(name)
	if slug == "" {
		return "", fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create migrations dir: %w", err)
	}
	if err := checkNameUnused(dir, slug); err != nil {
		return "", err
	}

	target := filepath.Join(dir, time.Now().UTC().Format(versionLayout)+"_"+slug+".sql")
	if err := os.WriteFile(target, fmt.Appendf(nil, migrationStub, slug), 0o644); err != nil {
		return "", fmt.Errorf("write migration: %w", err)
	}
	return target, nil
}

// migrationSlug lowercases name and folds everything outside [a-z0-9_] into
// single underscores, e.g. "Add Refunds Table" -> "add_refunds_table".
func migrationSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugInvalidRe.ReplaceAllString(slug, "_")
	return strings.Trim(slug, "_")
}

func checkNameUnused(dir, slug string) error {
	matches, err := filepath.Glob(filepath.Join(dir, "*_"+slug+".sql"))
	if err != nil {
		return fmt.Errorf("scan migrations dir: %w", err)
	}
	if len(matches) > 0 {
		return fmt.Errorf("migration %q already exists as %s", slug, filepath.Base(matches[0]))
	}
	return nil
}

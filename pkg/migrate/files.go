package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const versionLayout = "20060102150405"

var (
	fileNameRe   = regexp.MustCompile(`^(\d{14})_([a-z0-9_]+)\.sql$`)
	unsafeNameRe = regexp.MustCompile(`[^a-z0-9]+`)
)

// Every migration must carry both directions.
var requiredAnnotations = []string{"-- +goose Up", "-- +goose Down"}

const migrationBody = `-- +goose Up
-- +goose StatementBegin
-- %[1]s
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- revert %[1]s
-- +goose StatementEnd
`

type migrationFile struct {
	Version string
	Name    string
	Path    string
}

func parseFileName(dir, name string) (migrationFile, error) {
	m := fileNameRe.FindStringSubmatch(name)
	if m == nil {
		return migrationFile{}, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
	}
	if _, err := time.Parse(versionLayout, m[1]); err != nil {
		return migrationFile{}, fmt.Errorf("migration %q has an invalid timestamp: %w", name, err)
	}
	return migrationFile{Version: m[1], Name: m[2], Path: filepath.Join(dir, name)}, nil
}

func (f migrationFile) check() error {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return fmt.Errorf("read %q: %w", f.Path, err)
	}
	body := string(raw)
	for _, annotation := range requiredAnnotations {
		if !strings.Contains(body, annotation) {
			return fmt.Errorf("migration %s is missing %q", filepath.Base(f.Path), annotation)
		}
	}
	opened := strings.Count(body, "-- +goose StatementBegin")
	closed := strings.Count(body, "-- +goose StatementEnd")
	if opened != closed {
		return fmt.Errorf("migration %s opens %d statement blocks and closes %d", filepath.Base(f.Path), opened, closed)
	}
	return nil
}

// ValidateDir checks every .sql file in dir before goose ever sees it:
// names, unique timestamps, Up/Down annotations and balanced statement blocks.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	byVersion := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".sql" {
			continue
		}
		file, err := parseFileName(dir, entry.Name())
		if err != nil {
			return err
		}
		if other, dup := byVersion[file.Version]; dup {
			return fmt.Errorf("version %s used by both %q and %q", file.Version, other, entry.Name())
		}
		byVersion[file.Version] = entry.Name()
		if err := file.check(); err != nil {
			return err
		}
	}
	return nil
}

// CreateSQLMigration writes an empty goose migration stamped with the
// current UTC time and returns its path.
func CreateSQLMigration(dir, name string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}
	slug := slugify(name)
	if slug == "" {
		return "", fmt.Errorf("name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}

	path := filepath.Join(dir, time.Now().UTC().Format(versionLayout)+"_"+slug+".sql")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %q: %w", path, err)
	}
	if _, err := fmt.Fprintf(f, migrationBody, slug); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write %q: %w", path, err)
	}
	return path, f.Close()
}

func slugify(name string) string {
	return strings.Trim(unsafeNameRe.ReplaceAllString(strings.ToLower(name), "_"), "_")
}

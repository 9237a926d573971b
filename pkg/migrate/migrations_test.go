package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("expected migrations to validate: %v", err)
	}
}

func TestLedgerMigrationEnforcesAppendOnly(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_ledger_and_charges.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one ledger migration, got %d", len(matches))
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS ledger_entries",
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_ledger_entries_type_reference",
		"BEFORE UPDATE OR DELETE ON ledger_entries",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_charges_reference",
	} {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Charge Index!")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_charge_index.sql") {
		t.Fatalf("unexpected filename %s", path)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("created migration should validate: %v", err)
	}
}

func TestValidateDirRejectsBrokenFiles(t *testing.T) {
	write := func(dir, name, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	valid := "-- +goose Up\nSELECT 1;\n-- +goose Down\nSELECT 1;\n"

	cases := map[string]func(dir string){
		"bad name": func(dir string) { write(dir, "add_things.sql", valid) },
		"bad timestamp": func(dir string) {
			write(dir, "20261399000000_add_things.sql", valid)
		},
		"duplicate version": func(dir string) {
			write(dir, "20260301090000_a.sql", valid)
			write(dir, "20260301090000_b.sql", valid)
		},
		"missing down": func(dir string) {
			write(dir, "20260301090000_a.sql", "-- +goose Up\nSELECT 1;\n")
		},
		"unbalanced block": func(dir string) {
			write(dir, "20260301090000_a.sql", "-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n-- +goose Down\n")
		},
	}
	for name, seed := range cases {
		dir := t.TempDir()
		seed(dir)
		if err := ValidateDir(dir); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

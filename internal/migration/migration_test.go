package migration

import (
	"database/sql"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/tranaapp/trana/migrations"
)

func setupTestDB(t *testing.T) (*sql.DB, func()) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	return db, func() { db.Close() }
}

func testMigrations(files map[string]string) fstest.MapFS {
	m := fstest.MapFS{}
	for name, content := range files {
		m[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return m
}

func TestGetCurrentVersion(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	runner := NewRunner(db, testMigrations(map[string]string{
		"001_test.sql": "CREATE TABLE test (id INTEGER);",
	}), DriverSQLite)

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("GetCurrentVersion() = %d, want 0", version)
	}

	if err := runner.SetVersion(5); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	version, err = runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 5 {
		t.Errorf("GetCurrentVersion() = %d, want 5", version)
	}
}

func TestReadMigrationFilesSorted(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	runner := NewRunner(db, testMigrations(map[string]string{
		"003_third.sql":  "SELECT 3;",
		"001_first.sql":  "SELECT 1;",
		"002_second.sql": "SELECT 2;",
		"README.md":      "ignored",
	}), DriverSQLite)

	got, err := runner.ReadMigrationFiles()
	if err != nil {
		t.Fatalf("ReadMigrationFiles failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ReadMigrationFiles() returned %d migrations, want 3", len(got))
	}
	for i, want := range []string{"first", "second", "third"} {
		if got[i].Version != i+1 || got[i].Name != want {
			t.Errorf("migration[%d] = %d/%s, want %d/%s", i, got[i].Version, got[i].Name, i+1, want)
		}
	}
}

func TestApplyMigrationsFromScratchAndNoOp(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	runner := NewRunner(db, testMigrations(map[string]string{
		"001_kv.sql":    "CREATE TABLE kv (key TEXT PRIMARY KEY, value TEXT);",
		"002_index.sql": "CREATE INDEX idx_kv_value ON kv (value);",
	}), DriverSQLite)

	var logs []string
	count, err := runner.ApplyMigrations(func(s string) { logs = append(logs, s) })
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if count != 2 {
		t.Errorf("ApplyMigrations() = %d, want 2", count)
	}
	if len(logs) == 0 {
		t.Error("expected progress messages")
	}

	count, err = runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("second ApplyMigrations failed: %v", err)
	}
	if count != 0 {
		t.Errorf("second ApplyMigrations() = %d, want 0", count)
	}

	pending, err := runner.Pending()
	if err != nil {
		t.Fatal(err)
	}
	if pending != 0 {
		t.Errorf("Pending() = %d, want 0", pending)
	}
}

func TestMigrationRollbackOnError(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	runner := NewRunner(db, testMigrations(map[string]string{
		"001_ok.sql":     "CREATE TABLE ok (id INTEGER);",
		"002_broken.sql": "CREATE TABLE broken (id INTEGER;",
	}), DriverSQLite)

	count, err := runner.ApplyMigrations(nil)
	if err == nil {
		t.Fatal("expected error for broken migration")
	}
	if count != 1 {
		t.Errorf("ApplyMigrations() applied %d, want 1", count)
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatal(err)
	}
	if version != 1 {
		t.Errorf("version after failed migration = %d, want 1", version)
	}
}

func TestValidateVersionNewerDatabase(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	runner := NewRunner(db, testMigrations(map[string]string{
		"001_test.sql": "SELECT 1;",
	}), DriverSQLite)

	if err := runner.SetVersion(9); err != nil {
		t.Fatal(err)
	}
	err := runner.ValidateVersion()
	if err == nil || !strings.Contains(err.Error(), "newer than supported") {
		t.Errorf("ValidateVersion() error = %v, want newer-than-supported error", err)
	}
}

func TestMigrationFilenameValidation(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"missing underscore", map[string]string{"001.sql": "SELECT 1;"}},
		{"non numeric", map[string]string{"abc_test.sql": "SELECT 1;"}},
		{"zero version", map[string]string{"000_test.sql": "SELECT 1;"}},
		{"duplicate", map[string]string{"001_a.sql": "SELECT 1;", "001_b.sql": "SELECT 2;"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, cleanup := setupTestDB(t)
			defer cleanup()

			runner := NewRunner(db, testMigrations(tt.files), DriverSQLite)
			if _, err := runner.ReadMigrationFiles(); err == nil {
				t.Error("ReadMigrationFiles() should fail")
			}
		})
	}
}

func TestEmbeddedMigrationsApply(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(db, subFS, DriverSQLite)
	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("embedded sqlite migrations failed: %v", err)
	}

	if _, err := db.Exec("INSERT INTO kv (key, value, updated_at) VALUES ('k', '1', 'now')"); err != nil {
		t.Errorf("kv table not usable after migrations: %v", err)
	}

	latest, err := runner.GetLatestVersion()
	if err != nil {
		t.Fatal(err)
	}
	current, _ := runner.GetCurrentVersion()
	if current != latest {
		t.Errorf("GetCurrentVersion() = %d, want %d", current, latest)
	}
}

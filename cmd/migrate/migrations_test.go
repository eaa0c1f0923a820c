package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pressly/goose/v3"
)

func migrationsRoot(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	// this file lives in cmd/migrate/, so repo root is ../..
	repoRoot := filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", ".."))
	return filepath.Join(repoRoot, "db", "migrations")
}

func TestCollectMigrations_ParsesMigrationsDir(t *testing.T) {
	dir := migrationsRoot(t)

	migrations, err := goose.CollectMigrations(dir, 0, goose.MaxVersion)
	if err != nil {
		t.Fatalf("expected migrations to parse, got error: %v", err)
	}

	// Both tables the API reads from must have a migration.
	for _, want := range []string{"create_books", "create_exchange_rates"} {
		found := false
		for _, m := range migrations {
			if strings.Contains(m.Source, want) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("no migration matching %q in %s", want, dir)
		}
	}
}

func TestSQLMigrations_HaveGooseDirectives(t *testing.T) {
	dir := migrationsRoot(t)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir(%s): %v", dir, err)
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			t.Fatalf("ReadFile(%s): %v", e.Name(), err)
		}
		s := string(b)
		if !strings.Contains(s, "-- +goose Up") {
			t.Fatalf("%s missing '-- +goose Up'", e.Name())
		}
		if !strings.Contains(s, "-- +goose Down") {
			t.Fatalf("%s missing '-- +goose Down'", e.Name())
		}
	}
}

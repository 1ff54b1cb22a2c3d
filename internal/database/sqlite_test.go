package database

import (
	"path/filepath"
	"testing"
)

func TestOpen_Memory(t *testing.T) {
	conn, err := Open(Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer conn.Close()

	var n int
	if err := conn.QueryRow("SELECT COUNT(*) FROM geotag_records").Scan(&n); err != nil {
		t.Fatalf("geotag_records missing: %v", err)
	}
	if n != 0 {
		t.Errorf("rows = %d, want 0", n)
	}
}

func TestOpen_MigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	first, err := Open(Config{Path: path})
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	first.Close()

	second, err := Open(Config{Path: path})
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer second.Close()

	var n int
	if err := second.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("applied migrations = %d, want 1", n)
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open(Config{}); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestLoadMigrations(t *testing.T) {
	m, err := NewMigrationManager(nil)
	if err != nil {
		t.Fatalf("NewMigrationManager: %v", err)
	}
	migrations, err := m.LoadMigrations()
	if err != nil {
		t.Fatal(err)
	}
	if len(migrations) == 0 || migrations[0].Version != 1 {
		t.Fatalf("unexpected migrations: %+v", migrations)
	}
	if migrations[0].Name != "001_geotag_records" {
		t.Errorf("name = %q", migrations[0].Name)
	}
}

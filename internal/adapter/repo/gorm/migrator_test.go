package gormrepo

import (
	"testing"
	"testing/fstest"
)

func TestMigrationFiles_SortedSQLOnly(t *testing.T) {
	fsys := fstest.MapFS{
		"m/0002_b.sql":  {Data: []byte("SELECT 2;")},
		"m/0001_a.sql":  {Data: []byte("SELECT 1;")},
		"m/README.md":   {Data: []byte("notes")},
		"m/sub/0003.sql": {Data: []byte("SELECT 3;")},
	}
	got, err := migrationFiles(fsys, "m")
	if err != nil {
		t.Fatalf("migration files: %v", err)
	}
	if len(got) != 2 || got[0] != "0001_a.sql" || got[1] != "0002_b.sql" {
		t.Fatalf("expected two sorted sql files, got %v", got)
	}
}

func TestMigrationFiles_MissingDir(t *testing.T) {
	if _, err := migrationFiles(fstest.MapFS{}, "nope"); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}

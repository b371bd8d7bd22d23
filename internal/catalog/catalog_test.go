package catalog

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"printquote/internal/db"
	"printquote/internal/quote"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "catalog-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestLoadSeedsBuiltinProfiles(t *testing.T) {
	database := newTestDB(t)

	tables, err := Load(database, "")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	defaults := quote.Defaults()
	if len(tables.Materials) != len(defaults.Materials) {
		t.Fatalf("expected %d materials, got %d", len(defaults.Materials), len(tables.Materials))
	}
	for key, want := range defaults.Materials {
		got, ok := tables.Materials[key]
		if !ok {
			t.Fatalf("material %q missing after seed", key)
		}
		if got != want {
			t.Fatalf("material %q = %+v, want %+v", key, got, want)
		}
	}
	for key, want := range defaults.Machines {
		got, ok := tables.Machines[key]
		if !ok {
			t.Fatalf("machine %q missing after seed", key)
		}
		if got != want {
			t.Fatalf("machine %q = %+v, want %+v", key, got, want)
		}
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	database := newTestDB(t)

	for i := 0; i < 5; i++ {
		tables, err := Load(database, "")
		if err != nil {
			t.Fatalf("load catalog (iteration=%d): %v", i, err)
		}
		if len(tables.Materials) != 5 || len(tables.Machines) != 3 {
			t.Fatalf("iteration %d: got %d materials, %d machines", i, len(tables.Materials), len(tables.Machines))
		}
	}
}

func TestLoadPreservesOperatorEdits(t *testing.T) {
	database := newTestDB(t)

	if _, err := Load(database, ""); err != nil {
		t.Fatalf("initial load: %v", err)
	}
	if _, err := database.Exec(`UPDATE materials SET rate_per_g = 0.05 WHERE key = 'PETG'`); err != nil {
		t.Fatalf("edit material: %v", err)
	}

	tables, err := Load(database, "")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := tables.Materials["PETG"].RatePerGram; got != 0.05 {
		t.Fatalf("PETG rate = %v, want operator-edited 0.05", got)
	}
}

func TestLoadAppliesYAMLOverrides(t *testing.T) {
	database := newTestDB(t)

	overrides := `
materials:
  PLA:
    rate_per_g: 0.022
  Recycled PETG:
    rate_per_g: 0.018
    density_g_cm3: 1.27
machines:
  BLENDED:
    hourly_rate: 9.5
`
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	if err := os.WriteFile(path, []byte(overrides), 0o600); err != nil {
		t.Fatalf("write overrides: %v", err)
	}

	tables, err := Load(database, path)
	if err != nil {
		t.Fatalf("load catalog with overrides: %v", err)
	}

	if got := tables.Materials["PLA"].RatePerGram; got != 0.022 {
		t.Fatalf("PLA rate = %v, want overridden 0.022", got)
	}
	// Untouched fields keep catalog values.
	if got := tables.Materials["PLA"].DensityGCm3; got != 1.24 {
		t.Fatalf("PLA density = %v, want 1.24", got)
	}

	added, ok := tables.Materials["Recycled PETG"]
	if !ok {
		t.Fatal("override-only material was not added")
	}
	if added.RatePerGram != 0.018 || added.DensityGCm3 != 1.27 {
		t.Fatalf("unexpected added material: %+v", added)
	}
	if added.SpeedFactor == 0 {
		t.Fatal("added material must inherit a complete baseline profile")
	}

	if got := tables.Machines["BLENDED"].HourlyRate; got != 9.5 {
		t.Fatalf("BLENDED hourly rate = %v, want overridden 9.5", got)
	}
}

func TestLoadRejectsMissingOverridesFile(t *testing.T) {
	database := newTestDB(t)

	if _, err := Load(database, filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing overrides file")
	}
}

func TestLoadInMemoryDatabase(t *testing.T) {
	database, err := db.Open(db.MemoryPath)
	if err != nil {
		t.Fatalf("open in-memory database: %v", err)
	}
	defer database.Close()

	tables, err := Load(database, "")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if !tables.HasMaterial(quote.DefaultMaterial) {
		t.Fatal("default material missing from in-memory catalog")
	}
	if _, ok := tables.Machines[quote.DefaultMachine]; !ok {
		t.Fatal("default machine missing from in-memory catalog")
	}
}

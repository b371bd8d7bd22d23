// Package catalog manages the material and machine profile tables backing
// the quote engine. Profiles live in SQLite (schema via goose, seeded from
// the built-in defaults on first start) and are loaded once into an
// immutable quote.Tables that is shared read-only across requests. An
// optional YAML file can override individual profile fields at load time.
package catalog

import (
	"database/sql"
	"embed"
	"fmt"

	"printquote/internal/migrations"
	"printquote/internal/quote"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Load migrates and seeds the catalog database, then reads every profile
// into memory. The returned tables always contain the PLA and BLENDED
// defaults, so the engine's fallback lookups cannot miss.
func Load(db *sql.DB, overridesPath string) (*quote.Tables, error) {
	if err := migrations.Up(db, migrationsFS, "migrations"); err != nil {
		return nil, err
	}
	if _, err := Seed(db); err != nil {
		return nil, err
	}

	tables, err := read(db)
	if err != nil {
		return nil, err
	}

	if overridesPath != "" {
		if err := applyOverrides(tables, overridesPath); err != nil {
			return nil, err
		}
	}

	// Fallback anchors must exist no matter what the rows or overrides say.
	defaults := quote.Defaults()
	if _, ok := tables.Materials[quote.DefaultMaterial]; !ok {
		tables.Materials[quote.DefaultMaterial] = defaults.Materials[quote.DefaultMaterial]
	}
	if _, ok := tables.Machines[quote.DefaultMachine]; !ok {
		tables.Machines[quote.DefaultMachine] = defaults.Machines[quote.DefaultMachine]
	}

	return tables, nil
}

func read(db *sql.DB) (*quote.Tables, error) {
	tables := &quote.Tables{
		Materials: make(map[string]quote.MaterialProfile),
		Machines:  make(map[string]quote.MachineProfile),
	}

	rows, err := db.Query(`
		SELECT key, rate_per_g, density_g_cm3, rec_layer_mm, speed_factor
		FROM materials
		ORDER BY key
	`)
	if err != nil {
		return nil, fmt.Errorf("query materials: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p quote.MaterialProfile
		if err := rows.Scan(&p.Key, &p.RatePerGram, &p.DensityGCm3, &p.RecLayerMM, &p.SpeedFactor); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		tables.Materials[p.Key] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate materials: %w", err)
	}

	mrows, err := db.Query(`
		SELECT key, label, cm3_per_hr, hourly_rate
		FROM machines
		ORDER BY key
	`)
	if err != nil {
		return nil, fmt.Errorf("query machines: %w", err)
	}
	defer mrows.Close()

	for mrows.Next() {
		var p quote.MachineProfile
		if err := mrows.Scan(&p.Key, &p.Label, &p.Cm3PerHour, &p.HourlyRate); err != nil {
			return nil, fmt.Errorf("scan machine: %w", err)
		}
		tables.Machines[p.Key] = p
	}
	if err := mrows.Err(); err != nil {
		return nil, fmt.Errorf("iterate machines: %w", err)
	}

	return tables, nil
}

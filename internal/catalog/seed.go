package catalog

import (
	"database/sql"
	"fmt"

	"printquote/internal/quote"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Seed inserts the built-in material and machine profiles in an idempotent
// way: rows that already exist (by key) are left untouched, so operator
// edits survive restarts.
func Seed(db *sql.DB) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}
	defaults := quote.Defaults()

	for _, m := range defaults.Materials {
		inserted, err := ensureMaterial(tx, m)
		if err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
		if inserted {
			stats.Inserts++
		}
	}
	for _, m := range defaults.Machines {
		inserted, err := ensureMachine(tx, m)
		if err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
		if inserted {
			stats.Inserts++
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureMaterial(tx *sql.Tx, p quote.MaterialProfile) (bool, error) {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM materials WHERE key = ? LIMIT 1)`, p.Key).Scan(&exists); err != nil {
		return false, fmt.Errorf("check material %q existence: %w", p.Key, err)
	}
	if exists {
		return false, nil
	}

	if _, err := tx.Exec(`
		INSERT INTO materials (key, rate_per_g, density_g_cm3, rec_layer_mm, speed_factor)
		VALUES (?, ?, ?, ?, ?)
	`, p.Key, p.RatePerGram, p.DensityGCm3, p.RecLayerMM, p.SpeedFactor); err != nil {
		return false, fmt.Errorf("insert material %q: %w", p.Key, err)
	}
	return true, nil
}

func ensureMachine(tx *sql.Tx, p quote.MachineProfile) (bool, error) {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM machines WHERE key = ? LIMIT 1)`, p.Key).Scan(&exists); err != nil {
		return false, fmt.Errorf("check machine %q existence: %w", p.Key, err)
	}
	if exists {
		return false, nil
	}

	if _, err := tx.Exec(`
		INSERT INTO machines (key, label, cm3_per_hr, hourly_rate)
		VALUES (?, ?, ?, ?)
	`, p.Key, p.Label, p.Cm3PerHour, p.HourlyRate); err != nil {
		return false, fmt.Errorf("insert machine %q: %w", p.Key, err)
	}
	return true, nil
}

package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Pin the variables this test asserts on so ambient values cannot leak
	// in. t.Setenv registers the restore; Unsetenv makes the var truly unset
	// rather than empty.
	for _, key := range []string{"PORT", "APP_ENV", "MAX_UPLOAD_MB", "BATCH_TIERS", "DISCOUNTS", "CATALOG_DB_PATH"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, int64(50), cfg.MaxUploadMB)
	assert.Equal(t, int64(50*1024*1024), cfg.MaxUploadBytes())
	assert.Equal(t, []int{1, 10, 25, 50, 100}, cfg.BatchTiers)
	assert.Equal(t, []float64{0, 0.05, 0.08, 0.12, 0.15}, cfg.Discounts)
	assert.Equal(t, ":memory:", cfg.CatalogDBPath)
	assert.False(t, cfg.IsDev())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "dev")
	t.Setenv("MAX_UPLOAD_MB", "10")
	t.Setenv("BATCH_TIERS", "1,5")
	t.Setenv("DISCOUNTS", "0,0.5")
	t.Setenv("CATALOG_DB_PATH", "/tmp/catalog.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, int64(10), cfg.MaxUploadMB)
	assert.Equal(t, []int{1, 5}, cfg.BatchTiers)
	assert.Equal(t, []float64{0, 0.5}, cfg.Discounts)
	assert.Equal(t, "/tmp/catalog.db", cfg.CatalogDBPath)
}

func TestLoadToleratesMismatchedTierLists(t *testing.T) {
	// Length mismatch is handled downstream by the tier calculator, not here.
	t.Setenv("BATCH_TIERS", "1,10,25")
	t.Setenv("DISCOUNTS", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Len(t, cfg.BatchTiers, 3)
	assert.Len(t, cfg.Discounts, 1)
}

func TestLoadRejectsNonPositiveUploadCap(t *testing.T) {
	t.Setenv("MAX_UPLOAD_MB", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_UPLOAD_MB")
}

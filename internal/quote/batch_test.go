package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierStandardSchedule(t *testing.T) {
	qtys := []int{1, 10, 25, 50, 100}
	discounts := []float64{0, 0.05, 0.08, 0.12, 0.15}

	rows := Tier(10.00, qtys, discounts)
	require.Len(t, rows, 5)

	wantPerUnit := []float64{10.00, 9.50, 9.20, 8.80, 8.50}
	wantTotal := []float64{10.00, 95.00, 230.00, 440.00, 850.00}
	for i, row := range rows {
		assert.Equal(t, qtys[i], row.Qty)
		assert.Equal(t, discounts[i], row.Discount)
		assert.Equal(t, wantPerUnit[i], row.PerUnit, "per_unit at tier %d", i)
		assert.Equal(t, wantTotal[i], row.Total, "total at tier %d", i)
	}
}

func TestTierLengthMismatchDegradesToZeroDiscounts(t *testing.T) {
	rows := Tier(12.34, []int{1, 10, 25}, []float64{0, 0.05})

	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, 0.0, row.Discount)
		assert.Equal(t, 12.34, row.PerUnit)
	}
	assert.Equal(t, 123.40, rows[1].Total)
	assert.Equal(t, 308.50, rows[2].Total)
}

func TestTierPreservesConfiguredOrder(t *testing.T) {
	// Order follows the configured schedule even when it is not ascending.
	rows := Tier(10, []int{100, 1}, []float64{0.15, 0})

	require.Len(t, rows, 2)
	assert.Equal(t, 100, rows[0].Qty)
	assert.Equal(t, 8.50, rows[0].PerUnit)
	assert.Equal(t, 1, rows[1].Qty)
	assert.Equal(t, 10.0, rows[1].PerUnit)
}

func TestTierEmptySchedule(t *testing.T) {
	assert.Empty(t, Tier(10, nil, nil))
}

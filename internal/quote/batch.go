package quote

// TierRow is one line of the bulk discount schedule.
type TierRow struct {
	Qty      int     `json:"qty"`
	Discount float64 `json:"discount"`
	PerUnit  float64 `json:"per_unit"`
	Total    float64 `json:"total"`
}

// Tier expands a single-unit price into the quantity discount schedule.
// Quantities and discounts are paired positionally and order is preserved.
// A length mismatch between the two lists is a configuration fault; it
// degrades to zero discounts across the board rather than failing the quote.
func Tier(baseUnitPrice float64, qtys []int, discounts []float64) []TierRow {
	if len(discounts) != len(qtys) {
		discounts = make([]float64, len(qtys))
	}
	rows := make([]TierRow, 0, len(qtys))
	for i, qty := range qtys {
		perUnit := round2(baseUnitPrice * (1 - discounts[i]))
		rows = append(rows, TierRow{
			Qty:      qty,
			Discount: discounts[i],
			PerUnit:  perUnit,
			Total:    round2(perUnit * float64(qty)),
		})
	}
	return rows
}

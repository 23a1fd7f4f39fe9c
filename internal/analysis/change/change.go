// Package change computes day-over-day moves from daily price records.
// All functions expect records ordered newest first.
package change

import (
	"github.com/shopspring/decimal"

	"github.com/seenimoa/stockalert/pkg/models"
)

var hundred = decimal.NewFromInt(100)

// PercentageChange returns |close[0] - close[1]| / close[0] * 100.
// It returns 0 when fewer than two records are given or the latest close is zero.
func PercentageChange(records []models.PriceRecord) float64 {
	return PercentageChangeDecimal(records).InexactFloat64()
}

// PercentageChangeDecimal is PercentageChange without the float conversion.
func PercentageChangeDecimal(records []models.PriceRecord) decimal.Decimal {
	if len(records) < 2 {
		return decimal.Zero
	}
	latest, previous := records[0].Close, records[1].Close
	if latest.IsZero() {
		return decimal.Zero
	}
	return latest.Sub(previous).Abs().Div(latest).Mul(hundred)
}

// Exceeds reports whether the move is strictly greater than thresholdPct.
func Exceeds(records []models.PriceRecord, thresholdPct float64) bool {
	return PercentageChangeDecimal(records).GreaterThan(decimal.NewFromFloat(thresholdPct))
}

// Direction returns whether the latest close is above, below, or equal to the previous one.
func Direction(records []models.PriceRecord) models.Direction {
	if len(records) < 2 {
		return models.DirectionFlat
	}
	switch records[0].Close.Cmp(records[1].Close) {
	case 1:
		return models.DirectionUp
	case -1:
		return models.DirectionDown
	default:
		return models.DirectionFlat
	}
}

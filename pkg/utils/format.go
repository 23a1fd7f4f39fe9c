package utils

import "fmt"

// FormatAbsPct formats a magnitude with two decimals and no sign, e.g. 6 → "6.00%".
func FormatAbsPct(pct float64) string {
	if pct < 0 {
		pct = -pct
	}
	return fmt.Sprintf("%.2f%%", pct)
}

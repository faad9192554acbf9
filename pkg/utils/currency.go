package utils

import (
	"github.com/dustin/go-humanize"
)

// FormatCurrency renders an amount as a dollar string with thousands
// separators and two decimal places, e.g. 1234.5 -> "$1,234.50".
func FormatCurrency(amount float64) string {
	return "$" + humanize.FormatFloat("#,###.##", amount)
}

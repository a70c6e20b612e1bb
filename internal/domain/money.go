package domain

import "fmt"

// FormatCents renders a cent amount as a fixed-point decimal string for
// display, e.g. 4999 -> "49.99". Prices never pass through floats.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

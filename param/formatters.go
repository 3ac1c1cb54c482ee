package param

import (
	"fmt"
	"strconv"
	"strings"
)

// PercentFormatter shows fewer decimals as the value grows:
// "5.25 %", "42.5 %", "100 %".
func PercentFormatter(v float64) string {
	switch {
	case v < 10:
		return fmt.Sprintf("%.2f %%", v)
	case v < 100:
		return fmt.Sprintf("%.1f %%", v)
	default:
		return fmt.Sprintf("%.0f %%", v)
	}
}

// PercentParser parses "42.5 %" or "42.5".
func PercentParser(text string) (float64, error) {
	text = strings.TrimSuffix(strings.TrimSpace(text), "%")
	return strconv.ParseFloat(strings.TrimSpace(text), 64)
}

// DecibelFormatter formats gains as "-6.00 dB".
func DecibelFormatter(db float64) string {
	return fmt.Sprintf("%.2f dB", db)
}

// DecibelParser parses "-6.00 dB", "-6dB" or "-6".
func DecibelParser(text string) (float64, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "dB")
	text = strings.TrimSuffix(text, "db")

	return strconv.ParseFloat(strings.TrimSpace(text), 64)
}

// PlainFormatter formats unitless values with two decimals.
func PlainFormatter(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// PlainParser parses a bare number.
func PlainParser(text string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(text), 64)
}

package sink

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Percent renders a percentage rounded half away from zero to one decimal, e.g. "66.7%".
func Percent(v float64) string {
	return Round1(v) + "%"
}

// Seconds renders an optional duration in seconds, or "-" when absent.
func Seconds(v *float64) string {
	if v == nil {
		return "-"
	}
	return Round1(*v) + "s"
}

// Round1 formats v with exactly one decimal.
func Round1(v float64) string {
	return decimal.NewFromFloat(v).Round(1).StringFixed(1)
}

// RoundFloat rounds v to places decimals.
func RoundFloat(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// Bar draws a horizontal bar of width cells filled in proportion to percent.
func Bar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(decimal.NewFromFloat(percent * float64(width) / 100).Round(0).IntPart())
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

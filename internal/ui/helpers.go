package ui

import (
	"fmt"
	"strings"

	"cosmossdk.io/math"
	"github.com/charmbracelet/lipgloss"
)

// padR pads s to visible width n (ANSI-safe using lipgloss.Width).
func padR(s string, n int) string {
	w := lipgloss.Width(s)
	if w >= n {
		return s
	}
	return s + strings.Repeat(" ", n-w)
}

// trimErr strips noisy transport prefixes and caps the length for table
// cells.
func trimErr(s string) string {
	for _, marker := range []string{
		"dial tcp", "connection refused", "context deadline", "HTTP ",
	} {
		if idx := strings.Index(s, marker); idx >= 0 {
			s = s[idx:]
			break
		}
	}
	if len(s) > 30 {
		return s[:30] + "…"
	}
	return s
}

// FormatAmount renders a decimal with at most places fractional digits,
// dropping trailing zeros: 0.001700000000000000 -> "0.0017".
func FormatAmount(d math.LegacyDec, places int) string {
	if d.IsNil() {
		return "—"
	}
	s := d.String()
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		if len(s) > dot+1+places {
			s = s[:dot+1+places]
		}
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "" || s == "-" || s == "-0" {
		return "0"
	}
	return s
}

// FormatFiat renders a fiat value with two decimals and the currency code.
func FormatFiat(d math.LegacyDec, currency string) string {
	if d.IsNil() {
		return "—"
	}
	cents := d.Mul(math.LegacyNewDec(100)).RoundInt()
	sign := ""
	if cents.IsNegative() {
		sign = "-"
		cents = cents.Abs()
	}
	return fmt.Sprintf("%s%s.%02d %s", sign, cents.QuoRaw(100), cents.ModRaw(100).Int64(), strings.ToUpper(currency))
}

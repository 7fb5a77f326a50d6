package agent

import (
	"fmt"
	"strings"
)

// ruleLine separates report sections. Downstream consumers parse the
// reports as text, so the width is fixed.
var ruleLine = strings.Repeat("=", 80)

// formatUSD renders a dollar amount with thousands separators,
// e.g. 1234567.5 -> "1,234,567.50" with decimals=2.
func formatUSD(v float64, decimals int) string {
	s := fmt.Sprintf("%.*f", decimals, v)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	b.WriteString(fracPart)
	return b.String()
}

// formatPercent renders a [0,1] ratio as a whole percentage, e.g. "85%".
func formatPercent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

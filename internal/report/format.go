package report

import (
	"fmt"
	"math"
	"strings"
)

// latexEscape makes a string safe for use inside a LaTeX table cell.
func latexEscape(s string) string {
	replacer := strings.NewReplacer(
		"\\", "\\textbackslash{}",
		"&", "\\&",
		"%", "\\%",
		"$", "\\$",
		"#", "\\#",
		"_", "\\_",
		"{", "\\{",
		"}", "\\}",
		"~", "\\textasciitilde{}",
		"^", "\\textasciicircum{}",
	)
	return replacer.Replace(s)
}

// withCommas formats a number with thousands separators, keeping up to two
// decimal places for non-integral values.
func withCommas(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "--"
	}

	var s string
	if v == math.Trunc(v) {
		s = fmt.Sprintf("%.0f", v)
	} else {
		s = fmt.Sprintf("%.2f", v)
	}

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	out := b.String()
	if hasFrac {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}

// money formats a value in pounds; amounts of a million or more collapse to
// the "£1.2m" form used in the tables.
func money(v float64) string {
	if math.Abs(v) >= 1e6 {
		return fmt.Sprintf("\\pounds%.1fm", v/1e6)
	}
	return "\\pounds" + withCommas(v)
}

// percent formats a proportion as a percentage with one decimal place.
func percent(v float64) string {
	return fmt.Sprintf("%.1f\\%%", v*100)
}

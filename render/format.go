// Package render draws chart frames outside the browser: as text for a
// terminal, and through gonum/plot as PDF pages or SVG images.
package render

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// Number formats v with grouping and at most one decimal. NaN renders as
// "- -".
func Number(v float64) string {
	if math.IsNaN(v) {
		return "- -"
	}
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(1)))
}

// plain replaces dashes the PDF fonts do not render.
func plain(s string) string {
	s = strings.ReplaceAll(s, "\u2014", "-")
	return strings.ReplaceAll(s, "\u2013", "-")
}

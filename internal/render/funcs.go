// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"html/template"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// pricePrinter formats monetary amounts with locale-aware grouping.
var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders an amount as a display price, e.g. "$1,299.00".
func FormatPrice(amount float64) string {
	return pricePrinter.Sprintf("$%.2f", amount)
}

// templateFuncs returns the function map shared by all templates.
func (r *Renderer) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatPrice": FormatPrice,
		"markdown":    r.markdownHTML,
		"safeCSS": func(s string) template.CSS {
			return template.CSS(s)
		},
		"dateFormat": func(t time.Time, layout string) string {
			return t.Format(layout)
		},
		"dateMedium": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"until": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i
			}
			return out
		},
	}
}

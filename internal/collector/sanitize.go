package collector

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

const blockSelectors = "br, p, div, li, ul, ol, h1, h2, h3, h4, h5, h6, tr, section, article"

// StripHTML reduces markup (including entity-escaped markup) to single-spaced plain text.
func StripHTML(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	if strings.Contains(s, "&lt;") {
		s = html.UnescapeString(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapseSpace(s)
	}
	doc.Find("script, style").Remove()
	doc.Find(blockSelectors).Each(func(_ int, sel *goquery.Selection) {
		sel.AfterHtml(" ")
	})
	return collapseSpace(doc.Text())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// firstString returns the first non-empty string found at paths.
func firstString(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := strings.TrimSpace(r.Get(p).String()); v != "" {
			return v
		}
	}
	return ""
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime accepts epoch milliseconds or any of timeLayouts.
func parseTime(r gjson.Result) *time.Time {
	switch r.Type {
	case gjson.Number:
		if r.Int() <= 0 {
			return nil
		}
		t := time.UnixMilli(r.Int()).UTC()
		return &t
	case gjson.String:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, r.String()); err == nil {
				t = t.UTC()
				return &t
			}
		}
	}
	return nil
}

// formatSalary renders a range such as "USD 100000-150000 / year".
func formatSalary(lo, hi float64, currency, period string) *string {
	if lo <= 0 && hi <= 0 {
		return nil
	}
	var amount string
	switch {
	case lo > 0 && hi > 0 && lo != hi:
		amount = fmt.Sprintf("%.0f-%.0f", lo, hi)
	case hi > 0:
		amount = fmt.Sprintf("%.0f", hi)
	default:
		amount = fmt.Sprintf("%.0f", lo)
	}
	s := strings.TrimSpace(currency + " " + amount)
	if period = strings.TrimSpace(strings.ToLower(period)); period != "" {
		s += " / " + strings.TrimPrefix(strings.TrimPrefix(period, "per_"), "per-")
	}
	return &s
}

// explicitRemote reads a boolean remote flag, reporting whether the board supplied one.
func explicitRemote(r gjson.Result) (remote bool, ok bool) {
	switch r.Type {
	case gjson.True:
		return true, true
	case gjson.False:
		return false, true
	}
	return false, false
}

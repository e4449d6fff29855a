package strategy

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// formatOdds renders American odds with an explicit sign.
func formatOdds(odds int) string {
	if odds > 0 {
		return "+" + strconv.Itoa(odds)
	}
	return strconv.Itoa(odds)
}

// formatLine renders a spread with an explicit sign; zero is a pick'em.
func formatLine(line float64) string {
	switch {
	case line > 0:
		return "+" + formatNumber(line)
	case line == 0:
		return "PK"
	default:
		return formatNumber(line)
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatSigned(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%.1f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

// formatStart renders an RFC 3339 start time as "Mon 7:05 PM" in loc; other
// formats are passed through untouched.
func formatStart(start string, loc *time.Location) string {
	if start == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return start
	}
	return t.In(loc).Format("Mon 3:04 PM")
}

// titleCase upper-cases the first letter and lower-cases the rest.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

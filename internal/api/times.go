package api

import "time"

var erpDateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// parseERPDate parses the datetime formats the ERP is known to emit.
func parseERPDate(s string) (time.Time, bool) {
	for _, layout := range erpDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// newerDate reports whether a should sort before b in a newest-first
// ordering. Dates are compared as parsed timestamps; unparseable values
// sort after parseable ones, and two unparseable values fall back to raw
// string comparison so the ordering stays deterministic.
func newerDate(a, b string) bool {
	ta, okA := parseERPDate(a)
	tb, okB := parseERPDate(b)
	switch {
	case okA && okB:
		return ta.After(tb)
	case okA:
		return true
	case okB:
		return false
	default:
		return a > b
	}
}

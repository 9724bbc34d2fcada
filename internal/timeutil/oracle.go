package timeutil

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var months = [...]string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

var ddmmyyyy = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)

// OracleDate renders t as DD-MON-RR in IST, e.g. 05-MAR-25.
func OracleDate(t time.Time) string {
	ist := t.In(IST)
	return strings.ToUpper(ist.Format("02-Jan-06"))
}

// ToOracleDate converts a DD-MM-YYYY string to DD-MON-RR. Anything else is
// returned unchanged; an out-of-range month maps to JAN.
func ToOracleDate(s string) string {
	if !ddmmyyyy.MatchString(s) {
		return s
	}
	parts := strings.Split(s, "-")
	mon := "JAN"
	if m, err := strconv.Atoi(parts[1]); err == nil && m >= 1 && m <= 12 {
		mon = months[m-1]
	}
	return parts[0] + "-" + mon + "-" + parts[2][2:]
}

// DefaultStockWindow is first-of-month to today, both as DD-MON-RR.
func DefaultStockWindow(now time.Time) (from, to string) {
	return OracleDate(StartOfMonth(now)), OracleDate(now)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	DateTimeLayout,
	"2006-01-02 15:04",
	DateLayout,
}

// ParseTimestamp accepts RFC 3339 and the common date/date-time forms sent
// by the indent forms. Values without a zone are taken as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), true
	}
	return time.Time{}, false
}

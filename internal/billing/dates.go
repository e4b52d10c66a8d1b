package billing

import (
	"regexp"
	"time"
)

const dateLayout = "2006-01-02"

var isoDateRE = regexp.MustCompile(`^\d{4}-(0\d|1[0-2])-([0-2]\d|3[01])$`)

// ParseDate normalizes an ISO calendar date string (yyyy-mm-dd) to a UTC
// midnight time.Time. Every external date ingestion point goes through here,
// so the rest of the system only ever sees one date representation.
func ParseDate(s string) (time.Time, error) {
	if !isoDateRE.MatchString(s) {
		return time.Time{}, NewValidationError("due date", s, "not in ISO format (yyyy-mm-dd)")
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, NewValidationError("due date", s, "not a real calendar date")
	}
	return t.UTC(), nil
}

// FormatDate renders a date the way invoices display it.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// Today returns the current calendar date at UTC midnight.
func Today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

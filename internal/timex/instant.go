package timex

import (
	"strings"
	"time"
)

// DateLayout is the calendar-day format used by study logs, daily goals and
// streak checks.
const DateLayout = "2006-01-02"

// instantLayout is the UTC millisecond instant format used on the wire.
const instantLayout = "2006-01-02T15:04:05.000Z"

// Epoch is the instant used for absent timestamps.
var Epoch = time.Unix(0, 0).UTC()

// EpochISO is Epoch formatted as an instant.
var EpochISO = FormatInstant(Epoch)

// FormatInstant renders t in UTC with millisecond precision.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(instantLayout)
}

// ParseInstant parses an ISO-8601 instant or a bare calendar date. Empty or
// unparseable input yields the zero time, so comparisons treat it as older
// than any real timestamp.
func ParseInstant(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t
	}
	return time.Time{}
}

// FormatDate renders the calendar day of t in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// LaterOf returns whichever of a and b parses to the later instant, and a on
// a tie.
func LaterOf(a, b string) string {
	if ParseInstant(b).After(ParseInstant(a)) {
		return b
	}
	return a
}

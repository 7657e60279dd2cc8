package nfe

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ddmmyyyy = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

// Layouts seen in the wild for dhEmi/dEmi. The offset-carrying RFC3339
// form is the layout 4.00 standard; the rest cover older documents and
// hand-edited files.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatDate normalizes an emission timestamp to DD/MM/YYYY.
//
// Three tiers, first hit wins: input already in DD/MM/YYYY passes
// through unchanged; a parseable timestamp is formatted using its own
// calendar (the document's UTC offset, not the server's); otherwise the
// year-month-day is recovered textually, validated, and required to
// round-trip through a real calendar date. Unrecoverable input yields
// an empty string rather than an error, so a bad date degrades one
// field instead of aborting the submission.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if ddmmyyyy.MatchString(s) {
		return s
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02/01/2006")
		}
	}

	datePart := strings.SplitN(s, "T", 2)[0]
	parts := strings.Split(datePart, "-")
	if len(parts) != 3 {
		return ""
	}

	year, errY := strconv.Atoi(parts[0])
	month, errM := strconv.Atoi(parts[1])
	day, errD := strconv.Atoi(parts[2])
	if errY != nil || errM != nil || errD != nil {
		return ""
	}
	if year <= 0 || month < 1 || month > 12 || day < 1 || day > 31 {
		return ""
	}

	// Guard against dates like Feb 30: time.Date normalizes overflow,
	// so a changed day/month/year means the parts were not a real date.
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return ""
	}

	return fmt.Sprintf("%02d/%02d/%04d", day, month, year)
}

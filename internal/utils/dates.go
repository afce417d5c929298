package utils

import (
	"fmt"
	"time"

	"github.com/tranaapp/trana/internal/constants"
)

// ParseDate parses a YYYY-MM-DD date as a calendar day.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(constants.DateFormat, s)
}

// dayOf drops the clock so day differences are never skewed by DST.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysUntil returns the number of calendar days from now until date.
// Negative values mean the date has passed.
func DaysUntil(date string, now time.Time) (int, error) {
	d, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	return int(dayOf(d).Sub(dayOf(now)).Hours() / 24), nil
}

// IsExpired reports whether date lies strictly before today.
func IsExpired(date string, now time.Time) bool {
	days, err := DaysUntil(date, now)
	return err == nil && days < 0
}

// IsWithinDays reports whether date is today or at most days ahead.
func IsWithinDays(date string, days int, now time.Time) bool {
	diff, err := DaysUntil(date, now)
	return err == nil && diff >= 0 && diff <= days
}

func ExpiryText(daysUntil int) string {
	switch {
	case daysUntil < 0:
		return fmt.Sprintf("Expired %d days ago", -daysUntil)
	case daysUntil == 0:
		return "Expires today!"
	case daysUntil == 1:
		return "Expires tomorrow"
	default:
		return fmt.Sprintf("Expires in %d days", daysUntil)
	}
}

// DisplayDate renders a YYYY-MM-DD date as "Mar 5, 2024". Unparseable input is returned as is.
func DisplayDate(date string) string {
	d, err := ParseDate(date)
	if err != nil {
		return date
	}
	return d.Format("Jan 2, 2006")
}

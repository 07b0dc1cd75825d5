package utils

import "time"

// FormatEntryDate renders an entry timestamp the way the list view shows it:
// within 24 hours the time of day, within 7 days the weekday plus time,
// otherwise month and day, with the year only when it differs from now's.
func FormatEntryDate(t, now time.Time) string {
	age := now.Sub(t)

	switch {
	case age < 24*time.Hour:
		return t.Format("3:04 PM")
	case age < 7*24*time.Hour:
		return t.Format("Mon 3:04 PM")
	case t.Year() != now.Year():
		return t.Format("Jan 2, 2006")
	default:
		return t.Format("Jan 2")
	}
}

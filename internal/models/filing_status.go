package models

import "time"

type FilingStatus string

const (
	FilingStatusGreen   FilingStatus = "green"
	FilingStatusYellow  FilingStatus = "yellow"
	FilingStatusRed     FilingStatus = "red"
	FilingStatusUnknown FilingStatus = "unknown"
)

const (
	filingDeadlineMonth = time.April
	filingDeadlineDay   = 15
	filingWarningMonths = 2
)

// NeedsAttention reports whether the status warrants a reminder.
func (s FilingStatus) NeedsAttention() bool {
	return s != FilingStatusGreen
}

// FilingDeadline returns April 15 of today's year, or of the next year once
// that date has passed.
func FilingDeadline(today time.Time) time.Time {
	today = dateOnly(today)
	deadline := time.Date(today.Year(), filingDeadlineMonth, filingDeadlineDay, 0, 0, 0, 0, time.UTC)
	if today.After(deadline) {
		deadline = deadline.AddDate(1, 0, 0)
	}
	return deadline
}

// ComputeFilingStatus classifies a last filing date relative to today.
// A filing on or after the upcoming deadline is reported red; that branch is
// kept exactly as the business rule states it.
func ComputeFilingStatus(lastFiling *time.Time, today time.Time) FilingStatus {
	if lastFiling == nil {
		return FilingStatusUnknown
	}

	deadline := FilingDeadline(today)
	threshold := deadline.AddDate(0, -filingWarningMonths, 0)
	last := dateOnly(*lastFiling)

	switch {
	case !last.Before(deadline):
		return FilingStatusRed
	case !last.Before(threshold):
		return FilingStatusYellow
	default:
		return FilingStatusGreen
	}
}

// dateOnly drops the clock and zone so comparisons happen on calendar dates.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

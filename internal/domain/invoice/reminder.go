package invoice

import "time"

type ReminderKind string

const (
	ReminderTwoDaysBefore ReminderKind = "TWO_DAYS_BEFORE"
	ReminderOneDayBefore  ReminderKind = "ONE_DAY_BEFORE"
	ReminderOneDayAfter   ReminderKind = "ONE_DAY_AFTER"
)

// ReminderBucket selects SENT invoices whose due date falls on the calendar day that is
// DaysUntilDue days from the sweep day.
type ReminderBucket struct {
	Kind         ReminderKind
	DaysUntilDue int
	MarkOverdue  bool
}

var ReminderBuckets = []ReminderBucket{
	{Kind: ReminderTwoDaysBefore, DaysUntilDue: 2},
	{Kind: ReminderOneDayBefore, DaysUntilDue: 1},
	{Kind: ReminderOneDayAfter, DaysUntilDue: -1, MarkOverdue: true},
}

// Window returns the half-open due-date range [from, to) the bucket covers for a sweep at now.
func (b ReminderBucket) Window(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	from := day.AddDate(0, 0, b.DaysUntilDue)
	return from, from.AddDate(0, 0, 1)
}

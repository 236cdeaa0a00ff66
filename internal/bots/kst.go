package bots

import "time"

// kstOffsetMinutes is the fixed UTC+9 shift used for calendar-day
// comparisons. The target locale has no daylight saving.
const kstOffsetMinutes = 540

func kstShift(t time.Time) time.Time {
	return t.UTC().Add(kstOffsetMinutes * time.Minute)
}

// KSTDate returns the calendar date of t under the fixed +540 minute
// shift.
func KSTDate(t time.Time) (int, time.Month, int) {
	return kstShift(t).Date()
}

// KSTDateString renders the KST calendar date, used as the activity
// log's day key.
func KSTDateString(t time.Time) string {
	return kstShift(t).Format("2006-01-02")
}

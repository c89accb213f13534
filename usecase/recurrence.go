package usecase

import (
	"time"

	"page-scheduler/domain/model"
)

// NextOccurrence computes when a repeating post runs again, from the original
// schedule time. Monthly arithmetic follows AddDate rollover (Jan 31 + 1 month
// lands in March). Returns ok=false for non-repeating posts.
func NextOccurrence(t time.Time, repeatType string) (time.Time, bool) {
	switch repeatType {
	case model.RepeatDaily:
		return t.AddDate(0, 0, 1), true
	case model.RepeatWeekly:
		return t.AddDate(0, 0, 7), true
	case model.RepeatMonthly:
		return t.AddDate(0, 1, 0), true
	default:
		return time.Time{}, false
	}
}

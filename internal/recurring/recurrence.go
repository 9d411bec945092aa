// Package recurring turns recurring payment definitions into expenses.
package recurring

import (
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/ledgerly/internal/models"
)

// ErrSchedulingAnomaly marks a definition that cannot be processed: its dates
// do not advance, or it references a group or participant that is gone.
// The definition is skipped and left unchanged.
var ErrSchedulingAnomaly = errors.New("scheduling anomaly")

// Advance returns the occurrence that follows cursor.
//
// Day and week frequencies add a fixed number of days. Month and year
// frequencies step whole months and clamp to the last day of the target
// month. anchorDay is the day of month of the first occurrence; it is used
// instead of cursor's day so a schedule starting on the 31st goes
// Jan 31, Feb 29, Mar 31 rather than drifting to the 29th.
func Advance(freq models.Frequency, interval, anchorDay int, cursor time.Time) (time.Time, error) {
	if interval < 1 {
		return time.Time{}, fmt.Errorf("%w: interval %d", ErrSchedulingAnomaly, interval)
	}

	switch freq {
	case models.FrequencyDay:
		return cursor.AddDate(0, 0, interval), nil
	case models.FrequencyWeek:
		return cursor.AddDate(0, 0, 7*interval), nil
	case models.FrequencyMonth:
		return addMonths(cursor, interval, anchorDay), nil
	case models.FrequencyYear:
		return addMonths(cursor, 12*interval, anchorDay), nil
	default:
		return time.Time{}, fmt.Errorf("%w: unknown frequency %q", ErrSchedulingAnomaly, freq)
	}
}

// next steps a definition's schedule once and rejects non-advancing results.
func next(rp *models.RecurringPayment, cursor time.Time) (time.Time, error) {
	n, err := Advance(rp.Frequency, rp.Interval, rp.StartDate.Day(), cursor)
	if err != nil {
		return time.Time{}, err
	}
	if !n.After(cursor) {
		return time.Time{}, fmt.Errorf("%w: next occurrence %s does not follow %s",
			ErrSchedulingAnomaly, n.Format(models.DateLayout), cursor.Format(models.DateLayout))
	}
	return n, nil
}

func addMonths(t time.Time, months, anchorDay int) time.Time {
	total := int(t.Month()) - 1 + months
	year := t.Year() + total/12
	month := time.Month(total%12 + 1)

	day := anchorDay
	if last := daysIn(year, month); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

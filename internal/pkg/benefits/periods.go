package benefits

import (
	"time"

	"github.com/cardinsa/cardinsa/app/models"
)

// lifetimeEnd is the sentinel end date for lifetime benefit periods.
var lifetimeEnd = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// PeriodWindow returns the period boundaries covering the given time.
// Annual and monthly windows are calendar-aligned; lifetime periods run
// from the day the period opens until the sentinel end date.
func PeriodWindow(periodType string, at time.Time) (time.Time, time.Time) {
	at = at.UTC()
	switch periodType {
	case models.PERIOD_MONTHLY:
		start := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, -1)
	case models.PERIOD_LIFETIME:
		start := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
		return start, lifetimeEnd
	default:
		start := time.Date(at.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		return start, time.Date(at.Year(), 12, 31, 0, 0, 0, 0, time.UTC)
	}
}

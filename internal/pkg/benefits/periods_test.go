package benefits

import (
	"testing"
	"time"

	"github.com/cardinsa/cardinsa/app/models"
	"github.com/stretchr/testify/assert"
)

func TestPeriodWindow(t *testing.T) {
	at := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name       string
		periodType string
		wantStart  time.Time
		wantEnd    time.Time
	}{
		{
			"annual is calendar aligned",
			models.PERIOD_ANNUAL,
			time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			"monthly is calendar aligned",
			models.PERIOD_MONTHLY,
			time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			"lifetime opens on the day and never closes",
			models.PERIOD_LIFETIME,
			time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := PeriodWindow(tt.periodType, at)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
			assert.True(t, !at.Before(start) && !at.After(end.AddDate(0, 0, 1)))
		})
	}
}

func TestPeriodWindowFebruaryMonthEnd(t *testing.T) {
	start, end := PeriodWindow(models.PERIOD_MONTHLY, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), end)
}

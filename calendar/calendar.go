// Package calendar answers whether a given date is a business day. The
// suppression rules depend on it, so it is an injected capability rather
// than a direct call into the holiday dataset: tests run against fixed
// calendars and fixed clocks.
package calendar

import (
	"time"

	holiday_jp "github.com/holiday-jp/holiday_jp-go"
)

// Calendar reports whether a date falls outside regular business days.
type Calendar interface {
	// IsNonBusinessDay returns true when the date is a holiday or a weekend.
	IsNonBusinessDay(date time.Time) bool
}

// Japanese is the production Calendar: Japanese public holidays plus
// Saturday and Sunday.
type Japanese struct{}

func (Japanese) IsNonBusinessDay(date time.Time) bool {
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return true
	}
	return holiday_jp.IsHoliday(date)
}

// Fixed is a Calendar with a predetermined answer, for tests and for
// deployments that do not observe holidays.
type Fixed bool

func (f Fixed) IsNonBusinessDay(time.Time) bool {
	return bool(f)
}

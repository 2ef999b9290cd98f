// Package calendar computes month day grids and overlays holidays on them.
//
// Everything here is pure: the grid is a function of (year, month) only and
// never waits on holiday data. Weekdays are computed on the proleptic
// Gregorian calendar in UTC, so the host time zone has no influence.
package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/alnah/go-toolbox/internal/dateutil"
)

// Sentinel errors returned by ValidateMonth.
var (
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
	ErrInvalidYear  = errors.New("year out of range")
)

// Supported year range for callers that accept user input.
const (
	MinYear = 1
	MaxYear = 9999
)

// Holiday is a named date in YYYY-MM-DD form.
type Holiday struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// Day is one day of a month grid.
type Day struct {
	Day       int          `json:"day"`
	Date      string       `json:"date"`
	Weekday   time.Weekday `json:"weekday"`
	IsWeekend bool         `json:"isWeekend"`
}

// Month is the computed grid geometry of a calendar month.
type Month struct {
	Year               int   `json:"year"`
	Month              int   `json:"month"`
	DaysInMonth        int   `json:"daysInMonth"`
	FirstWeekdayOffset int   `json:"firstWeekdayOffset"`
	Days               []Day `json:"days"`
}

// ValidateMonth reports whether (year, month) is a grid Build accepts.
func ValidateMonth(year, month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: got %d", ErrInvalidMonth, month)
	}
	if year < MinYear || year > MaxYear {
		return fmt.Errorf("%w: must be between %d and %d, got %d", ErrInvalidYear, MinYear, MaxYear, year)
	}
	return nil
}

// IsLeapYear applies the Gregorian rule.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

var monthLengths = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysIn returns the number of days in month (1-12) of year.
func DaysIn(year, month int) int {
	if month == 2 && IsLeapYear(year) {
		return 29
	}
	return monthLengths[month-1]
}

// WeekdayOf returns the weekday of a date, Sunday = 0.
func WeekdayOf(year, month, day int) time.Weekday {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Weekday()
}

// IsWeekend reports whether wd is Saturday or Sunday.
func IsWeekend(wd time.Weekday) bool {
	return wd == time.Sunday || wd == time.Saturday
}

// Build computes the grid for a month.
// Month must be 1-12; check user input with ValidateMonth first.
func Build(year, month int) Month {
	if month < 1 || month > 12 {
		panic(fmt.Sprintf("calendar: Build month %d out of range", month))
	}

	n := DaysIn(year, month)
	m := Month{
		Year:               year,
		Month:              month,
		DaysInMonth:        n,
		FirstWeekdayOffset: int(WeekdayOf(year, month, 1)),
		Days:               make([]Day, n),
	}
	for d := 1; d <= n; d++ {
		wd := WeekdayOf(year, month, d)
		m.Days[d-1] = Day{
			Day:       d,
			Date:      dateutil.FormatISO(year, month, d),
			Weekday:   wd,
			IsWeekend: IsWeekend(wd),
		}
	}
	return m
}

// Title renders the month heading in a locale, e.g. "Januari 2024".
func (m Month) Title(locale string) (string, error) {
	t := time.Date(m.Year, time.Month(m.Month), 1, 0, 0, 0, 0, time.UTC)
	return dateutil.Format(t, "month", locale)
}

// Package calendar converts between instants and Jalali (Solar Hijri) civil
// days, the calendar used for daily grouping, "today" boundaries and report
// dates.
package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	ptime "github.com/yaa110/go-persian-calendar"
)

// DefaultTimezone is the IANA zone whose civil day is used by default.
const DefaultTimezone = "Asia/Tehran"

// ErrInvalidDay is returned for day strings that are not a real Jalali date
// in YYYY-MM-DD form.
var ErrInvalidDay = errors.New("invalid jalali day")

// monthNames are the Persian names of the Jalali months, 1-based.
var monthNames = [...]string{
	"", "فروردین", "اردیبهشت", "خرداد",
	"تیر", "مرداد", "شهریور",
	"مهر", "آبان", "آذر",
	"دی", "بهمن", "اسفند",
}

// Day is a Jalali civil date.
type Day struct {
	Year  int
	Month int
	Day   int
}

// String formats the day as YYYY-MM-DD. Zero-padded fields make the string
// order match chronological order.
func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// MonthName returns the Persian month name, or "" for an invalid month.
func (d Day) MonthName() string {
	if d.Month < 1 || d.Month > 12 {
		return ""
	}
	return monthNames[d.Month]
}

// Long formats the day as "<day> <month name> <year>".
func (d Day) Long() string {
	return fmt.Sprintf("%d %s %d", d.Day, d.MonthName(), d.Year)
}

// Range returns the first and last instant of the day in loc.
func (d Day) Range(loc *time.Location) (time.Time, time.Time) {
	start := ptime.Date(d.Year, ptime.Month(d.Month), d.Day, 0, 0, 0, 0, loc).Time()
	// 日の終端は翌日0時の1ns前
	next := start.AddDate(0, 0, 1)
	return start, next.Add(-time.Nanosecond)
}

// ParseDay parses a YYYY-MM-DD Jalali date and rejects dates that do not
// exist, such as the 31st of Mehr or the 30th of Esfand in a common year.
func ParseDay(s string) (Day, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return Day{}, fmt.Errorf("%w: %q: want YYYY-MM-DD", ErrInvalidDay, s)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Day{}, fmt.Errorf("%w: %q: %v", ErrInvalidDay, s, err)
		}
		nums[i] = n
	}

	d := Day{Year: nums[0], Month: nums[1], Day: nums[2]}
	if d.Year < 1 || d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 31 {
		return Day{}, fmt.Errorf("%w: %q: out of range", ErrInvalidDay, s)
	}

	// 変換を往復させて存在しない日付を弾く
	g := ptime.Date(d.Year, ptime.Month(d.Month), d.Day, 12, 0, 0, 0, time.UTC).Time()
	if back := DayOf(g, time.UTC); back != d {
		return Day{}, fmt.Errorf("%w: %q: no such date", ErrInvalidDay, s)
	}
	return d, nil
}

// DayRange parses s and returns the first and last instant of that day in loc.
func DayRange(s string, loc *time.Location) (time.Time, time.Time, error) {
	d, err := ParseDay(s)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start, end := d.Range(loc)
	return start, end, nil
}

// DayOf returns the Jalali civil day of t in loc.
func DayOf(t time.Time, loc *time.Location) Day {
	pt := ptime.New(t.In(loc))
	return Day{Year: pt.Year(), Month: int(pt.Month()), Day: pt.Day()}
}

// Key returns the YYYY-MM-DD Jalali day key of t in loc.
func Key(t time.Time, loc *time.Location) string {
	return DayOf(t, loc).String()
}

// Today returns the civil day containing now.
func Today(now time.Time, loc *time.Location) Day {
	return DayOf(now, loc)
}

// FormatSlash formats t as YYYY/MM/DD in the Jalali calendar.
func FormatSlash(t time.Time, loc *time.Location) string {
	d := DayOf(t, loc)
	return fmt.Sprintf("%04d/%02d/%02d", d.Year, d.Month, d.Day)
}

// LongDate formats t as "<day> <month name> <year>".
func LongDate(t time.Time, loc *time.Location) string {
	return DayOf(t, loc).Long()
}

// LoadLocation loads the named zone. An empty name selects DefaultTimezone.
// When tz data for Asia/Tehran is missing, the fixed +03:30 offset is used;
// Iran has not observed daylight saving time since 2022.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err == nil {
		return loc, nil
	}
	if name == DefaultTimezone {
		return time.FixedZone("IRST", 3*3600+30*60), nil
	}
	return nil, fmt.Errorf("load location %q: %w", name, err)
}

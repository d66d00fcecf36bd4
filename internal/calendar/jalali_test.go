package calendar_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rasad-feed/internal/calendar"
)

func tehran(t *testing.T) *time.Location {
	t.Helper()
	loc, err := calendar.LoadLocation("")
	require.NoError(t, err)
	return loc
}

func TestDayOf(t *testing.T) {
	loc := tehran(t)

	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{name: "nowruz 1403", at: time.Date(2024, 3, 20, 12, 0, 0, 0, loc), want: "1403-01-01"},
		{name: "last day of 1402", at: time.Date(2024, 3, 19, 23, 59, 0, 0, loc), want: "1402-12-29"},
		{name: "utc instant late evening is next tehran day", at: time.Date(2024, 3, 19, 21, 0, 0, 0, time.UTC), want: "1403-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calendar.Key(tt.at, loc))
		})
	}
}

func TestParseDay(t *testing.T) {
	d, err := calendar.ParseDay("1403-01-01")
	require.NoError(t, err)
	assert.Equal(t, calendar.Day{Year: 1403, Month: 1, Day: 1}, d)
	assert.Equal(t, "1403-01-01", d.String())

	d, err = calendar.ParseDay(" 1403-7-5 ")
	require.NoError(t, err)
	assert.Equal(t, "1403-07-05", d.String())

	leap, err := calendar.ParseDay("1403-12-30")
	require.NoError(t, err)
	assert.Equal(t, 30, leap.Day)

	invalid := []string{"", "abc", "1403-01", "1403-13-01", "1403-00-10", "1403-07-31", "1403-01-32", "۱۴۰۳-۰۱-۰۱x", "2024/03/20"}
	for _, s := range invalid {
		_, err := calendar.ParseDay(s)
		assert.True(t, errors.Is(err, calendar.ErrInvalidDay), "input %q: %v", s, err)
	}
}

func TestDay_Range(t *testing.T) {
	loc := tehran(t)
	d, err := calendar.ParseDay("1403-01-01")
	require.NoError(t, err)

	start, end := d.Range(loc)
	assert.True(t, start.Equal(time.Date(2024, 3, 20, 0, 0, 0, 0, loc)), "start %v", start)
	assert.True(t, end.Equal(time.Date(2024, 3, 20, 23, 59, 59, 999999999, loc)), "end %v", end)
	assert.Equal(t, "1403-01-01", calendar.Key(start, loc))
	assert.Equal(t, "1403-01-01", calendar.Key(end, loc))
	assert.Equal(t, "1403-01-02", calendar.Key(end.Add(time.Nanosecond), loc))
}

func TestFormatting(t *testing.T) {
	loc := tehran(t)
	at := time.Date(2024, 3, 20, 9, 0, 0, 0, loc)

	assert.Equal(t, "1403/01/01", calendar.FormatSlash(at, loc))
	assert.Equal(t, "1 فروردین 1403", calendar.LongDate(at, loc))
	assert.Equal(t, "اسفند", calendar.Day{Month: 12}.MonthName())
	assert.Equal(t, "", calendar.Day{Month: 13}.MonthName())
}

func TestLoadLocation(t *testing.T) {
	loc, err := calendar.LoadLocation("UTC")
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	_, err = calendar.LoadLocation("Mars/Olympus")
	assert.Error(t, err)
}

func TestDayRange(t *testing.T) {
	loc := tehran(t)
	start, end, err := calendar.DayRange("1403-01-01", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 20, 0, 0, 0, 0, loc).Unix(), start.Unix())
	assert.Equal(t, "1403-01-01", calendar.Key(end, loc))
	assert.Equal(t, "1403-01-02", calendar.Key(end.Add(time.Nanosecond), loc))

	_, _, err = calendar.DayRange("yesterday", loc)
	assert.True(t, errors.Is(err, calendar.ErrInvalidDay))
}

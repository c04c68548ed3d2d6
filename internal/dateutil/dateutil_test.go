package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2008-07-15")
	require.NoError(t, err)
	assert.Equal(t, Date(2008, time.July, 15), d)

	_, err = ParseDate("2008/07/15")
	assert.Error(t, err)
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		n      int
		anchor int
		want   time.Time
	}{
		{"forward within year", Date(2008, time.July, 15), 3, 15, Date(2008, time.October, 15)},
		{"forward across year", Date(2008, time.July, 15), 6, 15, Date(2009, time.January, 15)},
		{"backward within year", Date(2008, time.July, 15), -3, 15, Date(2008, time.April, 15)},
		{"backward across year", Date(2008, time.February, 15), -3, 15, Date(2007, time.November, 15)},
		{"backward whole years", Date(2008, time.January, 15), -13, 15, Date(2006, time.December, 15)},
		{"anchor clamped in february", Date(2009, time.January, 15), 1, 31, Date(2009, time.February, 28)},
		{"anchor clamped in leap february", Date(2008, time.January, 15), 1, 31, Date(2008, time.February, 29)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonths(tt.start, tt.n, tt.anchor))
		})
	}
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(Date(2008, time.July, 15), Date(2008, time.July, 15)))
	assert.Equal(t, 1, DaysBetween(Date(2008, time.July, 15), Date(2008, time.July, 16)))
	// Half-open [2008-07-15, 2009-01-15) spans 184 days.
	assert.Equal(t, 184, DaysBetween(Date(2008, time.July, 15), Date(2009, time.January, 15)))
	assert.Equal(t, 0, DaysBetween(Date(2008, time.July, 16), Date(2008, time.July, 15)))
}

func TestRangeClip(t *testing.T) {
	bounds := Range{Start: Date(2007, time.June, 1), End: Date(2011, time.September, 1)}

	r := Range{Start: Date(2006, time.January, 15), End: Date(2007, time.July, 15)}.Clip(bounds)
	assert.Equal(t, Date(2007, time.June, 1), r.Start)
	assert.Equal(t, Date(2007, time.July, 15), r.End)

	// Entirely before the bounds collapses to an empty range.
	r = Range{Start: Date(2005, time.January, 1), End: Date(2006, time.January, 1)}.Clip(bounds)
	assert.True(t, r.Empty())
	assert.Equal(t, 0, r.Days())
}

func TestRangeEachDay(t *testing.T) {
	r := Range{Start: Date(2010, time.June, 14), End: Date(2010, time.June, 17)}
	var got []string
	r.EachDay(func(d time.Time) { got = append(got, FormatDate(d)) })
	assert.Equal(t, []string{"2010-06-14", "2010-06-15", "2010-06-16"}, got)
}

func TestMonthsBetween(t *testing.T) {
	b := Date(2008, time.July, 15)
	assert.Equal(t, 0, MonthsBetween(b, Date(2008, time.August, 14)))
	assert.Equal(t, 1, MonthsBetween(b, Date(2008, time.August, 15)))
	assert.Equal(t, 12, MonthsBetween(b, Date(2009, time.July, 15)))
	assert.Equal(t, -1, MonthsBetween(b, Date(2008, time.June, 14)))
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 29, DaysInMonth(2008, time.February))
	assert.Equal(t, 28, DaysInMonth(2009, time.February))
	assert.Equal(t, 31, DaysInMonth(2010, time.December))
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2007-06", MonthKey(Date(2007, time.June, 1)))
}

package cohort

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sunlight-cohort/internal/dateutil"
)

func studyWindow() dateutil.Range {
	return dateutil.Range{
		Start: dateutil.Date(2007, time.June, 1),
		End:   dateutil.Date(2011, time.September, 1),
	}
}

func TestWindows_BirthAnchored(t *testing.T) {
	birth := dateutil.Date(2008, time.July, 15)
	windows := Windows(birth, DefaultBirthDayAnchor, studyWindow())
	require.Len(t, windows, 7)

	byName := make(map[string]dateutil.Range)
	for _, w := range windows {
		byName[w.Name] = w.Range
	}

	assert.Equal(t, dateutil.Date(2008, time.April, 15), byName["pre3"].Start)
	assert.Equal(t, birth, byName["pre3"].End)
	assert.Equal(t, birth, byName["m0_6"].Start)
	assert.Equal(t, dateutil.Date(2009, time.January, 15), byName["m0_6"].End)
	assert.Equal(t, dateutil.Date(2007, time.October, 15), byName["pre1"].Start)
	assert.Equal(t, dateutil.Date(2010, time.July, 15), byName["m24_36"].Start)
	assert.Equal(t, dateutil.Date(2011, time.July, 15), byName["m24_36"].End)
}

func TestWindows_TileWithoutGapsOrOverlap(t *testing.T) {
	birth := dateutil.Date(2009, time.January, 31) // anchor clamping exercises month ends
	wide := dateutil.Range{
		Start: dateutil.Date(2000, time.January, 1),
		End:   dateutil.Date(2020, time.January, 1),
	}
	windows := Windows(birth, 31, wide)

	for i := 1; i < len(windows); i++ {
		assert.Equal(t, windows[i-1].Range.End, windows[i].Range.Start,
			"%s and %s must be contiguous", windows[i-1].Name, windows[i].Name)
	}
	assert.True(t, windows[3].Range.Start.Equal(birth))
}

func TestWindows_ClippedToStudyPeriod(t *testing.T) {
	// Born late enough that m24_36 starts after the study window ends.
	birth := dateutil.Date(2011, time.June, 15)
	windows := Windows(birth, DefaultBirthDayAnchor, studyWindow())

	byName := make(map[string]dateutil.Range)
	for _, w := range windows {
		byName[w.Name] = w.Range
	}

	assert.True(t, byName["m24_36"].Empty())
	assert.True(t, byName["m12_24"].Empty())
	// m0_6 is cut short at the window end.
	assert.Equal(t, birth, byName["m0_6"].Start)
	assert.Equal(t, studyWindow().End, byName["m0_6"].End)
}

func TestAgeMonths(t *testing.T) {
	birth := dateutil.Date(2008, time.July, 15)
	assert.Equal(t, 0, AgeMonths(birth, dateutil.Date(2008, time.August, 14)))
	assert.Equal(t, 1, AgeMonths(birth, dateutil.Date(2008, time.August, 15)))
	assert.Equal(t, 24, AgeMonths(birth, dateutil.Date(2010, time.July, 15)))
}

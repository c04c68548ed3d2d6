package cohort

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sunlight-cohort/internal/dateutil"
)

func writeTemp(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

const panelHeader = "child_id,wave,survey_year,survey_month,resid_area,birth_year,birth_month,sex,height_cm,weight_kg\n"

func TestLoadPanel(t *testing.T) {
	csv := panelHeader +
		"3,1,2008,9,서울특별시/강동구,2008,7,1,999,999\n" + // measurements not yet taken
		"3,2,2010,9,서울특별시/강동구,2008,7,1,85.2,12.1\n" +
		"1,1,2008,9,,9999,99,2,70.0,8.5\n" // birth unobserved at wave 1

	p, err := LoadPanel(writeTemp(t, "panel.csv", csv), DefaultSentinel)
	require.NoError(t, err)
	require.Len(t, p.Observations, 3)

	// Sorted by (child, wave).
	assert.Equal(t, 1, p.Observations[0].ChildID)
	assert.Equal(t, 3, p.Observations[1].ChildID)
	assert.Equal(t, 1, p.Observations[1].Wave)

	first := p.Observations[1]
	assert.Equal(t, "서울특별시/강동구", first.RegionKey)
	assert.Equal(t, 2008, first.BirthYear)
	assert.Equal(t, 7, first.BirthMonth)
	assert.False(t, first.HasHeight)
	assert.False(t, first.HasWeight)

	second := p.Observations[2]
	assert.True(t, second.HasHeight)
	assert.Equal(t, 85.2, second.HeightCM)

	missing := p.Observations[0]
	assert.Equal(t, "", missing.RegionKey)
	assert.Equal(t, 0, missing.BirthYear)
	assert.Equal(t, 0, missing.BirthMonth)
}

func TestLoadPanel_CodedColumnsKeepRealYears(t *testing.T) {
	// Calendar years exceed the measurement sentinel and must survive it;
	// only the codebook placeholders (9999/99/9) mean unobserved.
	csv := panelHeader +
		"2,1,2008,9,서울특별시/강동구,2008,7,1,85.2,12.1\n" +
		"4,1,9999,99,서울특별시/강동구,9999,99,9,85.2,12.1\n"

	p, err := LoadPanel(writeTemp(t, "panel.csv", csv), DefaultSentinel)
	require.NoError(t, err)
	require.Len(t, p.Observations, 2)

	real := p.Observations[0]
	assert.Equal(t, 2008, real.SurveyYear)
	assert.Equal(t, 2008, real.BirthYear)
	assert.Equal(t, 9, real.SurveyMonth)
	assert.Equal(t, 1, real.Sex)

	coded := p.Observations[1]
	assert.Equal(t, 0, coded.SurveyYear)
	assert.Equal(t, 0, coded.SurveyMonth)
	assert.Equal(t, 0, coded.BirthYear)
	assert.Equal(t, 0, coded.BirthMonth)
	assert.Equal(t, 0, coded.Sex)

	children := p.Children(DefaultBirthDayAnchor)
	require.Len(t, children, 1)
	assert.Equal(t, 2, children[0].ID)
	assert.Equal(t, dateutil.Date(2008, time.July, 15), children[0].BirthDate)
}

func TestLoadPanel_DuplicateWaveFails(t *testing.T) {
	csv := panelHeader +
		"3,1,2008,9,서울특별시/강동구,2008,7,1,85.2,12.1\n" +
		"3,1,2008,10,서울특별시/강동구,2008,7,1,85.0,12.0\n"

	_, err := LoadPanel(writeTemp(t, "panel.csv", csv), DefaultSentinel)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3@wave1")
}

func TestChildren_FirstNonMissingAcrossWaves(t *testing.T) {
	csv := panelHeader +
		"5,1,2008,9,,9999,99,9,70.0,8.5\n" + // wave 1: nothing observed
		"5,2,2010,9,경기도/성남시/분당구,2008,7,2,85.2,12.1\n" +
		"5,3,2012,9,서울특별시/강동구,2008,8,2,95.0,14.0\n" + // later conflicting month loses
		"6,1,2008,9,서울특별시/강동구,9999,99,1,70.0,8.5\n" // never observed: skipped

	p, err := LoadPanel(writeTemp(t, "panel.csv", csv), DefaultSentinel)
	require.NoError(t, err)

	children := p.Children(DefaultBirthDayAnchor)
	require.Len(t, children, 1)

	c := children[0]
	assert.Equal(t, 5, c.ID)
	assert.Equal(t, dateutil.Date(2008, time.July, 15), c.BirthDate)
	assert.Equal(t, 2, c.Sex)
	assert.Equal(t, "경기도/성남시/분당구", c.RegionKey)
}

func TestFirstNonMissing(t *testing.T) {
	got := FirstNonMissing(Optional[int]{}, Some(7), Some(9))
	assert.True(t, got.Valid)
	assert.Equal(t, 7, got.Value)

	assert.False(t, FirstNonMissing(Optional[int]{}, Optional[int]{}).Valid)
}

func TestBirthDate_AnchorClampedToMonth(t *testing.T) {
	assert.Equal(t, dateutil.Date(2009, time.February, 28), BirthDate(2009, 2, 31))
	assert.Equal(t, dateutil.Date(2008, time.February, 29), BirthDate(2008, 2, 31))
	assert.Equal(t, dateutil.Date(2008, time.July, 15), BirthDate(2008, 7, 15))
}

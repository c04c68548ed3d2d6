package tabio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/korean"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestReadCSV(t *testing.T) {
	path := writeTemp(t, "in.csv", []byte("station_id,date,hours\n108,2007-06-01,7.5\n"))

	tbl, err := ReadCSV(path, Schema{Required: []string{"station_id", "date", "hours"}})
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "108", tbl.Field(tbl.Rows[0], "station_id"))
	assert.Equal(t, "7.5", tbl.Field(tbl.Rows[0], "hours"))
	assert.Equal(t, "", tbl.Field(tbl.Rows[0], "nope"))
}

func TestReadCSV_MissingColumns(t *testing.T) {
	path := writeTemp(t, "in.csv", []byte("station_id,date\n108,2007-06-01\n"))

	_, err := ReadCSV(path, Schema{Required: []string{"station_id", "date", "hours"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hours")
	assert.Contains(t, err.Error(), "in.csv")
}

func TestReadCSV_BOM(t *testing.T) {
	path := writeTemp(t, "bom.csv", append([]byte{0xEF, 0xBB, 0xBF}, []byte("a,b\n1,2\n")...))

	tbl, err := ReadCSV(path, Schema{Required: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, "1", tbl.Field(tbl.Rows[0], "a"))
}

func TestReadCSV_EUCKR(t *testing.T) {
	enc, err := korean.EUCKR.NewEncoder().Bytes([]byte("지점,일시\n108,2007-06-01\n"))
	require.NoError(t, err)
	path := writeTemp(t, "kr.csv", enc)

	tbl, err := ReadCSV(path, Schema{Required: []string{"지점", "일시"}})
	require.NoError(t, err)
	assert.Equal(t, "108", tbl.Field(tbl.Rows[0], "지점"))
}

func TestWriteCSV_Deterministic(t *testing.T) {
	dir := t.TempDir()
	p1 := filepath.Join(dir, "a.csv")
	p2 := filepath.Join(dir, "b.csv")

	header := []string{"region_cd", "date", "sun_hr"}
	rows := [][]string{{"11010", "2007-06-01", "7.5"}, {"11010", "2007-06-02", ""}}

	require.NoError(t, WriteCSV(p1, header, rows))
	require.NoError(t, WriteCSV(p2, header, rows))

	b1, err := os.ReadFile(p1)
	require.NoError(t, err)
	b2, err := os.ReadFile(p2)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
	assert.Equal(t, "region_cd,date,sun_hr\n11010,2007-06-01,7.5\n11010,2007-06-02,\n", string(b1))
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "경상북도/포항시/남구", NormalizeKey(" 경상북도/포항시 /남구 "))
	assert.Equal(t, "", NormalizeKey("   "))
}

func TestParseFloatSentinel(t *testing.T) {
	v, ok := ParseFloatSentinel("17.3", 999)
	assert.True(t, ok)
	assert.Equal(t, 17.3, v)

	_, ok = ParseFloatSentinel("9999", 999)
	assert.False(t, ok)

	_, ok = ParseFloatSentinel("", 999)
	assert.False(t, ok)

	_, ok = ParseFloatSentinel("abc", 999)
	assert.False(t, ok)
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "7.5", FormatFloat(7.5))
	assert.Equal(t, "90", FormatFloat(90.0))
}

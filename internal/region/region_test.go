package region

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildKey(t *testing.T) {
	tests := []struct {
		name string
		code string
		nm   string
		want string
	}{
		{"simple district", "11010", "강동구", "서울특별시/강동구"},
		{"city gu compound split", "37010", "포항시남구", "경상북도/포항시/남구"},
		{"whitespace removed", "11010", "강동 구", "서울특별시/강동구"},
		{"rename crosswalk danjin", "34080", "당진군", "충청남도/당진시"},
		{"rename crosswalk yeoju", "31210", "여주군", "경기도/여주시"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildKey(tt.code, tt.nm)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildKey_UnmappedSido(t *testing.T) {
	_, err := BuildKey("99010", "어디구")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "99")

	// Short codes pad to a zero prefix, which no province maps to.
	_, err = BuildKey("1010", "강동구")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "01")
}

func TestCheckUnique(t *testing.T) {
	regions := []Region{
		{Code: "11010", Key: "서울특별시/중구"},
		{Code: "21010", Key: "부산광역시/중구"},
	}
	assert.NoError(t, CheckUnique(regions))

	regions = append(regions, Region{Code: "11011", Key: "서울특별시/중구"})
	err := CheckUnique(regions)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "서울특별시/중구")
	assert.Contains(t, err.Error(), "11010")
	assert.Contains(t, err.Error(), "11011")
}

func TestCentersRoundTrip(t *testing.T) {
	regions := []Region{
		{Code: "11010", Key: "서울특별시/강동구", CentroidX: 958000.5, CentroidY: 1952000.25, RepX: 958100, RepY: 1952100},
		{Code: "37010", Key: "경상북도/포항시/남구", CentroidX: 1100000, CentroidY: 1750000, RepX: 1100050, RepY: 1750050},
	}
	path := filepath.Join(t.TempDir(), "centers.csv")
	require.NoError(t, WriteCenters(path, regions))

	got, err := ReadCenters(path)
	require.NoError(t, err)
	assert.Equal(t, regions, got)
}

func TestReadCenters_DuplicateKeyFails(t *testing.T) {
	regions := []Region{
		{Code: "11010", Key: "서울특별시/중구", CentroidX: 1, CentroidY: 1, RepX: 1, RepY: 1},
		{Code: "21010", Key: "서울특별시/중구", CentroidX: 2, CentroidY: 2, RepX: 2, RepY: 2},
	}
	path := filepath.Join(t.TempDir(), "centers.csv")
	require.NoError(t, WriteCenters(path, regions))

	_, err := ReadCenters(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not unique")
}

func TestByKey(t *testing.T) {
	regions := []Region{{Code: "11010", Key: "서울특별시/강동구"}}
	m := ByKey(regions)
	r, ok := m["서울특별시/강동구"]
	assert.True(t, ok)
	assert.Equal(t, "11010", r.Code)
}

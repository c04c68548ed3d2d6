// Package region models administrative districts (sigungu) and resolves each
// district polygon to a centroid and a representative point in UTM-K meters.
package region

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/sunlight-cohort/internal/tabio"
)

// Region is one administrative district with its two representative
// coordinates. Coordinates are projected UTM-K meters.
type Region struct {
	Code      string // 5-digit sigungu code
	Key       string // slash-delimited composite key, whitespace-normalized
	CentroidX float64
	CentroidY float64
	RepX      float64
	RepY      float64
}

// sidoNames maps the 2-digit boundary-file prefix to province/city names,
// matching the survey panel's labeling convention.
var sidoNames = map[string]string{
	"11": "서울특별시",
	"21": "부산광역시",
	"22": "대구광역시",
	"23": "인천광역시",
	"24": "광주광역시",
	"25": "대전광역시",
	"26": "울산광역시",
	"31": "경기도",
	"32": "강원도",
	"33": "충청북도",
	"34": "충청남도",
	"35": "전라북도",
	"36": "전라남도",
	"37": "경상북도",
	"38": "경상남도",
	"39": "제주특별자치도",
}

// keyRenames is a 1-to-1 crosswalk from boundary-file labels to the survey
// panel's labels for districts renamed between vintages.
var keyRenames = map[string]string{
	"충청남도/당진군": "충청남도/당진시",
	"경기도/여주군":  "경기도/여주시",
}

// cityGuRe splits compound names like 포항시남구 into city and district parts.
var cityGuRe = regexp.MustCompile(`^(.*?시)(.*구)$`)

// BuildKey constructs the composite merge key for a district: the province
// name and district name joined with slashes, with 시+구 compounds split into
// separate path elements and the rename crosswalk applied.
func BuildKey(code, name string) (string, error) {
	code = padCode(code)
	name = tabio.NormalizeKey(name)

	sido, ok := sidoNames[code[:2]]
	if !ok {
		return "", eris.Errorf("region: unmapped sido prefix %q for code %s", code[:2], code)
	}

	var key string
	if m := cityGuRe.FindStringSubmatch(name); m != nil {
		key = fmt.Sprintf("%s/%s/%s", sido, m[1], m[2])
	} else {
		key = fmt.Sprintf("%s/%s", sido, name)
	}
	if renamed, ok := keyRenames[key]; ok {
		key = renamed
	}
	return key, nil
}

func padCode(code string) string {
	code = strings.TrimSpace(code)
	for len(code) < 5 {
		code = "0" + code
	}
	return code
}

// CheckUnique verifies that composite keys are unique across regions; names
// like 중구 exist in several provinces, so a collision means the key scheme
// broke. Fails itemizing the duplicates.
func CheckUnique(regions []Region) error {
	byKey := make(map[string][]string)
	for _, r := range regions {
		byKey[r.Key] = append(byKey[r.Key], r.Code)
	}
	var dups []string
	for key, codes := range byKey {
		if len(codes) > 1 {
			sort.Strings(codes)
			dups = append(dups, fmt.Sprintf("%s(%s)", key, strings.Join(codes, ",")))
		}
	}
	if len(dups) > 0 {
		sort.Strings(dups)
		return eris.Errorf("region: composite key not unique: %s", strings.Join(dups, "; "))
	}
	return nil
}

// ByKey indexes regions by composite key.
func ByKey(regions []Region) map[string]Region {
	m := make(map[string]Region, len(regions))
	for _, r := range regions {
		m[r.Key] = r
	}
	return m
}

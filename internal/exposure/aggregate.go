// Package exposure aggregates per-region daily sunlight over each child's
// birth-anchored windows and assembles the final analysis table.
package exposure

import (
	"go.uber.org/zap"

	"github.com/sells-group/sunlight-cohort/internal/cohort"
	"github.com/sells-group/sunlight-cohort/internal/quality"
	"github.com/sells-group/sunlight-cohort/internal/sunlight"
)

// WindowExposure is one child's summed exposure for one window, per variant.
type WindowExposure struct {
	Name     string
	Centroid float64
	Rep      float64
	Days     int // days of the window inside the series range
}

// ChildExposure is one row of the per-child exposure table. When the child's
// baseline region matched no region in the series, Matched is false and the
// exposure columns stay empty downstream.
type ChildExposure struct {
	ChildID    int
	RegionCode string
	RegionKey  string
	Matched    bool
	Windows    []WindowExposure
}

// Aggregate computes birth-anchored window exposures for every child. Each
// window sum is one prefix-sum subtraction, so cost is O(children × windows)
// regardless of window length. Unmatched baseline regions are recorded on the
// quality side-channel, never dropped silently.
func Aggregate(children []cohort.Child, s *sunlight.Series, anchorDay int, reporter *quality.Reporter) []ChildExposure {
	out := make([]ChildExposure, 0, len(children))
	var unmatched int

	for _, child := range children {
		row := ChildExposure{ChildID: child.ID, RegionKey: child.RegionKey}

		code, ok := s.CodeForKey(child.RegionKey)
		if !ok {
			unmatched++
			if reporter != nil {
				reporter.Warn(quality.Warning{
					Kind:   quality.KindUnmatchedRegion,
					Region: child.RegionKey,
				})
			}
			out = append(out, row)
			continue
		}
		row.RegionCode = code
		row.Matched = true

		for _, w := range cohort.Windows(child.BirthDate, anchorDay, s.Window()) {
			cent, _ := s.Sum(code, sunlight.VariantCentroid, w.Range)
			rep, _ := s.Sum(code, sunlight.VariantRep, w.Range)
			row.Windows = append(row.Windows, WindowExposure{
				Name:     w.Name,
				Centroid: cent,
				Rep:      rep,
				Days:     w.Range.Days(),
			})
		}
		out = append(out, row)
	}

	zap.L().Info("child exposures aggregated",
		zap.Int("children", len(children)),
		zap.Int("unmatched_regions", unmatched),
	)
	return out
}

// Package assign matches every region to its nearest active weather station,
// day by day. The study window is partitioned into changepoint ranges (maximal
// intervals with a constant active-station set) and the nearest-station search
// runs once per region per range instead of once per region per day.
package assign

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/sunlight-cohort/internal/dateutil"
	"github.com/sells-group/sunlight-cohort/internal/geo"
	"github.com/sells-group/sunlight-cohort/internal/quality"
	"github.com/sells-group/sunlight-cohort/internal/region"
	"github.com/sells-group/sunlight-cohort/internal/station"
)

// StationDist is one nearest-station result. OK is false when no station was
// active, in which case the missing assignment propagates downstream instead
// of defaulting to a stale station.
type StationDist struct {
	StationID int
	Distance  float64
	OK        bool
}

// RangeAssignment is the nearest-station assignment for one region over one
// changepoint range, for both coordinate variants.
type RangeAssignment struct {
	Region   region.Region
	Range    dateutil.Range
	Centroid StationDist
	Rep      StationDist
}

// Options configures the matcher.
type Options struct {
	Concurrency int // parallel region workers per changepoint range
}

// Match computes nearest-station assignments for all regions across the study
// window. The per-region search within a changepoint range is a pure function
// of the region coordinate and the active station set, so regions are fanned
// out across workers. Results are ordered by (region code, range start).
func Match(ctx context.Context, regions []region.Region, ix *station.Index, opts Options, reporter *quality.Reporter) ([]RangeAssignment, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.NumCPU()
	}

	ranges := ix.Changepoints()
	log := zap.L().With(zap.String("component", "assign.matcher"))
	log.Info("matching regions to stations",
		zap.Int("regions", len(regions)),
		zap.Int("changepoint_ranges", len(ranges)),
		zap.Int("concurrency", opts.Concurrency),
	)

	out := make([]RangeAssignment, 0, len(regions)*len(ranges))
	for _, r := range ranges {
		candidates := ix.ActiveStations(r.Start)

		if len(candidates) == 0 {
			for _, reg := range regions {
				out = append(out, RangeAssignment{Region: reg, Range: r})
				reporter.Warn(quality.Warning{
					Kind:   quality.KindNoStation,
					Region: reg.Code,
					Date:   dateutil.FormatDate(r.Start),
					Detail: fmt.Sprintf("no active station for %d days", r.Days()),
				})
			}
			continue
		}

		results := make([]RangeAssignment, len(regions))
		g, _ := errgroup.WithContext(ctx)
		g.SetLimit(opts.Concurrency)
		for i, reg := range regions {
			i, reg := i, reg
			g.Go(func() error {
				results[i] = RangeAssignment{
					Region:   reg,
					Range:    r,
					Centroid: nearest(reg.CentroidX, reg.CentroidY, candidates),
					Rep:      nearest(reg.RepX, reg.RepY, candidates),
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		out = append(out, results...)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Region.Code != out[j].Region.Code {
			return out[i].Region.Code < out[j].Region.Code
		}
		return out[i].Range.Start.Before(out[j].Range.Start)
	})
	return out, nil
}

// nearest returns the closest candidate by Euclidean distance in meters.
// Candidates arrive sorted by station id, so a strict comparison resolves
// exact distance ties to the lowest id.
func nearest(x, y float64, candidates []station.Active) StationDist {
	best := StationDist{}
	for _, c := range candidates {
		d := geo.Distance(x, y, c.X, c.Y)
		if !best.OK || d < best.Distance {
			best = StationDist{StationID: c.StationID, Distance: d, OK: true}
		}
	}
	return best
}

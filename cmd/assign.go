package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/sunlight-cohort/internal/assign"
	"github.com/sells-group/sunlight-cohort/internal/quality"
	"github.com/sells-group/sunlight-cohort/internal/region"
	"github.com/sells-group/sunlight-cohort/internal/station"
	"github.com/sells-group/sunlight-cohort/internal/sunlight"
)

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Match regions to their nearest active station and build daily sunlight tables",
	Long: `Builds the station validity index from observatory metadata, matches every
region to its nearest active station per changepoint range (centroid and
representative-point variants), joins the daily sunshine records, and writes
the daily assignment, interval, region daily sunlight, and monthly tables plus
a data-quality report.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		window, err := cfg.Window.Range()
		if err != nil {
			return err
		}
		centersPath := pathFlag(cmd, "centers", filepath.Join(cfg.Paths.OutDir, "region_centers.csv"))
		metaPath := pathFlag(cmd, "station-meta", cfg.Paths.StationMeta)
		sunPath := pathFlag(cmd, "sunlight", cfg.Paths.Sunlight)
		outDir := pathFlag(cmd, "out-dir", cfg.Paths.OutDir)
		if metaPath == "" || sunPath == "" {
			return eris.New("assign: station metadata and sunshine tables are required")
		}

		log := zap.L().With(zap.String("command", "assign"))

		regions, err := region.ReadCenters(centersPath)
		if err != nil {
			return eris.Wrap(err, "assign")
		}
		segments, err := station.LoadMeta(metaPath, window)
		if err != nil {
			return eris.Wrap(err, "assign")
		}
		ix, err := station.BuildIndex(segments, window)
		if err != nil {
			return eris.Wrap(err, "assign")
		}
		records, err := sunlight.LoadDaily(sunPath, window)
		if err != nil {
			return eris.Wrap(err, "assign")
		}

		log.Info("matching regions to stations",
			zap.Int("regions", len(regions)),
			zap.Int("stations", ix.StationCount()),
			zap.Int("changepoint_ranges", len(ix.Changepoints())),
		)

		reporter := quality.NewReporter("assign")
		reporter.Assume("station_candidacy", "validity segments only; measurement gaps surface as warnings")
		reporter.Assume("match_concurrency", strconv.Itoa(cfg.Match.Concurrency))

		assigns, err := assign.Match(cmd.Context(), regions, ix,
			assign.Options{Concurrency: cfg.Match.Concurrency}, reporter)
		if err != nil {
			return eris.Wrap(err, "assign")
		}
		series := sunlight.Build(assigns, records, window, reporter)

		outputs := []struct {
			name  string
			write func(string) error
		}{
			{"station_daily.csv", func(p string) error { return assign.WriteDaily(p, assigns) }},
			{"station_intervals.csv", func(p string) error {
				return assign.WriteIntervals(p, assign.Intervals(assigns))
			}},
			{"region_daily_sunlight.csv", func(p string) error { return sunlight.WriteDaily(p, series) }},
			{"region_monthly_sunlight.csv", func(p string) error { return sunlight.WriteMonthly(p, series) }},
			{"assign_quality.yaml", reporter.WriteYAML},
		}
		for _, o := range outputs {
			if err := o.write(filepath.Join(outDir, o.name)); err != nil {
				return eris.Wrapf(err, "assign: write %s", o.name)
			}
		}

		fmt.Printf("assigned %d regions over %d days (%d warnings) into %s\n",
			len(regions), window.Days(), reporter.Count(), outDir)
		return nil
	},
}

func init() {
	assignCmd.Flags().String("centers", "", "region centers CSV (default: <out_dir>/region_centers.csv)")
	assignCmd.Flags().String("station-meta", "", "observatory metadata CSV")
	assignCmd.Flags().String("sunlight", "", "daily sunshine records CSV")
	assignCmd.Flags().String("out-dir", "", "output directory")
	rootCmd.AddCommand(assignCmd)
}

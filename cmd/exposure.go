package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/sunlight-cohort/internal/cohort"
	"github.com/sells-group/sunlight-cohort/internal/exposure"
	"github.com/sells-group/sunlight-cohort/internal/quality"
	"github.com/sells-group/sunlight-cohort/internal/sunlight"
)

var exposureCmd = &cobra.Command{
	Use:   "exposure",
	Short: "Aggregate birth-anchored window exposures per child",
	Long: `Loads the survey panel and the region daily sunlight table, derives each
child's birth date and baseline region, and sums sunlight exposure over the
three prenatal and four postnatal windows for both coordinate variants.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		panelPath := pathFlag(cmd, "panel", cfg.Paths.Panel)
		dailyPath := pathFlag(cmd, "daily", filepath.Join(cfg.Paths.OutDir, "region_daily_sunlight.csv"))
		outDir := pathFlag(cmd, "out-dir", cfg.Paths.OutDir)
		if panelPath == "" {
			return eris.New("exposure: no survey panel given (--panel or paths.panel)")
		}

		log := zap.L().With(zap.String("command", "exposure"))

		panel, err := cohort.LoadPanel(panelPath, cfg.Cohort.Sentinel)
		if err != nil {
			return eris.Wrap(err, "exposure")
		}
		series, err := sunlight.ReadDaily(dailyPath)
		if err != nil {
			return eris.Wrap(err, "exposure")
		}

		anchor := cfg.Cohort.BirthDayAnchor
		children := panel.Children(anchor)
		log.Info("aggregating window exposures",
			zap.Int("children", len(children)),
			zap.Int("regions", len(series.Codes())),
		)

		reporter := quality.NewReporter("exposure")
		reporter.Assume("birth_day_anchor", strconv.Itoa(anchor))

		rows := exposure.Aggregate(children, series, anchor, reporter)

		if err := exposure.WriteExposure(filepath.Join(outDir, "child_exposure.csv"), rows); err != nil {
			return eris.Wrap(err, "exposure")
		}
		if err := reporter.WriteYAML(filepath.Join(outDir, "exposure_quality.yaml")); err != nil {
			return eris.Wrap(err, "exposure")
		}

		fmt.Printf("wrote exposures for %d children (%d warnings) into %s\n",
			len(rows), reporter.Count(), outDir)
		return nil
	},
}

func init() {
	exposureCmd.Flags().String("panel", "", "child survey panel CSV")
	exposureCmd.Flags().String("daily", "", "region daily sunlight CSV (default: <out_dir>/region_daily_sunlight.csv)")
	exposureCmd.Flags().String("out-dir", "", "output directory")
	rootCmd.AddCommand(exposureCmd)
}

package main

import (
	"fmt"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/sunlight-cohort/internal/cohort"
	"github.com/sells-group/sunlight-cohort/internal/exposure"
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Join panel, exposures, and BMI indicators into the analysis table",
	Long: `Joins every survey panel observation with its child's window exposures and
derives BMI with growth-reference overweight/obese indicators, producing the
final analysis-ready CSV. Missing measurements and unmatched children keep
empty cells; no observation is dropped.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		panelPath := pathFlag(cmd, "panel", cfg.Paths.Panel)
		exposurePath := pathFlag(cmd, "exposure", filepath.Join(cfg.Paths.OutDir, "child_exposure.csv"))
		cutoffsPath := pathFlag(cmd, "cutoffs", cfg.Paths.Cutoffs)
		out := pathFlag(cmd, "out", filepath.Join(cfg.Paths.OutDir, "analysis.csv"))
		if panelPath == "" || cutoffsPath == "" {
			return eris.New("merge: survey panel and growth-reference cutoffs are required")
		}

		log := zap.L().With(zap.String("command", "merge"))

		panel, err := cohort.LoadPanel(panelPath, cfg.Cohort.Sentinel)
		if err != nil {
			return eris.Wrap(err, "merge")
		}
		exposures, err := exposure.ReadExposure(exposurePath)
		if err != nil {
			return eris.Wrap(err, "merge")
		}
		cutoffs, err := cohort.LoadCutoffs(cutoffsPath)
		if err != nil {
			return eris.Wrap(err, "merge")
		}

		log.Info("merging analysis table",
			zap.Int("observations", len(panel.Observations)),
			zap.Int("children_with_exposure", len(exposures)),
			zap.Int("cutoff_cells", len(cutoffs)),
		)

		rows := exposure.Merge(panel, exposures, cutoffs, cfg.Cohort.BirthDayAnchor)
		if err := exposure.WriteMerged(out, rows); err != nil {
			return eris.Wrap(err, "merge")
		}

		fmt.Printf("wrote %d analysis rows to %s\n", len(rows), out)
		return nil
	},
}

func init() {
	mergeCmd.Flags().String("panel", "", "child survey panel CSV")
	mergeCmd.Flags().String("exposure", "", "per-child exposure CSV (default: <out_dir>/child_exposure.csv)")
	mergeCmd.Flags().String("cutoffs", "", "growth-reference cutoff workbook (.xlsx)")
	mergeCmd.Flags().String("out", "", "output CSV (default: <out_dir>/analysis.csv)")
	rootCmd.AddCommand(mergeCmd)
}

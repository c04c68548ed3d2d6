package main

import (
	"fmt"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/sunlight-cohort/internal/region"
)

var centersCmd = &cobra.Command{
	Use:   "centers",
	Short: "Build the region centers table from the district boundary shapefile",
	Long: `Reads the administrative district boundary shapefile, builds the composite
region key for each district, and writes the centers table with both the area
centroid and the guaranteed-interior representative point in UTM-K meters.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		boundary := pathFlag(cmd, "boundary", cfg.Paths.Boundary)
		if boundary == "" {
			return eris.New("centers: no boundary shapefile given (--boundary or paths.boundary)")
		}
		out := pathFlag(cmd, "out", filepath.Join(cfg.Paths.OutDir, "region_centers.csv"))

		log := zap.L().With(zap.String("command", "centers"))
		log.Info("loading boundary shapefile", zap.String("path", boundary))

		regions, err := region.LoadShapefile(boundary)
		if err != nil {
			return eris.Wrap(err, "centers")
		}
		if err := region.WriteCenters(out, regions); err != nil {
			return eris.Wrap(err, "centers")
		}

		fmt.Printf("wrote %d region centers to %s\n", len(regions), out)
		return nil
	},
}

func init() {
	centersCmd.Flags().String("boundary", "", "district boundary shapefile (.shp)")
	centersCmd.Flags().String("out", "", "output CSV path (default: <out_dir>/region_centers.csv)")
	rootCmd.AddCommand(centersCmd)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/sunlight-cohort/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "sunlight-cohort",
	Short: "Child cohort sunlight exposure pipeline",
	Long: "Links child health survey records to local daily sunlight via weather-station\n" +
		"validity matching, builds birth-anchored exposure windows, and emits the merged\n" +
		"analysis table with BMI indicators.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// pathFlag resolves a flag value, falling back to the configured path.
func pathFlag(cmd *cobra.Command, name, fallback string) string {
	v, _ := cmd.Flags().GetString(name)
	if v != "" {
		return v
	}
	return fallback
}

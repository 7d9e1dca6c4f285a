package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dxpulse/plct-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "plct-cli",
	Short: "PLCT digital transformation scoring pipeline",
	Long:  "Extracts digital transformation initiatives from corporate annual reports via Claude, validates PLCT scoring, and persists the results for analysis.",
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

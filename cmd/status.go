package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/dxpulse/plct-cli/internal/ledger"
)

type statusReport struct {
	Companies      int64    `json:"companies"`
	Initiatives    int64    `json:"initiatives"`
	ProcessedFiles []string `json:"processed_files"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show store counts and the processed-file ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		counts, err := st.GetCounts(ctx)
		if err != nil {
			return err
		}

		processed, err := ledger.New(cfg.Reports.LedgerPath).Processed()
		if err != nil {
			return err
		}

		report := statusReport{
			Companies:      counts.Companies,
			Initiatives:    counts.Initiatives,
			ProcessedFiles: processed,
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/dxpulse/plct-cli/internal/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export companies and initiatives to an XLSX workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		return export.New(st).WriteWorkbook(ctx, exportOut)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "plct_results.xlsx", "output workbook path")
	rootCmd.AddCommand(exportCmd)
}

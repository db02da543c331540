package bplog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zzanghsi8873/bplog/internal/service"
)

var (
	exportFormat string
	exportOut    string
	importFormat string
	importIn     string
	importMode   string
	importDryRun bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export readings (json or csv)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			var w io.Writer = cmd.OutOrStdout()
			if strings.TrimSpace(exportOut) != "" {
				f, err := os.Create(exportOut)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				defer f.Close()
				w = f
			}
			n, err := service.ExportReadings(cmd.Context(), s.store, s.userID, exportFormat, w)
			if err != nil {
				return err
			}
			if strings.TrimSpace(exportOut) != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d readings to %s\n", n, exportOut)
			}
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import readings (json or csv)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(importIn) == "" {
			return fmt.Errorf("--in is required")
		}
		format := importFormat
		if strings.TrimSpace(format) == "" && strings.HasSuffix(strings.ToLower(importIn), ".csv") {
			format = service.FormatCSV
		}
		return withSession(func(s *session) error {
			f, err := os.Open(importIn)
			if err != nil {
				return fmt.Errorf("open import file: %w", err)
			}
			defer f.Close()
			report, err := service.ImportReadings(cmd.Context(), s.store, s.userID, format, f, service.ImportOptions{
				Mode:   service.ImportMode(importMode),
				DryRun: importDryRun,
			})
			if err != nil {
				return err
			}
			prefix := "Import report"
			if importDryRun {
				prefix = "Dry-run import report"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: inserted=%d skipped=%d invalid=%d\n", prefix, report.Inserted, report.Skipped, report.Invalid)
			for _, w := range report.Warnings {
				fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", w)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Export format: json or csv")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file path (default stdout)")
	importCmd.Flags().StringVar(&importFormat, "format", "", "Import format: json or csv (default from file extension, else json)")
	importCmd.Flags().StringVar(&importIn, "in", "", "Input file path")
	importCmd.Flags().StringVar(&importMode, "mode", "skip", "Duplicate/invalid row handling: skip|fail")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Validate and report without writing data")
}

package bplog

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zzanghsi8873/bplog/internal/service"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run data integrity checks on stored readings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.RunDoctor(sqldb, doctorFix)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Readings with systolic <= diastolic: %d\n", report.InvalidPressure)
			fmt.Fprintf(cmd.OutOrStdout(), "Readings with bad timestamps: %d\n", report.InvalidTimestamps)
			fmt.Fprintf(cmd.OutOrStdout(), "Duplicate reading rows: %d\n", report.DuplicateRows)
			if doctorFix {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed duplicate rows: %d\n", report.FixedDuplicates)
				// Re-check after fixes so exit status reflects final state.
				report, err = service.RunDoctor(sqldb, false)
				if err != nil {
					return err
				}
			}
			if report.InvalidPressure > 0 || report.InvalidTimestamps > 0 || report.DuplicateRows > 0 {
				return fmt.Errorf("doctor found integrity issues")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Remove duplicate rows, keeping the earliest")
}

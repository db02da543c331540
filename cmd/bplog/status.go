package bplog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zzanghsi8873/bplog/internal/bp"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status <systolic> <diastolic>",
	Short: "Classify a blood-pressure pair without saving it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sys, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil {
			return fmt.Errorf("invalid systolic %q", args[0])
		}
		dia, err := strconv.Atoi(strings.TrimSpace(args[1]))
		if err != nil {
			return fmt.Errorf("invalid diastolic %q", args[1])
		}
		status := bp.Classify(sys, dia)
		if statusJSON {
			return printJSON(cmd.OutOrStdout(), "status", status)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d/%d: %s\n", sys, dia, status.Label)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output as JSON")
}

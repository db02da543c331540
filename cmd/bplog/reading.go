package bplog

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/zzanghsi8873/bplog/internal/bp"
	"github.com/zzanghsi8873/bplog/internal/service"
)

var readingCmd = &cobra.Command{
	Use:     "reading",
	Aliases: []string{"r"},
	Short:   "Manage blood-pressure readings",
}

var (
	readingSystolic   int
	readingDiastolic  int
	readingPulse      int
	readingWeight     float64
	readingWeightUnit string
	readingDate       string
	readingTime       string
	readingNotes      string
)

var readingAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a reading",
	RunE: func(cmd *cobra.Command, args []string) error {
		measured, err := parseDateTimeOrNow(readingDate, readingTime)
		if err != nil {
			return err
		}
		in := service.ReadingInput{
			Systolic:   readingSystolic,
			Diastolic:  readingDiastolic,
			WeightUnit: readingWeightUnit,
			MeasuredAt: measured,
			Notes:      readingNotes,
		}
		if cmd.Flags().Changed("pulse") {
			in.Pulse = &readingPulse
		}
		if cmd.Flags().Changed("weight") {
			in.Weight = &readingWeight
		}
		return withSession(func(s *session) error {
			r, err := service.AddReading(cmd.Context(), s.store, s.userID, in)
			if err != nil {
				return err
			}
			status := bp.Classify(r.Systolic, r.Diastolic)
			fmt.Fprintf(cmd.OutOrStdout(), "Added reading %s (%d/%d, %s)\n", r.ID, r.Systolic, r.Diastolic, status.Label)
			return nil
		})
	},
}

var (
	listDate     string
	listFromDate string
	listToDate   string
	listLimit    int
	listJSON     bool
)

var readingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List readings, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := service.ListFilter{
			Date:     listDate,
			FromDate: listFromDate,
			ToDate:   listToDate,
			Limit:    listLimit,
		}
		return withSession(func(s *session) error {
			items, err := service.ListReadings(cmd.Context(), s.store, s.userID, filter)
			if err != nil {
				return err
			}
			if listJSON {
				return printJSON(cmd.OutOrStdout(), "readings", items)
			}
			settings, err := service.GetSettings(s.db, s.userID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tDATE\tPRESSURE\tPULSE\tWEIGHT\tSTATUS\tNOTES")
			for _, r := range items {
				status := bp.Classify(r.Systolic, r.Diastolic)
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					r.ID,
					r.MeasuredAt.Local().Format("2006-01-02 15:04"),
					service.FormatPressure(r.Systolic, r.Diastolic, settings.UnitsPressure),
					formatPulse(r.Pulse),
					formatWeight(r.WeightKg, settings.UnitsWeight),
					status.Label,
					r.Notes,
				)
			}
			return nil
		})
	},
}

var readingShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single reading",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			r, err := service.GetReading(cmd.Context(), s.store, s.userID, args[0])
			if err != nil {
				return err
			}
			if listJSON {
				return printJSON(cmd.OutOrStdout(), "reading", r)
			}
			settings, err := service.GetSettings(s.db, s.userID)
			if err != nil {
				return err
			}
			status := bp.Classify(r.Systolic, r.Diastolic)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID: %s\n", r.ID)
			fmt.Fprintf(out, "Measured: %s\n", r.MeasuredAt.Local().Format("2006-01-02 15:04"))
			fmt.Fprintf(out, "Pressure: %s\n", service.FormatPressure(r.Systolic, r.Diastolic, settings.UnitsPressure))
			fmt.Fprintf(out, "Status: %s\n", status.Label)
			fmt.Fprintf(out, "Pulse: %s\n", formatPulse(r.Pulse))
			fmt.Fprintf(out, "Weight: %s\n", formatWeight(r.WeightKg, settings.UnitsWeight))
			fmt.Fprintf(out, "Notes: %s\n", r.Notes)
			fmt.Fprintf(out, "Created: %s\n", r.CreatedAt.Local().Format(time.RFC3339))
			return nil
		})
	},
}

var (
	updateSystolic    int
	updateDiastolic   int
	updatePulse       int
	updateClearPulse  bool
	updateWeight      float64
	updateWeightUnit  string
	updateClearWeight bool
	updateDate        string
	updateTime        string
	updateNotes       string
)

var readingUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of a reading",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.ReadingUpdate{
			ClearPulse:  updateClearPulse,
			WeightUnit:  updateWeightUnit,
			ClearWeight: updateClearWeight,
		}
		flags := cmd.Flags()
		if flags.Changed("systolic") {
			in.Systolic = &updateSystolic
		}
		if flags.Changed("diastolic") {
			in.Diastolic = &updateDiastolic
		}
		if flags.Changed("pulse") {
			in.Pulse = &updatePulse
		}
		if flags.Changed("weight") {
			in.Weight = &updateWeight
		}
		if flags.Changed("notes") {
			in.Notes = &updateNotes
		}
		if flags.Changed("date") || flags.Changed("time") {
			measured, err := parseDateTime(updateDate, updateTime)
			if err != nil {
				return err
			}
			in.MeasuredAt = &measured
		}
		return withSession(func(s *session) error {
			r, err := service.UpdateReading(cmd.Context(), s.store, s.userID, args[0], in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated reading %s\n", r.ID)
			return nil
		})
	},
}

var readingDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a reading",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			if err := service.DeleteReading(cmd.Context(), s.store, s.userID, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted reading %s\n", args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(readingCmd)
	readingCmd.AddCommand(readingAddCmd, readingListCmd, readingShowCmd, readingUpdateCmd, readingDeleteCmd)

	readingAddCmd.Flags().IntVar(&readingSystolic, "systolic", 0, "Systolic pressure (mmHg)")
	readingAddCmd.Flags().IntVar(&readingDiastolic, "diastolic", 0, "Diastolic pressure (mmHg)")
	readingAddCmd.Flags().IntVar(&readingPulse, "pulse", 0, "Pulse (bpm)")
	readingAddCmd.Flags().Float64Var(&readingWeight, "weight", 0, "Optional body weight")
	readingAddCmd.Flags().StringVar(&readingWeightUnit, "unit", "kg", "Weight unit: kg or lb")
	readingAddCmd.Flags().StringVar(&readingDate, "date", "", "Date in YYYY-MM-DD (default today)")
	readingAddCmd.Flags().StringVar(&readingTime, "time", "", "Time in HH:MM (default now)")
	readingAddCmd.Flags().StringVar(&readingNotes, "notes", "", "Optional notes")
	_ = readingAddCmd.MarkFlagRequired("systolic")
	_ = readingAddCmd.MarkFlagRequired("diastolic")
	_ = readingAddCmd.MarkFlagRequired("pulse")

	readingListCmd.Flags().StringVar(&listDate, "date", "", "Filter by date YYYY-MM-DD")
	readingListCmd.Flags().StringVar(&listFromDate, "from", "", "Filter from date YYYY-MM-DD")
	readingListCmd.Flags().StringVar(&listToDate, "to", "", "Filter to date YYYY-MM-DD")
	readingListCmd.Flags().IntVar(&listLimit, "limit", 50, "Result limit")
	readingListCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	readingShowCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")

	readingUpdateCmd.Flags().IntVar(&updateSystolic, "systolic", 0, "Systolic pressure (mmHg)")
	readingUpdateCmd.Flags().IntVar(&updateDiastolic, "diastolic", 0, "Diastolic pressure (mmHg)")
	readingUpdateCmd.Flags().IntVar(&updatePulse, "pulse", 0, "Pulse (bpm)")
	readingUpdateCmd.Flags().BoolVar(&updateClearPulse, "clear-pulse", false, "Remove the pulse value")
	readingUpdateCmd.Flags().Float64Var(&updateWeight, "weight", 0, "Body weight")
	readingUpdateCmd.Flags().StringVar(&updateWeightUnit, "unit", "kg", "Weight unit: kg or lb")
	readingUpdateCmd.Flags().BoolVar(&updateClearWeight, "clear-weight", false, "Remove the weight value")
	readingUpdateCmd.Flags().StringVar(&updateDate, "date", "", "Date in YYYY-MM-DD")
	readingUpdateCmd.Flags().StringVar(&updateTime, "time", "", "Time in HH:MM")
	readingUpdateCmd.Flags().StringVar(&updateNotes, "notes", "", "Notes")
}

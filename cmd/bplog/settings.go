package bplog

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zzanghsi8873/bplog/internal/service"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage display preferences and targets",
}

var settingsJSON bool

var settingsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			settings, err := service.GetSettings(s.db, s.userID)
			if err != nil {
				return err
			}
			if settingsJSON {
				return printJSON(cmd.OutOrStdout(), "settings", settings)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "KEY\tVALUE")
			fmt.Fprintf(out, "theme\t%s\n", settings.Theme)
			fmt.Fprintf(out, "units_weight\t%s\n", settings.UnitsWeight)
			fmt.Fprintf(out, "units_pressure\t%s\n", settings.UnitsPressure)
			fmt.Fprintf(out, "notifications\t%t\n", settings.NotificationsEnabled)
			fmt.Fprintf(out, "reminder_time\t%s\n", settings.ReminderTime)
			fmt.Fprintf(out, "target\t%d/%d\n", settings.TargetSystolic, settings.TargetDiastolic)
			return nil
		})
	},
}

var (
	setTheme           string
	setUnitsWeight     string
	setUnitsPressure   string
	setNotifications   bool
	setReminderTime    string
	setTargetSystolic  int
	setTargetDiastolic int
)

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch service.SettingsPatch
		flags := cmd.Flags()
		if flags.Changed("theme") {
			patch.Theme = &setTheme
		}
		if flags.Changed("weight-unit") {
			patch.UnitsWeight = &setUnitsWeight
		}
		if flags.Changed("pressure-unit") {
			patch.UnitsPressure = &setUnitsPressure
		}
		if flags.Changed("notifications") {
			patch.NotificationsEnabled = &setNotifications
		}
		if flags.Changed("reminder") {
			patch.ReminderTime = &setReminderTime
		}
		if flags.Changed("target-systolic") {
			patch.TargetSystolic = &setTargetSystolic
		}
		if flags.Changed("target-diastolic") {
			patch.TargetDiastolic = &setTargetDiastolic
		}
		return withSession(func(s *session) error {
			if _, err := service.UpdateSettings(s.db, s.userID, patch); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Updated settings")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsGetCmd, settingsSetCmd)

	settingsGetCmd.Flags().BoolVar(&settingsJSON, "json", false, "Output as JSON")
	settingsSetCmd.Flags().StringVar(&setTheme, "theme", "", "Theme: light|dark|system")
	settingsSetCmd.Flags().StringVar(&setUnitsWeight, "weight-unit", "", "Weight unit: kg|lb")
	settingsSetCmd.Flags().StringVar(&setUnitsPressure, "pressure-unit", "", "Pressure unit: mmHg|kPa")
	settingsSetCmd.Flags().BoolVar(&setNotifications, "notifications", true, "Enable reminders")
	settingsSetCmd.Flags().StringVar(&setReminderTime, "reminder", "", "Daily reminder time HH:MM")
	settingsSetCmd.Flags().IntVar(&setTargetSystolic, "target-systolic", 0, "Target systolic (mmHg)")
	settingsSetCmd.Flags().IntVar(&setTargetDiastolic, "target-diastolic", 0, "Target diastolic (mmHg)")
}

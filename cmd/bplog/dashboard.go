package bplog

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zzanghsi8873/bplog/internal/service"
)

var dashboardJSON bool

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "30-day overview with target comparison and tips",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			view, err := service.Dashboard(cmd.Context(), s.aggregator(), s.db, s.userID)
			if err != nil {
				return err
			}
			if dashboardJSON {
				return printJSON(cmd.OutOrStdout(), "dashboard", view)
			}
			out := cmd.OutOrStdout()
			unit := view.Settings.UnitsPressure
			fmt.Fprintf(out, "Last 30 days: %d readings\n", view.Stats.Count)
			if view.Stats.Count > 0 {
				fmt.Fprintf(out, "Average: %s, pulse %d\n", service.FormatPressure(view.Stats.Average.Systolic, view.Stats.Average.Diastolic, unit), view.Stats.Average.Pulse)
			}
			if latest := view.Stats.Latest; latest != nil && view.LatestStatus != nil {
				fmt.Fprintf(out, "Latest: %s (%s) on %s\n", service.FormatPressure(latest.Systolic, latest.Diastolic, unit), view.LatestStatus.Label, latest.MeasuredAt.Local().Format("2006-01-02 15:04"))
			}
			if t := view.Target; t != nil {
				verdict := "above target"
				if t.WithinTarget {
					verdict = "within target"
				}
				fmt.Fprintf(out, "Target: %d/%d, latest is %s (%+d/%+d)\n", t.TargetSystolic, t.TargetDiastolic, verdict, t.SystolicDelta, t.DiastolicDelta)
			}
			if len(view.Tips) > 0 {
				fmt.Fprintln(out, "\nTips")
				for _, tip := range view.Tips {
					fmt.Fprintf(out, "- %s: %s\n", tip.Title, tip.Content)
				}
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.Flags().BoolVar(&dashboardJSON, "json", false, "Output as JSON")
}

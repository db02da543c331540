package bplog

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/zzanghsi8873/bplog/internal/service"
)

var (
	calendarMonth string
	calendarJSON  bool
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show a month of readings grouped by day",
	RunE: func(cmd *cobra.Command, args []string) error {
		year, month, err := service.ParseMonth(calendarMonth, time.Now())
		if err != nil {
			return err
		}
		return withSession(func(s *session) error {
			cal, err := service.MonthCalendar(cmd.Context(), s.store, s.userID, year, month)
			if err != nil {
				return err
			}
			if calendarJSON {
				return printJSON(cmd.OutOrStdout(), "calendar", cal)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Month: %s (%d readings)\n", cal.Month, cal.Total)
			fmt.Fprintln(out, "DATE\tREADINGS\tWORST\tVALUES")
			for _, day := range cal.Days {
				values := ""
				for i, ev := range day.Events {
					if i > 0 {
						values += ", "
					}
					values += ev.Reading.MeasuredAt.Local().Format("15:04") + " " + ev.Title
				}
				fmt.Fprintf(out, "%s\t%d\t%s\t%s\n", day.Date, len(day.Events), day.Worst.Label, values)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(calendarCmd)
	calendarCmd.Flags().StringVar(&calendarMonth, "month", "", "Month in format YYYY-MM (default current month)")
	calendarCmd.Flags().BoolVar(&calendarJSON, "json", false, "Output as JSON")
}

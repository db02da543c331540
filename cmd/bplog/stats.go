package bplog

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zzanghsi8873/bplog/internal/bp"
	"github.com/zzanghsi8873/bplog/internal/model"
	"github.com/zzanghsi8873/bplog/internal/service"
)

var (
	statsDays     int
	statsJSON     bool
	statsNoCharts bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Averages, latest reading and trend over a trailing window",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			report := s.aggregator().Report(cmd.Context(), s.userID, statsDays)
			if statsJSON {
				return printJSON(cmd.OutOrStdout(), "stats", report)
			}
			settings, err := service.GetSettings(s.db, s.userID)
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), report, settings.UnitsPressure, statsNoCharts)
			return nil
		})
	},
}

// windowChoices renders the standard stats periods, e.g. "7, 30, 90 or 365".
func windowChoices() string {
	parts := make([]string, 0, len(service.StandardWindows))
	for _, d := range service.StandardWindows {
		parts = append(parts, strconv.Itoa(d))
	}
	if len(parts) < 2 {
		return strings.Join(parts, "")
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " or " + parts[len(parts)-1]
}

func printStats(out io.Writer, r service.StatsReport, pressureUnit string, noCharts bool) {
	sum := r.Summary
	fmt.Fprintf(out, "Window: last %d days (%s to %s)\n", r.WindowDays, r.From.Local().Format("2006-01-02"), r.To.Local().Format("2006-01-02"))
	fmt.Fprintf(out, "Readings: %d\n", sum.Count)
	if sum.Count == 0 {
		fmt.Fprintln(out, "No readings in this window.")
		return
	}
	fmt.Fprintf(out, "Average: %s", service.FormatPressure(sum.Average.Systolic, sum.Average.Diastolic, pressureUnit))
	if r.AverageStatus != nil {
		fmt.Fprintf(out, " (%s)", r.AverageStatus.Label)
	}
	fmt.Fprintln(out)
	if sum.Average.Pulse > 0 {
		fmt.Fprintf(out, "Average pulse: %d bpm\n", sum.Average.Pulse)
	}
	if sum.Latest != nil && r.LatestStatus != nil {
		fmt.Fprintf(out, "Latest: %s on %s (%s)\n", service.FormatPressure(sum.Latest.Systolic, sum.Latest.Diastolic, pressureUnit), sum.Latest.MeasuredAt.Local().Format("2006-01-02 15:04"), r.LatestStatus.Label)
	}
	if r.Systolic != nil && r.Diastolic != nil {
		fmt.Fprintf(out, "Range: systolic %d-%d, diastolic %d-%d\n", r.Systolic.Min, r.Systolic.Max, r.Diastolic.Min, r.Diastolic.Max)
	}
	if r.AverageWeight != nil {
		fmt.Fprintf(out, "Average weight: %.1f kg\n", *r.AverageWeight)
	}

	fmt.Fprintln(out, "\nBy Status")
	fmt.Fprintln(out, "STATUS\tCOUNT")
	for _, c := range bp.Categories() {
		fmt.Fprintf(out, "%s\t%d\n", c.Label(), r.Breakdown.Count(c))
	}

	if noCharts {
		return
	}
	fmt.Fprintln(out, "\nTrend (last readings, oldest first)")
	fmt.Fprintf(out, "  systolic  %s\n", sparkline(sum.Trend, func(m model.Reading) float64 { return float64(m.Systolic) }))
	fmt.Fprintf(out, "  diastolic %s\n", sparkline(sum.Trend, func(m model.Reading) float64 { return float64(m.Diastolic) }))
	printStatusBars(out, r.Breakdown)
}

func printStatusBars(out io.Writer, h bp.Histogram) {
	fmt.Fprintln(out, "\nStatus mix:")
	maxCount := 0
	for _, c := range bp.Categories() {
		if n := h.Count(c); n > maxCount {
			maxCount = n
		}
	}
	if maxCount == 0 {
		fmt.Fprintln(out, "  (no readings)")
		return
	}
	for _, c := range bp.Categories() {
		n := h.Count(c)
		fmt.Fprintf(out, "  %-10s %s %d\n", c.Label(), horizontalBar(n, maxCount, 24), n)
	}
}

func horizontalBar(value, maxValue, width int) string {
	if width <= 0 || maxValue <= 0 || value <= 0 {
		return ""
	}
	bars := int(math.Round((float64(value) / float64(maxValue)) * float64(width)))
	if bars == 0 {
		bars = 1
	}
	return strings.Repeat("#", bars)
}

func sparkline(readings []model.Reading, valueFn func(model.Reading) float64) string {
	if len(readings) == 0 {
		return ""
	}
	chars := []rune("._-~=*#@")
	values := make([]float64, 0, len(readings))
	minV, maxV := valueFn(readings[0]), valueFn(readings[0])
	for _, r := range readings {
		v := valueFn(r)
		values = append(values, v)
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	if maxV == minV {
		return strings.Repeat(string(chars[0]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - minV) / (maxV - minV) * float64(len(chars)-1)))
		b.WriteRune(chars[idx])
	}
	return b.String()
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Long = fmt.Sprintf("Show averages, the latest reading, the %d-reading trend and a category breakdown for the last N days (%s are typical).", service.TrendSize, windowChoices())
	statsCmd.Flags().IntVar(&statsDays, "days", service.DefaultWindowDays, "Window size in days: "+windowChoices())
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output as JSON")
	statsCmd.Flags().BoolVar(&statsNoCharts, "no-charts", false, "Disable ASCII charts in text output")
}

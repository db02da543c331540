package bplog

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zzanghsi8873/bplog/internal/service"
)

var (
	tipsCategory string
	tipsStatus   string
	tipsLimit    int
	tipsJSON     bool
)

var tipsCmd = &cobra.Command{
	Use:   "tips",
	Short: "Show health tips, optionally for a status or category",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			tips, err := service.ListTips(sqldb, service.TipFilter{
				Category: tipsCategory,
				Status:   tipsStatus,
				Limit:    tipsLimit,
			})
			if err != nil {
				return err
			}
			if tipsJSON {
				return printJSON(cmd.OutOrStdout(), "tips", tips)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "CATEGORY\tSTATUS\tTITLE\tTIP")
			for _, t := range tips {
				status := t.BPStatus
				if status == "" {
					status = "any"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", t.Category, status, t.Title, t.Content)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(tipsCmd)
	tipsCmd.Flags().StringVar(&tipsCategory, "category", "", "Filter by category: diet|exercise|lifestyle|medication")
	tipsCmd.Flags().StringVar(&tipsStatus, "status", "", "Filter by status: normal|elevated|high|very_high")
	tipsCmd.Flags().IntVar(&tipsLimit, "limit", 5, "Result limit")
	tipsCmd.Flags().BoolVar(&tipsJSON, "json", false, "Output as JSON")
}

package bplog

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zzanghsi8873/bplog/internal/service"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the local bplog database and profile user",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveDBPath()
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			user, created, err := service.EnsureProfileUser(sqldb)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized bplog database at %s\n", path)
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Created profile user %s\n", user)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Profile user %s\n", user)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

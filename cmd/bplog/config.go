package bplog

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/zzanghsi8873/bplog/internal/service"
	"github.com/zzanghsi8873/bplog/internal/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage bplog local configuration",
}

var (
	cfgStoreBackend string
	cfgUserID       string
)

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set configuration values",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			updates := 0
			if cmd.Flags().Changed("backend") {
				if _, err := store.Open(cfgStoreBackend, sqldb); err != nil {
					return err
				}
				if err := service.SetConfig(sqldb, service.ConfigStoreBackend, cfgStoreBackend); err != nil {
					return err
				}
				updates++
			}
			if cmd.Flags().Changed("profile-user") {
				if err := service.SetConfig(sqldb, service.ConfigUserID, cfgUserID); err != nil {
					return err
				}
				updates++
			}
			if updates == 0 {
				return fmt.Errorf("set at least one flag")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d config value(s)\n", updates)
			return nil
		})
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			cfg, err := service.ListConfig(sqldb)
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(cfg))
			for k := range cfg {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintln(cmd.OutOrStdout(), "KEY\tVALUE")
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", k, cfg[k])
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd, configGetCmd)

	configSetCmd.Flags().StringVar(&cfgStoreBackend, "backend", "", "Default reading store backend: sqlite|memory|none")
	configSetCmd.Flags().StringVar(&cfgUserID, "profile-user", "", "Default profile user id")
}

package bplog

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dbPath       string
	storeBackend string
	userFlag     string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:           "bplog",
	Short:         "bplog keeps a blood-pressure journal from your terminal",
	Long:          "bplog is a local-first blood-pressure journal: log readings, classify them, and review averages, trends and a monthly calendar.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database (env BPLOG_DB)")
	rootCmd.PersistentFlags().StringVar(&storeBackend, "store", "", "Reading store backend: sqlite|memory|none (env BPLOG_STORE)")
	rootCmd.PersistentFlags().StringVar(&userFlag, "user", "", "User id to act as (env BPLOG_USER, default: profile user from init)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug|info|warn|error (env BPLOG_LOG_LEVEL)")
}

package bplog

import (
	"database/sql"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/zzanghsi8873/bplog/internal/app"
	"github.com/zzanghsi8873/bplog/internal/service"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Snapshot, verify and restore the journal database",
}

var (
	backupOut    string
	backupDir    string
	backupJSON   bool
	restoreFile  string
	restoreForce bool
)

func backupDirFor(dbFile string) string {
	if backupDir != "" {
		return backupDir
	}
	return app.DefaultBackupDir(dbFile)
}

func printBackup(out io.Writer, verb string, info service.BackupInfo) {
	fmt.Fprintf(out, "%s: %s\n", verb, info.Path)
	fmt.Fprintf(out, "Readings: %d across %d users (schema v%d)\n", info.Readings, info.Users, info.SchemaVersion)
	if info.LatestReading != nil {
		fmt.Fprintf(out, "Latest reading: %s\n", info.LatestReading.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(out, "Checksum: %s\n", info.Checksum)
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Snapshot the database into the backup directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveDBPath()
		if err != nil {
			return err
		}
		out := backupOut
		if out == "" {
			out = filepath.Join(backupDirFor(path), fmt.Sprintf("bplog-%s.db", time.Now().Format("20060102-150405")))
		}
		return withDB(func(sqldb *sql.DB) error {
			info, err := service.CreateBackup(cmd.Context(), sqldb, out)
			if err != nil {
				return err
			}
			if backupJSON {
				return printJSON(cmd.OutOrStdout(), "backup", info)
			}
			printBackup(cmd.OutOrStdout(), "Created backup", info)
			return nil
		})
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveDBPath()
		if err != nil {
			return err
		}
		items, err := service.ListBackups(backupDirFor(path))
		if err != nil {
			return err
		}
		if backupJSON {
			return printJSON(cmd.OutOrStdout(), "backups", items)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "FILE\tCREATED\tREADINGS\tSIZE\tCHECKSUM")
		for _, it := range items {
			checksum := it.Checksum
			if checksum == "" {
				checksum = "-"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d\t%d\t%s\n", it.Path, it.CreatedAt.Local().Format(time.RFC3339), it.Readings, it.SizeBytes, checksum)
		}
		return nil
	},
}

var backupVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check a backup's checksum and schema without restoring it",
	RunE: func(cmd *cobra.Command, args []string) error {
		if restoreFile == "" {
			return fmt.Errorf("--file is required")
		}
		info, err := service.VerifyBackup(cmd.Context(), restoreFile)
		if err != nil {
			return err
		}
		if backupJSON {
			return printJSON(cmd.OutOrStdout(), "backup", info)
		}
		printBackup(cmd.OutOrStdout(), "Verified backup", info)
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Verify a backup and restore it over the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		if restoreFile == "" {
			return fmt.Errorf("--file is required")
		}
		path, err := resolveDBPath()
		if err != nil {
			return err
		}
		info, err := service.RestoreBackup(cmd.Context(), restoreFile, path, restoreForce)
		if err != nil {
			return err
		}
		printBackup(cmd.OutOrStdout(), "Restored backup", info)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupCreateCmd, backupListCmd, backupVerifyCmd, backupRestoreCmd)

	backupCmd.PersistentFlags().StringVar(&backupDir, "dir", "", "Backup directory (default: backups/ next to the database)")
	backupCmd.PersistentFlags().BoolVar(&backupJSON, "json", false, "Output as JSON")
	backupCreateCmd.Flags().StringVar(&backupOut, "out", "", "Backup file path (overrides --dir)")
	backupVerifyCmd.Flags().StringVar(&restoreFile, "file", "", "Backup .db file path")
	backupRestoreCmd.Flags().StringVar(&restoreFile, "file", "", "Backup .db file path")
	backupRestoreCmd.Flags().BoolVar(&restoreForce, "force", false, "Overwrite an existing database")
}

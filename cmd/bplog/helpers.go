package bplog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/zzanghsi8873/bplog/internal/app"
	"github.com/zzanghsi8873/bplog/internal/db"
	"github.com/zzanghsi8873/bplog/internal/logging"
	"github.com/zzanghsi8873/bplog/internal/service"
	"github.com/zzanghsi8873/bplog/internal/store"
)

const (
	envDB    = "BPLOG_DB"
	envStore = "BPLOG_STORE"
	envUser  = "BPLOG_USER"
	envAddr  = "BPLOG_ADDR"
)

// session is the resolved per-command context: the open database, the
// reading store chosen by configuration and the acting user.
type session struct {
	db      *sql.DB
	dbPath  string
	store   store.Readings
	backend string
	userID  string
	logger  zerolog.Logger
}

func (s *session) aggregator() *service.Aggregator {
	return service.NewAggregator(s.store, s.backend, s.logger)
}

func withDB(run func(*sql.DB) error) error {
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}
	return run(sqldb)
}

// withSession opens the database and resolves backend, user and logger.
// Precedence for each setting is flag, then environment, then app_config.
func withSession(run func(*session) error) error {
	logger, err := logging.New(logLevel, os.Stderr)
	if err != nil {
		return err
	}
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	return withDB(func(sqldb *sql.DB) error {
		backend, err := resolveSetting(sqldb, storeBackend, envStore, service.ConfigStoreBackend, store.BackendSQLite)
		if err != nil {
			return err
		}
		st, err := store.Open(backend, sqldb)
		if err != nil {
			return err
		}
		user, err := resolveSetting(sqldb, userFlag, envUser, service.ConfigUserID, "")
		if err != nil {
			return err
		}
		if user == "" {
			return fmt.Errorf("no user configured; run `bplog init` or pass --user")
		}
		logger.Debug().Str("db", path).Str("backend", backend).Str("user_id", user).Msg("session resolved")
		return run(&session{
			db:      sqldb,
			dbPath:  path,
			store:   st,
			backend: backend,
			userID:  user,
			logger:  logger,
		})
	})
}

func resolveDBPath() (string, error) {
	if strings.TrimSpace(dbPath) != "" {
		return dbPath, nil
	}
	if v := strings.TrimSpace(os.Getenv(envDB)); v != "" {
		return v, nil
	}
	return app.DefaultDBPath()
}

func resolveSetting(sqldb *sql.DB, flagValue, env, configKey, fallback string) (string, error) {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v, nil
	}
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		return v, nil
	}
	v, ok, err := service.GetConfig(sqldb, configKey)
	if err != nil {
		return "", err
	}
	if ok && strings.TrimSpace(v) != "" {
		return v, nil
	}
	return fallback, nil
}

func parseDateTimeOrNow(date, timeStr string) (time.Time, error) {
	date = strings.TrimSpace(date)
	timeStr = strings.TrimSpace(timeStr)
	if date == "" && timeStr == "" {
		return time.Now(), nil
	}
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if timeStr == "" {
		t, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", date)
		}
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+timeStr, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date/--time (expected YYYY-MM-DD and HH:MM)")
	}
	return t, nil
}

func parseDateTime(date, timeStr string) (time.Time, error) {
	date = strings.TrimSpace(date)
	timeStr = strings.TrimSpace(timeStr)
	if date == "" || timeStr == "" {
		return time.Time{}, fmt.Errorf("both --date and --time are required")
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+timeStr, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date/--time (expected YYYY-MM-DD and HH:MM)")
	}
	return t, nil
}

func printJSON(w io.Writer, what string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s json: %w", what, err)
	}
	fmt.Fprintln(w, string(b))
	return nil
}

func formatPulse(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *p)
}

func formatWeight(kg *float64, unit string) string {
	if kg == nil {
		return "-"
	}
	v, err := service.WeightFromKg(*kg, unit)
	if err != nil {
		return fmt.Sprintf("%.1fkg", *kg)
	}
	return fmt.Sprintf("%.1f%s", v, unit)
}

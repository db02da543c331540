package service

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/zzanghsi8873/bplog/internal/db"
)

// BackupInfo describes a journal snapshot. The reading fields come from the
// snapshot itself, not from the live database.
type BackupInfo struct {
	Path          string     `json:"path"`
	Checksum      string     `json:"checksum"`
	CreatedAt     time.Time  `json:"created_at"`
	SizeBytes     int64      `json:"size_bytes"`
	SchemaVersion int        `json:"schema_version"`
	Readings      int        `json:"readings"`
	Users         int        `json:"users"`
	LatestReading *time.Time `json:"latest_reading,omitempty"`
}

const manifestSuffix = ".json"

// CreateBackup snapshots the open journal into outPath with VACUUM INTO and
// writes a manifest next to it.
func CreateBackup(ctx context.Context, sqldb *sql.DB, outPath string) (BackupInfo, error) {
	if strings.TrimSpace(outPath) == "" {
		return BackupInfo{}, fmt.Errorf("backup output path is required")
	}
	if _, err := os.Stat(outPath); err == nil {
		return BackupInfo{}, fmt.Errorf("backup %s already exists", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return BackupInfo{}, fmt.Errorf("create backup directory: %w", err)
	}
	if _, err := sqldb.ExecContext(ctx, `VACUUM INTO ?`, outPath); err != nil {
		return BackupInfo{}, fmt.Errorf("snapshot database: %w", err)
	}

	info, err := inspectSnapshot(ctx, outPath)
	if err != nil {
		return BackupInfo{}, err
	}
	if info.Checksum, err = fileSHA256(outPath); err != nil {
		return BackupInfo{}, err
	}
	info.CreatedAt = time.Now().UTC().Truncate(time.Second)
	if err := writeManifest(info); err != nil {
		return BackupInfo{}, err
	}
	return info, nil
}

// VerifyBackup checks the snapshot against its manifest checksum, when one
// exists, and confirms it holds a migrated readings table.
func VerifyBackup(ctx context.Context, path string) (BackupInfo, error) {
	if _, err := os.Stat(path); err != nil {
		return BackupInfo{}, fmt.Errorf("stat backup: %w", err)
	}
	checksum, err := fileSHA256(path)
	if err != nil {
		return BackupInfo{}, err
	}
	manifest, ok, err := readManifest(path)
	if err != nil {
		return BackupInfo{}, err
	}
	if ok && manifest.Checksum != checksum {
		return BackupInfo{}, fmt.Errorf("backup checksum mismatch")
	}

	info, err := inspectSnapshot(ctx, path)
	if err != nil {
		return BackupInfo{}, err
	}
	info.Checksum = checksum
	if ok {
		info.CreatedAt = manifest.CreatedAt
	}
	return info, nil
}

// RestoreBackup verifies backupPath and then replaces dbPath with it. An
// existing dbPath is only replaced with force.
func RestoreBackup(ctx context.Context, backupPath, dbPath string, force bool) (BackupInfo, error) {
	if strings.TrimSpace(backupPath) == "" || strings.TrimSpace(dbPath) == "" {
		return BackupInfo{}, fmt.Errorf("backup path and db path are required")
	}
	info, err := VerifyBackup(ctx, backupPath)
	if err != nil {
		return BackupInfo{}, err
	}
	if !force {
		if _, err := os.Stat(dbPath); err == nil {
			return BackupInfo{}, fmt.Errorf("target db already exists; use --force to overwrite")
		}
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return BackupInfo{}, fmt.Errorf("create db directory: %w", err)
	}
	tmp := dbPath + ".restore"
	if err := copyFile(backupPath, tmp); err != nil {
		_ = os.Remove(tmp)
		return BackupInfo{}, err
	}
	if err := os.Rename(tmp, dbPath); err != nil {
		_ = os.Remove(tmp)
		return BackupInfo{}, fmt.Errorf("replace database: %w", err)
	}
	return info, nil
}

// ListBackups returns the snapshots in dir, newest first. Snapshots without
// a manifest are listed with file metadata only.
func ListBackups(dir string) ([]BackupInfo, error) {
	files, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}
	out := make([]BackupInfo, 0)
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".db") {
			continue
		}
		full := filepath.Join(dir, f.Name())
		manifest, ok, err := readManifest(full)
		if err != nil {
			return nil, err
		}
		if ok {
			manifest.Path = full
			out = append(out, manifest)
			continue
		}
		st, err := os.Stat(full)
		if err != nil {
			continue
		}
		out = append(out, BackupInfo{Path: full, CreatedAt: st.ModTime().UTC(), SizeBytes: st.Size()})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func inspectSnapshot(ctx context.Context, path string) (BackupInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return BackupInfo{}, fmt.Errorf("stat backup: %w", err)
	}
	info := BackupInfo{Path: path, SizeBytes: st.Size(), CreatedAt: st.ModTime().UTC()}

	snap, err := db.Open(path)
	if err != nil {
		return BackupInfo{}, fmt.Errorf("open backup %s: %w", path, err)
	}
	defer snap.Close()

	for _, table := range []string{"schema_migrations", "readings"} {
		var n int
		if err := snap.QueryRowContext(ctx, `SELECT COUNT(1) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n); err != nil {
			return BackupInfo{}, fmt.Errorf("inspect backup %s: %w", path, err)
		}
		if n == 0 {
			return BackupInfo{}, fmt.Errorf("backup %s is not a bplog database: missing %s table", path, table)
		}
	}
	if info.SchemaVersion, err = db.SchemaVersion(snap); err != nil {
		return BackupInfo{}, err
	}
	var latest sql.NullString
	if err := snap.QueryRowContext(ctx, `SELECT COUNT(1), COUNT(DISTINCT user_id), MAX(measured_at) FROM readings`).Scan(&info.Readings, &info.Users, &latest); err != nil {
		return BackupInfo{}, fmt.Errorf("count backup readings: %w", err)
	}
	if latest.Valid {
		if t, err := time.Parse(time.RFC3339, latest.String); err == nil {
			info.LatestReading = &t
		}
	}
	return info, nil
}

func writeManifest(info BackupInfo) error {
	b, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal backup manifest: %w", err)
	}
	if err := os.WriteFile(info.Path+manifestSuffix, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write backup manifest: %w", err)
	}
	return nil
}

func readManifest(backupPath string) (BackupInfo, bool, error) {
	b, err := os.ReadFile(backupPath + manifestSuffix)
	if errors.Is(err, os.ErrNotExist) {
		return BackupInfo{}, false, nil
	}
	if err != nil {
		return BackupInfo{}, false, fmt.Errorf("read backup manifest: %w", err)
	}
	var info BackupInfo
	if err := json.Unmarshal(b, &info); err != nil {
		return BackupInfo{}, false, fmt.Errorf("parse backup manifest %s: %w", backupPath+manifestSuffix, err)
	}
	return info, true, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open backup: %w", err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create restore file: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy backup: %w", err)
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return fmt.Errorf("sync restore file: %w", err)
	}
	return out.Close()
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for checksum: %w", err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

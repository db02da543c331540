package service

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/zzanghsi8873/bplog/internal/bp"
	"github.com/zzanghsi8873/bplog/internal/model"
)

var tipCategories = []string{"diet", "exercise", "lifestyle", "medication"}

type TipFilter struct {
	Category string
	Status   string
	Limit    int
}

// ListTips returns active tips, newest first. A status filter also matches
// tips that apply to every status.
func ListTips(db *sql.DB, f TipFilter) ([]model.HealthTip, error) {
	query := `SELECT id, title, content, category, IFNULL(bp_status, ''), is_active, created_at FROM health_tips WHERE is_active = 1`
	args := make([]any, 0)

	if strings.TrimSpace(f.Category) != "" {
		category := normalizeName(f.Category)
		if !validTipCategory(category) {
			return nil, invalidf("invalid tip category %q (use %s)", f.Category, strings.Join(tipCategories, "|"))
		}
		query += ` AND category = ?`
		args = append(args, category)
	}
	if strings.TrimSpace(f.Status) != "" {
		status, err := bp.ParseCategory(f.Status)
		if err != nil {
			return nil, invalidf("%v", err)
		}
		query += ` AND (bp_status = ? OR bp_status IS NULL)`
		args = append(args, string(status))
	}
	if f.Limit <= 0 {
		f.Limit = 5
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, f.Limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tips: %w", err)
	}
	defer rows.Close()

	items := make([]model.HealthTip, 0)
	for rows.Next() {
		var tip model.HealthTip
		var active int
		var created string
		if err := rows.Scan(&tip.ID, &tip.Title, &tip.Content, &tip.Category, &tip.BPStatus, &active, &created); err != nil {
			return nil, fmt.Errorf("scan tip: %w", err)
		}
		tip.IsActive = active != 0
		tip.CreatedAt = parseDBTime(created)
		items = append(items, tip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tips: %w", err)
	}
	return items, nil
}

func validTipCategory(c string) bool {
	for _, v := range tipCategories {
		if v == c {
			return true
		}
	}
	return false
}

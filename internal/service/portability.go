package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/zzanghsi8873/bplog/internal/model"
	"github.com/zzanghsi8873/bplog/internal/store"
)

const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

var csvHeader = []string{"date", "time", "systolic", "diastolic", "pulse", "weight_kg", "notes"}

type ExportReading struct {
	MeasuredAt time.Time `json:"measured_at"`
	Systolic   int       `json:"systolic"`
	Diastolic  int       `json:"diastolic"`
	Pulse      *int      `json:"pulse"`
	WeightKg   *float64  `json:"weight_kg"`
	Notes      string    `json:"notes"`
}

type ImportMode string

const (
	ImportModeFail ImportMode = "fail"
	ImportModeSkip ImportMode = "skip"
)

type ImportOptions struct {
	Mode   ImportMode
	DryRun bool
}

type ImportReport struct {
	Inserted int      `json:"inserted"`
	Skipped  int      `json:"skipped"`
	Invalid  int      `json:"invalid"`
	Warnings []string `json:"warnings,omitempty"`
}

// ExportReadings writes every reading of userID to w, oldest first.
func ExportReadings(ctx context.Context, st store.Readings, userID, format string, w io.Writer) (int, error) {
	if st == nil {
		return 0, errNoStore
	}
	format, err := normalizeFormat(format)
	if err != nil {
		return 0, err
	}
	items, err := st.List(ctx, cleanUserID(userID), store.Filter{Ascending: true})
	if err != nil {
		return 0, fmt.Errorf("export readings: %w", err)
	}

	if format == FormatJSON {
		out := make([]ExportReading, 0, len(items))
		for _, r := range items {
			out = append(out, ExportReading{
				MeasuredAt: r.MeasuredAt,
				Systolic:   r.Systolic,
				Diastolic:  r.Diastolic,
				Pulse:      r.Pulse,
				WeightKg:   r.WeightKg,
				Notes:      r.Notes,
			})
		}
		b, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return 0, fmt.Errorf("marshal export json: %w", err)
		}
		if _, err := w.Write(append(b, '\n')); err != nil {
			return 0, fmt.Errorf("write export json: %w", err)
		}
		return len(out), nil
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return 0, fmt.Errorf("write export csv header: %w", err)
	}
	for _, r := range items {
		local := r.MeasuredAt.In(time.Local)
		pulse := ""
		if r.Pulse != nil {
			pulse = strconv.Itoa(*r.Pulse)
		}
		weight := ""
		if r.WeightKg != nil {
			weight = strconv.FormatFloat(*r.WeightKg, 'f', -1, 64)
		}
		record := []string{
			local.Format(dateLayout),
			local.Format("15:04"),
			strconv.Itoa(r.Systolic),
			strconv.Itoa(r.Diastolic),
			pulse,
			weight,
			r.Notes,
		}
		if err := cw.Write(record); err != nil {
			return 0, fmt.Errorf("write export csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flush export csv: %w", err)
	}
	return len(items), nil
}

// ImportReadings reads rows in format from r and adds them for userID. Rows
// follow the entry rules except that pulse may be missing. In fail mode the
// first bad or duplicate row aborts the import before anything is written.
func ImportReadings(ctx context.Context, st store.Readings, userID, format string, r io.Reader, opts ImportOptions) (ImportReport, error) {
	report := ImportReport{}
	if st == nil {
		return report, errNoStore
	}
	userID = cleanUserID(userID)
	if userID == "" {
		return report, invalidf("user id is required")
	}
	format, err := normalizeFormat(format)
	if err != nil {
		return report, err
	}
	mode, err := normalizeImportMode(opts.Mode)
	if err != nil {
		return report, err
	}

	var rows []importRow
	if format == FormatJSON {
		rows, err = decodeJSONRows(r)
	} else {
		rows, err = decodeCSVRows(r)
	}
	if err != nil {
		return report, err
	}

	existing, err := st.List(ctx, userID, store.Filter{})
	if err != nil {
		return report, fmt.Errorf("load existing readings: %w", err)
	}
	seen := make(map[string]bool, len(existing)+len(rows))
	for _, e := range existing {
		seen[duplicateKey(e)] = true
	}

	pending := make([]model.Reading, 0, len(rows))
	for _, row := range rows {
		if row.err != nil {
			if mode == ImportModeFail {
				return ImportReport{}, invalidf("row %d: %v", row.line, row.err)
			}
			report.Invalid++
			report.Warnings = append(report.Warnings, fmt.Sprintf("row %d: %v", row.line, row.err))
			continue
		}
		reading := row.reading
		reading.UserID = userID
		if err := ValidateReading(reading, false); err != nil {
			if mode == ImportModeFail {
				return ImportReport{}, invalidf("row %d: %v", row.line, err)
			}
			report.Invalid++
			report.Warnings = append(report.Warnings, fmt.Sprintf("row %d: %v", row.line, err))
			continue
		}
		key := duplicateKey(reading)
		if seen[key] {
			if mode == ImportModeFail {
				return ImportReport{}, invalidf("row %d duplicates an existing reading at %s", row.line, reading.MeasuredAt.In(time.Local).Format("2006-01-02 15:04"))
			}
			report.Skipped++
			continue
		}
		seen[key] = true
		pending = append(pending, reading)
	}

	if opts.DryRun {
		report.Inserted = len(pending)
		return report, nil
	}
	for _, reading := range pending {
		if _, err := st.Create(ctx, reading); err != nil {
			return report, fmt.Errorf("import reading at %s: %w", reading.MeasuredAt.Format(time.RFC3339), err)
		}
		report.Inserted++
	}
	return report, nil
}

type importRow struct {
	line    int
	reading model.Reading
	err     error
}

func decodeJSONRows(r io.Reader) ([]importRow, error) {
	var payload []ExportReading
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, invalidf("parse import json: %v", err)
	}
	rows := make([]importRow, 0, len(payload))
	for i, p := range payload {
		row := importRow{line: i + 1}
		if p.MeasuredAt.IsZero() {
			row.err = errors.New("measured_at is required")
		}
		row.reading = model.Reading{
			Systolic:   p.Systolic,
			Diastolic:  p.Diastolic,
			Pulse:      p.Pulse,
			WeightKg:   p.WeightKg,
			Notes:      strings.TrimSpace(p.Notes),
			MeasuredAt: p.MeasuredAt,
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func decodeCSVRows(r io.Reader) ([]importRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, invalidf("read import csv: %v", err)
	}
	if len(records) == 0 {
		return nil, invalidf("import csv is empty")
	}
	if !strings.EqualFold(strings.TrimSpace(records[0][0]), csvHeader[0]) {
		return nil, invalidf("import csv must start with header %s", strings.Join(csvHeader, ","))
	}
	rows := make([]importRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		row := importRow{line: i + 2}
		row.reading, row.err = parseCSVRecord(rec)
		rows = append(rows, row)
	}
	return rows, nil
}

func parseCSVRecord(rec []string) (model.Reading, error) {
	if len(rec) != len(csvHeader) {
		return model.Reading{}, fmt.Errorf("has %d columns, expected %d", len(rec), len(csvHeader))
	}
	measured, err := time.ParseInLocation("2006-01-02 15:04", strings.TrimSpace(rec[0])+" "+strings.TrimSpace(rec[1]), time.Local)
	if err != nil {
		return model.Reading{}, fmt.Errorf("invalid date/time %q %q", rec[0], rec[1])
	}
	systolic, err := strconv.Atoi(strings.TrimSpace(rec[2]))
	if err != nil {
		return model.Reading{}, fmt.Errorf("invalid systolic %q", rec[2])
	}
	diastolic, err := strconv.Atoi(strings.TrimSpace(rec[3]))
	if err != nil {
		return model.Reading{}, fmt.Errorf("invalid diastolic %q", rec[3])
	}
	out := model.Reading{
		Systolic:   systolic,
		Diastolic:  diastolic,
		Notes:      strings.TrimSpace(rec[6]),
		MeasuredAt: measured,
	}
	if v := strings.TrimSpace(rec[4]); v != "" {
		pulse, err := strconv.Atoi(v)
		if err != nil {
			return model.Reading{}, fmt.Errorf("invalid pulse %q", rec[4])
		}
		out.Pulse = &pulse
	}
	if v := strings.TrimSpace(rec[5]); v != "" {
		weight, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return model.Reading{}, fmt.Errorf("invalid weight_kg %q", rec[5])
		}
		out.WeightKg = &weight
	}
	return out, nil
}

// duplicateKey matches readings at minute precision, the resolution of the
// csv format.
func duplicateKey(r model.Reading) string {
	return fmt.Sprintf("%s|%d|%d", r.MeasuredAt.UTC().Truncate(time.Minute).Format(time.RFC3339), r.Systolic, r.Diastolic)
}

func normalizeFormat(format string) (string, error) {
	switch f := normalizeName(format); f {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", invalidf("unsupported format %q (use json or csv)", format)
	}
}

func normalizeImportMode(mode ImportMode) (ImportMode, error) {
	switch m := ImportMode(normalizeName(string(mode))); m {
	case "", ImportModeSkip:
		return ImportModeSkip, nil
	case ImportModeFail:
		return ImportModeFail, nil
	default:
		return "", invalidf("invalid import mode %q (use skip|fail)", mode)
	}
}

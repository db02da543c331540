package service

import (
	"context"
	"fmt"
	"time"

	"github.com/zzanghsi8873/bplog/internal/bp"
	"github.com/zzanghsi8873/bplog/internal/model"
	"github.com/zzanghsi8873/bplog/internal/store"
)

type CalendarEvent struct {
	Title   string        `json:"title"`
	Status  bp.Status     `json:"status"`
	Reading model.Reading `json:"reading"`
}

type CalendarDay struct {
	Date   string          `json:"date"`
	Worst  bp.Status       `json:"worst"`
	Events []CalendarEvent `json:"events"`
}

type CalendarMonth struct {
	Month string        `json:"month"`
	Total int           `json:"total"`
	Days  []CalendarDay `json:"days"`
}

// MonthCalendar groups a month's readings by local date, oldest first.
func MonthCalendar(ctx context.Context, st store.Readings, userID string, year int, month time.Month) (CalendarMonth, error) {
	if month < time.January || month > time.December {
		return CalendarMonth{}, invalidf("invalid month %d", month)
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0).Add(-time.Second)

	readings, err := st.List(ctx, cleanUserID(userID), store.Filter{From: start, To: end, Ascending: true})
	if err != nil {
		return CalendarMonth{}, fmt.Errorf("load calendar readings: %w", err)
	}

	out := CalendarMonth{Month: start.Format("2006-01"), Total: len(readings), Days: make([]CalendarDay, 0)}
	for _, r := range readings {
		date := r.MeasuredAt.In(time.Local).Format(dateLayout)
		status := bp.Classify(r.Systolic, r.Diastolic)
		event := CalendarEvent{
			Title:   fmt.Sprintf("%d/%d", r.Systolic, r.Diastolic),
			Status:  status,
			Reading: r,
		}
		n := len(out.Days)
		if n == 0 || out.Days[n-1].Date != date {
			out.Days = append(out.Days, CalendarDay{Date: date, Worst: status})
			n++
		}
		day := &out.Days[n-1]
		day.Events = append(day.Events, event)
		if status.Category.Severity() > day.Worst.Category.Severity() {
			day.Worst = status
		}
	}
	return out, nil
}

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/zzanghsi8873/bplog/internal/bp"
	"github.com/zzanghsi8873/bplog/internal/service"
	"github.com/zzanghsi8873/bplog/internal/store"
)

var errMissingUser = errors.New("X-User-ID header is required")

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status  string    `json:"status"`
	Backend string    `json:"backend"`
	Time    time.Time `json:"time"`
	Uptime  string    `json:"uptime"`
}

type readingRequest struct {
	Systolic   int        `json:"systolic"`
	Diastolic  int        `json:"diastolic"`
	Pulse      *int       `json:"pulse"`
	Weight     *float64   `json:"weight"`
	WeightUnit string     `json:"weight_unit"`
	MeasuredAt *time.Time `json:"measured_at"`
	Notes      string     `json:"notes"`
}

type readingPatchRequest struct {
	Systolic    *int       `json:"systolic"`
	Diastolic   *int       `json:"diastolic"`
	Pulse       *int       `json:"pulse"`
	ClearPulse  bool       `json:"clear_pulse"`
	Weight      *float64   `json:"weight"`
	WeightUnit  string     `json:"weight_unit"`
	ClearWeight bool       `json:"clear_weight"`
	MeasuredAt  *time.Time `json:"measured_at"`
	Notes       *string    `json:"notes"`
}

type settingsRequest struct {
	Theme                *string `json:"theme"`
	UnitsWeight          *string `json:"units_weight"`
	UnitsPressure        *string `json:"units_pressure"`
	NotificationsEnabled *bool   `json:"notifications_enabled"`
	ReminderTime         *string `json:"reminder_time"`
	TargetSystolic       *int    `json:"target_systolic"`
	TargetDiastolic      *int    `json:"target_diastolic"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "healthy",
		Backend: s.backend,
		Time:    time.Now(),
		Uptime:  time.Since(s.startTime).Round(time.Second).String(),
	})
}

func (s *Server) classifyHandler(w http.ResponseWriter, r *http.Request) {
	sys, err := queryInt(r, "systolic")
	if err != nil {
		s.writeError(w, err)
		return
	}
	dia, err := queryInt(r, "diastolic")
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bp.Classify(sys, dia))
}

func (s *Server) listReadingsHandler(w http.ResponseWriter, r *http.Request) {
	user, err := s.userID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	q := r.URL.Query()
	limit := 0
	if q.Get("limit") != "" {
		if limit, err = queryInt(r, "limit"); err != nil {
			s.writeError(w, err)
			return
		}
	}
	items, err := service.ListReadings(r.Context(), s.store, user, service.ListFilter{
		Date:     q.Get("date"),
		FromDate: q.Get("from"),
		ToDate:   q.Get("to"),
		Limit:    limit,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) createReadingHandler(w http.ResponseWriter, r *http.Request) {
	user, err := s.userID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req readingRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	in := service.ReadingInput{
		Systolic:   req.Systolic,
		Diastolic:  req.Diastolic,
		Pulse:      req.Pulse,
		Weight:     req.Weight,
		WeightUnit: req.WeightUnit,
		Notes:      req.Notes,
	}
	if req.MeasuredAt != nil {
		in.MeasuredAt = *req.MeasuredAt
	}
	created, err := service.AddReading(r.Context(), s.store, user, in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) getReadingHandler(w http.ResponseWriter, r *http.Request) {
	user, err := s.userID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	item, err := service.GetReading(r.Context(), s.store, user, mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) updateReadingHandler(w http.ResponseWriter, r *http.Request) {
	user, err := s.userID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req readingPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	updated, err := service.UpdateReading(r.Context(), s.store, user, mux.Vars(r)["id"], service.ReadingUpdate{
		Systolic:    req.Systolic,
		Diastolic:   req.Diastolic,
		Pulse:       req.Pulse,
		ClearPulse:  req.ClearPulse,
		Weight:      req.Weight,
		WeightUnit:  req.WeightUnit,
		ClearWeight: req.ClearWeight,
		MeasuredAt:  req.MeasuredAt,
		Notes:       req.Notes,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteReadingHandler(w http.ResponseWriter, r *http.Request) {
	user, err := s.userID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := service.DeleteReading(r.Context(), s.store, user, mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	user, err := s.userID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	days := service.DefaultWindowDays
	if r.URL.Query().Get("days") != "" {
		if days, err = queryInt(r, "days"); err != nil {
			s.writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, s.agg.Report(r.Context(), user, days))
}

func (s *Server) calendarHandler(w http.ResponseWriter, r *http.Request) {
	user, err := s.userID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	year, month, err := service.ParseMonth(r.URL.Query().Get("month"), time.Now())
	if err != nil {
		s.writeError(w, err)
		return
	}
	cal, err := service.MonthCalendar(r.Context(), s.store, user, year, month)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cal)
}

func (s *Server) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	user, err := s.userID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	view, err := service.Dashboard(r.Context(), s.agg, s.db, user)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) getSettingsHandler(w http.ResponseWriter, r *http.Request) {
	user, err := s.userID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	settings, err := service.GetSettings(s.db, user)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) updateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	user, err := s.userID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req settingsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	settings, err := service.UpdateSettings(s.db, user, service.SettingsPatch{
		Theme:                req.Theme,
		UnitsWeight:          req.UnitsWeight,
		UnitsPressure:        req.UnitsPressure,
		NotificationsEnabled: req.NotificationsEnabled,
		ReminderTime:         req.ReminderTime,
		TargetSystolic:       req.TargetSystolic,
		TargetDiastolic:      req.TargetDiastolic,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) tipsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if q.Get("limit") != "" {
		var err error
		if limit, err = queryInt(r, "limit"); err != nil {
			s.writeError(w, err)
			return
		}
	}
	tips, err := service.ListTips(s.db, service.TipFilter{
		Category: q.Get("category"),
		Status:   q.Get("status"),
		Limit:    limit,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tips)
}

type badRequest struct {
	msg string
}

func (e badRequest) Error() string { return e.msg }

func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, badRequest{msg: name + " is required"}
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest{msg: "invalid " + name + " " + strconv.Quote(raw)}
	}
	return v, nil
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest{msg: "invalid request body: " + err.Error()}
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var bad badRequest
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &bad), errors.Is(err, errMissingUser), service.IsValidationError(err):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrUnavailable):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("request failed")
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

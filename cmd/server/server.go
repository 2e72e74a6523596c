package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/medrevise/spiral/internal/catalog"
	"github.com/medrevise/spiral/internal/platform/cache"
	"github.com/medrevise/spiral/internal/platform/config"
	"github.com/medrevise/spiral/internal/platform/database"
	"github.com/medrevise/spiral/internal/spiral"
	"github.com/medrevise/spiral/internal/store"
)

// timetableRequestSchema validates POST /api/timetable bodies before they
// reach the engine.
const timetableRequestSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["userId", "hoursPerWeek"],
	"properties": {
		"userId": {"type": "string", "minLength": 1},
		"subjects": {"type": "array", "items": {"type": "string"}},
		"blockCounts": {"type": "object", "additionalProperties": {"type": "integer", "minimum": 1}},
		"hoursPerWeek": {"type": "number", "exclusiveMinimum": 0, "maximum": 84},
		"daysPerWeek": {"type": "integer", "minimum": 1, "maximum": 7},
		"yearGroup": {"type": "integer", "minimum": 1, "maximum": 5},
		"passCoverage": {"type": "integer", "minimum": 0, "maximum": 10},
		"reviewInterval": {"type": "integer", "minimum": 1},
		"favourites": {"type": "array", "items": {"type": "string"}},
		"leastFavourites": {"type": "array", "items": {"type": "string"}},
		"startDate": {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"}
	},
	"additionalProperties": false
}`

type timetableRequest struct {
	UserID          string         `json:"userId"`
	Subjects        []string       `json:"subjects"`
	BlockCounts     map[string]int `json:"blockCounts"`
	HoursPerWeek    float64        `json:"hoursPerWeek"`
	DaysPerWeek     int            `json:"daysPerWeek"`
	YearGroup       int            `json:"yearGroup"`
	PassCoverage    int            `json:"passCoverage"`
	ReviewInterval  int            `json:"reviewInterval"`
	Favourites      []string       `json:"favourites"`
	LeastFavourites []string       `json:"leastFavourites"`
	StartDate       string         `json:"startDate"`
}

type performanceRequest struct {
	UserID   string             `json:"userId"`
	Subjects map[string]float64 `json:"subjects"`
	Topics   map[string]float64 `json:"topics"`
}

type eventRequest struct {
	UserID string `json:"userId"`
	spiral.Event
}

// server wires the catalog, scheduling engine, store and optional cache
// behind the HTTP API.
type server struct {
	cfg     *config.Config
	catalog *catalog.Catalog
	store   store.TimetableStore
	cache   *cache.Cache
	db      *database.DB

	schema *gojsonschema.Schema
}

func (s *server) routes() *http.ServeMux {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(timetableRequestSchema))
	if err != nil {
		panic(fmt.Sprintf("compiling request schema: %v", err))
	}
	s.schema = schema

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)
	mux.HandleFunc("GET /api/subjects", s.handleSubjects)
	mux.HandleFunc("POST /api/timetable", s.handleGenerateTimetable)
	mux.HandleFunc("GET /api/timetable/latest", s.handleLatestTimetable)
	mux.HandleFunc("PUT /api/performance", s.handleSavePerformance)
	mux.HandleFunc("GET /api/events", s.handleListEvents)
	mux.HandleFunc("POST /api/events", s.handleAddEvent)
	return mux
}

func (s *server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.HealthCheck(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	if s.cache != nil {
		if err := s.cache.HealthCheck(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "cache unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *server) handleSubjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Subjects())
}

func (s *server) handleGenerateTimetable(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading request body")
		return
	}

	if msg, ok := s.validateRequest(body); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var req timetableRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var startDate time.Time
	if req.StartDate != "" {
		startDate, err = time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid startDate %q", req.StartDate))
			return
		}
	}

	perf, err := s.store.Performance(req.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "loading performance")
		return
	}
	events, err := s.store.Events(req.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "loading events")
		return
	}

	revision := 0
	if latest, err := s.store.LatestTimetable(req.UserID); err == nil {
		revision = latest.Revision
	}

	reviewInterval := req.ReviewInterval
	if reviewInterval == 0 {
		reviewInterval = s.cfg.Scheduler.ReviewInterval
	}

	result := spiral.Generate(spiral.Config{
		Catalog:          s.catalog,
		SelectedSubjects: req.Subjects,
		BlockCounts:      req.BlockCounts,
		HoursPerWeek:     req.HoursPerWeek,
		DaysPerWeek:      req.DaysPerWeek,
		YearGroup:        req.YearGroup,
		PassCoverage:     req.PassCoverage,
		ReviewInterval:   reviewInterval,
		MaxScanDays:      s.cfg.Scheduler.MaxScanDays,
		Favourites:       req.Favourites,
		LeastFavourites:  req.LeastFavourites,
		StartDate:        startDate,
		Performance:      perf,
		Events:           events,
		Revision:         revision,
	})

	if len(result.Blocks) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "no sessions could be scheduled for this selection")
		return
	}

	tt := store.Timetable{
		UserID:   req.UserID,
		Revision: result.Revision,
		Blocks:   result.Blocks,
		Unplaced: result.Unplaced,
	}
	if _, err := s.store.SaveTimetable(tt); err != nil {
		slog.Error("saving timetable", "user", req.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "saving timetable")
		return
	}

	if s.cache != nil {
		ttl := time.Duration(s.cfg.Scheduler.CacheTTL) * time.Minute
		if err := s.cache.StoreTimetable(r.Context(), req.UserID, tt, ttl); err != nil {
			slog.Warn("caching timetable", "user", req.UserID, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *server) handleLatestTimetable(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user query parameter is required")
		return
	}

	if s.cache != nil {
		var tt store.Timetable
		hit, err := s.cache.LatestTimetable(r.Context(), userID, &tt)
		if err != nil {
			slog.Warn("reading cached timetable", "user", userID, "error", err)
		}
		if hit {
			writeJSON(w, http.StatusOK, tt)
			return
		}
	}

	tt, err := s.store.LatestTimetable(userID)
	if err != nil {
		writeError(w, http.StatusNotFound, "no timetable for this user")
		return
	}
	writeJSON(w, http.StatusOK, tt)
}

func (s *server) handleSavePerformance(w http.ResponseWriter, r *http.Request) {
	var req performanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	for key, score := range req.Subjects {
		if score < 0 || score > 1 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("score for %q must be in [0,1]", key))
			return
		}
	}
	for key, score := range req.Topics {
		if score < 0 || score > 1 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("score for %q must be in [0,1]", key))
			return
		}
	}

	perf := spiral.Performance{Subjects: req.Subjects, Topics: req.Topics}
	if err := s.store.SavePerformance(req.UserID, perf); err != nil {
		writeError(w, http.StatusInternalServerError, "saving performance")
		return
	}

	// Mastery changes invalidate the cached timetable.
	if s.cache != nil {
		if err := s.cache.InvalidateTimetable(r.Context(), req.UserID); err != nil {
			slog.Warn("invalidating cached timetable", "user", req.UserID, "error", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user query parameter is required")
		return
	}
	events, err := s.store.Events(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "loading events")
		return
	}
	if events == nil {
		events = []spiral.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *server) handleAddEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	if err := s.store.AddEvent(req.UserID, req.Event); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// validateRequest checks the body against the timetable request schema.
func (s *server) validateRequest(body []byte) (string, bool) {
	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return "invalid JSON", false
	}
	if !result.Valid() {
		msg := "invalid request"
		if errs := result.Errors(); len(errs) > 0 {
			msg = errs[0].String()
		}
		return msg, false
	}
	return "", true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

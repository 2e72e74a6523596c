package spiral

import (
	"log/slog"
	"time"

	"github.com/medrevise/spiral/internal/catalog"
)

// yearMultipliers scales subject time budgets by year group: earlier
// years get more time per curriculum block.
var yearMultipliers = map[int]float64{1: 1.8, 2: 1.6, 3: 1.4, 4: 1.2, 5: 1.0}

// Config is the full run configuration for one timetable generation.
type Config struct {
	Catalog          *catalog.Catalog
	SelectedSubjects []string // empty → favourites are the selection
	BlockCounts      map[string]int
	HoursPerWeek     float64
	YearGroup        int
	YearMultiplier   float64 // explicit override of the YearGroup table
	PassCoverage     int     // ≥1 → session-count path; 0 → hour-budget path
	ReviewInterval   int
	Favourites       []string
	LeastFavourites  []string
	DaysPerWeek      int
	StudyDays        []time.Weekday
	MaxScanDays      int // placement day-scan cap; zero → DefaultMaxScanDays
	StartDate        time.Time
	Performance      *Performance
	Events           []Event
	Revision         int // caller's current revision counter
}

// Result is one generated timetable.
type Result struct {
	Blocks   []StudyBlock `json:"blocks"`
	Unplaced int          `json:"unplaced"`
	Revision int          `json:"revision"`
}

// Generate runs the full pipeline: filter the catalog to the selected
// subjects, build the session sequence, and place it on the calendar.
//
// PassCoverage >= 1 selects the session-count path (fixed two-hour
// sessions, spiral passes with review injection). PassCoverage of zero
// selects the hour-budget path (per-topic minute allocation packed into
// variable 60-120 minute sessions).
//
// An empty selection or a non-positive weekly hour budget yields an empty
// result with the revision counter unchanged; neither is an error here.
func Generate(cfg Config) Result {
	empty := Result{Revision: cfg.Revision}
	if cfg.Catalog == nil {
		return empty
	}

	selected := cfg.SelectedSubjects
	if len(selected) == 0 {
		selected = cfg.Favourites
	}
	subjects := cfg.Catalog.Filter(selected)
	if len(subjects) == 0 {
		slog.Warn("timetable generation skipped", "reason", "empty subject selection")
		return empty
	}
	if cfg.HoursPerWeek <= 0 {
		slog.Warn("timetable generation skipped", "reason", "non-positive weekly hours")
		return empty
	}

	startDate := cfg.StartDate
	if startDate.IsZero() {
		startDate = time.Now()
	}

	var stubs []Stub
	if cfg.PassCoverage >= 1 {
		stubs = BuildSessionStream(StreamConfig{
			Subjects:        subjects,
			BlockCounts:     cfg.BlockCounts,
			PassCoverage:    cfg.PassCoverage,
			ReviewInterval:  cfg.ReviewInterval,
			Favourites:      cfg.Favourites,
			LeastFavourites: cfg.LeastFavourites,
			Performance:     cfg.Performance,
		})
	} else {
		plan := BuildMinutePlan(PlanConfig{
			Subjects:       subjects,
			BlockCounts:    cfg.BlockCounts,
			YearMultiplier: cfg.yearMultiplier(),
			Performance:    cfg.Performance,
		})
		stubs = SliceAllocations(plan)
	}

	placement := PlaceSessions(stubs, CalendarConfig{
		StartDate:       startDate,
		DaysPerWeek:     cfg.DaysPerWeek,
		StudyDays:       cfg.StudyDays,
		DailyStudyHours: cfg.HoursPerWeek / float64(cfg.studyDayCount()),
		Events:          cfg.Events,
		MaxScanDays:     cfg.MaxScanDays,
	})
	annotateConnections(cfg.Catalog, placement.Blocks)

	slog.Info("timetable generated",
		"subjects", len(subjects),
		"sessions", len(stubs),
		"placed", len(placement.Blocks),
		"unplaced", placement.Unplaced,
		"revision", cfg.Revision+1,
	)

	return Result{
		Blocks:   placement.Blocks,
		Unplaced: placement.Unplaced,
		Revision: cfg.Revision + 1,
	}
}

func (cfg Config) yearMultiplier() float64 {
	if cfg.YearMultiplier > 0 {
		return cfg.YearMultiplier
	}
	if m, ok := yearMultipliers[cfg.YearGroup]; ok {
		return m
	}
	return 1.0
}

func (cfg Config) studyDayCount() int {
	if len(cfg.StudyDays) > 0 {
		return len(cfg.StudyDays)
	}
	if cfg.DaysPerWeek >= 1 && cfg.DaysPerWeek <= 7 {
		return cfg.DaysPerWeek
	}
	return 5
}

// annotateConnections attaches up to two related "Subject: Topic" keys to
// each main study block, excluding topics already scheduled earlier in
// the run.
func annotateConnections(cat *catalog.Catalog, blocks []StudyBlock) {
	var seen []string
	for i := range blocks {
		if blocks[i].IsReview || len(blocks[i].Topics) == 0 {
			continue
		}
		blocks[i].Connections = cat.RelatedTopics(blocks[i].Subject, blocks[i].Topics[0], seen)
		for _, t := range blocks[i].Topics {
			seen = append(seen, catalog.TopicKey(blocks[i].Subject, t))
		}
	}
}

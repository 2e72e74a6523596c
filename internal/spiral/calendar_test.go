package spiral_test

import (
	"testing"
	"time"

	"github.com/medrevise/spiral/internal/spiral"
)

func studyStubs(n, minutes int) []spiral.Stub {
	stubs := make([]spiral.Stub, n)
	for i := range stubs {
		stubs[i] = spiral.Stub{
			Subject: "Cardiology",
			Topics:  []string{"Heart Failure"},
			Minutes: minutes,
			Pass:    1,
		}
	}
	return stubs
}

// Wednesday.
var placerStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestPlaceSessions_RespectsWeekdayTable(t *testing.T) {
	placement := spiral.PlaceSessions(studyStubs(4, 120), spiral.CalendarConfig{
		StartDate:       placerStart,
		DaysPerWeek:     2, // Tuesday and Thursday
		DailyStudyHours: 2,
	})

	if placement.Unplaced != 0 {
		t.Fatalf("Unplaced = %d, want 0", placement.Unplaced)
	}
	wantDates := []string{"2025-01-02", "2025-01-07", "2025-01-09", "2025-01-14"}
	for i, block := range placement.Blocks {
		if block.Date != wantDates[i] {
			t.Errorf("block %d date = %s, want %s", i, block.Date, wantDates[i])
		}
		d, err := time.Parse("2006-01-02", block.Date)
		if err != nil {
			t.Fatalf("block %d date parse error = %v", i, err)
		}
		if d.Weekday() != time.Tuesday && d.Weekday() != time.Thursday {
			t.Errorf("block %d on %s, want Tuesday or Thursday", i, d.Weekday())
		}
	}
}

func TestPlaceSessions_ExplicitStudyDays(t *testing.T) {
	placement := spiral.PlaceSessions(studyStubs(3, 120), spiral.CalendarConfig{
		StartDate:       placerStart,
		StudyDays:       []time.Weekday{time.Saturday, time.Sunday},
		DailyStudyHours: 2,
	})

	for i, block := range placement.Blocks {
		d, _ := time.Parse("2006-01-02", block.Date)
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			t.Errorf("block %d on %s, want a weekend day", i, d.Weekday())
		}
	}
}

func TestPlaceSessions_DailyBudget(t *testing.T) {
	placement := spiral.PlaceSessions(studyStubs(4, 120), spiral.CalendarConfig{
		StartDate:       placerStart,
		DaysPerWeek:     7,
		DailyStudyHours: 4,
	})

	perDay := make(map[string]int)
	for _, block := range placement.Blocks {
		perDay[block.Date] += block.Minutes
	}
	if len(perDay) != 2 {
		t.Errorf("blocks span %d days, want 2", len(perDay))
	}
	for date, minutes := range perDay {
		if minutes > 240 {
			t.Errorf("day %s has %d minutes, want <= 240", date, minutes)
		}
	}
}

func TestPlaceSessions_OversizedFirstSessionStillPlaced(t *testing.T) {
	placement := spiral.PlaceSessions(studyStubs(2, 120), spiral.CalendarConfig{
		StartDate:       placerStart,
		DaysPerWeek:     7,
		DailyStudyHours: 1,
	})

	if placement.Unplaced != 0 {
		t.Fatalf("Unplaced = %d, want 0", placement.Unplaced)
	}
	if placement.Blocks[0].Date == placement.Blocks[1].Date {
		t.Error("both sessions on one day despite a sub-session budget")
	}
}

func TestPlaceSessions_NoOverlapWithinDay(t *testing.T) {
	placement := spiral.PlaceSessions(studyStubs(2, 120), spiral.CalendarConfig{
		StartDate:       placerStart,
		DaysPerWeek:     7,
		DailyStudyHours: 4,
	})

	if len(placement.Blocks) != 2 {
		t.Fatalf("placed %d blocks, want 2", len(placement.Blocks))
	}
	first, second := placement.Blocks[0], placement.Blocks[1]
	if first.Date != second.Date {
		t.Fatalf("blocks on %s and %s, want the same day", first.Date, second.Date)
	}
	if first.StartTime != "09:00" || first.EndTime != "11:00" {
		t.Errorf("first block at %s-%s, want 09:00-11:00", first.StartTime, first.EndTime)
	}
	if second.StartTime != "11:00" || second.EndTime != "13:00" {
		t.Errorf("second block at %s-%s, want 11:00-13:00", second.StartTime, second.EndTime)
	}
}

func TestPlaceSessions_AvoidsRecurringEvent(t *testing.T) {
	lecture := spiral.Event{
		Name:            "Morning Lecture",
		Date:            "2025-01-01",
		StartTime:       "09:00",
		EndTime:         "11:00",
		RecurringWeekly: true,
		RecurringDays:   []int{1, 2, 3, 4, 5}, // every weekday
	}

	placement := spiral.PlaceSessions(studyStubs(2, 120), spiral.CalendarConfig{
		StartDate:       placerStart,
		DaysPerWeek:     5,
		DailyStudyHours: 2,
		Events:          []spiral.Event{lecture},
	})

	if placement.Unplaced != 0 {
		t.Fatalf("Unplaced = %d, want 0", placement.Unplaced)
	}
	for i, block := range placement.Blocks {
		if block.StartTime != "11:00" {
			t.Errorf("block %d starts at %s, want 11:00 (after the lecture)", i, block.StartTime)
		}
	}
}

func TestPlaceSessions_SingleDateEvent(t *testing.T) {
	exam := spiral.Event{
		Name:      "OSCE",
		Date:      "2025-01-01",
		StartTime: "09:00",
		EndTime:   "12:00",
	}

	placement := spiral.PlaceSessions(studyStubs(2, 120), spiral.CalendarConfig{
		StartDate:       placerStart,
		DaysPerWeek:     7,
		DailyStudyHours: 2,
		Events:          []spiral.Event{exam},
	})

	if placement.Blocks[0].Date != "2025-01-01" || placement.Blocks[0].StartTime != "12:00" {
		t.Errorf("first block = %s %s, want 2025-01-01 12:00",
			placement.Blocks[0].Date, placement.Blocks[0].StartTime)
	}
	// The event does not recur: the next day opens at 09:00.
	if placement.Blocks[1].Date != "2025-01-02" || placement.Blocks[1].StartTime != "09:00" {
		t.Errorf("second block = %s %s, want 2025-01-02 09:00",
			placement.Blocks[1].Date, placement.Blocks[1].StartTime)
	}
}

func TestPlaceSessions_ReportsUnplaced(t *testing.T) {
	allDay := spiral.Event{
		Name:            "Placement",
		Date:            "2025-01-01",
		StartTime:       "09:00",
		EndTime:         "21:00",
		RecurringWeekly: true,
		RecurringDays:   []int{0, 1, 2, 3, 4, 5, 6},
	}

	placement := spiral.PlaceSessions(studyStubs(3, 120), spiral.CalendarConfig{
		StartDate:       placerStart,
		DaysPerWeek:     7,
		DailyStudyHours: 2,
		Events:          []spiral.Event{allDay},
		MaxScanDays:     14,
	})

	if len(placement.Blocks) != 0 {
		t.Errorf("placed %d blocks into a fully booked fortnight, want 0", len(placement.Blocks))
	}
	if placement.Unplaced != 3 {
		t.Errorf("Unplaced = %d, want 3", placement.Unplaced)
	}
}

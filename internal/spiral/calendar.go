package spiral

import (
	"fmt"
	"time"
)

const (
	// Daily placement window.
	dayStartMinute = 9 * 60  // 09:00
	dayEndMinute   = 21 * 60 // 21:00

	// probeStepMinutes is the increment used to retry later start times
	// within a day after an event conflict.
	probeStepMinutes = 30

	// DefaultMaxScanDays caps the placer's day scan so pervasive
	// conflicts cannot spin it forever.
	DefaultMaxScanDays = 730
)

// CalendarConfig configures placement of a session stream onto real dates.
// StudyDays, when non-empty, is the explicit weekday set; otherwise
// DaysPerWeek selects from a fixed table (5 → Mon-Fri, 3 → Mon/Wed/Fri,
// 1 → Wed, ...).
type CalendarConfig struct {
	StartDate       time.Time
	DaysPerWeek     int
	StudyDays       []time.Weekday
	DailyStudyHours float64
	Events          []Event
	MaxScanDays     int // zero → DefaultMaxScanDays
}

// Placement is the placer result: dated blocks plus the count of stubs
// that could not be scheduled within the day-scan limit.
type Placement struct {
	Blocks   []StudyBlock `json:"blocks"`
	Unplaced int          `json:"unplaced"`
}

// PlaceSessions maps the stub sequence onto calendar slots in order,
// packing each valid study day up to the daily budget, probing later
// start times within the day when a slot collides with a user event.
// Placed blocks never overlap each other or any event interval. Days with
// no usable slot are skipped silently.
func PlaceSessions(stubs []Stub, cfg CalendarConfig) Placement {
	maxDays := cfg.MaxScanDays
	if maxDays <= 0 {
		maxDays = DefaultMaxScanDays
	}
	budget := int(cfg.DailyStudyHours * 60)

	var blocks []StudyBlock
	idx := 0
	date := cfg.StartDate

	for day := 0; day < maxDays && idx < len(stubs); day++ {
		if !isValidStudyDay(date, cfg) {
			date = date.AddDate(0, 0, 1)
			continue
		}

		cursor := dayStartMinute
		placed := 0
		for idx < len(stubs) {
			minutes := stubs[idx].Minutes
			if minutes <= 0 {
				minutes = DefaultSessionMinutes
			}
			// Always attempt the first stub of a day, so a sub-session
			// daily budget still makes progress.
			if placed > 0 && placed+minutes > budget {
				break
			}

			start, ok := findDaySlot(date, cursor, minutes, cfg.Events)
			if !ok {
				break
			}

			blocks = append(blocks, makeBlock(stubs[idx], date, start, minutes))
			cursor = start + minutes
			placed += minutes
			idx++
		}

		date = date.AddDate(0, 0, 1)
	}

	return Placement{Blocks: blocks, Unplaced: len(stubs) - idx}
}

// isValidStudyDay applies the explicit weekday set when given, otherwise
// the days-per-week table.
func isValidStudyDay(date time.Time, cfg CalendarConfig) bool {
	wd := date.Weekday()
	if len(cfg.StudyDays) > 0 {
		for _, d := range cfg.StudyDays {
			if d == wd {
				return true
			}
		}
		return false
	}

	switch cfg.DaysPerWeek {
	case 7:
		return true
	case 6:
		return wd != time.Sunday
	case 5:
		return wd >= time.Monday && wd <= time.Friday
	case 4:
		return wd >= time.Monday && wd <= time.Thursday
	case 3:
		return wd == time.Monday || wd == time.Wednesday || wd == time.Friday
	case 2:
		return wd == time.Tuesday || wd == time.Thursday
	case 1:
		return wd == time.Wednesday
	default:
		return wd >= time.Monday && wd <= time.Friday
	}
}

// findDaySlot probes start times from the cursor forward in half-hour
// steps until the slot clears every event active on the date.
func findDaySlot(date time.Time, cursor, minutes int, events []Event) (int, bool) {
	for start := cursor; start+minutes <= dayEndMinute; start += probeStepMinutes {
		if !overlapsAnyEvent(date, start, start+minutes, events) {
			return start, true
		}
	}
	return 0, false
}

// overlapsAnyEvent reports whether [slotStart, slotEnd) intersects an
// event active on the date: an exact date match, or a weekday match for
// recurring-weekly events.
func overlapsAnyEvent(date time.Time, slotStart, slotEnd int, events []Event) bool {
	dateStr := date.Format("2006-01-02")
	for _, ev := range events {
		if !eventActiveOn(ev, date, dateStr) {
			continue
		}
		evStart, err1 := clockToMinutes(ev.StartTime)
		evEnd, err2 := clockToMinutes(ev.EndTime)
		if err1 != nil || err2 != nil {
			continue
		}
		if slotStart < evEnd && slotEnd > evStart {
			return true
		}
	}
	return false
}

func eventActiveOn(ev Event, date time.Time, dateStr string) bool {
	if ev.Date == dateStr {
		return true
	}
	if !ev.RecurringWeekly {
		return false
	}
	if len(ev.RecurringDays) > 0 {
		for _, d := range ev.RecurringDays {
			if time.Weekday(d) == date.Weekday() {
				return true
			}
		}
		return false
	}
	// No day list: recur on the original event's weekday.
	if orig, err := time.Parse("2006-01-02", ev.Date); err == nil {
		return orig.Weekday() == date.Weekday()
	}
	return false
}

func makeBlock(stub Stub, date time.Time, startMinute, minutes int) StudyBlock {
	return StudyBlock{
		Subject:   stub.Subject,
		Topics:    append([]string(nil), stub.Topics...),
		Date:      date.Format("2006-01-02"),
		StartTime: minutesToClock(startMinute),
		EndTime:   minutesToClock(startMinute + minutes),
		Minutes:   minutes,
		IsReview:  stub.IsReview,
		Pass:      stub.Pass,
	}
}

// clockToMinutes parses "HH:MM" into minutes since midnight.
func clockToMinutes(clock string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(clock, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q", clock)
	}
	return h*60 + m, nil
}

func minutesToClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

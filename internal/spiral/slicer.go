package spiral

import "math"

const (
	// MinSessionMinutes and MaxSessionMinutes bound sliced sessions.
	MinSessionMinutes = 60
	MaxSessionMinutes = 120

	// sliceInterval snaps allocations to half-hour multiples.
	sliceInterval = 30
)

// SliceAllocations packs minute allocations into session stubs of 60-120
// minutes by greedy accumulation. A topic is never split across sessions.
// A new session starts when the subject changes or the next entry would
// push past the maximum; a session flushes early once it reaches the
// minimum and hits a natural boundary (exactly the maximum, or the chunk
// just added was itself a full hour). A trailing accumulation below the
// minimum at list end is still flushed rather than dropped.
func SliceAllocations(plan []Allocation) []Stub {
	var sessions []Stub
	var current *Stub

	for _, entry := range plan {
		minutes := roundToInterval(entry.Minutes)

		if current != nil && (current.Subject != entry.Subject || current.Minutes+minutes > MaxSessionMinutes) {
			sessions = append(sessions, *current)
			current = nil
		}

		if current == nil {
			current = &Stub{
				Subject: entry.Subject,
				Topics:  []string{entry.Topic},
				Minutes: minutes,
				Pass:    1,
			}
		} else {
			current.Topics = append(current.Topics, entry.Topic)
			current.Minutes += minutes
		}

		if current.Minutes >= MinSessionMinutes &&
			(current.Minutes == MaxSessionMinutes || minutes >= MinSessionMinutes) {
			sessions = append(sessions, *current)
			current = nil
		}
	}

	if current != nil {
		sessions = append(sessions, *current)
	}
	return sessions
}

// roundToInterval snaps minutes to the nearest half hour, clamped to the
// session bounds.
func roundToInterval(minutes int) int {
	rounded := int(math.Round(float64(minutes)/sliceInterval)) * sliceInterval
	if rounded < sliceInterval {
		rounded = sliceInterval
	}
	if rounded > MaxSessionMinutes {
		rounded = MaxSessionMinutes
	}
	return rounded
}

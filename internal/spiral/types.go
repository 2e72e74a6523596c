// Package spiral implements the spiral-revision scheduling engine: minute
// allocation from weighted importance and mastery, review-spaced session
// stream generation, greedy session packing, and calendar placement around
// the user's busy intervals.
//
// The engine is a pure in-memory pipeline; all mutable state is local to a
// single run and concurrent runs are independent.
package spiral

import "github.com/medrevise/spiral/internal/catalog"

// Performance holds a user's mastery data. Topic keys use the
// "Subject: Topic" form (catalog.TopicKey); scores are in [0,1] with 1
// fully mastered. Both maps are sparse and optional.
type Performance struct {
	Subjects map[string]float64 `json:"subjects,omitempty"`
	Topics   map[string]float64 `json:"topics,omitempty"`
}

// TopicMastery returns the mastery score for a topic, or the engine
// default when no score is recorded.
func (p *Performance) TopicMastery(subject, topic string) float64 {
	if p == nil || p.Topics == nil {
		return DefaultMastery
	}
	if m, ok := p.Topics[catalog.TopicKey(subject, topic)]; ok {
		return m
	}
	return DefaultMastery
}

// Event is an externally supplied busy interval the placer must avoid.
type Event struct {
	Name            string `json:"name"`
	Date            string `json:"date"`      // YYYY-MM-DD
	StartTime       string `json:"startTime"` // HH:MM, 24-hour
	EndTime         string `json:"endTime"`
	RecurringWeekly bool   `json:"recurringWeekly,omitempty"`
	RecurringDays   []int  `json:"recurringDays,omitempty"` // weekday indices, Sunday = 0
}

// Allocation is a per-topic minute budget derived from ratings and mastery.
type Allocation struct {
	Subject        string  `json:"subject"`
	Topic          string  `json:"topic"`
	Minutes        int     `json:"minutes"`
	AdjustedWeight float64 `json:"adjustedWeight"`
}

// Stub is a unit of scheduled work before calendar placement.
type Stub struct {
	Subject  string
	Topics   []string
	Minutes  int
	IsReview bool
	Pass     int
}

// StudyBlock is the final output unit: a dated, timed study session.
type StudyBlock struct {
	Subject     string   `json:"subject"`
	Topics      []string `json:"topics"`
	Connections []string `json:"connections,omitempty"`
	Date        string   `json:"date"`      // YYYY-MM-DD
	StartTime   string   `json:"startTime"` // HH:MM
	EndTime     string   `json:"endTime"`
	Minutes     int      `json:"minutes"`
	IsReview    bool     `json:"isReview"`
	Pass        int      `json:"passNumber,omitempty"`
}

package spiral

import (
	"math"

	"github.com/medrevise/spiral/internal/catalog"
)

const (
	// MinutesPerBlock converts a subject's curriculum block count into
	// study minutes (one block = 2.5 hours).
	MinutesPerBlock = 150

	// DefaultMastery is assumed for topics with no recorded score.
	DefaultMastery = 0.7

	// DefaultBaseBlocks is used when a subject carries no block count.
	DefaultBaseBlocks = 5

	// MinAllocationMinutes is the floor below which a topic is excluded
	// from the plan rather than scheduled at sub-minimum duration.
	MinAllocationMinutes = 30

	// lowPerformanceBoost scales a subject's block count by aggregate
	// performance: a subject scored 0 gets 1.5x blocks, scored 1 gets 1x.
	lowPerformanceBoost = 1.5
)

// PlanConfig configures minute allocation for a set of subjects.
type PlanConfig struct {
	Subjects       []catalog.Subject
	BlockCounts    map[string]int // overrides each subject's own base blocks
	YearMultiplier float64        // zero → 1.0
	Performance    *Performance
}

// BuildMinutePlan allocates study minutes to every topic of every subject,
// proportional to mastery-adjusted importance. Entries are ordered
// subject-major in input order, topics in catalog order. Subjects with no
// weight (no topics) are skipped; topics under the minimum floor are
// dropped.
func BuildMinutePlan(cfg PlanConfig) []Allocation {
	ym := cfg.YearMultiplier
	if ym == 0 {
		ym = 1.0
	}

	var plan []Allocation
	for _, subject := range cfg.Subjects {
		blocks := subjectBlocks(subject, cfg.BlockCounts, cfg.Performance)
		totalMinutes := blocks * MinutesPerBlock * ym

		adjusted := make([]float64, len(subject.Topics))
		sum := 0.0
		for i, topic := range subject.Topics {
			mastery := cfg.Performance.TopicMastery(subject.Name, topic.Name)
			adjusted[i] = topic.CompositeScore() * (1 + (1-mastery)/2)
			sum += adjusted[i]
		}
		if sum == 0 {
			continue
		}

		for i, topic := range subject.Topics {
			minutes := int(math.Round(totalMinutes * adjusted[i] / sum))
			if minutes < MinAllocationMinutes {
				continue
			}
			plan = append(plan, Allocation{
				Subject:        subject.Name,
				Topic:          topic.Name,
				Minutes:        minutes,
				AdjustedWeight: adjusted[i],
			})
		}
	}
	return plan
}

// subjectBlocks resolves a subject's effective block count: explicit
// override, then the subject's own count, then the default, scaled up
// for weak aggregate performance when subject-level scores exist.
func subjectBlocks(subject catalog.Subject, overrides map[string]int, perf *Performance) float64 {
	blocks := subject.BaseBlocks
	if n, ok := overrides[subject.Name]; ok {
		blocks = n
	}
	if blocks == 0 {
		blocks = DefaultBaseBlocks
	}

	mult := 1.0
	if perf != nil && perf.Subjects != nil {
		if score, ok := perf.Subjects[subject.Name]; ok {
			mult = 1 + (lowPerformanceBoost-1)*(1-score)
		}
	}
	return float64(blocks) * mult
}

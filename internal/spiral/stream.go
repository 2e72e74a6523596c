package spiral

import (
	"math"
	"sort"

	"github.com/medrevise/spiral/internal/catalog"
)

const (
	// SessionsPerBlock converts a subject's block count into its session
	// quota: quota = blocks × SessionsPerBlock × passCoverage.
	SessionsPerBlock = 5

	// DefaultReviewInterval is the review injection interval k.
	DefaultReviewInterval = 10

	// DefaultSessionMinutes is the fixed duration of stream-path sessions.
	DefaultSessionMinutes = 120

	favouriteMultiplier      = 1.5
	leastFavouriteMultiplier = 0.6
)

// StreamConfig configures session stream generation. Subjects are
// iterated in input order; that order is part of the contract.
type StreamConfig struct {
	Subjects        []catalog.Subject
	BlockCounts     map[string]int // overrides each subject's own base blocks
	PassCoverage    int            // zero → 1
	ReviewInterval  int            // k; zero → DefaultReviewInterval
	Favourites      []string
	LeastFavourites []string
	Performance     *Performance
}

// candidate is a studied topic awaiting review selection. Lifetime is one
// BuildSessionStream call.
type candidate struct {
	subject     string
	topic       string
	lastStudied int // 1-indexed stream position of the most recent study
	seq         int // first-study order, deterministic tiebreak
}

// BuildSessionStream produces the ordered session sequence: one pass of
// highest-yield-first topic coverage per subject, cycling until every
// subject reaches its quota, with a review session injected at every k-th
// stream position while studied topics are waiting.
//
// The quota caps total sessions (main and review) per subject. Favourite
// subjects get a 1.5x quota, least favourites 0.6x; neutral subjects keep
// the exact blocks × 5 × passCoverage count.
func BuildSessionStream(cfg StreamConfig) []Stub {
	k := cfg.ReviewInterval
	if k <= 0 {
		k = DefaultReviewInterval
	}
	passCoverage := cfg.PassCoverage
	if passCoverage <= 0 {
		passCoverage = 1
	}

	quotas := make(map[string]int, len(cfg.Subjects))
	counts := make(map[string]int, len(cfg.Subjects))
	ranked := make(map[string][]catalog.Topic, len(cfg.Subjects))
	for _, subject := range cfg.Subjects {
		blocks := subject.BaseBlocks
		if n, ok := cfg.BlockCounts[subject.Name]; ok {
			blocks = n
		}
		if blocks == 0 {
			blocks = DefaultBaseBlocks
		}
		mult := preferenceMultiplier(subject.Name, cfg.Favourites, cfg.LeastFavourites)
		quotas[subject.Name] = int(math.Round(float64(blocks*SessionsPerBlock*passCoverage) * mult))
		ranked[subject.Name] = rankTopics(subject.Topics)
	}

	var stream []Stub
	mains := make(map[string]int)      // main sessions emitted per subject
	studies := make(map[string]int)    // study count per topic key
	candidates := make(map[string]*candidate)
	seq := 0

	for {
		progressed := false
		for _, subject := range cfg.Subjects {
			name := subject.Name
			topics := ranked[name]
			if len(topics) == 0 || counts[name] >= quotas[name] {
				continue
			}

			// The k-th, 2k-th, ... stream positions belong to reviews.
			if (len(stream)+1)%k == 0 {
				if rc, ok := selectReview(candidates, len(stream)+1, quotas, counts, cfg); ok {
					stream = append(stream, Stub{
						Subject:  rc.subject,
						Topics:   []string{rc.topic},
						Minutes:  DefaultSessionMinutes,
						IsReview: true,
						Pass:     studies[catalog.TopicKey(rc.subject, rc.topic)],
					})
					counts[rc.subject]++
					delete(candidates, catalog.TopicKey(rc.subject, rc.topic))
				}
			}
			if counts[name] >= quotas[name] {
				continue // the review consumed this subject's last slot
			}

			topic := topics[mains[name]%len(topics)]
			stream = append(stream, Stub{
				Subject: name,
				Topics:  []string{topic.Name},
				Minutes: DefaultSessionMinutes,
				Pass:    mains[name]/len(topics) + 1,
			})
			counts[name]++
			mains[name]++

			key := catalog.TopicKey(name, topic.Name)
			studies[key]++
			if c, ok := candidates[key]; ok {
				c.lastStudied = len(stream)
			} else {
				seq++
				candidates[key] = &candidate{
					subject:     name,
					topic:       topic.Name,
					lastStudied: len(stream),
					seq:         seq,
				}
			}
			progressed = true
		}
		if !progressed {
			break
		}
	}
	return stream
}

// rankTopics orders topics by descending composite score, catalog order
// breaking ties.
func rankTopics(topics []catalog.Topic) []catalog.Topic {
	out := append([]catalog.Topic(nil), topics...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompositeScore() > out[j].CompositeScore()
	})
	return out
}

func preferenceMultiplier(subject string, favourites, leastFavourites []string) float64 {
	for _, s := range favourites {
		if s == subject {
			return favouriteMultiplier
		}
	}
	for _, s := range leastFavourites {
		if s == subject {
			return leastFavouriteMultiplier
		}
	}
	return 1.0
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

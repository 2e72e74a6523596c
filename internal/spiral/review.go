package spiral

import "container/heap"

// reviewItem pairs a candidate with its weight at one injection point.
type reviewItem struct {
	cand   *candidate
	weight float64
}

// reviewHeap is a max-heap over review candidates, highest weight first,
// first-studied first on equal weight.
type reviewHeap []reviewItem

func (h reviewHeap) Len() int { return len(h) }

func (h reviewHeap) Less(i, j int) bool {
	if h[i].weight != h[j].weight {
		return h[i].weight > h[j].weight
	}
	return h[i].cand.seq < h[j].cand.seq
}

func (h reviewHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *reviewHeap) Push(x any) { *h = append(*h, x.(reviewItem)) }

func (h *reviewHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// selectReview picks the highest-weight candidate whose subject still has
// quota, or reports that none is available. Weights are recomputed at the
// injection position so the gap term reflects how long each topic has
// actually waited:
//
//	weight = (1/gap) × clamp(1 + (1 − mastery), 0.5, 2) × prefMultiplier
//
// where gap is the number of stream positions since the topic was last
// studied. Recently studied topics review soonest, weighted toward
// under-mastered and favourite-subject material.
func selectReview(candidates map[string]*candidate, pos int, quotas, counts map[string]int, cfg StreamConfig) (*candidate, bool) {
	h := &reviewHeap{}
	for _, c := range candidates {
		if counts[c.subject] >= quotas[c.subject] {
			continue
		}
		gap := pos - c.lastStudied
		if gap < 1 {
			gap = 1
		}
		mastery := cfg.Performance.TopicMastery(c.subject, c.topic)
		difficultyFactor := clampFloat(1+(1-mastery), 0.5, 2)
		pref := preferenceMultiplier(c.subject, cfg.Favourites, cfg.LeastFavourites)
		heap.Push(h, reviewItem{cand: c, weight: (1.0 / float64(gap)) * difficultyFactor * pref})
	}
	if h.Len() == 0 {
		return nil, false
	}
	return heap.Pop(h).(reviewItem).cand, true
}

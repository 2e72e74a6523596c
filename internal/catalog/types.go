package catalog

// Ratings scores a topic on the three revision axes, each on a 1-10 scale.
type Ratings struct {
	Difficulty         float64 `yaml:"difficulty" json:"difficulty"`
	ClinicalImportance float64 `yaml:"clinical_importance" json:"clinicalImportance"`
	ExamRelevance      float64 `yaml:"exam_relevance" json:"examRelevance"`
}

// Topic is a revisable unit of knowledge within a subject.
type Topic struct {
	Name    string  `yaml:"name" json:"name"`
	Ratings Ratings `yaml:"ratings" json:"ratings"`
}

// CompositeScore is the weighted yield score used to rank topics:
// 0.4·difficulty + 0.3·clinicalImportance + 0.3·examRelevance.
func (t Topic) CompositeScore() float64 {
	return 0.4*t.Ratings.Difficulty + 0.3*t.Ratings.ClinicalImportance + 0.3*t.Ratings.ExamRelevance
}

// MeanImportance is the unweighted mean of the three ratings, used for
// related-topic similarity.
func (t Topic) MeanImportance() float64 {
	return (t.Ratings.Difficulty + t.Ratings.ClinicalImportance + t.Ratings.ExamRelevance) / 3
}

// ConditionGroup names a cluster of related conditions within a subject
// (e.g. "Ischaemic heart disease" grouping ACS, angina, MI complications).
type ConditionGroup struct {
	Name       string   `yaml:"name" json:"name"`
	Conditions []string `yaml:"conditions" json:"conditions"`
}

// Subject is a named collection of topics plus its curriculum weight.
type Subject struct {
	Name            string           `yaml:"name" json:"name"`
	BaseBlocks      int              `yaml:"base_blocks" json:"baseBlocks"`
	Topics          []Topic          `yaml:"topics" json:"topics"`
	ConditionGroups []ConditionGroup `yaml:"condition_groups,omitempty" json:"conditionGroups,omitempty"`
}

// Topic returns the named topic, if present.
func (s Subject) Topic(name string) (Topic, bool) {
	for _, t := range s.Topics {
		if t.Name == name {
			return t, true
		}
	}
	return Topic{}, false
}

// groupsFor returns the names of every condition group containing the topic.
func (s Subject) groupsFor(topic string) []string {
	var groups []string
	for _, g := range s.ConditionGroups {
		for _, c := range g.Conditions {
			if c == topic {
				groups = append(groups, g.Name)
				break
			}
		}
	}
	return groups
}

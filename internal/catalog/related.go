package catalog

import "math"

// maxRelated caps how many connection topics a study block is annotated with.
const maxRelated = 2

// relatedImportanceWindow is the maximum mean-importance distance for two
// topics to count as similar.
const relatedImportanceWindow = 2.0

// RelatedTopics finds up to two "Subject: Topic" keys related to the given
// topic, preferring members of the same condition group, then topics of
// similar mean importance anywhere in the catalog. Keys in exclude are
// skipped.
func (c *Catalog) RelatedTopics(subjectName, topicName string, exclude []string) []string {
	subject, ok := c.Subject(subjectName)
	if !ok {
		return nil
	}
	current, ok := subject.Topic(topicName)
	if !ok {
		return nil
	}

	skip := make(map[string]bool, len(exclude)+1)
	for _, k := range exclude {
		skip[k] = true
	}
	skip[TopicKey(subjectName, topicName)] = true

	var sameGroup, similar []string
	seen := make(map[string]bool)

	// Same condition group first.
	for _, groupName := range subject.groupsFor(topicName) {
		for _, g := range subject.ConditionGroups {
			if g.Name != groupName {
				continue
			}
			for _, cond := range g.Conditions {
				key := TopicKey(subjectName, cond)
				if skip[key] || seen[key] {
					continue
				}
				if _, ok := subject.Topic(cond); !ok {
					continue
				}
				sameGroup = append(sameGroup, key)
				seen[key] = true
			}
		}
	}

	// Then topics of similar mean importance, catalog order.
	for _, s := range c.Subjects() {
		for _, t := range s.Topics {
			key := TopicKey(s.Name, t.Name)
			if skip[key] || seen[key] {
				continue
			}
			if math.Abs(t.MeanImportance()-current.MeanImportance()) <= relatedImportanceWindow {
				similar = append(similar, key)
				seen[key] = true
			}
		}
	}

	combined := append(sameGroup, similar...)
	if len(combined) > maxRelated {
		combined = combined[:maxRelated]
	}
	return combined
}

// TopicKey builds the "Subject: Topic" key used throughout performance
// maps and related-topic lookups.
func TopicKey(subject, topic string) string {
	return subject + ": " + topic
}

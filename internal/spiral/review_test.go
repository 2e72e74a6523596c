package spiral

import "testing"

func TestSelectReview_LowerMasteryWinsEqualGaps(t *testing.T) {
	candidates := map[string]*candidate{
		"Cardiology: Heart Failure": {subject: "Cardiology", topic: "Heart Failure", lastStudied: 4, seq: 1},
		"Cardiology: ACS":           {subject: "Cardiology", topic: "ACS", lastStudied: 4, seq: 2},
	}
	cfg := StreamConfig{Performance: &Performance{Topics: map[string]float64{
		"Cardiology: Heart Failure": 0.9,
		"Cardiology: ACS":           0.2,
	}}}

	got, ok := selectReview(candidates, 8, map[string]int{"Cardiology": 10}, map[string]int{"Cardiology": 5}, cfg)
	if !ok {
		t.Fatal("selectReview() found no candidate")
	}
	if got.topic != "ACS" {
		t.Errorf("selectReview() chose %q, want ACS (lower mastery at equal gap)", got.topic)
	}
}

func TestSelectReview_SmallerGapWinsEqualMastery(t *testing.T) {
	candidates := map[string]*candidate{
		"Cardiology: Heart Failure": {subject: "Cardiology", topic: "Heart Failure", lastStudied: 3, seq: 1},
		"Cardiology: ACS":           {subject: "Cardiology", topic: "ACS", lastStudied: 7, seq: 2},
	}

	got, ok := selectReview(candidates, 8, map[string]int{"Cardiology": 10}, map[string]int{"Cardiology": 5}, StreamConfig{})
	if !ok {
		t.Fatal("selectReview() found no candidate")
	}
	if got.topic != "ACS" {
		t.Errorf("selectReview() chose %q, want ACS (more recently studied)", got.topic)
	}
}

func TestSelectReview_FavouriteWinsEqualGapAndMastery(t *testing.T) {
	candidates := map[string]*candidate{
		"Cardiology: Heart Failure": {subject: "Cardiology", topic: "Heart Failure", lastStudied: 5, seq: 1},
		"Respiratory: Asthma":       {subject: "Respiratory", topic: "Asthma", lastStudied: 5, seq: 2},
	}
	cfg := StreamConfig{Favourites: []string{"Respiratory"}}
	quotas := map[string]int{"Cardiology": 10, "Respiratory": 10}

	got, ok := selectReview(candidates, 9, quotas, map[string]int{}, cfg)
	if !ok {
		t.Fatal("selectReview() found no candidate")
	}
	if got.subject != "Respiratory" {
		t.Errorf("selectReview() chose subject %q, want Respiratory", got.subject)
	}
}

func TestSelectReview_SkipsSubjectsAtQuota(t *testing.T) {
	candidates := map[string]*candidate{
		"Cardiology: Heart Failure": {subject: "Cardiology", topic: "Heart Failure", lastStudied: 2, seq: 1},
		"Respiratory: Asthma":       {subject: "Respiratory", topic: "Asthma", lastStudied: 7, seq: 2},
	}
	quotas := map[string]int{"Cardiology": 10, "Respiratory": 3}
	counts := map[string]int{"Cardiology": 4, "Respiratory": 3}

	got, ok := selectReview(candidates, 8, quotas, counts, StreamConfig{})
	if !ok {
		t.Fatal("selectReview() found no candidate")
	}
	if got.subject != "Cardiology" {
		t.Errorf("selectReview() chose subject %q, want Cardiology (Respiratory at quota)", got.subject)
	}

	counts["Cardiology"] = 10
	if _, ok := selectReview(candidates, 8, quotas, counts, StreamConfig{}); ok {
		t.Error("selectReview() returned a candidate with every subject at quota")
	}
}

package spiral_test

import (
	"reflect"
	"testing"

	"github.com/medrevise/spiral/internal/spiral"
)

func alloc(subject, topic string, minutes int) spiral.Allocation {
	return spiral.Allocation{Subject: subject, Topic: topic, Minutes: minutes}
}

func TestSliceAllocations_SessionBounds(t *testing.T) {
	plan := []spiral.Allocation{
		alloc("Cardiology", "Heart Failure", 95),
		alloc("Cardiology", "ACS", 50),
		alloc("Cardiology", "Arrhythmia", 40),
		alloc("Respiratory", "Asthma", 120),
		alloc("Respiratory", "COPD", 30),
	}

	sessions := spiral.SliceAllocations(plan)
	if len(sessions) == 0 {
		t.Fatal("SliceAllocations() returned no sessions")
	}
	for i, s := range sessions {
		if s.Minutes > spiral.MaxSessionMinutes {
			t.Errorf("session %d is %d minutes, want <= %d", i, s.Minutes, spiral.MaxSessionMinutes)
		}
		// Only the trailing remainder of a subject may fall under the minimum.
		if s.Minutes < spiral.MinSessionMinutes && i < len(sessions)-1 && sessions[i+1].Subject == s.Subject {
			t.Errorf("session %d is %d minutes mid-subject, want >= %d", i, s.Minutes, spiral.MinSessionMinutes)
		}
		if s.Minutes%30 != 0 {
			t.Errorf("session %d is %d minutes, want a multiple of 30", i, s.Minutes)
		}
	}
}

func TestSliceAllocations_NeverMixesSubjects(t *testing.T) {
	plan := []spiral.Allocation{
		alloc("Cardiology", "Heart Failure", 30),
		alloc("Respiratory", "Asthma", 30),
	}

	sessions := spiral.SliceAllocations(plan)
	if len(sessions) != 2 {
		t.Fatalf("SliceAllocations() returned %d sessions, want 2", len(sessions))
	}
	if sessions[0].Subject != "Cardiology" || sessions[1].Subject != "Respiratory" {
		t.Errorf("subjects = %q, %q; want Cardiology, Respiratory",
			sessions[0].Subject, sessions[1].Subject)
	}
}

func TestSliceAllocations_AccumulatesShortTopics(t *testing.T) {
	plan := []spiral.Allocation{
		alloc("Cardiology", "Heart Failure", 30),
		alloc("Cardiology", "ACS", 30),
		alloc("Cardiology", "Arrhythmia", 60),
	}

	sessions := spiral.SliceAllocations(plan)
	if len(sessions) != 1 {
		t.Fatalf("SliceAllocations() returned %d sessions, want 1", len(sessions))
	}
	if sessions[0].Minutes != 120 {
		t.Errorf("session minutes = %d, want 120", sessions[0].Minutes)
	}
	want := []string{"Heart Failure", "ACS", "Arrhythmia"}
	if !reflect.DeepEqual(sessions[0].Topics, want) {
		t.Errorf("session topics = %v, want %v", sessions[0].Topics, want)
	}
}

func TestSliceAllocations_SplitsAtMaximum(t *testing.T) {
	plan := []spiral.Allocation{
		alloc("Cardiology", "Heart Failure", 90),
		alloc("Cardiology", "ACS", 90),
	}

	sessions := spiral.SliceAllocations(plan)
	if len(sessions) != 2 {
		t.Fatalf("SliceAllocations() returned %d sessions, want 2", len(sessions))
	}
	for i, s := range sessions {
		if s.Minutes != 90 {
			t.Errorf("session %d minutes = %d, want 90", i, s.Minutes)
		}
		if len(s.Topics) != 1 {
			t.Errorf("session %d has %d topics, want 1", i, len(s.Topics))
		}
	}
}

func TestSliceAllocations_RoundsToHalfHour(t *testing.T) {
	sessions := spiral.SliceAllocations([]spiral.Allocation{
		alloc("Cardiology", "Heart Failure", 75),
	})
	if len(sessions) != 1 {
		t.Fatalf("SliceAllocations() returned %d sessions, want 1", len(sessions))
	}
	if sessions[0].Minutes != 90 {
		t.Errorf("session minutes = %d, want 90", sessions[0].Minutes)
	}
}

func TestSliceAllocations_FlushesTrailingRemainder(t *testing.T) {
	sessions := spiral.SliceAllocations([]spiral.Allocation{
		alloc("Cardiology", "Heart Failure", 30),
	})
	if len(sessions) != 1 {
		t.Fatalf("SliceAllocations() returned %d sessions, want 1", len(sessions))
	}
	if sessions[0].Minutes != 30 {
		t.Errorf("trailing session minutes = %d, want 30", sessions[0].Minutes)
	}
}

func TestSliceAllocations_Empty(t *testing.T) {
	if sessions := spiral.SliceAllocations(nil); len(sessions) != 0 {
		t.Errorf("SliceAllocations(nil) returned %d sessions, want 0", len(sessions))
	}
}

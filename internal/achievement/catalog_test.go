package achievement

import "testing"

func TestQualifiedMilestones(t *testing.T) {
	none := map[string]bool{}

	// longest=10 qualifies for 1, 3 and 7.
	due := QualifiedMilestones(10, none)
	if len(due) != 3 {
		t.Fatalf("expected 3 milestones for longest=10, got %d", len(due))
	}
	names := map[string]bool{}
	for _, d := range due {
		if d.Type != TypeMilestone {
			t.Errorf("non-milestone entry %q returned", d.Name)
		}
		names[d.Name] = true
	}
	for _, want := range []string{"First Streak", "Getting Started", "Week Warrior"} {
		if !names[want] {
			t.Errorf("missing expected milestone %q", want)
		}
	}

	// A second scan with the first batch unlocked yields nothing.
	if again := QualifiedMilestones(10, names); len(again) != 0 {
		t.Errorf("expected no new milestones after unlock, got %d", len(again))
	}
}

func TestQualifiedMilestonesZeroAndMax(t *testing.T) {
	if due := QualifiedMilestones(0, map[string]bool{}); len(due) != 0 {
		t.Errorf("longest=0 should qualify for nothing, got %d", len(due))
	}

	due := QualifiedMilestones(365, map[string]bool{})
	if len(due) != 8 {
		t.Errorf("longest=365 should qualify for all 8 milestones, got %d", len(due))
	}
}

func TestAvailableExcludesUnlocked(t *testing.T) {
	all := Available(map[string]bool{})
	withOne := Available(map[string]bool{NameFreezeMaster: true})

	if len(withOne) != len(all)-1 {
		t.Fatalf("expected one fewer available entry, got %d vs %d", len(withOne), len(all))
	}
	for _, d := range withOne {
		if d.Name == NameFreezeMaster {
			t.Error("unlocked achievement still listed as available")
		}
	}
}

func TestCatalogShape(t *testing.T) {
	seen := map[string]bool{}
	milestones := 0
	for _, d := range Catalog() {
		if seen[d.Name] {
			t.Errorf("duplicate catalog name %q", d.Name)
		}
		seen[d.Name] = true
		if d.Type == TypeMilestone {
			milestones++
			if d.Days <= 0 {
				t.Errorf("milestone %q has no day threshold", d.Name)
			}
		} else if d.Days != 0 {
			t.Errorf("non-milestone %q must not carry a day threshold", d.Name)
		}
	}
	if milestones != 8 {
		t.Errorf("expected 8 milestone thresholds, got %d", milestones)
	}

	if _, ok := Lookup(NameComebackKid); !ok {
		t.Error("Comeback Kid missing from catalog")
	}
	if _, ok := Lookup("No Such Badge"); ok {
		t.Error("Lookup should miss unknown names")
	}
}

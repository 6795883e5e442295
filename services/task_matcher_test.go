package services

import (
	"testing"

	"github.com/google/uuid"
)

func TestMatchTaskToStreak(t *testing.T) {
	reading := NamedStreak{ID: uuid.New(), Name: "Reading", Category: "learning"}
	gym := NamedStreak{ID: uuid.New(), Name: "Gym", Category: "health"}
	deepWork := NamedStreak{ID: uuid.New(), Name: "Deep Work", Category: "focus"}
	streaks := []NamedStreak{reading, gym, deepWork}

	tests := []struct {
		name    string
		task    string
		want    uuid.UUID
		wantHit bool
	}{
		{"exact name", "Reading", reading.ID, true},
		{"name inside task", "evening reading session", reading.ID, true},
		{"case insensitive", "GYM workout", gym.ID, true},
		{"category match", "health checkup", gym.ID, true},
		{"multi-word name wins over word", "deep work on thesis", deepWork.ID, true},
		{"single word of multi-word name", "work emails", deepWork.ID, true},
		{"no match", "grocery shopping", uuid.Nil, false},
		{"empty task", "  ", uuid.Nil, false},
		{"substring does not match mid-word", "regymnastics", uuid.Nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := MatchTaskToStreak(tt.task, streaks)
			if hit != tt.wantHit {
				t.Fatalf("MatchTaskToStreak(%q) hit = %v, want %v", tt.task, hit, tt.wantHit)
			}
			if hit && got != tt.want {
				t.Errorf("MatchTaskToStreak(%q) = %v, want %v", tt.task, got, tt.want)
			}
		})
	}
}

func TestMatchTaskToStreakNoStreaks(t *testing.T) {
	if _, hit := MatchTaskToStreak("reading", nil); hit {
		t.Error("expected no match with an empty streak list")
	}
}

func TestMatchTaskToStreakIgnoresGeneralCategory(t *testing.T) {
	st := NamedStreak{ID: uuid.New(), Name: "Chores", Category: "general"}
	if _, hit := MatchTaskToStreak("general admin", []NamedStreak{st}); hit {
		t.Error("the default category must not act as a keyword")
	}
}

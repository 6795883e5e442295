package services

import (
	"strings"

	"github.com/google/uuid"
)

// NamedStreak is the slim view the matcher works against.
type NamedStreak struct {
	ID       uuid.UUID
	Name     string
	Category string
}

// MatchTaskToStreak maps a free-form task name ("Deep work on thesis") to one
// of the user's streaks by keyword overlap against streak names and
// categories. Matching is case-insensitive and prefers the longest matched
// keyword so "reading list" beats "list". Returns false when nothing matches;
// the caller then falls back to the catch-all streak.
func MatchTaskToStreak(taskName string, streaks []NamedStreak) (uuid.UUID, bool) {
	task := strings.ToLower(strings.TrimSpace(taskName))
	if task == "" || len(streaks) == 0 {
		return uuid.Nil, false
	}

	var bestID uuid.UUID
	bestLen := 0
	for _, st := range streaks {
		for _, kw := range matcherKeywords(st) {
			if len(kw) > bestLen && containsWord(task, kw) {
				bestID = st.ID
				bestLen = len(kw)
			}
		}
	}
	if bestLen == 0 {
		return uuid.Nil, false
	}
	return bestID, true
}

// matcherKeywords yields the candidate keywords for a streak: its full name,
// each word of the name, and its category. Single-character words are noise.
func matcherKeywords(st NamedStreak) []string {
	var kws []string
	name := strings.ToLower(strings.TrimSpace(st.Name))
	if name != "" {
		kws = append(kws, name)
		for _, w := range strings.Fields(name) {
			if len(w) > 1 && w != name {
				kws = append(kws, w)
			}
		}
	}
	if cat := strings.ToLower(strings.TrimSpace(st.Category)); cat != "" && cat != "general" {
		kws = append(kws, cat)
	}
	return kws
}

// containsWord reports whether kw appears in task on word boundaries, so the
// streak "Art" does not claim the task "starting the report".
func containsWord(task, kw string) bool {
	idx := 0
	for {
		i := strings.Index(task[idx:], kw)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(kw)
		beforeOK := start == 0 || !isWordChar(task[start-1])
		afterOK := end == len(task) || !isWordChar(task[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

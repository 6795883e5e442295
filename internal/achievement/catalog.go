package achievement

// Definition is a catalog entry: an achievement that can be unlocked.
// The catalog is static and never persisted; unlocked rows reference
// entries by name.
type Definition struct {
	Name        string `json:"name"`
	Type        Type   `json:"type"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Requirement string `json:"requirement"`
	Points      int    `json:"points"`
	// Days is the streak-length threshold for milestone entries; zero for
	// entries whose trigger is procedural (freeze use, comeback, ...).
	Days int `json:"days,omitempty"`
}

// Names of procedurally triggered specials, referenced at their call sites.
const (
	NameFreezeMaster = "Freeze Master"
	NameComebackKid  = "Comeback Kid"
)

var catalog = []Definition{
	// Milestones, keyed by longest streak length.
	{Name: "First Streak", Type: TypeMilestone, Description: "Completed your first day streak!", Icon: "🎯", Requirement: "1 day streak", Points: 10, Days: 1},
	{Name: "Getting Started", Type: TypeMilestone, Description: "Maintained a 3-day streak!", Icon: "🚀", Requirement: "3 day streak", Points: 30, Days: 3},
	{Name: "Week Warrior", Type: TypeMilestone, Description: "Maintained a 7-day streak!", Icon: "⚔️", Requirement: "7 day streak", Points: 70, Days: 7},
	{Name: "Two Week Champion", Type: TypeMilestone, Description: "Maintained a 14-day streak!", Icon: "🏆", Requirement: "14 day streak", Points: 140, Days: 14},
	{Name: "Month Master", Type: TypeMilestone, Description: "Maintained a 30-day streak!", Icon: "👑", Requirement: "30 day streak", Points: 300, Days: 30},
	{Name: "Halfway Hero", Type: TypeMilestone, Description: "Maintained a 50-day streak!", Icon: "⭐", Requirement: "50 day streak", Points: 500, Days: 50},
	{Name: "Century Achiever", Type: TypeMilestone, Description: "Maintained a 100-day streak!", Icon: "💯", Requirement: "100 day streak", Points: 1000, Days: 100},
	{Name: "Year of Focus", Type: TypeMilestone, Description: "Maintained a 365-day streak!", Icon: "🌟", Requirement: "365 day streak", Points: 3650, Days: 365},

	// Consistency achievements.
	{Name: "Weekend Warrior", Type: TypeConsistency, Description: "Maintained your streak through the weekend!", Icon: "🌅", Requirement: "Focus session on Saturday and Sunday", Points: 50},
	{Name: "Early Bird", Type: TypeConsistency, Description: "Completed morning sessions 5 days in a row!", Icon: "🐦", Requirement: "Sessions before 10 AM for 5 days", Points: 100},
	{Name: "Night Owl", Type: TypeConsistency, Description: "Completed evening sessions 5 days in a row!", Icon: "🦉", Requirement: "Sessions after 8 PM for 5 days", Points: 100},
	{Name: "Marathon Master", Type: TypeConsistency, Description: "Completed sessions over 2 hours in a single day!", Icon: "🏃", Requirement: "Total daily sessions > 2 hours", Points: 150},

	// Special achievements, triggered at their own call sites.
	{Name: NameFreezeMaster, Type: TypeSpecial, Description: "Used your first streak freeze token wisely!", Icon: "🧊", Requirement: "Use a streak freeze", Points: 25},
	{Name: NameComebackKid, Type: TypeSpecial, Description: "Started a new streak after breaking one!", Icon: "💪", Requirement: "Start new streak after breaking previous", Points: 75},
	{Name: "Perfectionist", Type: TypeSpecial, Description: "Completed 100% of planned sessions for 7 days!", Icon: "✨", Requirement: "Meet daily goals for 7 consecutive days", Points: 200},
	{Name: "Social Sharer", Type: TypeSpecial, Description: "Shared your streak achievement on social media!", Icon: "📱", Requirement: "Share streak on social media", Points: 50},
}

// Catalog returns all unlockable achievement definitions.
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a catalog entry by name.
func Lookup(name string) (Definition, bool) {
	for _, def := range catalog {
		if def.Name == name {
			return def, true
		}
	}
	return Definition{}, false
}

// QualifiedMilestones returns the milestone entries reached by the given
// longest streak that are not already unlocked. Evaluation order between
// thresholds does not matter; callers persist each result independently.
func QualifiedMilestones(longestStreak int, unlockedNames map[string]bool) []Definition {
	var due []Definition
	for _, def := range catalog {
		if def.Type != TypeMilestone {
			continue
		}
		if longestStreak >= def.Days && !unlockedNames[def.Name] {
			due = append(due, def)
		}
	}
	return due
}

// Available returns catalog entries not yet unlocked.
func Available(unlockedNames map[string]bool) []Definition {
	var locked []Definition
	for _, def := range catalog {
		if !unlockedNames[def.Name] {
			locked = append(locked, def)
		}
	}
	return locked
}

package achievement

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeMilestone   Type = "milestone"
	TypeConsistency Type = "consistency"
	TypeSpecial     Type = "special"
)

// Achievement is an unlocked badge. (user_id, name) is unique in the store,
// so an achievement can never be unlocked twice; rows are immutable.
type Achievement struct {
	ID         uuid.UUID      `json:"id" db:"id"`
	UserID     string         `json:"user_id" db:"user_id"`
	StreakID   *uuid.UUID     `json:"streak_id,omitempty" db:"streak_id"`
	Type       Type           `json:"achievement_type" db:"achievement_type"`
	Name       string         `json:"achievement_name" db:"achievement_name"`
	Metadata   map[string]any `json:"metadata,omitempty" db:"metadata"`
	UnlockedAt time.Time      `json:"unlocked_at" db:"unlocked_at"`
}

// Stats breaks unlocked achievements down by type.
type Stats struct {
	Total       int `json:"total"`
	Milestone   int `json:"milestone"`
	Consistency int `json:"consistency"`
	Special     int `json:"special"`
}

// ListResponse is the achievements endpoint payload: unlocked badges plus
// the catalog entries still locked.
type ListResponse struct {
	Achievements          []*Achievement `json:"achievements"`
	Stats                 Stats          `json:"stats"`
	AvailableAchievements []Definition   `json:"availableAchievements"`
}

package session

import (
	"time"

	"github.com/google/uuid"
)

// FocusSession is one completed focus-timer run as reported by the client.
// Sessions are raw history; streak credit flows through the daily activity
// log, not through this table.
type FocusSession struct {
	ID                   uuid.UUID `json:"id" db:"id"`
	UserID               string    `json:"user_id" db:"user_id"`
	Task                 string    `json:"task" db:"task"`
	DurationMinutes      int       `json:"duration_minutes" db:"duration_minutes"`
	EfficiencyPercentage int       `json:"efficiency_percentage" db:"efficiency_percentage"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
}

type RecordSessionRequest struct {
	StreakID     *uuid.UUID `json:"streakId,omitempty"`
	TaskName     string     `json:"taskName,omitempty"`
	Minutes      int        `json:"minutes"`
	SessionCount int        `json:"sessionCount,omitempty"`
	Efficiency   *int       `json:"efficiency,omitempty"`
	Date         string     `json:"date,omitempty"`
	Timezone     string     `json:"tz,omitempty"`
}

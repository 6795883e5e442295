package activity

import (
	"time"

	"github.com/google/uuid"
)

// DailyActivity summarizes one calendar day of effort for a streak. There is
// at most one row per (streak, date); repeated logging accumulates into it.
type DailyActivity struct {
	ID             uuid.UUID `json:"id" db:"id"`
	UserID         string    `json:"user_id" db:"user_id"`
	StreakID       uuid.UUID `json:"streak_id" db:"streak_id"`
	ActivityDate   time.Time `json:"activity_date" db:"activity_date"`
	SessionCount   int       `json:"session_count" db:"session_count"`
	TotalMinutes   int       `json:"total_minutes" db:"total_minutes"`
	StreakEligible bool      `json:"streak_eligible" db:"streak_eligible"`
	LoggedAt       time.Time `json:"logged_at" db:"logged_at"`
}

package streak

import (
	"time"

	"github.com/google/uuid"
)

// Streak is a named, user-owned daily goal tracked by the engine.
type Streak struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	UserID           string     `json:"user_id" db:"user_id"`
	Name             string     `json:"name" db:"name"`
	Description      *string    `json:"description,omitempty" db:"description"`
	Category         string     `json:"category" db:"category"`
	Icon             string     `json:"icon" db:"icon"`
	Color            string     `json:"color" db:"color"`
	StreakType       string     `json:"streak_type" db:"streak_type"`
	CurrentStreak    int        `json:"current_streak" db:"current_streak"`
	LongestStreak    int        `json:"longest_streak" db:"longest_streak"`
	LastActivityDate *time.Time `json:"last_activity_date,omitempty" db:"last_activity_date"`
	StreakStartDate  *time.Time `json:"streak_start_date,omitempty" db:"streak_start_date"`
	FreezeCount      int        `json:"freeze_count" db:"freeze_count"`
	IsActive         bool       `json:"is_active" db:"is_active"`
	DisplayOrder     int        `json:"display_order" db:"display_order"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// Card is the trimmed representation used by the dashboard grid.
type Card struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Icon             string     `json:"icon"`
	Color            string     `json:"color"`
	Category         string     `json:"category"`
	CurrentStreak    int        `json:"current_streak"`
	IsActive         bool       `json:"is_active"`
	DisplayOrder     int        `json:"display_order"`
	LastActivityDate *time.Time `json:"last_activity_date,omitempty"`
}

// ToCard trims a full streak row for grid display.
func (s *Streak) ToCard() *Card {
	return &Card{
		ID:               s.ID,
		Name:             s.Name,
		Icon:             s.Icon,
		Color:            s.Color,
		Category:         s.Category,
		CurrentStreak:    s.CurrentStreak,
		IsActive:         s.IsActive,
		DisplayOrder:     s.DisplayOrder,
		LastActivityDate: s.LastActivityDate,
	}
}

type CreateStreakRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Icon        string  `json:"icon"`
	Color       string  `json:"color"`
	Description *string `json:"description,omitempty"`
}

type UpdateStreakRequest struct {
	Name        *string `json:"name,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	Color       *string `json:"color,omitempty"`
	Description *string `json:"description,omitempty"`
}

type FreezeRequest struct {
	StreakID *uuid.UUID `json:"streakId,omitempty"`
	Days     int        `json:"days,omitempty"`
}

type FreezeStatus struct {
	FreezeTokensUsed      int  `json:"freezeTokensUsed"`
	FreezeTokensRemaining int  `json:"freezeTokensRemaining"`
	MaxFreezeTokens       int  `json:"maxFreezeTokens"`
	CanUseFreeze          bool `json:"canUseFreeze"`
}

type RecalculateRequest struct {
	StreakID       *uuid.UUID `json:"streakId,omitempty"`
	RecalculateAll bool       `json:"recalculateAll,omitempty"`
	Date           string     `json:"date,omitempty"`
	Timezone       string     `json:"tz,omitempty"`
}

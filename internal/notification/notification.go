package notification

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	TypeAchievementUnlocked NotificationType = "achievement_unlocked"
	TypeStreakMilestone     NotificationType = "streak_milestone"
	TypeFreezeUsed          NotificationType = "freeze_used"
)

// Notification is an in-app notice. Delivery channels (push, email) are out
// of scope; rows are only read back through the notifications endpoints.
type Notification struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	UserID    string           `json:"user_id" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	Data      map[string]any   `json:"data,omitempty" db:"data"`
	Read      bool             `json:"read" db:"read"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

type ListResponse struct {
	Notifications []*Notification `json:"notifications"`
	UnreadCount   int             `json:"unread_count"`
}

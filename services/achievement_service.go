package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"focusFlowAPI/internal/achievement"
	"focusFlowAPI/internal/apperror"
	"focusFlowAPI/internal/notification"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AchievementService struct {
	db            *pgxpool.Pool
	notifications *NotificationService
}

func NewAchievementService(db *pgxpool.Pool, notifications *NotificationService) *AchievementService {
	return &AchievementService{db: db, notifications: notifications}
}

// GetAchievements returns the user's unlocked achievements (newest first),
// per-type stats, and the catalog entries still locked.
func (s *AchievementService) GetAchievements(ctx context.Context, userID string, typeFilter string) (*achievement.ListResponse, error) {
	if typeFilter != "" {
		switch achievement.Type(typeFilter) {
		case achievement.TypeMilestone, achievement.TypeConsistency, achievement.TypeSpecial:
		default:
			return nil, apperror.InvalidInput(fmt.Sprintf("unknown achievement type %q", typeFilter))
		}
	}

	query := `
	SELECT id, user_id, streak_id, achievement_type, achievement_name, metadata, unlocked_at
	FROM streak_achievements
	WHERE user_id = $1 AND ($2 = '' OR achievement_type = $2)
	ORDER BY unlocked_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID, typeFilter)
	if err != nil {
		return nil, apperror.Internal("failed to fetch achievements", err)
	}
	defer rows.Close()

	resp := &achievement.ListResponse{Achievements: []*achievement.Achievement{}}
	for rows.Next() {
		ach := &achievement.Achievement{}
		err := rows.Scan(&ach.ID, &ach.UserID, &ach.StreakID, &ach.Type, &ach.Name, &ach.Metadata, &ach.UnlockedAt)
		if err != nil {
			return nil, apperror.Internal("failed to scan achievement", err)
		}
		resp.Achievements = append(resp.Achievements, ach)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Internal("failed to read achievements", err)
	}

	// Stats and availability always cover every type, even when the list
	// above is filtered.
	unlocked, err := s.unlockedNames(ctx, userID)
	if err != nil {
		return nil, err
	}
	for name := range unlocked {
		if def, ok := achievement.Lookup(name); ok {
			switch def.Type {
			case achievement.TypeMilestone:
				resp.Stats.Milestone++
			case achievement.TypeConsistency:
				resp.Stats.Consistency++
			case achievement.TypeSpecial:
				resp.Stats.Special++
			}
		}
		resp.Stats.Total++
	}
	resp.AvailableAchievements = achievement.Available(unlocked)

	return resp, nil
}

// CheckMilestones unlocks every milestone reached by the given longest streak
// that the user does not already hold. Each insert is best effort: a failure
// is logged and the scan moves on, so one bad row never blocks the rest or
// the action that triggered the scan.
func (s *AchievementService) CheckMilestones(ctx context.Context, userID string, streakID *uuid.UUID, longestStreak int) []*achievement.Achievement {
	unlocked, err := s.unlockedNames(ctx, userID)
	if err != nil {
		log.Printf("CheckMilestones: failed to load unlocked names for %s: %v", userID, err)
		return nil
	}

	var created []*achievement.Achievement
	for _, def := range achievement.QualifiedMilestones(longestStreak, unlocked) {
		meta := map[string]any{
			"days":        def.Days,
			"description": def.Description,
			"streak_type": "daily",
		}
		ach, err := s.insertOnce(ctx, userID, streakID, def, meta)
		if err != nil {
			log.Printf("CheckMilestones: failed to unlock %q for %s: %v", def.Name, userID, err)
			continue
		}
		if ach != nil {
			created = append(created, ach)
		}
	}
	return created
}

// UnlockSpecial records a procedurally triggered achievement (first freeze
// use, comeback, ...). Returns nil without error when the user already holds
// it. Best effort like the milestone scan.
func (s *AchievementService) UnlockSpecial(ctx context.Context, userID string, streakID *uuid.UUID, name string) *achievement.Achievement {
	def, ok := achievement.Lookup(name)
	if !ok {
		log.Printf("UnlockSpecial: %q is not in the catalog", name)
		return nil
	}

	meta := map[string]any{
		"description": def.Description,
		"icon":        def.Icon,
	}
	ach, err := s.insertOnce(ctx, userID, streakID, def, meta)
	if err != nil {
		log.Printf("UnlockSpecial: failed to unlock %q for %s: %v", name, userID, err)
		return nil
	}
	return ach
}

// insertOnce persists an unlock, relying on the (user_id, achievement_name)
// unique constraint for dedup. Returns (nil, nil) when already unlocked.
func (s *AchievementService) insertOnce(ctx context.Context, userID string, streakID *uuid.UUID, def achievement.Definition, meta map[string]any) (*achievement.Achievement, error) {
	query := `
	INSERT INTO streak_achievements (user_id, streak_id, achievement_type, achievement_name, metadata)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (user_id, achievement_name) DO NOTHING
	RETURNING id, unlocked_at
	`

	ach := &achievement.Achievement{
		UserID:   userID,
		StreakID: streakID,
		Type:     def.Type,
		Name:     def.Name,
		Metadata: meta,
	}
	err := s.db.QueryRow(ctx, query, userID, streakID, def.Type, def.Name, meta).Scan(&ach.ID, &ach.UnlockedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Already unlocked; the conflict clause swallowed the insert.
			return nil, nil
		}
		return nil, fmt.Errorf("failed to insert achievement: %w", err)
	}

	s.notifyUnlock(ctx, userID, def)
	return ach, nil
}

func (s *AchievementService) notifyUnlock(ctx context.Context, userID string, def achievement.Definition) {
	if s.notifications == nil {
		return
	}
	notifType := notification.TypeAchievementUnlocked
	if def.Type == achievement.TypeMilestone {
		notifType = notification.TypeStreakMilestone
	}
	err := s.notifications.CreateNotification(ctx, userID, notifType,
		fmt.Sprintf("%s %s", def.Icon, def.Name), def.Description,
		map[string]any{"achievement_name": def.Name, "points": def.Points})
	if err != nil {
		// Notices are a courtesy; the unlock already happened.
		log.Printf("notifyUnlock: failed to create notification for %s: %v", userID, err)
	}
}

func (s *AchievementService) unlockedNames(ctx context.Context, userID string) (map[string]bool, error) {
	rows, err := s.db.Query(ctx, `SELECT achievement_name FROM streak_achievements WHERE user_id = $1`, userID)
	if err != nil {
		return nil, apperror.Internal("failed to fetch unlocked achievements", err)
	}
	defer rows.Close()

	names := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apperror.Internal("failed to scan achievement name", err)
		}
		names[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Internal("failed to read achievement names", err)
	}
	return names, nil
}

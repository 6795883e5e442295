package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"focusFlowAPI/internal/achievement"
	"focusFlowAPI/internal/activity"
	"focusFlowAPI/internal/apperror"
	"focusFlowAPI/internal/notification"
	"focusFlowAPI/internal/streak"
	"focusFlowAPI/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MaxFreezeTokens caps freeze uses per streak. The counter is not
// date-scoped; see the recalculate docs.
const MaxFreezeTokens = 3

// DefaultStreakName is the implicitly created streak that catches focus
// sessions not mapped to any explicit goal.
const DefaultStreakName = "Focus"

const streakColumns = `id, user_id, name, description, category, icon, color, streak_type,
	current_streak, longest_streak, last_activity_date, streak_start_date,
	freeze_count, is_active, display_order, created_at, updated_at`

type StreakService struct {
	db            *pgxpool.Pool
	achievements  *AchievementService
	notifications *NotificationService
}

func NewStreakService(db *pgxpool.Pool, achievements *AchievementService, notifications *NotificationService) *StreakService {
	return &StreakService{db: db, achievements: achievements, notifications: notifications}
}

// RecordResult is the payload of every pipeline-triggering operation:
// the touched activity row, the refreshed streak, and any badges unlocked
// by this pass.
type RecordResult struct {
	Activity        *activity.DailyActivity    `json:"activity"`
	Streak          *streak.Streak             `json:"streak"`
	NewAchievements []*achievement.Achievement `json:"newAchievements"`
}

// RecalculateResult mirrors the maintenance endpoint's payload.
type RecalculateResult struct {
	Streak          *streak.Streak             `json:"streak"`
	StreakData      StreakMetrics              `json:"streakData"`
	NewAchievements []*achievement.Achievement `json:"newAchievements"`
}

// FreezeResult reports a consumed freeze token.
type FreezeResult struct {
	Streak                *streak.Streak `json:"streak"`
	FreezeTokensRemaining int            `json:"freezeTokensRemaining"`
	Message               string         `json:"message"`
}

// StreakDetail is the single-streak read payload.
type StreakDetail struct {
	Streak       *streak.Streak             `json:"streak"`
	Activities   []*activity.DailyActivity  `json:"activities"`
	Achievements []*achievement.Achievement `json:"achievements"`
}

// ---------------------------------------------------------------------------
// CRUD
// ---------------------------------------------------------------------------

func (s *StreakService) CreateStreak(ctx context.Context, userID string, req *streak.CreateStreakRequest) (*streak.Streak, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.InvalidInput("streak name is required")
	}

	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_streaks WHERE user_id = $1 AND name = $2)`,
		userID, name).Scan(&exists)
	if err != nil {
		return nil, apperror.Internal("failed to check streak name", err)
	}
	if exists {
		return nil, apperror.Conflict("a streak with this name already exists")
	}

	category := req.Category
	if category == "" {
		category = "general"
	}

	query := `
	INSERT INTO user_streaks (user_id, name, description, category, icon, color, display_order)
	VALUES ($1, $2, $3, $4,
		COALESCE(NULLIF($5, ''), '🔥'),
		COALESCE(NULLIF($6, ''), '#f97316'),
		(SELECT COALESCE(MAX(display_order), 0) + 1 FROM user_streaks WHERE user_id = $1))
	RETURNING ` + streakColumns

	st, err := scanStreak(s.db.QueryRow(ctx, query, userID, name, req.Description, category, req.Icon, req.Color))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.Conflict("a streak with this name already exists")
		}
		return nil, apperror.Internal("failed to create streak", err)
	}
	return st, nil
}

func (s *StreakService) ListStreaks(ctx context.Context, userID string) ([]*streak.Card, error) {
	query := `SELECT ` + streakColumns + `
	FROM user_streaks
	WHERE user_id = $1 AND is_active
	ORDER BY display_order ASC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, apperror.Internal("failed to fetch streaks", err)
	}
	defer rows.Close()

	cards := []*streak.Card{}
	for rows.Next() {
		st, err := scanStreak(rows)
		if err != nil {
			return nil, apperror.Internal("failed to scan streak", err)
		}
		cards = append(cards, st.ToCard())
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Internal("failed to read streaks", err)
	}
	return cards, nil
}

// GetStreakDetail returns a streak with its last 30 days of activity and its
// achievements.
func (s *StreakService) GetStreakDetail(ctx context.Context, userID string, streakID uuid.UUID) (*StreakDetail, error) {
	st, err := s.getStreakForUser(ctx, userID, streakID)
	if err != nil {
		return nil, err
	}

	detail := &StreakDetail{Streak: st, Activities: []*activity.DailyActivity{}, Achievements: []*achievement.Achievement{}}

	rows, err := s.db.Query(ctx, `
	SELECT id, user_id, streak_id, activity_date, session_count, total_minutes, streak_eligible, logged_at
	FROM daily_activities
	WHERE streak_id = $1 AND activity_date >= CURRENT_DATE - INTERVAL '30 days'
	ORDER BY activity_date DESC`, streakID)
	if err != nil {
		return nil, apperror.Internal("failed to fetch activities", err)
	}
	defer rows.Close()
	for rows.Next() {
		a := &activity.DailyActivity{}
		err := rows.Scan(&a.ID, &a.UserID, &a.StreakID, &a.ActivityDate, &a.SessionCount, &a.TotalMinutes, &a.StreakEligible, &a.LoggedAt)
		if err != nil {
			return nil, apperror.Internal("failed to scan activity", err)
		}
		detail.Activities = append(detail.Activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Internal("failed to read activities", err)
	}

	achRows, err := s.db.Query(ctx, `
	SELECT id, user_id, streak_id, achievement_type, achievement_name, metadata, unlocked_at
	FROM streak_achievements
	WHERE user_id = $1 AND streak_id = $2
	ORDER BY unlocked_at DESC`, userID, streakID)
	if err != nil {
		return nil, apperror.Internal("failed to fetch achievements", err)
	}
	defer achRows.Close()
	for achRows.Next() {
		a := &achievement.Achievement{}
		err := achRows.Scan(&a.ID, &a.UserID, &a.StreakID, &a.Type, &a.Name, &a.Metadata, &a.UnlockedAt)
		if err != nil {
			return nil, apperror.Internal("failed to scan achievement", err)
		}
		detail.Achievements = append(detail.Achievements, a)
	}
	if err := achRows.Err(); err != nil {
		return nil, apperror.Internal("failed to read achievements", err)
	}

	return detail, nil
}

func (s *StreakService) UpdateStreak(ctx context.Context, userID string, streakID uuid.UUID, req *streak.UpdateStreakRequest) (*streak.Streak, error) {
	current, err := s.getStreakForUser(ctx, userID, streakID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperror.InvalidInput("streak name cannot be empty")
		}
		*req.Name = name
		if name != current.Name {
			var exists bool
			err := s.db.QueryRow(ctx,
				`SELECT EXISTS(SELECT 1 FROM user_streaks WHERE user_id = $1 AND name = $2 AND id <> $3)`,
				userID, name, streakID).Scan(&exists)
			if err != nil {
				return nil, apperror.Internal("failed to check streak name", err)
			}
			if exists {
				return nil, apperror.Conflict("a streak with this name already exists")
			}
		}
	}

	query := `
	UPDATE user_streaks SET
		name = COALESCE($3, name),
		icon = COALESCE($4, icon),
		color = COALESCE($5, color),
		description = COALESCE($6, description),
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING ` + streakColumns

	st, err := scanStreak(s.db.QueryRow(ctx, query, streakID, userID, req.Name, req.Icon, req.Color, req.Description))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.Conflict("a streak with this name already exists")
		}
		return nil, apperror.Internal("failed to update streak", err)
	}
	return st, nil
}

// DeleteStreak soft-deletes: the row and its history are retained.
func (s *StreakService) DeleteStreak(ctx context.Context, userID string, streakID uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE user_streaks SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND user_id = $2 AND is_active`,
		streakID, userID)
	if err != nil {
		return apperror.Internal("failed to delete streak", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("streak not found")
	}
	return nil
}

// ---------------------------------------------------------------------------
// Activity recorder + pipeline
// ---------------------------------------------------------------------------

// RecordActivity merges a day's effort into the activity log and refreshes
// the streak. Repeated calls for the same (streak, date) accumulate into one
// row via an atomic in-database increment, and eligibility is OR'ed so a day
// never loses streak credit once earned.
func (s *StreakService) RecordActivity(ctx context.Context, userID string, streakID uuid.UUID, date time.Time, minutesDelta, sessionDelta int, eligible bool) (*RecordResult, error) {
	if minutesDelta < 0 {
		return nil, apperror.InvalidInput("minutes cannot be negative")
	}
	if sessionDelta < 1 {
		return nil, apperror.InvalidInput("session count must be at least 1")
	}

	st, err := s.getStreakForUser(ctx, userID, streakID)
	if err != nil {
		return nil, err
	}

	// Snapshot before the write; the unlock below also requires the
	// recomputed current streak to be running, so a backfilled past date on
	// a broken streak does not count as a comeback.
	comeback := eligible && st.CurrentStreak == 0 && st.LongestStreak > 0

	day := utils.Day(date)
	query := `
	INSERT INTO daily_activities (user_id, streak_id, activity_date, session_count, total_minutes, streak_eligible)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (streak_id, activity_date) DO UPDATE SET
		session_count = daily_activities.session_count + EXCLUDED.session_count,
		total_minutes = daily_activities.total_minutes + EXCLUDED.total_minutes,
		streak_eligible = daily_activities.streak_eligible OR EXCLUDED.streak_eligible,
		logged_at = NOW()
	RETURNING id, user_id, streak_id, activity_date, session_count, total_minutes, streak_eligible, logged_at
	`

	act := &activity.DailyActivity{}
	err = s.db.QueryRow(ctx, query, userID, streakID, day, sessionDelta, minutesDelta, eligible).Scan(
		&act.ID, &act.UserID, &act.StreakID, &act.ActivityDate,
		&act.SessionCount, &act.TotalMinutes, &act.StreakEligible, &act.LoggedAt)
	if err != nil {
		return nil, apperror.Internal("failed to record activity", err)
	}

	updated, unlocked, err := s.refreshStreak(ctx, st, day, false)
	if err != nil {
		// The activity row is already durable; metrics can be repaired via
		// the recalculate endpoint.
		return nil, err
	}

	if comeback && updated.CurrentStreak > 0 {
		if ach := s.achievements.UnlockSpecial(ctx, userID, &streakID, achievement.NameComebackKid); ach != nil {
			unlocked = append(unlocked, ach)
		}
	}

	return &RecordResult{Activity: act, Streak: updated, NewAchievements: unlocked}, nil
}

// CompleteToday is the manual "mark done" path. Unlike RecordActivity it
// enforces at-most-once per day.
func (s *StreakService) CompleteToday(ctx context.Context, userID string, streakID uuid.UUID, today time.Time) (*RecordResult, error) {
	if _, err := s.getStreakForUser(ctx, userID, streakID); err != nil {
		return nil, err
	}

	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM daily_activities WHERE streak_id = $1 AND activity_date = $2)`,
		streakID, utils.Day(today)).Scan(&exists)
	if err != nil {
		return nil, apperror.Internal("failed to check today's activity", err)
	}
	if exists {
		return nil, apperror.Conflict("streak already completed for today")
	}

	return s.RecordActivity(ctx, userID, streakID, today, 0, 1, true)
}

// ResetStreak zeroes the current streak and clears its dates. The longest
// streak is a permanent record and survives resets.
func (s *StreakService) ResetStreak(ctx context.Context, userID string, streakID uuid.UUID) (*streak.Streak, error) {
	query := `
	UPDATE user_streaks SET
		current_streak = 0,
		last_activity_date = NULL,
		streak_start_date = NULL,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2 AND is_active
	RETURNING ` + streakColumns

	st, err := scanStreak(s.db.QueryRow(ctx, query, streakID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("streak not found")
		}
		return nil, apperror.Internal("failed to reset streak", err)
	}
	return st, nil
}

// Recalculate recomputes metrics from the full activity history. Running it
// twice with no new activity is a no-op; the stored longest streak never
// decreases even when history was edited. With refreshAchievements set it
// also replays the milestone scan (idempotent by the unlock-once contract).
func (s *StreakService) Recalculate(ctx context.Context, userID string, streakID *uuid.UUID, refreshAchievements bool, today time.Time) (*RecalculateResult, error) {
	var st *streak.Streak
	var err error
	if streakID != nil {
		st, err = s.getStreakForUser(ctx, userID, *streakID)
	} else {
		st, err = s.defaultStreak(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	updated, unlocked, err := s.refreshStreak(ctx, st, utils.Day(today), refreshAchievements)
	if err != nil {
		return nil, err
	}

	return &RecalculateResult{
		Streak: updated,
		StreakData: StreakMetrics{
			CurrentStreak:    updated.CurrentStreak,
			LongestStreak:    updated.LongestStreak,
			StreakStartDate:  updated.StreakStartDate,
			LastActivityDate: updated.LastActivityDate,
		},
		NewAchievements: unlocked,
	}, nil
}

// refreshStreak is the shared tail of the pipeline: recompute from the
// eligible activity log, persist with a monotonic longest streak, then run
// the milestone scan. Freeze tokens leave no date markers behind, so the
// recomputation is freeze-agnostic (see ComputeStreak).
func (s *StreakService) refreshStreak(ctx context.Context, st *streak.Streak, today time.Time, forceMilestones bool) (*streak.Streak, []*achievement.Achievement, error) {
	rows, err := s.db.Query(ctx,
		`SELECT activity_date FROM daily_activities WHERE streak_id = $1 AND streak_eligible ORDER BY activity_date ASC`,
		st.ID)
	if err != nil {
		return nil, nil, apperror.Internal("failed to fetch activity log", err)
	}
	defer rows.Close()

	var activityDays []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, nil, apperror.Internal("failed to scan activity date", err)
		}
		activityDays = append(activityDays, d)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperror.Internal("failed to read activity log", err)
	}

	m := ComputeStreak(activityDays, nil, today)
	longest := max(st.LongestStreak, m.LongestStreak)

	query := `
	UPDATE user_streaks SET
		current_streak = $3,
		longest_streak = $4,
		last_activity_date = $5,
		streak_start_date = $6,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING ` + streakColumns

	updated, err := scanStreak(s.db.QueryRow(ctx, query,
		st.ID, st.UserID, m.CurrentStreak, longest, m.LastActivityDate, m.StreakStartDate))
	if err != nil {
		return nil, nil, apperror.Internal("failed to update streak", err)
	}

	// Milestone unlocks are keyed to longest, so skip the scan when nothing
	// can have changed (unless a full refresh was requested).
	var unlocked []*achievement.Achievement
	if forceMilestones || longest > st.LongestStreak || st.LongestStreak == 0 {
		id := updated.ID
		unlocked = s.achievements.CheckMilestones(ctx, st.UserID, &id, longest)
	}

	return updated, unlocked, nil
}

// ---------------------------------------------------------------------------
// Freeze tokens
// ---------------------------------------------------------------------------

// UseFreeze consumes one freeze token on the given (or default) streak. The
// cap check rides inside the UPDATE so two racing requests cannot overspend.
func (s *StreakService) UseFreeze(ctx context.Context, userID string, streakID *uuid.UUID, days int) (*FreezeResult, error) {
	if days < 0 {
		return nil, apperror.InvalidInput("days cannot be negative")
	}
	if days == 0 {
		days = 1
	}

	var st *streak.Streak
	var err error
	if streakID != nil {
		st, err = s.getStreakForUser(ctx, userID, *streakID)
	} else {
		st, err = s.defaultStreak(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	query := `
	UPDATE user_streaks SET freeze_count = freeze_count + 1, updated_at = NOW()
	WHERE id = $1 AND user_id = $2 AND freeze_count < $3
	RETURNING ` + streakColumns

	updated, err := scanStreak(s.db.QueryRow(ctx, query, st.ID, userID, MaxFreezeTokens))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.QuotaExceeded("no freeze tokens remaining")
		}
		return nil, apperror.Internal("failed to use freeze token", err)
	}

	if updated.FreezeCount == 1 {
		// First freeze ever on this streak; the unlock-once contract keeps
		// repeat unlocks across streaks silent.
		s.achievements.UnlockSpecial(ctx, userID, &updated.ID, achievement.NameFreezeMaster)
	}

	remaining := MaxFreezeTokens - updated.FreezeCount

	if s.notifications != nil {
		err := s.notifications.CreateNotification(ctx, userID, notification.TypeFreezeUsed,
			"🧊 Streak frozen", fmt.Sprintf("%q is protected. %d freeze tokens left.", updated.Name, remaining),
			map[string]any{"streak_id": updated.ID, "remaining": remaining})
		if err != nil {
			log.Printf("UseFreeze: failed to create notification for %s: %v", userID, err)
		}
	}

	return &FreezeResult{
		Streak:                updated,
		FreezeTokensRemaining: remaining,
		Message:               fmt.Sprintf("Streak frozen for %d day(s). You have %d freeze tokens remaining.", days, remaining),
	}, nil
}

func (s *StreakService) FreezeStatus(ctx context.Context, userID string) (*streak.FreezeStatus, error) {
	st, err := s.defaultStreak(ctx, userID)
	used := 0
	if err != nil {
		if apperror.KindOf(err) != apperror.KindNotFound {
			return nil, err
		}
		// No streak yet: full quota available.
	} else {
		used = st.FreezeCount
	}

	remaining := max(MaxFreezeTokens-used, 0)
	return &streak.FreezeStatus{
		FreezeTokensUsed:      used,
		FreezeTokensRemaining: remaining,
		MaxFreezeTokens:       MaxFreezeTokens,
		CanUseFreeze:          remaining > 0,
	}, nil
}

// ---------------------------------------------------------------------------
// Lookups
// ---------------------------------------------------------------------------

func (s *StreakService) getStreakForUser(ctx context.Context, userID string, streakID uuid.UUID) (*streak.Streak, error) {
	query := `SELECT ` + streakColumns + ` FROM user_streaks WHERE id = $1 AND user_id = $2 AND is_active`
	st, err := scanStreak(s.db.QueryRow(ctx, query, streakID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("streak not found")
		}
		return nil, apperror.Internal("failed to fetch streak", err)
	}
	return st, nil
}

// defaultStreak is the user's first active streak by display order; the
// freeze and recalculate endpoints fall back to it when no id is given.
func (s *StreakService) defaultStreak(ctx context.Context, userID string) (*streak.Streak, error) {
	query := `SELECT ` + streakColumns + `
	FROM user_streaks WHERE user_id = $1 AND is_active
	ORDER BY display_order ASC LIMIT 1`
	st, err := scanStreak(s.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("no active streak found")
		}
		return nil, apperror.Internal("failed to fetch default streak", err)
	}
	return st, nil
}

// EnsureDefaultStreak fetches the catch-all streak, creating it on first use
// (a streak may come into existence implicitly with the first qualifying
// session).
func (s *StreakService) EnsureDefaultStreak(ctx context.Context, userID string) (*streak.Streak, error) {
	query := `SELECT ` + streakColumns + ` FROM user_streaks WHERE user_id = $1 AND name = $2 AND is_active`
	st, err := scanStreak(s.db.QueryRow(ctx, query, userID, DefaultStreakName))
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.Internal("failed to fetch default streak", err)
	}

	created, cerr := s.CreateStreak(ctx, userID, &streak.CreateStreakRequest{
		Name:     DefaultStreakName,
		Category: "focus",
		Icon:     "⏱️",
	})
	if cerr != nil {
		// A concurrent session may have created it in between.
		if apperror.KindOf(cerr) == apperror.KindConflict {
			return scanStreakErr(s.db.QueryRow(ctx, query, userID, DefaultStreakName))
		}
		return nil, cerr
	}
	return created, nil
}

// MatchStreakByTask resolves a focus-task name to one of the user's streaks.
// Exposed as the TaskMatcher used by the session recorder; see task_matcher.go.
func (s *StreakService) MatchStreakByTask(ctx context.Context, userID string, taskName string) (*streak.Streak, bool) {
	cards, err := s.ListStreaks(ctx, userID)
	if err != nil {
		return nil, false
	}
	names := make([]NamedStreak, 0, len(cards))
	for _, c := range cards {
		names = append(names, NamedStreak{ID: c.ID, Name: c.Name, Category: c.Category})
	}
	id, ok := MatchTaskToStreak(taskName, names)
	if !ok {
		return nil, false
	}
	st, err := s.getStreakForUser(ctx, userID, id)
	if err != nil {
		return nil, false
	}
	return st, true
}

// ---------------------------------------------------------------------------
// Row helpers
// ---------------------------------------------------------------------------

func scanStreak(row pgx.Row) (*streak.Streak, error) {
	st := &streak.Streak{}
	err := row.Scan(
		&st.ID, &st.UserID, &st.Name, &st.Description, &st.Category, &st.Icon, &st.Color, &st.StreakType,
		&st.CurrentStreak, &st.LongestStreak, &st.LastActivityDate, &st.StreakStartDate,
		&st.FreezeCount, &st.IsActive, &st.DisplayOrder, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return st, nil
}

func scanStreakErr(row pgx.Row) (*streak.Streak, error) {
	st, err := scanStreak(row)
	if err != nil {
		return nil, apperror.Internal("failed to fetch streak", err)
	}
	return st, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

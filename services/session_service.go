package services

import (
	"context"
	"strings"
	"time"

	"focusFlowAPI/internal/apperror"
	"focusFlowAPI/internal/session"
	"focusFlowAPI/internal/streak"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskMatcher maps a task name to one of the user's streaks. The default is
// the keyword heuristic in task_matcher.go; callers can swap in their own.
type TaskMatcher func(ctx context.Context, userID, taskName string) (*streak.Streak, bool)

type SessionService struct {
	db      *pgxpool.Pool
	streaks *StreakService
	matcher TaskMatcher
}

func NewSessionService(db *pgxpool.Pool, streaks *StreakService) *SessionService {
	return &SessionService{db: db, streaks: streaks, matcher: streaks.MatchStreakByTask}
}

// SetTaskMatcher overrides how task names resolve to streaks.
func (s *SessionService) SetTaskMatcher(m TaskMatcher) {
	s.matcher = m
}

// SessionResult pairs the stored session with the streak pipeline output it
// triggered.
type SessionResult struct {
	Session *session.FocusSession `json:"session"`
	RecordResult
}

// RecordSession stores a finished focus-timer run and feeds it into the
// streak pipeline. The target streak resolves in order: an explicit streakId,
// a keyword match on the task name, then the implicit catch-all streak
// (created on first use).
func (s *SessionService) RecordSession(ctx context.Context, userID string, req *session.RecordSessionRequest, day time.Time) (*SessionResult, error) {
	if req.Minutes < 0 {
		return nil, apperror.InvalidInput("minutes cannot be negative")
	}
	efficiency := 100
	if req.Efficiency != nil {
		if *req.Efficiency < 0 || *req.Efficiency > 100 {
			return nil, apperror.InvalidInput("efficiency must be between 0 and 100")
		}
		efficiency = *req.Efficiency
	}
	sessionCount := req.SessionCount
	if sessionCount == 0 {
		sessionCount = 1
	}
	if sessionCount < 1 {
		return nil, apperror.InvalidInput("session count must be at least 1")
	}

	target, err := s.resolveStreak(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	task := strings.TrimSpace(req.TaskName)
	if task == "" {
		task = target.Name
	}

	fs := &session.FocusSession{UserID: userID, Task: task, DurationMinutes: req.Minutes, EfficiencyPercentage: efficiency}
	err = s.db.QueryRow(ctx, `
	INSERT INTO focus_sessions (user_id, task, duration_minutes, efficiency_percentage)
	VALUES ($1, $2, $3, $4)
	RETURNING id, created_at`,
		userID, task, req.Minutes, efficiency).Scan(&fs.ID, &fs.CreatedAt)
	if err != nil {
		return nil, apperror.Internal("failed to record session", err)
	}

	rec, err := s.streaks.RecordActivity(ctx, userID, target.ID, day, req.Minutes, sessionCount, true)
	if err != nil {
		return nil, err
	}

	return &SessionResult{Session: fs, RecordResult: *rec}, nil
}

// GetSessions lists the user's recent sessions, newest first.
func (s *SessionService) GetSessions(ctx context.Context, userID string, limit int) ([]*session.FocusSession, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := s.db.Query(ctx, `
	SELECT id, user_id, task, duration_minutes, efficiency_percentage, created_at
	FROM focus_sessions
	WHERE user_id = $1
	ORDER BY created_at DESC
	LIMIT $2`, userID, limit)
	if err != nil {
		return nil, apperror.Internal("failed to fetch sessions", err)
	}
	defer rows.Close()

	sessions := []*session.FocusSession{}
	for rows.Next() {
		fs := &session.FocusSession{}
		err := rows.Scan(&fs.ID, &fs.UserID, &fs.Task, &fs.DurationMinutes, &fs.EfficiencyPercentage, &fs.CreatedAt)
		if err != nil {
			return nil, apperror.Internal("failed to scan session", err)
		}
		sessions = append(sessions, fs)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Internal("failed to read sessions", err)
	}
	return sessions, nil
}

func (s *SessionService) resolveStreak(ctx context.Context, userID string, req *session.RecordSessionRequest) (*streak.Streak, error) {
	if req.StreakID != nil {
		return s.streaks.getStreakForUser(ctx, userID, *req.StreakID)
	}
	if task := strings.TrimSpace(req.TaskName); task != "" && s.matcher != nil {
		if st, ok := s.matcher(ctx, userID, task); ok {
			return st, nil
		}
	}
	return s.streaks.EnsureDefaultStreak(ctx, userID)
}

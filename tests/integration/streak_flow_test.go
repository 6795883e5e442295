package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusFlowAPI/internal/achievement"
	"focusFlowAPI/internal/apperror"
	"focusFlowAPI/internal/session"
	"focusFlowAPI/internal/streak"
	"focusFlowAPI/services"
	"focusFlowAPI/tests/helpers"
	"focusFlowAPI/utils"
)

// TestStreakLifecycle walks the whole engine end to end against a real
// database: create, complete, double-complete rejection, freeze quota,
// reset, recalculate.
func TestStreakLifecycle(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	userID := helpers.TestUserID()
	defer helpers.CleanupTestDB(t, pool, userID)

	notificationService := services.NewNotificationService(pool)
	achievementService := services.NewAchievementService(pool, notificationService)
	streakService := services.NewStreakService(pool, achievementService, notificationService)

	ctx := context.Background()
	today := utils.Day(time.Now().UTC())

	t.Log("Step 1: Create a streak")
	created, err := streakService.CreateStreak(ctx, userID, &streak.CreateStreakRequest{
		Name:     "Reading",
		Category: "learning",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, created.CurrentStreak)
	assert.True(t, created.IsActive)

	t.Log("Step 2: Duplicate name is rejected")
	_, err = streakService.CreateStreak(ctx, userID, &streak.CreateStreakRequest{Name: "Reading"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	t.Log("Step 3: Complete today")
	result, err := streakService.CompleteToday(ctx, userID, created.ID, today)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Streak.CurrentStreak)
	assert.Equal(t, 1, result.Streak.LongestStreak)
	require.NotEmpty(t, result.NewAchievements, "first completion should unlock the day-1 milestone")
	assert.Equal(t, "First Streak", result.NewAchievements[0].Name)

	t.Log("Step 4: Second completion on the same day is a conflict")
	_, err = streakService.CompleteToday(ctx, userID, created.ID, today)
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	t.Log("Step 5: First freeze unlocks Freeze Master, tokens run out after three uses")
	for i := 0; i < services.MaxFreezeTokens; i++ {
		fr, err := streakService.UseFreeze(ctx, userID, &created.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, services.MaxFreezeTokens-i-1, fr.FreezeTokensRemaining)
	}
	specials, err := achievementService.GetAchievements(ctx, userID, string(achievement.TypeSpecial))
	require.NoError(t, err)
	require.Len(t, specials.Achievements, 1, "three freeze uses must unlock Freeze Master exactly once")
	assert.Equal(t, achievement.NameFreezeMaster, specials.Achievements[0].Name)

	_, err = streakService.UseFreeze(ctx, userID, &created.ID, 1)
	require.Error(t, err)
	assert.Equal(t, apperror.KindQuotaExceeded, apperror.KindOf(err))

	status, err := streakService.FreezeStatus(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, services.MaxFreezeTokens, status.FreezeTokensUsed)
	assert.False(t, status.CanUseFreeze)

	t.Log("Step 6: Reset zeroes current but keeps longest")
	afterReset, err := streakService.ResetStreak(ctx, userID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, afterReset.CurrentStreak)
	assert.Equal(t, 1, afterReset.LongestStreak)
	assert.Nil(t, afterReset.LastActivityDate)

	t.Log("Step 7: Recalculate restores metrics from the activity log")
	recalc, err := streakService.Recalculate(ctx, userID, &created.ID, false, today)
	require.NoError(t, err)
	assert.Equal(t, 1, recalc.Streak.CurrentStreak)
	assert.Equal(t, 1, recalc.Streak.LongestStreak)

	t.Log("Step 8: Soft delete hides the streak but keeps history")
	require.NoError(t, streakService.DeleteStreak(ctx, userID, created.ID))
	_, err = streakService.GetStreakDetail(ctx, userID, created.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

// TestSessionRecordingFlow covers the focus-timer entry point: explicit
// streak targeting, keyword matching, and the implicit catch-all streak.
func TestSessionRecordingFlow(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	userID := helpers.TestUserID()
	defer helpers.CleanupTestDB(t, pool, userID)

	notificationService := services.NewNotificationService(pool)
	achievementService := services.NewAchievementService(pool, notificationService)
	streakService := services.NewStreakService(pool, achievementService, notificationService)
	sessionService := services.NewSessionService(pool, streakService)

	ctx := context.Background()
	today := utils.Day(time.Now().UTC())

	gym, err := streakService.CreateStreak(ctx, userID, &streak.CreateStreakRequest{
		Name:     "Gym",
		Category: "health",
	})
	require.NoError(t, err)

	t.Log("Task name matching routes the session to the right streak")
	result, err := sessionService.RecordSession(ctx, userID, &session.RecordSessionRequest{
		TaskName: "morning gym workout",
		Minutes:  45,
	}, today)
	require.NoError(t, err)
	assert.Equal(t, gym.ID, result.Streak.ID)
	assert.Equal(t, 1, result.Streak.CurrentStreak)
	assert.Equal(t, 45, result.Activity.TotalMinutes)

	t.Log("Repeat sessions accumulate into the same day")
	result, err = sessionService.RecordSession(ctx, userID, &session.RecordSessionRequest{
		TaskName: "evening gym",
		Minutes:  30,
	}, today)
	require.NoError(t, err)
	assert.Equal(t, 75, result.Activity.TotalMinutes)
	assert.Equal(t, 2, result.Activity.SessionCount)
	assert.Equal(t, 1, result.Streak.CurrentStreak, "same-day sessions must not inflate the streak")

	t.Log("Unmatched tasks fall through to the implicit catch-all streak")
	result, err = sessionService.RecordSession(ctx, userID, &session.RecordSessionRequest{
		TaskName: "tax paperwork",
		Minutes:  25,
	}, today)
	require.NoError(t, err)
	assert.Equal(t, services.DefaultStreakName, result.Streak.Name)

	t.Log("Efficiency outside 0-100 is rejected before anything is written")
	bad := 150
	_, err = sessionService.RecordSession(ctx, userID, &session.RecordSessionRequest{
		TaskName:   "gym",
		Minutes:    10,
		Efficiency: &bad,
	}, today)
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))

	sessions, err := sessionService.GetSessions(ctx, userID, 10)
	require.NoError(t, err)
	assert.Len(t, sessions, 3)
}

// TestComebackKidRequiresRestartedStreak backfills activity on a broken
// streak and expects no comeback unlock until a completion actually restarts
// the streak.
func TestComebackKidRequiresRestartedStreak(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	userID := helpers.TestUserID()
	defer helpers.CleanupTestDB(t, pool, userID)

	notificationService := services.NewNotificationService(pool)
	achievementService := services.NewAchievementService(pool, notificationService)
	streakService := services.NewStreakService(pool, achievementService, notificationService)

	ctx := context.Background()
	today := utils.Day(time.Now().UTC())

	st, err := streakService.CreateStreak(ctx, userID, &streak.CreateStreakRequest{Name: "Meditation"})
	require.NoError(t, err)

	t.Log("A lone completion ten days ago leaves current=0, longest=1")
	rec, err := streakService.RecordActivity(ctx, userID, st.ID, today.AddDate(0, 0, -10), 20, 1, true)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Streak.CurrentStreak)
	assert.Equal(t, 1, rec.Streak.LongestStreak)

	t.Log("Backfilling a month-old date does not restart the streak, so no comeback")
	rec, err = streakService.RecordActivity(ctx, userID, st.ID, today.AddDate(0, 0, -30), 20, 1, true)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Streak.CurrentStreak)
	for _, ach := range rec.NewAchievements {
		assert.NotEqual(t, achievement.NameComebackKid, ach.Name, "backfill must not unlock a comeback")
	}

	t.Log("Completing today restarts the streak and unlocks Comeback Kid")
	result, err := streakService.CompleteToday(ctx, userID, st.ID, today)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Streak.CurrentStreak)
	names := make([]string, 0, len(result.NewAchievements))
	for _, ach := range result.NewAchievements {
		names = append(names, ach.Name)
	}
	assert.Contains(t, names, achievement.NameComebackKid)
}

// TestAchievementIdempotency re-runs the milestone scan and expects no
// duplicate unlocks.
func TestAchievementIdempotency(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	userID := helpers.TestUserID()
	defer helpers.CleanupTestDB(t, pool, userID)

	notificationService := services.NewNotificationService(pool)
	achievementService := services.NewAchievementService(pool, notificationService)
	streakService := services.NewStreakService(pool, achievementService, notificationService)

	ctx := context.Background()
	today := utils.Day(time.Now().UTC())

	st, err := streakService.CreateStreak(ctx, userID, &streak.CreateStreakRequest{Name: "Writing"})
	require.NoError(t, err)

	_, err = streakService.CompleteToday(ctx, userID, st.ID, today)
	require.NoError(t, err)

	recalc, err := streakService.Recalculate(ctx, userID, &st.ID, true, today)
	require.NoError(t, err)
	assert.Empty(t, recalc.NewAchievements, "replaying the scan must not re-unlock milestones")

	resp, err := achievementService.GetAchievements(ctx, userID, string(achievement.TypeMilestone))
	require.NoError(t, err)
	assert.Len(t, resp.Achievements, 1)
	assert.Equal(t, 1, resp.Stats.Milestone)
}

package helpers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"focusFlowAPI/db"
)

// SetupTestDB connects to the test database and applies migrations. Tests
// that need a database skip themselves when no URL is configured.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL or DATABASE_URL not set; skipping database test")
	}

	if err := db.RunMigrations(dbURL); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	return pool
}

// CleanupTestDB removes rows created by a test user and closes the pool.
func CleanupTestDB(t *testing.T, pool *pgxpool.Pool, userID string) {
	ctx := context.Background()
	for _, table := range []string{"daily_activities", "streak_achievements", "focus_sessions", "notifications", "user_streaks"} {
		if _, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE user_id = $1", table), userID); err != nil {
			t.Logf("Warning: failed to cleanup %s: %v", table, err)
		}
	}
	pool.Close()
}

// TestUserID returns a unique per-run user id so parallel CI runs never
// collide on the (user_id, name) uniques.
func TestUserID() string {
	return "user_test_" + time.Now().Format("20060102150405.000")
}

// GenerateMockClerkJWT generates a mock JWT token for testing
func GenerateMockClerkJWT(clerkID string) (string, error) {
	secretKey := []byte("test-secret-key-for-testing-only")

	claims := jwt.MapClaims{
		"sub": clerkID,
		"iss": "https://clerk.test",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour * 24).Unix(),
		"azp": "test-app-id",
		"sid": "sess_test123",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

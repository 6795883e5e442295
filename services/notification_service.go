package services

import (
	"context"
	"fmt"

	"focusFlowAPI/internal/apperror"
	"focusFlowAPI/internal/notification"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationService persists in-app notices. Delivery to external channels
// is out of scope; clients poll the list endpoints.
type NotificationService struct {
	db *pgxpool.Pool
}

func NewNotificationService(db *pgxpool.Pool) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) CreateNotification(ctx context.Context, userID string, notifType notification.NotificationType, title, message string, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	query := `
	INSERT INTO notifications (user_id, type, title, message, data)
	VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.Exec(ctx, query, userID, notifType, title, message, data)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (s *NotificationService) GetNotifications(ctx context.Context, userID string, limit int) (*notification.ListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := `
	SELECT id, user_id, type, title, message, data, read, created_at
	FROM notifications
	WHERE user_id = $1
	ORDER BY created_at DESC
	LIMIT $2
	`
	rows, err := s.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, apperror.Internal("failed to fetch notifications", err)
	}
	defer rows.Close()

	resp := &notification.ListResponse{Notifications: []*notification.Notification{}}
	for rows.Next() {
		n := &notification.Notification{}
		err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Data, &n.Read, &n.CreatedAt)
		if err != nil {
			return nil, apperror.Internal("failed to scan notification", err)
		}
		resp.Notifications = append(resp.Notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Internal("failed to read notifications", err)
	}

	unread, err := s.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp.UnreadCount = unread

	return resp, nil
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT read`, userID).Scan(&count)
	if err != nil {
		return 0, apperror.Internal("failed to count unread notifications", err)
	}
	return count, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID string, notificationID uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, notificationID, userID)
	if err != nil {
		return apperror.Internal("failed to mark notification as read", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("notification not found")
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE user_id = $1 AND NOT read`, userID)
	if err != nil {
		return apperror.Internal("failed to mark notifications as read", err)
	}
	return nil
}

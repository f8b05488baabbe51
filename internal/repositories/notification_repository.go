package repositories

import (
	"database/sql"

	intconfig "homeservice/internal/config"
	"homeservice/internal/domain"
	"homeservice/internal/domain/models"
)

type NotificationRepository struct {
	DB *sql.DB
}

func (r NotificationRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Insert persists a write-once delivery record.
func (r NotificationRepository) Insert(userID int64, title, message, category string) error {
	_, err := r.db().Exec(`
		INSERT INTO notifications (user_id, title, message, notification_type, is_read, created_at)
		VALUES (?, ?, ?, ?, 0, NOW())`,
		userID, title, message, category)
	return err
}

func (r NotificationRepository) ListByUser(userID int64) ([]models.Notification, error) {
	rows, err := r.db().Query(`
		SELECT id, user_id, title, message, notification_type, is_read, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Category, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead flips is_read for a notification owned by the caller.
func (r NotificationRepository) MarkRead(id, userID int64) error {
	res, err := r.db().Exec(`
		UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?`,
		id, userID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.NotFoundError{Resource: "notification"}
	}
	return nil
}

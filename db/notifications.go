package db

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/bigheart-studio/studio-booking/model"
)

// SaveNotification saves a single notification into the database, scanning the assigned ID into the
// structure.
func (c *Client) SaveNotification(ctx context.Context, tx *sql.Tx, notification *model.Notification) error {
	wrapMsg := "unable to save notification"

	// Build the statement to insert the notification.
	statement, args, err := c.builder.
		Insert("notifications").
		Columns(
			"type",
			"title",
			"message",
			"read",
			"created_at").
		Values(
			notification.Type,
			notification.Title,
			notification.Message,
			notification.Read,
			notification.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	// Execute the insert statement, scanning the ID into the notification structure.
	row := tx.QueryRowContext(ctx, statement, args...)
	err = row.Scan(&notification.ID)
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	return nil
}

// ListNotifications lists the most recent notifications, newest first.
func (c *Client) ListNotifications(ctx context.Context, limit uint64) ([]model.Notification, error) {
	wrapMsg := "unable to list notifications"

	statement, args, err := c.builder.
		Select("id", "type", "title", "message", "COALESCE(read, false)", "created_at").
		From("notifications").
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	rows, err := c.db.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	defer rows.Close()

	notifications := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		if err = rows.Scan(&n.ID, &n.Type, &n.Title, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, errors.Wrap(err, wrapMsg)
		}
		notifications = append(notifications, n)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return notifications, nil
}

// MarkNotificationRead marks a single notification as read. Marking a notification that doesn't exist or
// that has already been read is not an error.
func (c *Client) MarkNotificationRead(ctx context.Context, tx *sql.Tx, id int64) error {
	wrapMsg := fmt.Sprintf("unable to mark notification %d as read", id)

	statement, args, err := c.builder.
		Update("notifications").
		Set("read", true).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	if _, err = tx.ExecContext(ctx, statement, args...); err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	return nil
}

// MarkAllNotificationsRead marks every unread notification as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context, tx *sql.Tx) error {
	wrapMsg := "unable to mark all notifications as read"

	statement, args, err := c.builder.
		Update("notifications").
		Set("read", true).
		Where(sq.Eq{"read": false}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	if _, err = tx.ExecContext(ctx, statement, args...); err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	return nil
}

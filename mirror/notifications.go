package mirror

import (
	"context"

	"github.com/dgraph-io/badger/v4"

	"github.com/bigheart-studio/studio-booking/model"
)

func notificationID(n model.Notification) int64 { return n.ID }

// addNotification inserts a notification at the front of the stored list, keeping at most
// model.NotificationLimit entries.
func addNotification(txn *badger.Txn, notification *model.Notification) error {
	notifications, err := load[model.Notification](txn, NotificationsKey)
	if err != nil {
		return err
	}

	notification.ID, err = nextID(txn, NotificationsKey, maxID(notifications, notificationID))
	if err != nil {
		return err
	}

	notifications = append([]model.Notification{*notification}, notifications...)
	if len(notifications) > model.NotificationLimit {
		notifications = notifications[:model.NotificationLimit]
	}

	return store(txn, NotificationsKey, notifications)
}

// AddNotification records an unread notification.
func (m *Mirror) AddNotification(ctx context.Context, notificationType, title, message string) (*model.Notification, error) {
	notification := &model.Notification{
		Type:      notificationType,
		Title:     title,
		Message:   message,
		CreatedAt: m.now(),
	}
	err := m.update(ctx, func(txn *badger.Txn) error {
		return addNotification(txn, notification)
	})
	if err != nil {
		return nil, err
	}
	return notification, nil
}

// ListNotifications lists the retained notifications, newest first.
func (m *Mirror) ListNotifications(ctx context.Context) ([]model.Notification, error) {
	var notifications []model.Notification
	err := m.view(ctx, func(txn *badger.Txn) error {
		var err error
		notifications, err = load[model.Notification](txn, NotificationsKey)
		return err
	})
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead marks a single notification as read.
func (m *Mirror) MarkNotificationRead(ctx context.Context, id int64) (*model.ReadResult, error) {
	err := m.markRead(ctx, func(n *model.Notification) bool { return n.ID == id })
	if err != nil {
		return nil, err
	}
	return &model.ReadResult{Success: true, ID: id}, nil
}

// MarkAllNotificationsRead marks every notification as read.
func (m *Mirror) MarkAllNotificationsRead(ctx context.Context) error {
	return m.markRead(ctx, func(*model.Notification) bool { return true })
}

func (m *Mirror) markRead(ctx context.Context, match func(*model.Notification) bool) error {
	return m.update(ctx, func(txn *badger.Txn) error {
		notifications, err := load[model.Notification](txn, NotificationsKey)
		if err != nil {
			return err
		}

		for i := range notifications {
			if match(&notifications[i]) {
				notifications[i].Read = true
			}
		}

		return store(txn, NotificationsKey, notifications)
	})
}

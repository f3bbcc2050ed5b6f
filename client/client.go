package client

import (
	"context"

	"github.com/bigheart-studio/studio-booking/model"
)

var (
	_ Store = (*Client)(nil)
	_ Store = (*Remote)(nil)
)

// Client serves every call from the primary store, falling back to the mirror when the primary fails. The
// fallback is logged at debug level and otherwise invisible to callers.
type Client struct {
	primary Store
	mirror  Store
}

// New returns a client over the given primary store and mirror.
func New(primary, mirror Store) *Client {
	return &Client{primary: primary, mirror: mirror}
}

// withFallback runs op against the primary store and, if that fails, against the mirror.
func withFallback[T any](c *Client, name string, op func(s Store) (T, error)) (T, error) {
	result, err := op(c.primary)
	if err == nil {
		return result, nil
	}
	log.Debugf("%s: falling back to the local mirror: %s", name, err)
	return op(c.mirror)
}

// ListGallery lists gallery items, optionally restricted to one category.
func (c *Client) ListGallery(ctx context.Context, category string) ([]model.GalleryItem, error) {
	return withFallback(c, "ListGallery", func(s Store) ([]model.GalleryItem, error) {
		return s.ListGallery(ctx, category)
	})
}

// SaveGalleryItem creates a gallery item.
func (c *Client) SaveGalleryItem(ctx context.Context, item model.GalleryItem) (*model.GalleryItem, error) {
	return withFallback(c, "SaveGalleryItem", func(s Store) (*model.GalleryItem, error) {
		return s.SaveGalleryItem(ctx, item)
	})
}

// UpdateGalleryItem merges fields into a gallery item.
func (c *Client) UpdateGalleryItem(
	ctx context.Context,
	id int64,
	update model.GalleryUpdate,
) (*model.GalleryItem, error) {
	return withFallback(c, "UpdateGalleryItem", func(s Store) (*model.GalleryItem, error) {
		return s.UpdateGalleryItem(ctx, id, update)
	})
}

// DeleteGalleryItem deletes a gallery item.
func (c *Client) DeleteGalleryItem(ctx context.Context, id int64) (*model.DeleteResult, error) {
	return withFallback(c, "DeleteGalleryItem", func(s Store) (*model.DeleteResult, error) {
		return s.DeleteGalleryItem(ctx, id)
	})
}

// UploadImage stores an image and returns the URL it can be displayed from.
func (c *Client) UploadImage(ctx context.Context, filename string, content []byte) (*model.Upload, error) {
	return withFallback(c, "UploadImage", func(s Store) (*model.Upload, error) {
		return s.UploadImage(ctx, filename, content)
	})
}

// ListBookings lists every booking.
func (c *Client) ListBookings(ctx context.Context) ([]model.Booking, error) {
	return withFallback(c, "ListBookings", func(s Store) ([]model.Booking, error) {
		return s.ListBookings(ctx)
	})
}

// SaveBooking submits a booking.
func (c *Client) SaveBooking(ctx context.Context, req model.BookingRequest) (*model.BookingReceipt, error) {
	return withFallback(c, "SaveBooking", func(s Store) (*model.BookingReceipt, error) {
		return s.SaveBooking(ctx, req)
	})
}

// UpdateBookingStatus changes the status of a booking.
func (c *Client) UpdateBookingStatus(ctx context.Context, id int64, status string) (*model.StatusResult, error) {
	return withFallback(c, "UpdateBookingStatus", func(s Store) (*model.StatusResult, error) {
		return s.UpdateBookingStatus(ctx, id, status)
	})
}

// DeleteBooking deletes a booking.
func (c *Client) DeleteBooking(ctx context.Context, id int64) (*model.DeleteResult, error) {
	return withFallback(c, "DeleteBooking", func(s Store) (*model.DeleteResult, error) {
		return s.DeleteBooking(ctx, id)
	})
}

// ListNotifications lists the most recent notifications.
func (c *Client) ListNotifications(ctx context.Context) ([]model.Notification, error) {
	return withFallback(c, "ListNotifications", func(s Store) ([]model.Notification, error) {
		return s.ListNotifications(ctx)
	})
}

// MarkNotificationRead marks a single notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) (*model.ReadResult, error) {
	return withFallback(c, "MarkNotificationRead", func(s Store) (*model.ReadResult, error) {
		return s.MarkNotificationRead(ctx, id)
	})
}

// MarkAllNotificationsRead marks every notification as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	_, err := withFallback(c, "MarkAllNotificationsRead", func(s Store) (struct{}, error) {
		return struct{}{}, s.MarkAllNotificationsRead(ctx)
	})
	return err
}

// AdminLogin checks the admin password.
func (c *Client) AdminLogin(ctx context.Context, password string) (*model.LoginResult, error) {
	return withFallback(c, "AdminLogin", func(s Store) (*model.LoginResult, error) {
		return s.AdminLogin(ctx, password)
	})
}

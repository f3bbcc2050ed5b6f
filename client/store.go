// Package client gives front ends a single data contract over the studio records. Calls go to the studio
// server first and, when it can't serve them, to the local mirror. Callers can't tell which store answered.
package client

import (
	"context"

	"github.com/bigheart-studio/studio-booking/common"
	"github.com/bigheart-studio/studio-booking/model"
)

var log = common.Log.WithField("package", "client")

// Store describes the operations available on the studio records.
type Store interface {
	ListGallery(ctx context.Context, category string) ([]model.GalleryItem, error)
	SaveGalleryItem(ctx context.Context, item model.GalleryItem) (*model.GalleryItem, error)
	UpdateGalleryItem(ctx context.Context, id int64, update model.GalleryUpdate) (*model.GalleryItem, error)
	DeleteGalleryItem(ctx context.Context, id int64) (*model.DeleteResult, error)
	UploadImage(ctx context.Context, filename string, content []byte) (*model.Upload, error)

	ListBookings(ctx context.Context) ([]model.Booking, error)
	SaveBooking(ctx context.Context, req model.BookingRequest) (*model.BookingReceipt, error)
	UpdateBookingStatus(ctx context.Context, id int64, status string) (*model.StatusResult, error)
	DeleteBooking(ctx context.Context, id int64) (*model.DeleteResult, error)

	ListNotifications(ctx context.Context) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) (*model.ReadResult, error)
	MarkAllNotificationsRead(ctx context.Context) error

	AdminLogin(ctx context.Context, password string) (*model.LoginResult, error)
}

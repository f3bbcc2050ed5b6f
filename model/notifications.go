package model

import (
	"fmt"
	"time"
)

// NotificationTypeBooking is the notification type used for every notification derived from a booking.
const NotificationTypeBooking = "booking"

// Titles of the notifications derived from booking mutations.
const (
	TitleNewBooking     = "New Booking"
	TitleBookingUpdated = "Booking Updated"
)

// NotificationLimit is the maximum number of notifications returned by a listing, and the maximum number
// retained by the local mirror.
const NotificationLimit = 50

// Notification represents a single notification derived from a booking mutation.
type Notification struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewBookingNotification returns the notification recorded when a booking is submitted.
func NewBookingNotification(name, serviceType string, createdAt time.Time) *Notification {
	return &Notification{
		Type:      NotificationTypeBooking,
		Title:     TitleNewBooking,
		Message:   fmt.Sprintf("%s booked a %s session", name, ServiceTypeOrDefault(serviceType)),
		CreatedAt: createdAt,
	}
}

// BookingUpdatedNotification returns the notification recorded when the status of a booking changes.
func BookingUpdatedNotification(name, status string, createdAt time.Time) *Notification {
	return &Notification{
		Type:      NotificationTypeBooking,
		Title:     TitleBookingUpdated,
		Message:   fmt.Sprintf("%s's booking status changed to %s", name, status),
		CreatedAt: createdAt,
	}
}

// ReadResult is the acknowledgement returned when a single notification is marked as read.
type ReadResult struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

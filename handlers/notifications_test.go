package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bigheart-studio/studio-booking/model"
)

func TestMarkNotificationRead(t *testing.T) {
	assert := assert.New(t)
	f := newTestFixture(t)

	f.do(t, http.MethodPost, "/api/bookings", janeDoe())
	notificationID := f.db.Notifications[0].ID

	rec := f.do(t, http.MethodPut, "/api/notifications/2/read", nil)
	assert.Equal(http.StatusOK, rec.Code)

	var result model.ReadResult
	decode(t, rec, &result)
	assert.Equal(model.ReadResult{Success: true, ID: notificationID}, result)
	assert.True(f.db.Notifications[0].Read)
	assert.True(f.db.CommitCalled, "the database transaction was not committed")
}

func TestMarkAllNotificationsRead(t *testing.T) {
	assert := assert.New(t)
	f := newTestFixture(t)

	f.do(t, http.MethodPost, "/api/bookings", janeDoe())
	f.do(t, http.MethodPut, "/api/bookings/1/status", model.StatusUpdate{Status: "confirmed"})

	rec := f.do(t, http.MethodPut, "/api/notifications/read-all", nil)
	assert.Equal(http.StatusOK, rec.Code)

	var result map[string]bool
	decode(t, rec, &result)
	assert.Equal(map[string]bool{"success": true}, result)

	rec = f.do(t, http.MethodGet, "/api/notifications", nil)
	var notifications []model.Notification
	decode(t, rec, &notifications)
	if assert.Len(notifications, 2) {
		for _, n := range notifications {
			assert.True(n.Read)
		}
		assert.Equal("Booking Updated", notifications[0].Title, "notifications should be listed newest first")
	}
}

func TestListNotificationsEmpty(t *testing.T) {
	f := newTestFixture(t)

	rec := f.do(t, http.MethodGet, "/api/notifications", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestListNotificationsLimit(t *testing.T) {
	f := newTestFixture(t)

	for i := 0; i < 60; i++ {
		f.do(t, http.MethodPost, "/api/bookings", janeDoe())
	}

	rec := f.do(t, http.MethodGet, "/api/notifications", nil)
	var notifications []model.Notification
	decode(t, rec, &notifications)
	assert.Len(t, notifications, 50)
}

func TestMarkNotificationReadStorageError(t *testing.T) {
	f := newTestFixture(t)
	f.db.Err = errDiskFull

	rec := f.do(t, http.MethodPut, "/api/notifications/1/read", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, f.db.RollbackCalled, "the database transaction was not rolled back")
}

package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bigheart-studio/studio-booking/model"
)

func janeDoe() model.BookingRequest {
	return model.BookingRequest{
		Name:  "Jane Doe",
		Email: "j@x.com",
		Phone: "555",
		Date:  "2024-01-01",
		Time:  "10:00",
	}
}

func TestCreateBooking(t *testing.T) {
	assert := assert.New(t)
	f := newTestFixture(t)

	rec := f.do(t, http.MethodPost, "/api/bookings", janeDoe())
	assert.Equal(http.StatusOK, rec.Code)

	var receipt model.BookingReceipt
	decode(t, rec, &receipt)
	assert.Equal(model.BookingReceipt{ID: 1, Message: "Booking submitted successfully", Status: "pending"}, receipt)

	// Verify that a transaction was created and committed.
	assert.True(f.db.BeginCalled, "no database transaction was started")
	assert.True(f.db.CommitCalled, "the database transaction was not committed")

	// Verify that the booking was saved with its defaults.
	if assert.Len(f.db.Bookings, 1) {
		assert.Equal("tattoo", f.db.Bookings[0].ServiceType)
		assert.Equal("pending", f.db.Bookings[0].Status)
	}

	// Exactly one notification is derived from the booking.
	rec = f.do(t, http.MethodGet, "/api/notifications", nil)
	var notifications []model.Notification
	decode(t, rec, &notifications)
	if assert.Len(notifications, 1) {
		assert.Equal("booking", notifications[0].Type)
		assert.Equal("New Booking", notifications[0].Title)
		assert.Equal("Jane Doe booked a tattoo session", notifications[0].Message)
		assert.False(notifications[0].Read)
	}

	// The committed notification was published.
	if assert.Len(f.publisher.Published, 1) {
		assert.Equal("New Booking", f.publisher.Published[0].Title)
	}
}

func TestCreateBookingServiceType(t *testing.T) {
	f := newTestFixture(t)

	req := janeDoe()
	req.ServiceType = "piercing"
	rec := f.do(t, http.MethodPost, "/api/bookings", req)
	assert.Equal(t, http.StatusOK, rec.Code)
	if assert.Len(t, f.db.Notifications, 1) {
		assert.Equal(t, "Jane Doe booked a piercing session", f.db.Notifications[0].Message)
	}
}

func TestCreateBookingMalformedEmailAccepted(t *testing.T) {
	f := newTestFixture(t)

	req := janeDoe()
	req.Email = "not an address"
	rec := f.do(t, http.MethodPost, "/api/bookings", req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, f.db.Bookings, 1)
}

func TestCreateBookingStorageError(t *testing.T) {
	assert := assert.New(t)
	f := newTestFixture(t)
	f.db.Err = errDiskFull

	rec := f.do(t, http.MethodPost, "/api/bookings", janeDoe())
	assert.Equal(http.StatusInternalServerError, rec.Code)

	var body map[string]string
	decode(t, rec, &body)
	assert.Equal("database or disk is full", body["error"])
	assert.False(f.db.CommitCalled, "the database transaction was committed")
	assert.Empty(f.publisher.Published)
}

func TestCreateBookingMissingRequiredFields(t *testing.T) {
	assert := assert.New(t)
	f := newTestFixture(t)

	rec := f.do(t, http.MethodPost, "/api/bookings", model.BookingRequest{Name: "NoEmail"})
	assert.Equal(http.StatusInternalServerError, rec.Code)

	var body map[string]string
	decode(t, rec, &body)
	assert.Contains(body["error"], "NOT NULL constraint failed")

	// Neither the booking nor its notification is recorded.
	assert.Empty(f.db.Bookings)
	assert.Empty(f.db.Notifications)
	assert.Empty(f.publisher.Published)
	assert.False(f.db.CommitCalled, "the database transaction was committed")
}

func TestCreateBookingInvalidBody(t *testing.T) {
	f := newTestFixture(t)

	rec := f.do(t, http.MethodPost, "/api/bookings", "not an object")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.db.Bookings)
}

func TestListBookingsNewestFirst(t *testing.T) {
	f := newTestFixture(t)

	first := janeDoe()
	second := janeDoe()
	second.Name = "John Roe"
	f.do(t, http.MethodPost, "/api/bookings", first)
	f.do(t, http.MethodPost, "/api/bookings", second)

	rec := f.do(t, http.MethodGet, "/api/bookings", nil)
	var bookings []model.Booking
	decode(t, rec, &bookings)
	if assert.Len(t, bookings, 2) {
		assert.Equal(t, "John Roe", bookings[0].Name)
		assert.Greater(t, bookings[0].ID, bookings[1].ID)
	}
}

func TestUpdateBookingStatus(t *testing.T) {
	assert := assert.New(t)
	f := newTestFixture(t)

	f.do(t, http.MethodPost, "/api/bookings", janeDoe())
	bookingID := f.db.Bookings[0].ID

	rec := f.do(t, http.MethodPut, "/api/bookings/1/status", model.StatusUpdate{Status: "confirmed"})
	assert.Equal(http.StatusOK, rec.Code)

	var result model.StatusResult
	decode(t, rec, &result)
	assert.Equal(model.StatusResult{Success: true, ID: bookingID, Status: "confirmed"}, result)
	assert.Equal("confirmed", f.db.Bookings[0].Status)

	// Exactly one additional notification is recorded.
	if assert.Len(f.db.Notifications, 2) {
		updated := f.db.Notifications[1]
		assert.Equal("Booking Updated", updated.Title)
		assert.Equal("Jane Doe's booking status changed to confirmed", updated.Message)
	}
	assert.Len(f.publisher.Published, 2)
}

func TestUpdateBookingStatusUnknownBooking(t *testing.T) {
	assert := assert.New(t)
	f := newTestFixture(t)

	rec := f.do(t, http.MethodPut, "/api/bookings/99/status", model.StatusUpdate{Status: "cancelled"})
	assert.Equal(http.StatusOK, rec.Code)

	var result model.StatusResult
	decode(t, rec, &result)
	assert.True(result.Success)
	assert.Equal(int64(99), result.ID)

	// No notification is recorded or published for a missing booking.
	assert.Empty(f.db.Notifications)
	assert.Empty(f.publisher.Published)
}

func TestUpdateBookingStatusInvalidID(t *testing.T) {
	f := newTestFixture(t)

	rec := f.do(t, http.MethodPut, "/api/bookings/abc/status", model.StatusUpdate{Status: "confirmed"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, f.db.BeginCalled, "a transaction was started for an invalid ID")
}

func TestDeleteBooking(t *testing.T) {
	assert := assert.New(t)
	f := newTestFixture(t)

	f.do(t, http.MethodPost, "/api/bookings", janeDoe())
	rec := f.do(t, http.MethodDelete, "/api/bookings/1", nil)
	assert.Equal(http.StatusOK, rec.Code)

	var result model.DeleteResult
	decode(t, rec, &result)
	assert.Equal(model.DeleteResult{Success: true, DeletedID: 1}, result)
	assert.Empty(f.db.Bookings)

	// Deleting it again is still acknowledged.
	rec = f.do(t, http.MethodDelete, "/api/bookings/1", nil)
	assert.Equal(http.StatusOK, rec.Code)
}

package mirror

import (
	"context"

	"github.com/dgraph-io/badger/v4"

	"github.com/bigheart-studio/studio-booking/model"
)

func bookingID(b model.Booking) int64 { return b.ID }

// SaveBooking appends a pending booking and adds the matching "New Booking" notification in the same
// transaction.
func (m *Mirror) SaveBooking(ctx context.Context, req model.BookingRequest) (*model.BookingReceipt, error) {
	var booking *model.Booking
	err := m.update(ctx, func(txn *badger.Txn) error {
		bookings, err := load[model.Booking](txn, BookingsKey)
		if err != nil {
			return err
		}

		booking = model.NewBooking(req, m.now())
		booking.ID, err = nextID(txn, BookingsKey, maxID(bookings, bookingID))
		if err != nil {
			return err
		}
		if err = store(txn, BookingsKey, append(bookings, *booking)); err != nil {
			return err
		}

		notification := model.NewBookingNotification(booking.Name, booking.ServiceType, booking.CreatedAt)
		return addNotification(txn, notification)
	})
	if err != nil {
		return nil, err
	}

	return &model.BookingReceipt{
		ID:      booking.ID,
		Message: model.BookingSubmittedMessage,
		Status:  booking.Status,
	}, nil
}

// ListBookings lists bookings newest first.
func (m *Mirror) ListBookings(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	err := m.view(ctx, func(txn *badger.Txn) error {
		stored, err := load[model.Booking](txn, BookingsKey)
		if err != nil {
			return err
		}
		bookings = reversed(stored)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// UpdateBookingStatus changes the status of a booking and refreshes its update time. A "Booking Updated"
// notification is added only when the booking exists.
func (m *Mirror) UpdateBookingStatus(ctx context.Context, id int64, status string) (*model.StatusResult, error) {
	err := m.update(ctx, func(txn *badger.Txn) error {
		bookings, err := load[model.Booking](txn, BookingsKey)
		if err != nil {
			return err
		}

		now := m.now()
		var name string
		found := false
		for i := range bookings {
			if bookings[i].ID == id {
				bookings[i].Status = status
				bookings[i].UpdatedAt = now
				name = bookings[i].Name
				found = true
			}
		}
		if !found {
			log.Debugf("booking %d not found in the mirror", id)
			return nil
		}

		if err = store(txn, BookingsKey, bookings); err != nil {
			return err
		}
		return addNotification(txn, model.BookingUpdatedNotification(name, status, now))
	})
	if err != nil {
		return nil, err
	}
	return &model.StatusResult{Success: true, ID: id, Status: status}, nil
}

// DeleteBooking removes a booking. Unknown identities are acknowledged like any other.
func (m *Mirror) DeleteBooking(ctx context.Context, id int64) (*model.DeleteResult, error) {
	err := m.update(ctx, func(txn *badger.Txn) error {
		bookings, err := load[model.Booking](txn, BookingsKey)
		if err != nil {
			return err
		}

		kept := make([]model.Booking, 0, len(bookings))
		for _, b := range bookings {
			if b.ID != id {
				kept = append(kept, b)
			}
		}

		return store(txn, BookingsKey, kept)
	})
	if err != nil {
		return nil, err
	}
	return &model.DeleteResult{Success: true, DeletedID: id}, nil
}

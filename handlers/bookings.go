package handlers

import (
	"database/sql"
	"net/http"

	"github.com/bigheart-studio/studio-booking/common"
	"github.com/bigheart-studio/studio-booking/model"
)

// ListBookings lists every booking, newest first.
func (h *Handlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "ListBookings")
	defer span.End()

	bookings, err := h.db.ListBookings(ctx)
	if err != nil {
		respondError(w, span, NewServerError("%s", err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// CreateBooking stores a new pending booking together with its "New Booking" notification.
func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "CreateBooking")
	defer span.End()

	var req model.BookingRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, span, err)
		return
	}

	// Malformed addresses are accepted; the warning only helps the studio follow up by phone.
	if err := common.ValidateEmailAddress(req.Email); err != nil {
		log.Warnf("booking for %s has a malformed email address %q: %s", req.Name, req.Email, err)
	}

	booking := model.NewBooking(req, h.now())
	notification := model.NewBookingNotification(booking.Name, booking.ServiceType, booking.CreatedAt)

	err := h.inTransaction(ctx, func(tx *sql.Tx) error {
		if err := h.db.SaveBooking(ctx, tx, booking); err != nil {
			return err
		}
		return h.saveNotification(ctx, tx, notification)
	})
	if err != nil {
		respondError(w, span, err)
		return
	}
	h.publish(ctx, notification)

	writeJSON(w, http.StatusOK, model.BookingReceipt{
		ID:      booking.ID,
		Message: model.BookingSubmittedMessage,
		Status:  booking.Status,
	})
}

// UpdateBookingStatus changes the status of a booking. A "Booking Updated" notification is recorded only when
// the booking exists; unknown bookings still get a success response.
func (h *Handlers) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "UpdateBookingStatus")
	defer span.End()

	id, err := parseID(r)
	if err != nil {
		respondError(w, span, err)
		return
	}

	var body model.StatusUpdate
	if err = decodeBody(r, &body); err != nil {
		respondError(w, span, err)
		return
	}

	now := h.now()
	var notification *model.Notification
	err = h.inTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := h.db.UpdateBookingStatus(ctx, tx, id, body.Status, now); err != nil {
			return err
		}

		name, found, err := h.db.GetBookingName(ctx, tx, id)
		if err != nil {
			return err
		}
		if !found {
			log.Debugf("booking %d not found; no notification recorded", id)
			return nil
		}

		notification = model.BookingUpdatedNotification(name, body.Status, now)
		return h.saveNotification(ctx, tx, notification)
	})
	if err != nil {
		respondError(w, span, err)
		return
	}
	if notification != nil {
		h.publish(ctx, notification)
	}

	writeJSON(w, http.StatusOK, model.StatusResult{Success: true, ID: id, Status: body.Status})
}

// DeleteBooking removes a booking. Unknown IDs are acknowledged like any other.
func (h *Handlers) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "DeleteBooking")
	defer span.End()

	id, err := parseID(r)
	if err != nil {
		respondError(w, span, err)
		return
	}

	err = h.inTransaction(ctx, func(tx *sql.Tx) error {
		return h.db.DeleteBooking(ctx, tx, id)
	})
	if err != nil {
		respondError(w, span, err)
		return
	}

	writeJSON(w, http.StatusOK, model.DeleteResult{Success: true, DeletedID: id})
}

package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/bigheart-studio/studio-booking/model"
)

var bookingColumns = []string{
	"id",
	"name",
	"email",
	"phone",
	"date",
	"time",
	"COALESCE(size, '')",
	"COALESCE(placement, '')",
	"COALESCE(design, '')",
	"COALESCE(service_type, '')",
	"COALESCE(status, '')",
	"created_at",
	"updated_at",
}

// SaveBooking inserts a booking, scanning the assigned ID into the structure. Missing contact or scheduling
// fields are rejected by the database.
func (c *Client) SaveBooking(ctx context.Context, tx *sql.Tx, booking *model.Booking) error {
	wrapMsg := "unable to save booking"

	// Build the insert statement.
	statement, args, err := c.builder.
		Insert("bookings").
		Columns(
			"name",
			"email",
			"phone",
			"date",
			"time",
			"size",
			"placement",
			"design",
			"service_type",
			"status",
			"created_at",
			"updated_at").
		Values(
			required(booking.Name),
			required(booking.Email),
			required(booking.Phone),
			required(booking.Date),
			required(booking.Time),
			booking.Size,
			booking.Placement,
			booking.Design,
			booking.ServiceType,
			booking.Status,
			booking.CreatedAt,
			booking.UpdatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	// Execute the insert statement, scanning the ID into the booking.
	err = tx.QueryRowContext(ctx, statement, args...).Scan(&booking.ID)
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	return nil
}

// ListBookings lists all bookings, newest first.
func (c *Client) ListBookings(ctx context.Context) ([]model.Booking, error) {
	wrapMsg := "unable to list bookings"

	statement, args, err := c.builder.
		Select(bookingColumns...).
		From("bookings").
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	rows, err := c.db.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	defer rows.Close()

	bookings := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		err = rows.Scan(
			&b.ID,
			&b.Name,
			&b.Email,
			&b.Phone,
			&b.Date,
			&b.Time,
			&b.Size,
			&b.Placement,
			&b.Design,
			&b.ServiceType,
			&b.Status,
			&b.CreatedAt,
			&b.UpdatedAt,
		)
		if err != nil {
			return nil, errors.Wrap(err, wrapMsg)
		}
		bookings = append(bookings, b)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return bookings, nil
}

// UpdateBookingStatus sets the status of a booking and refreshes its update time, returning the number of
// rows affected. An unknown booking affects zero rows, which is not an error.
func (c *Client) UpdateBookingStatus(
	ctx context.Context,
	tx *sql.Tx,
	id int64,
	status string,
	updatedAt time.Time,
) (int64, error) {
	wrapMsg := fmt.Sprintf("unable to update the status of booking %d", id)

	statement, args, err := c.builder.
		Update("bookings").
		Set("status", status).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, wrapMsg)
	}

	result, err := tx.ExecContext(ctx, statement, args...)
	if err != nil {
		return 0, errors.Wrap(err, wrapMsg)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, wrapMsg)
	}

	return rowsAffected, nil
}

// GetBookingName returns the name on a booking. The second return value is false if the booking doesn't
// exist.
func (c *Client) GetBookingName(ctx context.Context, tx *sql.Tx, id int64) (string, bool, error) {
	wrapMsg := fmt.Sprintf("unable to look up the name on booking %d", id)

	statement, args, err := c.builder.
		Select("name").
		From("bookings").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return "", false, errors.Wrap(err, wrapMsg)
	}

	var name string
	err = tx.QueryRowContext(ctx, statement, args...).Scan(&name)

	// A missing booking isn't an error.
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, wrapMsg)
	}

	return name, true, nil
}

// DeleteBooking removes a booking. Removing a booking that doesn't exist is not an error.
func (c *Client) DeleteBooking(ctx context.Context, tx *sql.Tx, id int64) error {
	wrapMsg := fmt.Sprintf("unable to delete booking %d", id)

	statement, args, err := c.builder.
		Delete("bookings").
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

package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bigheart-studio/studio-booking/common"
	"github.com/bigheart-studio/studio-booking/db"
	"github.com/bigheart-studio/studio-booking/gate"
	"github.com/bigheart-studio/studio-booking/metrics"
	"github.com/bigheart-studio/studio-booking/model"
	"github.com/bigheart-studio/studio-booking/publisher"
)

var log = common.Log.WithField("package", "handlers")

var tracer = otel.Tracer(common.ServiceName)

// DatabaseClient describes the interface used by the handlers to interact with the database.
type DatabaseClient interface {
	Begin(ctx context.Context) (*sql.Tx, error)
	Commit(tx *sql.Tx) error
	Rollback(tx *sql.Tx) error
	Ping(ctx context.Context) error

	SaveGalleryItem(ctx context.Context, tx *sql.Tx, item *model.GalleryItem) error
	ListGalleryItems(ctx context.Context, category string) ([]model.GalleryItem, error)
	GetGalleryItemURL(ctx context.Context, tx *sql.Tx, id int64) (string, bool, error)
	DeleteGalleryItem(ctx context.Context, tx *sql.Tx, id int64) error

	SaveBooking(ctx context.Context, tx *sql.Tx, booking *model.Booking) error
	ListBookings(ctx context.Context) ([]model.Booking, error)
	UpdateBookingStatus(ctx context.Context, tx *sql.Tx, id int64, status string, updatedAt time.Time) (int64, error)
	GetBookingName(ctx context.Context, tx *sql.Tx, id int64) (string, bool, error)
	DeleteBooking(ctx context.Context, tx *sql.Tx, id int64) error

	SaveNotification(ctx context.Context, tx *sql.Tx, notification *model.Notification) error
	ListNotifications(ctx context.Context, limit uint64) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, tx *sql.Tx, id int64) error
	MarkAllNotificationsRead(ctx context.Context, tx *sql.Tx) error
}

// Handlers contains the HTTP handlers of the studio API. They hold no request state.
type Handlers struct {
	db        DatabaseClient
	publisher publisher.Publisher
	gate      *gate.Gate
	uploadDir string
	now       func() time.Time
}

// New returns the HTTP handlers for the studio API. Uploaded images are stored in uploadDir.
func New(dbClient DatabaseClient, pub publisher.Publisher, adminGate *gate.Gate, uploadDir string) *Handlers {
	if pub == nil {
		pub = publisher.Nop{}
	}
	return &Handlers{
		db:        dbClient,
		publisher: pub,
		gate:      adminGate,
		uploadDir: uploadDir,
		now:       db.Now,
	}
}

// inTransaction runs fn inside a database transaction, committing it if fn succeeds.
func (h *Handlers) inTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := h.db.Begin(ctx)
	if err != nil {
		return NewServerError("unable to begin a database transaction: %s", err.Error())
	}
	defer func() {
		if rbErr := h.db.Rollback(tx); rbErr != nil {
			log.Errorf("unable to roll back the database transaction: %s", rbErr)
		}
	}()

	if err = fn(tx); err != nil {
		if _, ok := err.(ClientError); ok {
			return err
		}
		return NewServerError("%s", err.Error())
	}

	if err = h.db.Commit(tx); err != nil {
		return NewServerError("unable to commit the database transaction: %s", err.Error())
	}

	return nil
}

// saveNotification records a notification derived from a booking mutation.
func (h *Handlers) saveNotification(ctx context.Context, tx *sql.Tx, notification *model.Notification) error {
	if err := h.db.SaveNotification(ctx, tx, notification); err != nil {
		return err
	}
	metrics.NotificationsCreated.WithLabelValues(notification.Title).Inc()
	return nil
}

// publish announces a committed notification. Failures are logged and otherwise ignored.
func (h *Handlers) publish(ctx context.Context, notification *model.Notification) {
	if err := h.publisher.PublishNotification(ctx, notification); err != nil {
		log.Errorf("unable to publish notification %d: %s", notification.ID, err)
	}
}

// parseID extracts the integer ID from the route parameters.
func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, NewBadRequestError("invalid id: %s", raw)
	}
	return id, nil
}

// decodeBody decodes a JSON request body.
func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return NewBadRequestError("invalid request body: %s", err.Error())
	}
	return nil
}

// writeJSON writes a JSON response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("unable to encode the response body: %s", err)
	}
}

// respondError reports an error to the caller as a JSON body of the form {"error": message}.
func respondError(w http.ResponseWriter, span trace.Span, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error(err)
	} else {
		log.Warn(err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

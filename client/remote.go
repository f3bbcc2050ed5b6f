package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/sony/gobreaker/v2"

	"github.com/bigheart-studio/studio-booking/model"
)

// ErrUnsupported is returned for operations the studio server doesn't offer.
var ErrUnsupported = errors.New("operation not supported by the studio server")

// Breaker settings for the studio server.
const (
	breakerMaxRequests      = 1
	breakerInterval         = time.Minute
	breakerTimeout          = 30 * time.Second
	breakerFailureThreshold = 3
	defaultRequestTimeout   = 10 * time.Second
)

// StatusError is returned when the studio server answers with a non-2xx status.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("studio server responded with status %d", e.Status)
	}
	return fmt.Sprintf("studio server responded with status %d: %s", e.Status, e.Message)
}

// isClientError reports whether err is a 4xx answer from the server. Those show the server is up, so they
// don't count toward opening the breaker.
func isClientError(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Status >= 400 && statusErr.Status < 500
}

// Remote implements Store over the studio REST API. Every request passes through a circuit breaker, so while
// the server is known to be down calls fail immediately instead of waiting on the network.
type Remote struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

// NewRemote returns a Remote for the server at baseURL. A nil httpClient selects a client with a ten second
// timeout.
func NewRemote(baseURL string, httpClient *http.Client) *Remote {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}

	settings := gobreaker.Settings{
		Name:        "studio-server",
		MaxRequests: breakerMaxRequests,
		Interval:    breakerInterval,
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Infof("circuit breaker %s changed from %s to %s", name, from, to)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || isClientError(err)
		},
	}

	return &Remote{
		baseURL:    baseURL,
		httpClient: httpClient,
		breaker:    gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

// do sends a request through the breaker and returns the response body.
func (r *Remote) do(ctx context.Context, method, path, contentType string, body []byte) ([]byte, error) {
	return r.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := r.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			var errBody struct {
				Error string `json:"error"`
			}
			_ = json.Unmarshal(respBody, &errBody)
			return nil, &StatusError{Status: resp.StatusCode, Message: errBody.Error}
		}

		return respBody, nil
	})
}

// call sends a JSON request and decodes the JSON response into out. A nil in sends no body.
func (r *Remote) call(ctx context.Context, method, path string, in, out interface{}) error {
	wrapMsg := fmt.Sprintf("%s %s", method, path)

	var body []byte
	contentType := ""
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return errors.Wrap(err, wrapMsg)
		}
		contentType = "application/json"
	}

	respBody, err := r.do(ctx, method, path, contentType, body)
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	if out != nil {
		if err = json.Unmarshal(respBody, out); err != nil {
			return errors.Wrap(err, wrapMsg)
		}
	}

	return nil
}

func idPath(prefix string, id int64, suffix string) string {
	return prefix + "/" + strconv.FormatInt(id, 10) + suffix
}

// ListGallery lists gallery items, optionally restricted to one category.
func (r *Remote) ListGallery(ctx context.Context, category string) ([]model.GalleryItem, error) {
	path := "/api/gallery"
	if category != "" {
		path += "?" + url.Values{"category": {category}}.Encode()
	}

	var items []model.GalleryItem
	if err := r.call(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SaveGalleryItem creates a gallery item.
func (r *Remote) SaveGalleryItem(ctx context.Context, item model.GalleryItem) (*model.GalleryItem, error) {
	req := map[string]string{
		"title":       item.Title,
		"description": item.Description,
		"url":         item.URL,
		"category":    item.Category,
	}

	var saved model.GalleryItem
	if err := r.call(ctx, http.MethodPost, "/api/gallery", req, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// UpdateGalleryItem always fails; the server has no gallery update endpoint.
func (r *Remote) UpdateGalleryItem(context.Context, int64, model.GalleryUpdate) (*model.GalleryItem, error) {
	return nil, ErrUnsupported
}

// DeleteGalleryItem deletes a gallery item.
func (r *Remote) DeleteGalleryItem(ctx context.Context, id int64) (*model.DeleteResult, error) {
	var result model.DeleteResult
	if err := r.call(ctx, http.MethodDelete, idPath("/api/gallery", id, ""), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UploadImage sends an image as the multipart field "image".
func (r *Remote) UploadImage(ctx context.Context, filename string, content []byte) (*model.Upload, error) {
	wrapMsg := "unable to upload " + filename

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	if _, err = part.Write(content); err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	if err = writer.Close(); err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	respBody, err := r.do(ctx, http.MethodPost, "/api/upload", writer.FormDataContentType(), buf.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	var upload model.Upload
	if err = json.Unmarshal(respBody, &upload); err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	return &upload, nil
}

// ListBookings lists every booking.
func (r *Remote) ListBookings(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := r.call(ctx, http.MethodGet, "/api/bookings", nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// SaveBooking submits a booking.
func (r *Remote) SaveBooking(ctx context.Context, req model.BookingRequest) (*model.BookingReceipt, error) {
	var receipt model.BookingReceipt
	if err := r.call(ctx, http.MethodPost, "/api/bookings", req, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// UpdateBookingStatus changes the status of a booking.
func (r *Remote) UpdateBookingStatus(ctx context.Context, id int64, status string) (*model.StatusResult, error) {
	var result model.StatusResult
	path := idPath("/api/bookings", id, "/status")
	if err := r.call(ctx, http.MethodPut, path, model.StatusUpdate{Status: status}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteBooking deletes a booking.
func (r *Remote) DeleteBooking(ctx context.Context, id int64) (*model.DeleteResult, error) {
	var result model.DeleteResult
	if err := r.call(ctx, http.MethodDelete, idPath("/api/bookings", id, ""), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListNotifications lists the most recent notifications.
func (r *Remote) ListNotifications(ctx context.Context) ([]model.Notification, error) {
	var notifications []model.Notification
	if err := r.call(ctx, http.MethodGet, "/api/notifications", nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead marks a single notification as read.
func (r *Remote) MarkNotificationRead(ctx context.Context, id int64) (*model.ReadResult, error) {
	var result model.ReadResult
	if err := r.call(ctx, http.MethodPut, idPath("/api/notifications", id, "/read"), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MarkAllNotificationsRead marks every notification as read.
func (r *Remote) MarkAllNotificationsRead(ctx context.Context) error {
	return r.call(ctx, http.MethodPut, "/api/notifications/read-all", nil, nil)
}

// AdminLogin submits the admin password.
func (r *Remote) AdminLogin(ctx context.Context, password string) (*model.LoginResult, error) {
	var result model.LoginResult
	if err := r.call(ctx, http.MethodPost, "/api/admin/login", model.LoginRequest{Password: password}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

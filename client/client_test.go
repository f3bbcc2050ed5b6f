package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigheart-studio/studio-booking/gate"
	"github.com/bigheart-studio/studio-booking/mirror"
	"github.com/bigheart-studio/studio-booking/model"
)

var _ Store = (*mirror.Mirror)(nil)

// countingServer answers every request with the given status and body, counting the requests it receives.
func countingServer(t *testing.T, status int, body interface{}) (*httptest.Server, *int32) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newTestClient(t *testing.T, baseURL string) (*Client, *mirror.Mirror) {
	m, err := mirror.OpenInMemory(gate.New("s3cret"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return New(NewRemote(baseURL, nil), m), m
}

func janeDoe() model.BookingRequest {
	return model.BookingRequest{Name: "Jane Doe", Email: "j@x.com", Phone: "555", Date: "2024-01-01", Time: "10:00"}
}

func TestServerSuccessSkipsMirror(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	srv, hits := countingServer(t, http.StatusOK, model.BookingReceipt{ID: 7, Message: "Booking submitted successfully", Status: "pending"})
	c, m := newTestClient(t, srv.URL)

	receipt, err := c.SaveBooking(ctx, janeDoe())
	require.NoError(t, err)
	assert.Equal(int64(7), receipt.ID)
	assert.Equal(int32(1), atomic.LoadInt32(hits))

	bookings, err := m.ListBookings(ctx)
	require.NoError(t, err)
	assert.Empty(bookings, "the mirror should not be touched when the server succeeds")
}

func TestServerErrorFallsBack(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	srv, _ := countingServer(t, http.StatusInternalServerError, map[string]string{"error": "database is locked"})
	c, _ := newTestClient(t, srv.URL)

	receipt, err := c.SaveBooking(ctx, janeDoe())
	require.NoError(t, err)
	assert.Equal(&model.BookingReceipt{ID: 1, Message: "Booking submitted successfully", Status: "pending"}, receipt)

	bookings, err := c.ListBookings(ctx)
	require.NoError(t, err)
	if assert.Len(bookings, 1) {
		assert.Equal("Jane Doe", bookings[0].Name)
	}

	notifications, err := c.ListNotifications(ctx)
	require.NoError(t, err)
	if assert.Len(notifications, 1) {
		assert.Equal("New Booking", notifications[0].Title)
	}
}

func TestServerDownFallsBack(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	c, _ := newTestClient(t, baseURL)

	item, err := c.SaveGalleryItem(ctx, model.GalleryItem{Title: "Koi", URL: "/uploads/1.png"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), item.ID)
	assert.Equal(t, "tattoo", item.Category)

	result, err := c.AdminLogin(ctx, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "admin-token", result.Token)

	_, err = c.AdminLogin(ctx, "wrong")
	assert.ErrorIs(t, err, mirror.ErrAccessDenied)
}

func TestUpdateGalleryItemUsesMirror(t *testing.T) {
	ctx := context.Background()

	srv, hits := countingServer(t, http.StatusOK, model.GalleryItem{ID: 1})
	c, m := newTestClient(t, srv.URL)

	_, err := m.SaveGalleryItem(ctx, model.GalleryItem{Title: "Koi"})
	require.NoError(t, err)

	title := "Koi Dragon"
	updated, err := c.UpdateGalleryItem(ctx, 1, model.GalleryUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Koi Dragon", updated.Title)
	assert.Equal(t, int32(0), atomic.LoadInt32(hits))
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	ctx := context.Background()

	srv, hits := countingServer(t, http.StatusBadGateway, nil)
	remote := NewRemote(srv.URL, nil)

	for i := 0; i < breakerFailureThreshold; i++ {
		_, err := remote.ListBookings(ctx)
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusBadGateway, statusErr.Status)
	}

	_, err := remote.ListBookings(ctx)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(breakerFailureThreshold), atomic.LoadInt32(hits))
}

func TestBreakerIgnoresClientErrors(t *testing.T) {
	ctx := context.Background()

	srv, hits := countingServer(t, http.StatusUnauthorized, map[string]string{"error": "Invalid password"})
	remote := NewRemote(srv.URL, nil)

	for i := 0; i < breakerFailureThreshold+2; i++ {
		_, err := remote.AdminLogin(ctx, "wrong")
		var statusErr *StatusError
		if assert.ErrorAs(t, err, &statusErr) {
			assert.Equal(t, "Invalid password", statusErr.Message)
		}
	}
	assert.Equal(t, int32(breakerFailureThreshold+2), atomic.LoadInt32(hits))
}

func TestRemoteUploadImage(t *testing.T) {
	assert := assert.New(t)

	var received []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("image")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		received, _ = io.ReadAll(file)
		_ = json.NewEncoder(w).Encode(model.Upload{URL: "/uploads/" + header.Filename, Filename: header.Filename})
	}))
	defer srv.Close()

	upload, err := NewRemote(srv.URL, nil).UploadImage(context.Background(), "koi.png", []byte("png"))
	require.NoError(t, err)
	assert.Equal("/uploads/koi.png", upload.URL)
	assert.Equal([]byte("png"), received)
}

func TestRemoteListGalleryCategory(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("category")
		_ = json.NewEncoder(w).Encode([]model.GalleryItem{})
	}))
	defer srv.Close()

	items, err := NewRemote(srv.URL, nil).ListGallery(context.Background(), "piercing & more")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, "piercing & more", query)
}

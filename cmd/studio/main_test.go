package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigheart-studio/studio-booking/gate"
	"github.com/bigheart-studio/studio-booking/mirror"
	"github.com/bigheart-studio/studio-booking/model"
)

func newTestStore(t *testing.T) *mirror.Mirror {
	m, err := mirror.OpenInMemory(gate.New(""))
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestRunBookAndList(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s := newTestStore(t)

	var out bytes.Buffer
	err := run(ctx, s, &out, []string{"book", "name=Jane Doe", "email=j@x.com", "phone=555", "date=2024-01-01", "time=10:00"})
	require.NoError(t, err)
	assert.Contains(out.String(), `"status": "pending"`)

	out.Reset()
	require.NoError(t, run(ctx, s, &out, []string{"booking-status", "1", "confirmed"}))
	assert.Contains(out.String(), `"status": "confirmed"`)

	out.Reset()
	require.NoError(t, run(ctx, s, &out, []string{"notifications"}))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if assert.Len(lines, 2) {
		assert.Contains(lines[0], "Jane Doe's booking status changed to confirmed")
		assert.Contains(lines[1], "Jane Doe booked a tattoo session")
	}
}

func TestRunGalleryUpdate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	var out bytes.Buffer
	require.NoError(t, run(ctx, s, &out, []string{"gallery-add", "title=Koi", "url=/uploads/1.png"}))

	out.Reset()
	require.NoError(t, run(ctx, s, &out, []string{"gallery-update", "1", "category=piercing"}))
	assert.Contains(t, out.String(), `"category": "piercing"`)
}

func TestRunErrors(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown command", []string{"dance"}},
		{"missing id", []string{"gallery-delete"}},
		{"invalid id", []string{"read", "abc"}},
		{"unknown field", []string{"book", "colour=red"}},
		{"malformed field", []string{"gallery-add", "title"}},
		{"wrong password", []string{"login", "hunter2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, run(ctx, s, &bytes.Buffer{}, tt.args))
		})
	}
}

func TestPrintNotifications(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	notifications := []model.Notification{
		{ID: 2, Title: "New Booking", Message: "Jane Doe booked a tattoo session", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: 1, Title: "New Booking", Message: "John Roe booked a piercing session", Read: true, CreatedAt: now},
	}

	var out bytes.Buffer
	require.NoError(t, printNotifications(&out, notifications, now))
	assert.Contains(t, out.String(), "2 hours ago")
	assert.Contains(t, out.String(), "Just now")
	assert.True(t, strings.HasPrefix(out.String(), "*"))
}

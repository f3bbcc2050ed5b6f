package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigheart-studio/studio-booking/model"
)

func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadImage(t *testing.T) {
	assert := assert.New(t)
	f := newTestFixture(t)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, multipartRequest(t, "image", "koi.png", []byte("png bytes")))
	assert.Equal(http.StatusOK, rec.Code)

	var upload model.Upload
	decode(t, rec, &upload)
	assert.Equal("1704103200000.png", upload.Filename)
	assert.Equal("/uploads/1704103200000.png", upload.URL)

	stored, err := os.ReadFile(filepath.Join(f.handlers.uploadDir, upload.Filename))
	require.NoError(t, err)
	assert.Equal([]byte("png bytes"), stored)
}

func TestUploadImageWrongField(t *testing.T) {
	f := newTestFixture(t)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, multipartRequest(t, "photo", "koi.png", []byte("png bytes")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	decode(t, rec, &body)
	assert.Equal(t, "No image uploaded", body["error"])
}

func TestUploadImageNotMultipart(t *testing.T) {
	f := newTestFixture(t)

	rec := f.do(t, http.MethodPost, "/api/upload", map[string]string{"image": "koi.png"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

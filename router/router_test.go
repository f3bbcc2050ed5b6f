package router

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigheart-studio/studio-booking/gate"
	"github.com/bigheart-studio/studio-booking/handlers"
)

func newTestRouter(t *testing.T) (http.Handler, Config) {
	cfg := Config{UploadDir: t.TempDir(), PublicDir: t.TempDir()}
	require.NoError(t, os.WriteFile(filepath.Join(cfg.PublicDir, "index.html"), []byte("<html>shell</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.PublicDir, "app.js"), []byte("console.log(1)"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.UploadDir, "1.png"), []byte("png"), 0o644))

	h := handlers.New(nil, nil, gate.New(""), cfg.UploadDir)
	return NewRouter(h, cfg), cfg
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestShellFallback(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, target := range []string{"/", "/admin", "/gallery/tattoo"} {
		rec := get(r, target)
		assert.Equal(t, http.StatusOK, rec.Code, target)
		assert.Contains(t, rec.Body.String(), "shell", target)
	}
}

func TestPublicFiles(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := get(r, "/app.js")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "console.log(1)", rec.Body.String())
}

func TestUploadsServed(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := get(r, "/uploads/1.png")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png", rec.Body.String())

	rec = get(r, "/uploads/missing.png")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/bookings", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestLiveness(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := get(r, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

package router

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bigheart-studio/studio-booking/common"
	"github.com/bigheart-studio/studio-booking/handlers"
	"github.com/bigheart-studio/studio-booking/metrics"
)

// Config holds the file system locations served alongside the API.
type Config struct {
	// UploadDir holds the images stored by the upload endpoint.
	UploadDir string

	// PublicDir holds the application shell and its assets.
	PublicDir string
}

// NewRouter builds the HTTP routes of the studio.
func NewRouter(h *handlers.Handlers, cfg Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(metrics.Middleware)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: common.Log, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/upload", h.UploadImage)

		r.Route("/gallery", func(r chi.Router) {
			r.Get("/", h.ListGallery)
			r.Post("/", h.CreateGalleryItem)
			r.Delete("/{id}", h.DeleteGalleryItem)
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", h.ListBookings)
			r.Post("/", h.CreateBooking)
			r.Put("/{id}/status", h.UpdateBookingStatus)
			r.Delete("/{id}", h.DeleteBooking)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.ListNotifications)
			r.Put("/read-all", h.MarkAllNotificationsRead)
			r.Put("/{id}/read", h.MarkNotificationRead)
		})

		r.Post("/admin/login", h.AdminLogin)
	})

	// Health & Readiness Routes
	r.Get("/healthz", h.Liveness)
	r.Get("/readyz", h.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Handle(handlers.UploadURLPrefix+"*",
		http.StripPrefix(handlers.UploadURLPrefix, http.FileServer(http.Dir(cfg.UploadDir))))
	r.Get("/*", shellHandler(cfg.PublicDir))

	return r
}

// shellHandler serves files from the public directory, answering every other GET with the application shell.
func shellHandler(publicDir string) http.HandlerFunc {
	files := http.FileServer(http.Dir(publicDir))
	shell := filepath.Join(publicDir, "index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Join(publicDir, filepath.FromSlash(filepath.Clean("/"+r.URL.Path)))
		if info, err := os.Stat(name); err == nil && !info.IsDir() && !strings.HasSuffix(r.URL.Path, "/index.html") {
			files.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, shell)
	}
}

package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bigheart-studio/studio-booking/model"
)

// UploadURLPrefix is the URL path under which uploaded images are served.
const UploadURLPrefix = "/uploads/"

// galleryRequest is the body of a gallery item creation.
type galleryRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Category    string `json:"category"`
}

// ListGallery lists gallery items, optionally restricted to the category in the query string.
func (h *Handlers) ListGallery(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "ListGallery")
	defer span.End()

	items, err := h.db.ListGalleryItems(ctx, r.URL.Query().Get("category"))
	if err != nil {
		respondError(w, span, NewServerError("%s", err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateGalleryItem stores a new gallery item and returns the stored record.
func (h *Handlers) CreateGalleryItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "CreateGalleryItem")
	defer span.End()

	var req galleryRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, span, err)
		return
	}

	item := &model.GalleryItem{
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
		Category:    req.Category,
		CreatedAt:   h.now(),
	}
	err := h.inTransaction(ctx, func(tx *sql.Tx) error {
		return h.db.SaveGalleryItem(ctx, tx, item)
	})
	if err != nil {
		respondError(w, span, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// DeleteGalleryItem removes a gallery item along with the uploaded image it references. Unknown IDs are
// acknowledged like any other.
func (h *Handlers) DeleteGalleryItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "DeleteGalleryItem")
	defer span.End()

	id, err := parseID(r)
	if err != nil {
		respondError(w, span, err)
		return
	}

	err = h.inTransaction(ctx, func(tx *sql.Tx) error {
		return h.deleteGalleryItem(ctx, tx, id)
	})
	if err != nil {
		respondError(w, span, err)
		return
	}

	writeJSON(w, http.StatusOK, model.DeleteResult{Success: true, DeletedID: id})
}

func (h *Handlers) deleteGalleryItem(ctx context.Context, tx *sql.Tx, id int64) error {
	url, found, err := h.db.GetGalleryItemURL(ctx, tx, id)
	if err != nil {
		return err
	}
	if found {
		if err = h.removeUpload(url); err != nil {
			return err
		}
	}
	return h.db.DeleteGalleryItem(ctx, tx, id)
}

// uploadPath returns the location of the file behind an upload URL. The second return value is false for
// URLs that don't refer to an uploaded file.
func (h *Handlers) uploadPath(url string) (string, bool) {
	if !strings.HasPrefix(url, UploadURLPrefix) {
		return "", false
	}
	name := path.Base(strings.TrimPrefix(url, UploadURLPrefix))
	if name == "." || name == "/" || name == ".." {
		return "", false
	}
	return filepath.Join(h.uploadDir, name), true
}

// removeUpload removes the uploaded file behind a URL. Missing files are skipped.
func (h *Handlers) removeUpload(url string) error {
	filePath, ok := h.uploadPath(url)
	if !ok {
		return nil
	}
	err := os.Remove(filePath)
	if err != nil && !os.IsNotExist(err) {
		return NewServerError("unable to remove %s: %s", filePath, err.Error())
	}
	if err == nil {
		log.Infof("removed uploaded image %s", filePath)
	}
	return nil
}

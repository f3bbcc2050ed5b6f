package handlers

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bigheart-studio/studio-booking/model"
)

// maxUploadMemory is the portion of a multipart upload held in memory before spilling to temporary files.
const maxUploadMemory = 32 << 20

// UploadImage stores the image in the multipart field "image" under the upload directory. The stored file is
// named after the current time in milliseconds, keeping the original extension.
func (h *Handlers) UploadImage(w http.ResponseWriter, r *http.Request) {
	_, span := tracer.Start(r.Context(), "UploadImage")
	defer span.End()

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(w, span, NewBadRequestError("No image uploaded"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, span, NewBadRequestError("No image uploaded"))
		return
	}
	defer file.Close()

	filename := strconv.FormatInt(h.now().UnixMilli(), 10) + filepath.Ext(header.Filename)
	if err = h.storeUpload(filename, file); err != nil {
		respondError(w, span, err)
		return
	}

	writeJSON(w, http.StatusOK, model.Upload{URL: UploadURLPrefix + filename, Filename: filename})
}

func (h *Handlers) storeUpload(filename string, src io.Reader) error {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return NewServerError("unable to create the upload directory: %s", err.Error())
	}

	dst, err := os.Create(filepath.Join(h.uploadDir, filename))
	if err != nil {
		return NewServerError("unable to store the uploaded image: %s", err.Error())
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return NewServerError("unable to store the uploaded image: %s", err.Error())
	}

	return nil
}

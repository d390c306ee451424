package http

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	"github.com/laka02/quickcart/internal/storage"
)

type ImageHandler struct {
	store  storage.Store
	logger hclog.Logger
}

func NewImageHandler(store storage.Store, log hclog.Logger) *ImageHandler {
	return &ImageHandler{
		store:  store,
		logger: log,
	}
}

// ServeImage handles GET /images/{id}
//
// swagger:route GET /images/{id} images serveImage
//
// Streams a stored product image.
//
// Responses:
//
//	200: imageResponse
//	404: errorResponse
func (h *ImageHandler) ServeImage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	file, err := h.store.Open(id)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			respondError(w, http.StatusNotFound, "Image not found")
			return
		}
		h.logger.Error("Error opening image", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "Error serving image")
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", contentTypeFor(id))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	io.Copy(w, file)
}

func contentTypeFor(name string) string {
	switch filepath.Ext(name) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

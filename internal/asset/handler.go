package asset

import (
	"errors"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/render"

	"github.com/brandkit/brandkit/backend-go/internal/typeid"
)

// UploadResponse is returned from the upload endpoint.
type UploadResponse struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Type   string `json:"type"`
	Name   string `json:"name"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler serves asset upload and retrieval endpoints.
type Handler struct {
	dir     string // directory to store asset files
	maxSize int64
}

// NewHandler creates a new asset handler that stores files in dir.
func NewHandler(dir string, maxSize int64) *Handler {
	if err := os.MkdirAll(dir, 0755); err != nil {
		slog.Error("create asset dir", "error", err, "dir", dir)
	}
	return &Handler{dir: dir, maxSize: maxSize}
}

func renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg})
}

// UploadStatus maps a ReadUpload error to an HTTP status.
func UploadStatus(err error) int {
	if errors.Is(err, ErrTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// UploadErrorText is the client-facing text for a ReadUpload error.
func UploadErrorText(err error) string {
	if errors.Is(err, ErrInvalidFileType) {
		return UserMessage(err)
	}
	return err.Error()
}

// ReadUpload reads the "file" field of a multipart request, capped at max
// bytes, and checks that it is an image.
func ReadUpload(w http.ResponseWriter, r *http.Request, max int64) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, max)
	if err := r.ParseMultipartForm(max); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, tooLarge.Limit)
		}
		return nil, "", fmt.Errorf("parse form: %w", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("missing file field: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	if _, err := Validate(data); err != nil {
		return nil, "", err
	}
	return data, header.Filename, nil
}

// Upload handles POST /assets/upload (multipart form with "file" field).
// The image is decoded to check it and stored re-encoded as PNG.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	data, name, err := ReadUpload(w, r, h.maxSize)
	if err != nil {
		renderError(w, r, UploadStatus(err), UploadErrorText(err))
		return
	}

	img, err := Decode(data)
	if err != nil {
		renderError(w, r, http.StatusBadRequest, UserMessage(err))
		return
	}

	assetID := typeid.NewAssetID()
	filename := assetID + ".png"
	filePath := filepath.Join(h.dir, filename)

	out, err := os.Create(filePath)
	if err != nil {
		slog.Error("create asset file", "error", err)
		http.Error(w, "failed to save file", http.StatusInternalServerError)
		return
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		slog.Error("encode png", "error", err)
		os.Remove(filePath)
		http.Error(w, "failed to encode image", http.StatusInternalServerError)
		return
	}

	bounds := img.Bounds()
	slog.Info("asset stored", "id", assetID, "width", bounds.Dx(), "height", bounds.Dy())
	render.JSON(w, r, UploadResponse{
		ID:     assetID,
		URL:    fmt.Sprintf("/assets/%s", filename),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Type:   "png",
		Name:   name,
	})
}

// Serve returns an http.Handler that serves stored asset files with caching headers.
func (h *Handler) Serve() http.Handler {
	fs := http.FileServer(http.Dir(h.dir))
	return http.StripPrefix("/assets/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Asset IDs are unique, so files are immutable
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fs.ServeHTTP(w, r)
	}))
}

// ServeRefs returns an http.Handler that serves the bytes behind live
// references under prefix. Released or unknown references are 404.
func (r *Registry) ServeRefs(prefix string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ref := strings.TrimPrefix(req.URL.Path, prefix)
		data, contentType, err := r.Open(ref)
		if err != nil {
			renderError(w, req, http.StatusNotFound, err.Error())
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "no-store")
		w.Write(data)
	})
}

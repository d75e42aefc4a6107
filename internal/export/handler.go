package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/brandkit/brandkit/backend-go/internal/document"
	"github.com/brandkit/brandkit/backend-go/internal/render"
)

const maxRequestSize = 5 << 20 // 5MB

// Request is the body of POST /export/image. Image objects carry no pixels
// over JSON and are skipped.
type Request struct {
	Name     string         `json:"name"`
	Format   string         `json:"format"`
	Objects  document.Scene `json:"objects"`
	Selected string         `json:"selected"`
}

type Handler struct {
	exporter *Exporter
}

func NewHandler(exporter *Exporter) *Handler {
	return &Handler{exporter: exporter}
}

// ExportImage renders a posted scene and streams back the encoded image as an
// attachment.
func (h *Handler) ExportImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	format, err := ParseFormat(req.Format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		req.Name = "My Logo"
	}

	var buf bytes.Buffer
	frame := render.Frame{Objects: req.Objects, Selected: req.Selected}
	if err := h.exporter.Export(&buf, frame, format); err != nil {
		if errors.Is(err, ErrNotImplemented) {
			http.Error(w, err.Error(), http.StatusNotImplemented)
			return
		}
		slog.Error("export image", "error", err, "format", format)
		http.Error(w, "encoding failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, FileName(req.Name, format)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())

	slog.Info("export complete", "format", format, "objects", len(req.Objects), "size", buf.Len())
}

package mockup

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/render"

	"github.com/brandkit/brandkit/backend-go/internal/asset"
	"github.com/brandkit/brandkit/backend-go/internal/filter"
)

const (
	defaultPreviewWidth  = 600
	defaultPreviewHeight = 600
	maxPreviewSide       = 4096
)

// Handler serves the packaging mockup endpoints.
type Handler struct {
	templateDir string
	maxSize     int64
}

func NewHandler(templateDir string, maxSize int64) *Handler {
	return &Handler{templateDir: templateDir, maxSize: maxSize}
}

func renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": msg})
}

// ListTemplates handles GET /mockup/templates.
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, Templates)
}

// Preview handles POST /mockup/preview. The "file" field is the logo. With
// no "template" field the filtered logo alone is returned; otherwise the logo
// is placed on the template and the composed mockup is returned. Both are PNG.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	data, name, err := asset.ReadUpload(w, r, h.maxSize)
	if err != nil {
		renderError(w, r, asset.UploadStatus(err), asset.UploadErrorText(err))
		return
	}
	logo, err := asset.Decode(data)
	if err != nil {
		renderError(w, r, http.StatusBadRequest, asset.UserMessage(err))
		return
	}

	f, err := filterFromForm(r)
	if err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var out image.Image
	if r.FormValue("template") == "" {
		out = f.Apply(logo)
	} else {
		out, err = h.compose(r, logo, f)
		if err != nil {
			renderError(w, r, http.StatusBadRequest, err.Error())
			return
		}
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := png.Encode(w, out); err != nil {
		slog.Error("encode mockup preview", "error", err, "name", name)
	}
}

func (h *Handler) compose(r *http.Request, logo image.Image, f filter.ColorFilter) (image.Image, error) {
	m := New("", nil)
	if err := m.SetTemplate(r.FormValue("template")); err != nil {
		return nil, err
	}
	if c := r.FormValue("color"); c != "" {
		m.SetColor(c)
	}
	m.Add("", logo)
	m.SetFilter(f)

	x, err := formFloat(r, "x", 50)
	if err != nil {
		return nil, err
	}
	y, err := formFloat(r, "y", 50)
	if err != nil {
		return nil, err
	}
	size, err := formFloat(r, "size", DefaultSize)
	if err != nil {
		return nil, err
	}
	rotation, err := formFloat(r, "rotation", 0)
	if err != nil {
		return nil, err
	}
	m.SetPosition(x, y)
	m.SetSize(size)
	m.SetRotation(rotation)

	width, err := formFloat(r, "width", defaultPreviewWidth)
	if err != nil {
		return nil, err
	}
	height, err := formFloat(r, "height", defaultPreviewHeight)
	if err != nil {
		return nil, err
	}
	if err := CheckSize(width, height); err != nil {
		return nil, err
	}

	return m.Compose(LoadTemplateImage(h.templateDir, m.Template()), int(width), int(height)), nil
}

// CheckSize rejects compose sizes outside 1..4096 pixels per side.
func CheckSize(width, height float64) error {
	if width < 1 || height < 1 || width > maxPreviewSide || height > maxPreviewSide {
		return fmt.Errorf("preview size %gx%g out of range", width, height)
	}
	return nil
}

// LoadTemplateImage loads the template artwork from dir. A missing file
// yields nil, which composes onto the plain template color.
func LoadTemplateImage(dir string, t Template) image.Image {
	if dir == "" {
		return nil
	}
	data, err := os.ReadFile(filepath.Join(dir, t.Image))
	if err != nil {
		slog.Debug("template image unavailable", "template", t.ID, "error", err)
		return nil
	}
	img, err := asset.Decode(data)
	if err != nil {
		slog.Warn("decode template image", "template", t.ID, "error", err)
		return nil
	}
	return img
}

// filterFromForm reads a preset, then lets explicit slider values override
// it. Values are clamped to slider ranges.
func filterFromForm(r *http.Request) (filter.ColorFilter, error) {
	f := filter.Default()
	if p := r.FormValue("preset"); p != "" {
		var err error
		if f, err = filter.FromPreset(filter.Preset(p)); err != nil {
			return f, err
		}
	}

	fields := []struct {
		name string
		dst  *float64
	}{
		{"brightness", &f.Brightness},
		{"contrast", &f.Contrast},
		{"hue", &f.Hue},
		{"saturation", &f.Saturation},
	}
	for _, fld := range fields {
		v, err := formFloat(r, fld.name, *fld.dst)
		if err != nil {
			return f, err
		}
		*fld.dst = v
	}
	return f.Clamp(), nil
}

func formFloat(r *http.Request, key string, def float64) (float64, error) {
	s := r.FormValue(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return v, nil
}

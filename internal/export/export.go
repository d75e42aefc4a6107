// Package export encodes rendered logo frames for download.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/brandkit/brandkit/backend-go/internal/render"
	"github.com/brandkit/brandkit/backend-go/internal/render/raster"
)

var (
	ErrNotImplemented = errors.New("svg export not implemented")
	ErrUnknownFormat  = errors.New("unknown export format")
)

type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatSVG  Format = "svg"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "svg":
		return FormatSVG, nil
	}
	return "", fmt.Errorf("%w %q: must be png, jpeg, or svg", ErrUnknownFormat, s)
}

// ContentType returns the MIME type of the encoded output.
func (f Format) ContentType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatSVG:
		return "image/svg+xml"
	default:
		return "image/png"
	}
}

func (f Format) Ext() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return string(f)
}

var whitespace = regexp.MustCompile(`\s+`)

// FileName turns a logo name into a download file name: lowercased, with runs
// of whitespace replaced by a dash.
func FileName(name string, f Format) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "logo"
	}
	return whitespace.ReplaceAllString(strings.ToLower(name), "-") + "." + f.Ext()
}

// Exporter rasterizes frames at a fixed canvas size.
type Exporter struct {
	width, height int
	renderer      *render.Renderer
	jpegQuality   int
}

func NewExporter(width, height int, renderer *render.Renderer, jpegQuality int) *Exporter {
	return &Exporter{width: width, height: height, renderer: renderer, jpegQuality: jpegQuality}
}

// Export renders the frame, selection outline included, and writes it in the
// requested format.
func (x *Exporter) Export(w io.Writer, frame render.Frame, f Format) error {
	if f == FormatSVG {
		return ErrNotImplemented
	}

	c := raster.NewCanvas(x.width, x.height)
	defer c.Close()
	x.renderer.Render(c, frame)

	switch f {
	case FormatJPEG:
		if err := c.EncodeJPEG(w, x.jpegQuality); err != nil {
			return fmt.Errorf("encode jpeg: %w", err)
		}
	default:
		if err := c.EncodePNG(w); err != nil {
			return fmt.Errorf("encode png: %w", err)
		}
	}
	return nil
}

// Bytes is Export into memory.
func (x *Exporter) Bytes(frame render.Frame, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := x.Export(&buf, frame, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

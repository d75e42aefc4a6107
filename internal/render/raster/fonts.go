package raster

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/brandkit/brandkit/backend-go/internal/document"
	"github.com/brandkit/brandkit/backend-go/internal/render"
)

type fontKey struct {
	mono   bool
	bold   bool
	italic bool
}

var fontFiles = map[fontKey][]byte{
	{false, false, false}: goregular.TTF,
	{false, true, false}:  gobold.TTF,
	{false, false, true}:  goitalic.TTF,
	{false, true, true}:   gobolditalic.TTF,
	{true, false, false}:  gomono.TTF,
	{true, true, false}:   gomonobold.TTF,
	{true, false, true}:   gomonoitalic.TTF,
	{true, true, true}:    gomonobolditalic.TTF,
}

var (
	sourcesMu sync.Mutex
	sources   = make(map[fontKey]*text.FontSource)
)

func keyFor(f render.Font) fontKey {
	family := strings.ToLower(f.Family)
	return fontKey{
		mono:   strings.Contains(family, "courier") || strings.Contains(family, "mono"),
		bold:   f.Weight == document.FontWeightBold,
		italic: f.Style == document.FontStyleItalic,
	}
}

func source(key fontKey) (*text.FontSource, error) {
	sourcesMu.Lock()
	defer sourcesMu.Unlock()

	if src, ok := sources[key]; ok {
		return src, nil
	}
	src, err := text.NewFontSource(fontFiles[key])
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	sources[key] = src
	return src, nil
}

// Face returns a bundled Go font face approximating the requested font.
// Sans and serif families map to Go, monospace families to Go Mono.
func Face(f render.Font) (text.Face, error) {
	src, err := source(keyFor(f))
	if err != nil {
		return nil, err
	}
	size := f.Size
	if size <= 0 {
		size = document.DefaultStyle.Text.FontSize
	}
	return src.Face(size), nil
}

// Measure returns the advance width of s, or an estimate if no face loads.
func Measure(f render.Font, s string) float64 {
	face, err := Face(f)
	if err != nil {
		return render.ApproxMeasure(f, s)
	}
	return face.Advance(s)
}

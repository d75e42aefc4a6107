package mockup

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
	"github.com/gogpu/gg"

	"github.com/brandkit/brandkit/backend-go/internal/render/raster"
)

// Compose renders the mockup at w x h: the template color, the template image
// scaled to fit and centered, then every logo filtered, sized, rotated and
// placed in paint order. A nil template image leaves just the color card.
func (m *Mockup) Compose(templateImg image.Image, w, h int) *image.RGBA {
	ctx := gg.NewContext(w, h)
	defer ctx.Close()

	ctx.ClearWithColor(raster.ParseColor(m.color))

	if templateImg != nil {
		b := templateImg.Bounds()
		if b.Dx() > 0 && b.Dy() > 0 {
			scale := math.Min(float64(w)/float64(b.Dx()), float64(h)/float64(b.Dy()))
			dw, dh := float64(b.Dx())*scale, float64(b.Dy())*scale
			ctx.DrawImageEx(gg.ImageBufFromImage(templateImg), gg.DrawImageOptions{
				X: (float64(w) - dw) / 2, Y: (float64(h) - dh) / 2, DstWidth: dw, DstHeight: dh,
			})
		}
	}

	for _, p := range m.logos {
		logo := placeLogo(p, w)
		if logo == nil {
			continue
		}
		b := logo.Bounds()
		cx := p.Position.X / 100 * float64(w)
		cy := p.Position.Y / 100 * float64(h)
		ctx.DrawImageEx(gg.ImageBufFromImage(logo), gg.DrawImageOptions{
			X: cx - float64(b.Dx())/2,
			Y: cy - float64(b.Dy())/2,
		})
	}
	return clone.AsRGBA(ctx.Image())
}

// placeLogo filters, scales and rotates one logo for a box of width w.
func placeLogo(p Placement, w int) image.Image {
	if p.Image == nil {
		return nil
	}
	src := p.Image.Bounds()
	if src.Dx() == 0 || src.Dy() == 0 {
		return nil
	}
	lw := int(math.Round(p.Size / 100 * float64(w)))
	lh := int(math.Round(float64(lw) * float64(src.Dy()) / float64(src.Dx())))
	if lw <= 0 || lh <= 0 {
		return nil
	}
	img := transform.Resize(p.Filter.Apply(p.Image), lw, lh, transform.Linear)
	if p.Rotation == 0 {
		return img
	}
	return transform.Rotate(img, p.Rotation, &transform.RotationOptions{ResizeBounds: true})
}

package document

import (
	"github.com/brandkit/brandkit/backend-go/internal/typeid"
)

// NewSampleScene builds a small demo logo: a gradient hexagon badge, a star
// icon and a wordmark, laid out around the default canvas center.
func NewSampleScene() Scene {
	d := DefaultStyle

	return Scene{
		{
			ID:          typeid.NewObjectID(),
			Kind:        KindShape,
			Shape:       ShapeHexagon,
			X:           d.CenterX,
			Y:           d.CenterY - 40,
			Width:       220,
			Height:      220,
			Fill:        "#1e3a8a",
			Stroke:      "#0f172a",
			StrokeWidth: 4,
			Opacity:     100,
			Gradient: &Gradient{
				Type:   GradientLinear,
				Colors: []string{"#1e3a8a", "#3b82f6"},
				Stops:  []float64{0, 100},
				Angle:  90,
			},
		},
		{
			ID:      typeid.NewObjectID(),
			Kind:    KindIcon,
			Icon:    IconStar,
			X:       d.CenterX,
			Y:       d.CenterY - 40,
			Width:   d.IconSize,
			Height:  d.IconSize,
			Fill:    "#facc15",
			Stroke:  d.Style.Stroke,
			Opacity: 100,
		},
		{
			ID:      typeid.NewObjectID(),
			Kind:    KindText,
			X:       d.CenterX,
			Y:       d.CenterY + 120,
			Width:   d.TextWidth,
			Height:  36,
			Fill:    "#0f172a",
			Stroke:  d.Style.Stroke,
			Opacity: 100,
			Text: &Text{
				Content:    "BRANDKIT",
				FontSize:   36,
				FontFamily: "Arial",
				FontWeight: FontWeightBold,
				FontStyle:  FontStyleNormal,
				Align:      AlignCenter,
			},
		},
	}
}

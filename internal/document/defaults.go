package document

// Style holds the common paint attributes every new object starts from.
type Style struct {
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
	Opacity     float64 `json:"opacity"`
}

// Defaults is the single record of creation-time constants used by every
// add operation. Position is the canvas center.
type Defaults struct {
	Style Style

	CenterX float64
	CenterY float64

	ShapeSize  float64
	LineHeight float64
	IconSize   float64
	TextWidth  float64
	ImageWidth float64

	// Image objects carry no paint of their own.
	ImageFill   string
	ImageStroke string

	Text Text
}

// DefaultStyle is the stock configuration for a 500x500 canvas.
var DefaultStyle = Defaults{
	Style: Style{
		Fill:        "#000000",
		Stroke:      "#000000",
		StrokeWidth: 0,
		Opacity:     100,
	},
	CenterX:     250,
	CenterY:     250,
	ShapeSize:   100,
	LineHeight:  10,
	IconSize:    80,
	TextWidth:   200,
	ImageWidth:  150,
	ImageFill:   "transparent",
	ImageStroke: "transparent",
	Text: Text{
		FontSize:   24,
		FontFamily: "Arial",
		FontWeight: FontWeightNormal,
		FontStyle:  FontStyleNormal,
		Align:      AlignCenter,
	},
}

// ForCanvas returns a copy of d centered on a canvas of the given size.
func (d Defaults) ForCanvas(width, height int) Defaults {
	d.CenterX = float64(width) / 2
	d.CenterY = float64(height) / 2
	return d
}

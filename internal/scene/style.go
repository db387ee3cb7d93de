package scene

// Style is the shared stroke/fill record carried by every shape.
// Color fields come in named/value pairs so the UI can keep palette
// identity ("black") separate from the concrete value ("#1a1a1a").
type Style struct {
	StrokeColor      string `json:"strokeColor"`
	StrokeColorValue string `json:"strokeColorValue"`
	FillColor        string `json:"fillColor"`
	FillColorValue   string `json:"fillColorValue"`
	FillStyle        string `json:"fillStyle"`
	StrokeWidth      string `json:"strokeWidth"`
	StrokeStyle      string `json:"strokeStyle"`
}

// Stroke width classes.
const (
	StrokeThin   = "thin"
	StrokeMedium = "medium"
	StrokeThick  = "thick"
)

// Stroke dash styles.
const (
	LineSolid  = "solid"
	LineDashed = "dashed"
	LineDotted = "dotted"
)

// DefaultStyle matches the style a fresh document starts with.
func DefaultStyle() Style {
	return Style{
		StrokeColor:      "black",
		StrokeColorValue: "#1a1a1a",
		FillColor:        "transparent",
		FillColorValue:   "transparent",
		FillStyle:        "solid",
		StrokeWidth:      StrokeMedium,
		StrokeStyle:      LineSolid,
	}
}

// StrokeWidthPx maps the stroke width class to pixels at zoom 1.
func (s Style) StrokeWidthPx() float64 {
	switch s.StrokeWidth {
	case StrokeThin:
		return 1
	case StrokeThick:
		return 4
	default:
		return 2
	}
}

// Filled reports whether the shape interior should be painted at all.
func (s Style) Filled() bool {
	return s.FillStyle != "none" && s.FillColor != "transparent"
}

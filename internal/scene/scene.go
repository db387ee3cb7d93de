package scene

// Zoom factor limits. Every path that writes the zoom goes through
// ClampZoom, so cumulative wheel deltas can never escape the range.
const (
	MinZoom = 0.1
	MaxZoom = 5.0
)

// DefaultBackground is the background color a fresh or under-specified
// scene falls back to.
const DefaultBackground = "#ffffff"

// Scene is the full document: the ordered element sequence (paint order =
// slice order, later entries on top) plus view state.
type Scene struct {
	Elements        []Shape `json:"elements"`
	ViewportOffset  Point   `json:"viewportOffset"`
	Zoom            float64 `json:"zoom"`
	BackgroundColor string  `json:"backgroundColor"`
}

// New returns an empty scene with default view state.
func New() Scene {
	return Scene{
		Elements:        []Shape{},
		Zoom:            1,
		BackgroundColor: DefaultBackground,
	}
}

// Clone deep-copies the scene.
func (sc Scene) Clone() Scene {
	out := sc
	out.Elements = CloneShapes(sc.Elements)
	return out
}

// Normalize fills defensive defaults for missing fields. Externally
// sourced scenes (remote sync, import, persistence) pass through here
// before becoming the live document.
func (sc Scene) Normalize() Scene {
	if sc.Elements == nil {
		sc.Elements = []Shape{}
	}
	if sc.Zoom == 0 {
		sc.Zoom = 1
	}
	sc.Zoom = ClampZoom(sc.Zoom)
	if sc.BackgroundColor == "" {
		sc.BackgroundColor = DefaultBackground
	}
	return sc
}

// ClampZoom bounds a zoom factor to [MinZoom, MaxZoom].
func ClampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

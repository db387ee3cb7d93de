package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"

	"OpenSketch/internal/img"
	"OpenSketch/internal/scene"
)

const gridStep = 20.0

var (
	selectionColor = color.NRGBA{R: 0, G: 120, B: 212, A: 230}
	marqueeFill    = color.NRGBA{R: 0, G: 120, B: 212, A: 20}
	gridColor      = color.NRGBA{R: 0, G: 0, B: 0, A: 15}
)

// parseHexColor understands the #rrggbb values style records carry plus a
// few named fallbacks. Unknown values paint black rather than failing.
func parseHexColor(s string) color.Color {
	switch s {
	case "", "transparent", "none":
		return color.Transparent
	case "white":
		return color.White
	case "black":
		return color.Black
	}
	if strings.HasPrefix(s, "#") && len(s) == 7 {
		var r, g, b uint8
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err == nil {
			return color.NRGBA{R: r, G: g, B: b, A: 255}
		}
	}
	return color.Black
}

func toScreen(x, y float64, off scene.Point, zoom float64) fyne.Position {
	return fyne.NewPos(float32(x*zoom+off.X), float32(y*zoom+off.Y))
}

func screenRect(r scene.Rect, off scene.Point, zoom float64) scene.Rect {
	return scene.Rect{X: r.X*zoom + off.X, Y: r.Y*zoom + off.Y, W: r.W * zoom, H: r.H * zoom}
}

// imageCache keeps decoded image handles between repaints. The renderer
// runs on the UI thread only, so no locking.
type imageCache struct {
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	handle string
	img    image.Image
}

func newImageCache() *imageCache {
	return &imageCache{entries: make(map[string]*cacheEntry)}
}

func (c *imageCache) get(id, handle string) image.Image {
	if e, ok := c.entries[id]; ok && e.handle == handle {
		return e.img
	}
	m, err := img.DecodeHandle(handle)
	if err != nil {
		return nil
	}
	c.entries[id] = &cacheEntry{handle: handle, img: m}
	return m
}

// gridObjects paints the light reference grid, scaled and offset with the
// view.
func gridObjects(size fyne.Size, off scene.Point, zoom float64) []fyne.CanvasObject {
	var out []fyne.CanvasObject
	step := float32(gridStep * zoom)
	if step < 4 {
		return out
	}
	ox := float32(math.Mod(off.X, float64(step)))
	oy := float32(math.Mod(off.Y, float64(step)))
	for x := ox; x < size.Width; x += step {
		l := canvas.NewLine(gridColor)
		l.StrokeWidth = 0.5
		l.Position1 = fyne.NewPos(x, 0)
		l.Position2 = fyne.NewPos(x, size.Height)
		out = append(out, l)
	}
	for y := oy; y < size.Height; y += step {
		l := canvas.NewLine(gridColor)
		l.StrokeWidth = 0.5
		l.Position1 = fyne.NewPos(0, y)
		l.Position2 = fyne.NewPos(size.Width, y)
		out = append(out, l)
	}
	return out
}

// shapeObjects turns one shape into fyne canvas primitives at the current
// view transform.
func shapeObjects(s scene.Shape, off scene.Point, zoom float64, cache *imageCache) []fyne.CanvasObject {
	stroke := parseHexColor(s.Style.StrokeColorValue)
	width := float32(s.Style.StrokeWidthPx() * zoom)
	fill := color.Color(color.Transparent)
	if s.Style.Filled() {
		fill = parseHexColor(s.Style.FillColorValue)
	}

	b := s.Bounds()
	pos := toScreen(b.X, b.Y, off, zoom)
	size := fyne.NewSize(float32(b.W*zoom), float32(b.H*zoom))

	switch s.Type {
	case scene.KindRectangle:
		r := canvas.NewRectangle(fill)
		r.StrokeColor = stroke
		r.StrokeWidth = width
		r.Move(pos)
		r.Resize(size)
		return []fyne.CanvasObject{r}

	case scene.KindDiamond:
		top := toScreen(b.X+b.W/2, b.Y, off, zoom)
		right := toScreen(b.X+b.W, b.Y+b.H/2, off, zoom)
		bottom := toScreen(b.X+b.W/2, b.Y+b.H, off, zoom)
		left := toScreen(b.X, b.Y+b.H/2, off, zoom)
		return []fyne.CanvasObject{
			strokeLine(top, right, stroke, width),
			strokeLine(right, bottom, stroke, width),
			strokeLine(bottom, left, stroke, width),
			strokeLine(left, top, stroke, width),
		}

	case scene.KindEllipse:
		c := canvas.NewCircle(fill)
		c.StrokeColor = stroke
		c.StrokeWidth = width
		c.Position1 = pos
		c.Position2 = fyne.NewPos(pos.X+size.Width, pos.Y+size.Height)
		return []fyne.CanvasObject{c}

	case scene.KindLine, scene.KindArrow:
		if len(s.Points) < 2 {
			return nil
		}
		first := s.Points[0]
		last := s.Points[len(s.Points)-1]
		p1 := toScreen(s.X+first.X, s.Y+first.Y, off, zoom)
		p2 := toScreen(s.X+last.X, s.Y+last.Y, off, zoom)
		out := []fyne.CanvasObject{strokeLine(p1, p2, stroke, width)}
		if s.Type == scene.KindArrow {
			out = append(out, arrowheadObjects(p1, p2, stroke, width, zoom)...)
		}
		return out

	case scene.KindPencil:
		var out []fyne.CanvasObject
		for i := 1; i < len(s.Points); i++ {
			p1 := toScreen(s.X+s.Points[i-1].X, s.Y+s.Points[i-1].Y, off, zoom)
			p2 := toScreen(s.X+s.Points[i].X, s.Y+s.Points[i].Y, off, zoom)
			out = append(out, strokeLine(p1, p2, stroke, width))
		}
		return out

	case scene.KindText:
		fontSize := s.FontSize
		if fontSize == 0 {
			fontSize = 20
		}
		var out []fyne.CanvasObject
		for i, line := range strings.Split(s.Text, "\n") {
			t := canvas.NewText(line, stroke)
			t.TextSize = float32(fontSize * zoom)
			t.Move(toScreen(s.X, s.Y+float64(i)*fontSize*1.2, off, zoom))
			out = append(out, t)
		}
		return out

	case scene.KindImage:
		m := cache.get(s.ID, s.ImageData)
		if m == nil {
			// Handle not decodable (yet); draw the frame only.
			r := canvas.NewRectangle(color.Transparent)
			r.StrokeColor = stroke
			r.StrokeWidth = 1
			r.Move(pos)
			r.Resize(size)
			return []fyne.CanvasObject{r}
		}
		i := canvas.NewImageFromImage(m)
		i.FillMode = canvas.ImageFillStretch
		i.Move(pos)
		i.Resize(size)
		return []fyne.CanvasObject{i}
	}
	return nil
}

func strokeLine(p1, p2 fyne.Position, c color.Color, width float32) *canvas.Line {
	l := canvas.NewLine(c)
	l.StrokeWidth = width
	l.Position1 = p1
	l.Position2 = p2
	return l
}

func arrowheadObjects(p1, p2 fyne.Position, c color.Color, width float32, zoom float64) []fyne.CanvasObject {
	angle := math.Atan2(float64(p2.Y-p1.Y), float64(p2.X-p1.X))
	length := 12 * zoom
	left := fyne.NewPos(
		p2.X-float32(length*math.Cos(angle-math.Pi/6)),
		p2.Y-float32(length*math.Sin(angle-math.Pi/6)),
	)
	right := fyne.NewPos(
		p2.X-float32(length*math.Cos(angle+math.Pi/6)),
		p2.Y-float32(length*math.Sin(angle+math.Pi/6)),
	)
	return []fyne.CanvasObject{
		strokeLine(p2, left, c, width),
		strokeLine(p2, right, c, width),
	}
}

// selectionObjects draws the dashed-style bounding box (solid here) and
// the four corner handles for one selected shape.
func selectionObjects(b scene.Rect, off scene.Point, zoom float64) []fyne.CanvasObject {
	const pad = 4
	pos := toScreen(b.X, b.Y, off, zoom)
	pos = fyne.NewPos(pos.X-pad, pos.Y-pad)
	size := fyne.NewSize(float32(b.W*zoom)+2*pad, float32(b.H*zoom)+2*pad)

	outline := canvas.NewRectangle(color.Transparent)
	outline.StrokeColor = selectionColor
	outline.StrokeWidth = 1
	outline.Move(pos)
	outline.Resize(size)
	out := []fyne.CanvasObject{outline}

	handle := float32(math.Max(6, 6*zoom))
	corners := []fyne.Position{
		pos,
		fyne.NewPos(pos.X+size.Width-handle, pos.Y),
		fyne.NewPos(pos.X, pos.Y+size.Height-handle),
		fyne.NewPos(pos.X+size.Width-handle, pos.Y+size.Height-handle),
	}
	for _, c := range corners {
		h := canvas.NewRectangle(color.White)
		h.StrokeColor = selectionColor
		h.StrokeWidth = 1
		h.Move(c)
		h.Resize(fyne.NewSize(handle, handle))
		out = append(out, h)
	}
	return out
}

// marqueeObject draws the rubber-band overlay; the rectangle is already
// in screen space.
func marqueeObject(r scene.Rect) fyne.CanvasObject {
	m := canvas.NewRectangle(marqueeFill)
	m.StrokeColor = selectionColor
	m.StrokeWidth = 1
	m.Move(fyne.NewPos(float32(r.X), float32(r.Y)))
	m.Resize(fyne.NewSize(float32(r.W), float32(r.H)))
	return m
}

// Package ui is the fyne front end: a custom canvas widget that feeds
// pointer events to the interaction engine and paints the scene back.
package ui

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"OpenSketch/internal/board"
	"OpenSketch/internal/scene"
)

// BoardWidget renders the scene and translates fyne input events into
// controller gestures. All document state lives in the model; the widget
// keeps only presentation extras (cursor position, the inline text entry).
type BoardWidget struct {
	widget.BaseWidget
	model *scene.Model
	ctrl  *board.Controller

	cache *imageCache
	entry *widget.Entry

	spaceHeld bool
	cursor    fyne.Position
	hovering  bool
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ fyne.Scrollable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)

func NewBoardWidget(model *scene.Model, ctrl *board.Controller) *BoardWidget {
	b := &BoardWidget{
		model: model,
		ctrl:  ctrl,
		cache: newImageCache(),
		entry: widget.NewMultiLineEntry(),
	}
	b.entry.Hide()
	// Invoked by the controller while it holds its own lock, so this
	// callback must stay clear of locking controller methods.
	ctrl.OnStartTextEdit = b.startTextEdit
	b.ExtendBaseWidget(b)
	return b
}

// SetSpaceHeld is driven by the window's raw key handlers so holding
// space pans regardless of the active tool.
func (b *BoardWidget) SetSpaceHeld(held bool) {
	b.spaceHeld = held
}

func (b *BoardWidget) mods(e *desktop.MouseEvent) board.Modifiers {
	return board.Modifiers{
		Shift:  e.Modifier&fyne.KeyModifierShift != 0,
		Space:  b.spaceHeld,
		Middle: e.Button == desktop.MouseButtonTertiary,
	}
}

func pt(p fyne.Position) scene.Point {
	return scene.Point{X: float64(p.X), Y: float64(p.Y)}
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if id := b.ctrl.EditingID(); id != "" {
		b.finishTextEdit(id)
	}
	b.ctrl.PointerDown(pt(e.Position), b.mods(e))
	b.Refresh()
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	b.ctrl.PointerUp(pt(e.Position), b.mods(e))
	b.Refresh()
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	b.cursor = e.Position
	b.ctrl.PointerMove(pt(e.Position), board.Modifiers{Space: b.spaceHeld})
}

func (b *BoardWidget) DragEnd() {}

func (b *BoardWidget) MouseIn(e *desktop.MouseEvent) {
	b.hovering = true
	b.cursor = e.Position
}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	b.cursor = e.Position
	if b.ctrl.Tool() == board.ToolEraser {
		// Keep the eraser cursor circle tracking the pointer.
		b.Refresh()
	}
}

func (b *BoardWidget) MouseOut() {
	b.hovering = false
	b.Refresh()
}

// Scrolled zooms around the current view in fixed steps.
func (b *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	if e.Scrolled.DY > 0 {
		b.model.ZoomBy(0.1)
	} else if e.Scrolled.DY < 0 {
		b.model.ZoomBy(-0.1)
	}
}

// startTextEdit shows the inline entry over a freshly created text shape.
func (b *BoardWidget) startTextEdit(id string) {
	s, ok := b.model.Get(id)
	if !ok {
		return
	}
	b.entry.OnChanged = func(text string) {
		b.ctrl.UpdateText(id, text)
		b.Refresh()
	}
	b.entry.SetText(s.Text)
	b.entry.Show()
	if c := fyne.CurrentApp().Driver().CanvasForObject(b); c != nil {
		c.Focus(b.entry)
	}
	b.Refresh()
}

func (b *BoardWidget) finishTextEdit(id string) {
	b.entry.OnChanged = nil
	b.entry.Hide()
	if c := fyne.CurrentApp().Driver().CanvasForObject(b); c != nil {
		if c.Focused() == b.entry {
			c.Unfocus()
		}
	}
	b.ctrl.FinishTextEdit(id)
}

// FinishTextEdit closes the inline editor if one is open. The window's
// escape handler uses this.
func (b *BoardWidget) FinishTextEdit() {
	if id := b.ctrl.EditingID(); id != "" {
		b.finishTextEdit(id)
	}
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardRenderer{board: b}
	r.background = canvas.NewRectangle(color.White)
	return r
}

type boardRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
}

// docBounds is the document-space extent used for selection overlays;
// point-carrying shapes span their point cloud rather than the stored box.
func docBounds(s scene.Shape) scene.Rect {
	if s.HasPoints() && len(s.Points) > 0 {
		pb := scene.BoundsOf(s.Points)
		return scene.Rect{X: s.X + pb.X, Y: s.Y + pb.Y, W: pb.W, H: pb.H}
	}
	return s.Bounds()
}

// Objects rebuilds the full display list every refresh: background, grid,
// committed shapes in paint order, the in-progress shape, then overlays.
func (r *boardRenderer) Objects() []fyne.CanvasObject {
	b := r.board
	off, zoom, bg := b.model.View()
	r.background.FillColor = parseHexColor(bg)

	objects := []fyne.CanvasObject{r.background}
	objects = append(objects, gridObjects(b.Size(), off, zoom)...)

	// Shapes fully outside the view are skipped; the margin covers stroke
	// width and arrowheads poking past the bounding box.
	view := scene.Rect{W: float64(b.Size().Width), H: float64(b.Size().Height)}.Inset(-16)

	editing := b.ctrl.EditingID()
	var selected []scene.Rect
	b.model.ForEach(func(s scene.Shape) {
		if s.ID == editing {
			return // the inline entry overlay stands in for it
		}
		if !screenRect(docBounds(s), off, zoom).Overlaps(view) {
			return
		}
		objects = append(objects, shapeObjects(s, off, zoom, b.cache)...)
		if b.ctrl.IsSelected(s.ID) {
			selected = append(selected, docBounds(s))
		}
	})
	if d, ok := b.ctrl.Drawing(); ok {
		objects = append(objects, shapeObjects(d, off, zoom, b.cache)...)
	}

	for _, db := range selected {
		objects = append(objects, selectionObjects(db, off, zoom)...)
	}
	if mr, ok := b.ctrl.MarqueeRect(); ok {
		objects = append(objects, marqueeObject(mr))
	}

	if b.hovering && b.ctrl.Tool() == board.ToolEraser {
		c := canvas.NewCircle(color.Transparent)
		c.StrokeColor = color.NRGBA{R: 120, G: 120, B: 120, A: 200}
		c.StrokeWidth = 1
		c.Position1 = fyne.NewPos(b.cursor.X-board.EraserRadius, b.cursor.Y-board.EraserRadius)
		c.Position2 = fyne.NewPos(b.cursor.X+board.EraserRadius, b.cursor.Y+board.EraserRadius)
		objects = append(objects, c)
	}

	if editing != "" {
		if s, ok := b.model.Get(editing); ok {
			pos := toScreen(s.X, s.Y, off, zoom)
			w := float32(math.Max(160, s.Width*zoom+24))
			h := float32(math.Max(44, s.Height*zoom+16))
			b.entry.Move(pos)
			b.entry.Resize(fyne.NewSize(w, h))
			objects = append(objects, b.entry)
		}
	}
	return objects
}

func (r *boardRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
}

func (r *boardRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

func (r *boardRenderer) Refresh() {
	r.background.Resize(r.board.Size())
	canvas.Refresh(r.board)
}

func (r *boardRenderer) Destroy() {}

// Package board is the interaction engine: it interprets pointer and
// keyboard input against the active tool and turns gestures into scene
// mutations, history snapshots and repaint requests.
package board

import (
	"math"
	"sync"

	"OpenSketch/internal/history"
	"OpenSketch/internal/scene"
)

const (
	// HitPadding expands screen-space bounding boxes during hit-testing so
	// thin strokes stay clickable.
	HitPadding = 6
	// moveThresholdSq is the squared screen displacement (~3px) separating
	// a click from a drag of the selection.
	moveThresholdSq = 9
	// EraserRadius is the screen-space radius of the eraser circle.
	EraserRadius = 20
	// commitSize is the minimum width/height magnitude (document units) a
	// drawn shape needs to be kept.
	commitSize = 2
)

// Image tool sizing bounds: shapes are fitted into the display bound on
// insert, and the stored pixel data is later downscaled to the stored
// bound by a background task.
const (
	MaxImageDisplayW = 800
	MaxImageDisplayH = 600
	MaxImageStoredW  = 1200
	MaxImageStoredH  = 900
)

// Controller is the interaction state machine. It owns the selection and
// the in-progress shape; committed state lives in the scene model.
type Controller struct {
	mu    sync.Mutex
	model *scene.Model
	hist  *history.Stack

	tool  Tool
	style scene.Style

	gesture    Gesture
	selection  map[string]bool
	downScreen scene.Point
	lastScreen scene.Point
	marqueeEnd scene.Point
	drawing    *scene.Shape
	moveAccum  scene.Point
	erased     map[string]bool
	editingID  string

	requestPaint func()

	// OnStartTextEdit hands a freshly created text shape to the inline
	// text-input overlay; editing happens outside the canvas paint path.
	OnStartTextEdit func(id string)
	// OnPickImage delegates file selection for the image tool to an
	// external collaborator.
	OnPickImage func(at scene.Point)
}

// NewController wires the state machine to its document and history.
func NewController(model *scene.Model, hist *history.Stack) *Controller {
	return &Controller{
		model:     model,
		hist:      hist,
		tool:      ToolSelect,
		style:     scene.DefaultStyle(),
		selection: make(map[string]bool),
	}
}

// SetPainter installs the repaint request hook (the render scheduler).
func (c *Controller) SetPainter(fn func()) {
	c.mu.Lock()
	c.requestPaint = fn
	c.mu.Unlock()
}

func (c *Controller) paint() {
	if c.requestPaint != nil {
		c.requestPaint()
	}
}

// Tool returns the active tool.
func (c *Controller) Tool() Tool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tool
}

// SetTool switches the active tool.
func (c *Controller) SetTool(t Tool) {
	c.mu.Lock()
	c.tool = t
	c.mu.Unlock()
}

// Style returns the style new shapes are created with.
func (c *Controller) Style() scene.Style {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.style
}

// SetStyle changes the style applied to newly created shapes.
func (c *Controller) SetStyle(s scene.Style) {
	c.mu.Lock()
	c.style = s
	c.mu.Unlock()
}

// Gesture returns the current gesture state.
func (c *Controller) Gesture() Gesture {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gesture
}

// ToDoc converts a screen-space point to document coordinates.
func (c *Controller) ToDoc(p scene.Point) scene.Point {
	off, zoom, _ := c.model.View()
	return scene.Point{X: (p.X - off.X) / zoom, Y: (p.Y - off.Y) / zoom}
}

// screenBounds returns a shape's screen-space bounding box. Point-carrying
// shapes use the extent of their points rather than the stored box.
func (c *Controller) screenBounds(s scene.Shape) scene.Rect {
	off, zoom, _ := c.model.View()
	b := shapeBounds(s)
	return scene.Rect{
		X: b.X*zoom + off.X,
		Y: b.Y*zoom + off.Y,
		W: b.W * zoom,
		H: b.H * zoom,
	}
}

// shapeBounds is the document-space bounding box used for hit-testing,
// marquee containment and erasing.
func shapeBounds(s scene.Shape) scene.Rect {
	if s.HasPoints() && len(s.Points) > 0 {
		pb := scene.BoundsOf(s.Points)
		return scene.Rect{X: s.X + pb.X, Y: s.Y + pb.Y, W: pb.W, H: pb.H}
	}
	return s.Bounds()
}

// PointerDown starts a gesture. p is in screen space.
func (c *Controller) PointerDown(p scene.Point, mods Modifiers) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.downScreen = p
	c.lastScreen = p

	if c.tool == ToolHand || mods.Space || mods.Middle {
		c.gesture = GesturePanning
		return
	}

	switch c.tool {
	case ToolSelect:
		if id, ok := c.hitTest(p); ok {
			c.selectLocked(id, mods.Shift)
			c.gesture = GestureMoveCandidate
		} else {
			c.selection = make(map[string]bool)
			c.gesture = GestureMarquee
			c.marqueeEnd = p
		}
		c.paint()

	case ToolEraser:
		c.gesture = GestureErasing
		c.erased = make(map[string]bool)
		c.hist.Snapshot(c.model.Elements())
		c.eraseAt(p)

	case ToolText:
		doc := c.ToDoc(p)
		c.hist.Snapshot(c.model.Elements())
		s := scene.NewShape(scene.KindText, doc.X, doc.Y, c.style)
		c.model.Append(s)
		c.editingID = s.ID
		if c.OnStartTextEdit != nil {
			c.OnStartTextEdit(s.ID)
		}
		c.paint()

	case ToolImage:
		if c.OnPickImage != nil {
			c.OnPickImage(c.ToDoc(p))
		}

	default:
		kind, ok := shapeKind(c.tool)
		if !ok {
			return
		}
		doc := c.ToDoc(p)
		c.hist.Snapshot(c.model.Elements())
		s := scene.NewShape(kind, doc.X, doc.Y, c.style)
		c.drawing = &s
		c.gesture = GestureDrawing
		c.paint()
	}
}

// PointerMove advances the gesture. p is in screen space.
func (c *Controller) PointerMove(p scene.Point, mods Modifiers) {
	c.mu.Lock()
	defer c.mu.Unlock()

	dx := p.X - c.lastScreen.X
	dy := p.Y - c.lastScreen.Y

	switch c.gesture {
	case GesturePanning:
		// Raw screen delta, not scaled by zoom.
		c.lastScreen = p
		c.model.Pan(dx, dy)
		return

	case GestureMoveCandidate:
		ddx := p.X - c.downScreen.X
		ddy := p.Y - c.downScreen.Y
		if ddx*ddx+ddy*ddy > moveThresholdSq {
			// History is pushed here, at the click→drag transition, not
			// at pointer-down.
			c.hist.Snapshot(c.model.Elements())
			c.gesture = GestureMoving
			c.lastScreen = p
		}
		return

	case GestureMoving:
		_, zoom, _ := c.model.View()
		c.moveAccum.X += dx / zoom
		c.moveAccum.Y += dy / zoom
		c.lastScreen = p
		// Applied once per refresh tick by FlushMoves, not per event.
		c.paint()
		return

	case GestureDrawing:
		c.updateDrawing(p)
		c.lastScreen = p
		c.paint()
		return

	case GestureMarquee:
		c.marqueeEnd = p
		c.lastScreen = p
		c.paint()
		return

	case GestureErasing:
		c.lastScreen = p
		c.eraseAt(p)
		return
	}

	c.lastScreen = p
}

// PointerUp finishes the gesture. p is in screen space.
func (c *Controller) PointerUp(p scene.Point, mods Modifiers) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.gesture {
	case GestureMoving:
		c.flushMovesLocked()

	case GestureDrawing:
		c.commitDrawing()

	case GestureMarquee:
		c.finalizeMarquee(p)

	case GestureErasing:
		c.erased = nil
	}

	c.gesture = GestureIdle
	c.paint()
}

// updateDrawing applies a pointer move to the in-progress shape.
func (c *Controller) updateDrawing(p scene.Point) {
	if c.drawing == nil {
		return
	}
	doc := c.ToDoc(p)
	if c.drawing.HasPoints() {
		c.drawing.Points = append(c.drawing.Points, scene.Point{
			X: doc.X - c.drawing.X,
			Y: doc.Y - c.drawing.Y,
		})
		ext := scene.BoundsOf(c.drawing.Points)
		c.drawing.Width = ext.W
		c.drawing.Height = ext.H
	} else {
		// Sign preserved; magnitude is applied at render/hit-test time.
		c.drawing.Width = doc.X - c.drawing.X
		c.drawing.Height = doc.Y - c.drawing.Y
	}
}

// commitDrawing appends the in-progress shape to the scene if it has
// non-trivial size; trivial attempts are discarded silently. The History
// snapshot pushed at gesture start stays valid either way: it captured
// pre-gesture state and simply becomes a no-op undo target.
func (c *Controller) commitDrawing() {
	d := c.drawing
	c.drawing = nil
	if d == nil {
		return
	}
	hasSize := math.Abs(d.Width) > commitSize || math.Abs(d.Height) > commitSize
	switch d.Type {
	case scene.KindPencil:
		hasSize = hasSize || len(d.Points) > 2
	case scene.KindLine, scene.KindArrow:
		hasSize = hasSize || len(d.Points) >= 2
	}
	if hasSize {
		c.model.Append(*d)
	}
}

// finalizeMarquee converts the rubber band to document space and selects
// every shape whose bounding box is fully contained within it.
// Containment, not intersection, is deliberate.
func (c *Controller) finalizeMarquee(p scene.Point) {
	c.marqueeEnd = p
	start := c.ToDoc(c.downScreen)
	end := c.ToDoc(c.marqueeEnd)
	sel := scene.NormalizedRect(start.X, start.Y, end.X-start.X, end.Y-start.Y)

	c.selection = make(map[string]bool)
	c.model.ForEach(func(s scene.Shape) {
		if sel.ContainsRect(shapeBounds(s)) {
			c.selection[s.ID] = true
		}
	})
}

// eraseAt deletes every shape intersecting the eraser circle at the given
// screen point, at most once per gesture.
func (c *Controller) eraseAt(p scene.Point) {
	var hit []string
	c.model.ForEach(func(s scene.Shape) {
		if c.erased[s.ID] {
			return
		}
		if c.screenBounds(s).IntersectsCircle(p.X, p.Y, EraserRadius) {
			hit = append(hit, s.ID)
		}
	})
	for _, id := range hit {
		c.erased[id] = true
		c.model.Remove(id)
		delete(c.selection, id)
	}
}

// hitTest returns the topmost shape (reverse paint order) whose padded
// screen-space bounding box contains p.
func (c *Controller) hitTest(p scene.Point) (string, bool) {
	var shapes []scene.Shape
	c.model.ForEach(func(s scene.Shape) { shapes = append(shapes, s) })
	for i := len(shapes) - 1; i >= 0; i-- {
		if c.screenBounds(shapes[i]).Inset(-HitPadding).Contains(p) {
			return shapes[i].ID, true
		}
	}
	return "", false
}

func (c *Controller) selectLocked(id string, add bool) {
	if add {
		if c.selection[id] {
			delete(c.selection, id)
		} else {
			c.selection[id] = true
		}
		return
	}
	c.selection = map[string]bool{id: true}
}

// Select marks a shape as selected, either replacing or toggling within
// the selection.
func (c *Controller) Select(id string, add bool) {
	c.mu.Lock()
	c.selectLocked(id, add)
	c.mu.Unlock()
	c.paint()
}

// ClearSelection empties the selection without touching the scene.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	c.selection = make(map[string]bool)
	c.mu.Unlock()
	c.paint()
}

// SelectedIDs returns the selected shape ids.
func (c *Controller) SelectedIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.selection))
	for id := range c.selection {
		ids = append(ids, id)
	}
	return ids
}

// IsSelected reports whether the shape id is in the selection.
func (c *Controller) IsSelected(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection[id]
}

// Drawing returns a copy of the in-progress shape, if any.
func (c *Controller) Drawing() (scene.Shape, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.drawing == nil {
		return scene.Shape{}, false
	}
	return c.drawing.Clone(), true
}

// MarqueeRect returns the active rubber-band rectangle in screen space.
func (c *Controller) MarqueeRect() (scene.Rect, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gesture != GestureMarquee {
		return scene.Rect{}, false
	}
	return scene.NormalizedRect(
		c.downScreen.X, c.downScreen.Y,
		c.marqueeEnd.X-c.downScreen.X, c.marqueeEnd.Y-c.downScreen.Y,
	), true
}

// FlushMoves applies the accumulated move delta to every selected shape.
// The render scheduler calls this once per refresh tick so redraw
// frequency stays bounded under fast mouse movement.
func (c *Controller) FlushMoves() {
	c.mu.Lock()
	c.flushMovesLocked()
	c.mu.Unlock()
}

func (c *Controller) flushMovesLocked() {
	if c.moveAccum.X == 0 && c.moveAccum.Y == 0 {
		return
	}
	d := c.moveAccum
	c.moveAccum = scene.Point{}
	for id := range c.selection {
		c.model.Update(id, func(s *scene.Shape) {
			s.X += d.X
			s.Y += d.Y
		})
	}
}

// DeleteSelection removes every selected shape, pushing one History entry
// for the whole deletion.
func (c *Controller) DeleteSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.selection) == 0 {
		return
	}
	c.hist.Snapshot(c.model.Elements())
	for id := range c.selection {
		c.model.Remove(id)
	}
	c.selection = make(map[string]bool)
	c.paint()
}

// Undo restores the most recent snapshot, if any.
func (c *Controller) Undo() {
	if els, ok := c.hist.Undo(c.model.Elements()); ok {
		c.model.RestoreElements(els)
	}
}

// Redo is the mirror of Undo.
func (c *Controller) Redo() {
	if els, ok := c.hist.Redo(c.model.Elements()); ok {
		c.model.RestoreElements(els)
	}
}

// ApplyRemoteScene installs a scene received from the relay: full
// replacement, selection cleared, History untouched.
func (c *Controller) ApplyRemoteScene(sc scene.Scene) {
	c.mu.Lock()
	c.selection = make(map[string]bool)
	c.editingID = ""
	c.mu.Unlock()
	c.model.Replace(sc, false)
}

// EditingID returns the id of the shape currently in inline text edit
// mode, or "" when none is.
func (c *Controller) EditingID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editingID
}

// UpdateText changes a text shape's payload and re-estimates its box.
func (c *Controller) UpdateText(id, text string) {
	c.model.Update(id, func(s *scene.Shape) {
		if s.Type != scene.KindText {
			return
		}
		s.Text = text
		resizeTextShape(s)
	})
}

// FinishTextEdit leaves inline edit mode; a text shape left empty is
// removed rather than kept as an invisible element.
func (c *Controller) FinishTextEdit(id string) {
	c.mu.Lock()
	if c.editingID == id {
		c.editingID = ""
	}
	c.mu.Unlock()
	if s, ok := c.model.Get(id); ok && s.Type == scene.KindText && s.Text == "" {
		c.model.Remove(id)
	}
	c.paint()
}

// InsertImage appends an image shape at the given document point, fitted
// into the display bound while preserving aspect ratio. One History entry
// is pushed; the later handle swap by the downscale task must not push
// another.
func (c *Controller) InsertImage(at scene.Point, handle string, pxW, pxH int) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hist.Snapshot(c.model.Elements())
	w, h := FitImage(pxW, pxH, MaxImageDisplayW, MaxImageDisplayH)
	s := scene.NewShape(scene.KindImage, at.X, at.Y, c.style)
	s.Width = float64(w)
	s.Height = float64(h)
	s.ImageData = handle
	c.model.Append(s)
	c.paint()
	return s.ID
}

// ReplaceImageHandle swaps a downscaled handle into an image shape. The
// shape may have been deleted while the downscale ran; then this is a
// no-op via the model's unknown-id semantics. Cosmetic storage
// optimization, so no History entry.
func (c *Controller) ReplaceImageHandle(id, handle string) {
	c.model.Update(id, func(s *scene.Shape) {
		if s.Type == scene.KindImage {
			s.ImageData = handle
		}
	})
}

// FitImage scales pixel dimensions down (never up) to fit a bound while
// preserving aspect ratio, with a small minimum so tiny images stay
// grabbable.
func FitImage(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 24, 24
	}
	scale := math.Min(1, math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h)))
	fw := int(math.Round(float64(w) * scale))
	fh := int(math.Round(float64(h) * scale))
	if fw < 24 {
		fw = 24
	}
	if fh < 24 {
		fh = 24
	}
	return fw, fh
}

// resizeTextShape estimates the box of a text shape from its payload.
func resizeTextShape(s *scene.Shape) {
	fontSize := s.FontSize
	if fontSize == 0 {
		fontSize = 20
	}
	lines := 1
	maxLine := 0
	cur := 0
	for _, r := range s.Text {
		if r == '\n' {
			lines++
			cur = 0
			continue
		}
		cur++
		if cur > maxLine {
			maxLine = cur
		}
	}
	if maxLine == 0 {
		maxLine = 1
	}
	s.Width = math.Max(24, math.Ceil(float64(maxLine)*fontSize*0.6))
	s.Height = math.Max(24, math.Ceil(float64(lines)*fontSize*1.2))
}

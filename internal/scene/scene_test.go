package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShapeAssignsUniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		s := NewShape(KindRectangle, 0, 0, DefaultStyle())
		require.NotEmpty(t, s.ID)
		require.False(t, seen[s.ID], "duplicate id %s", s.ID)
		seen[s.ID] = true
	}
}

func TestNewShapeVariantDefaults(t *testing.T) {
	line := NewShape(KindLine, 5, 6, DefaultStyle())
	require.Equal(t, []Point{{X: 0, Y: 0}}, line.Points)

	text := NewShape(KindText, 0, 0, DefaultStyle())
	assert.Equal(t, 24.0, text.Height)
	assert.Equal(t, 20.0, text.FontSize)

	rect := NewShape(KindRectangle, 0, 0, DefaultStyle())
	assert.Nil(t, rect.Points)
}

func TestCloneIsDeep(t *testing.T) {
	s := NewShape(KindPencil, 0, 0, DefaultStyle())
	s.Points = append(s.Points, Point{X: 3, Y: 4})
	c := s.Clone()
	c.Points[0].X = 99
	assert.Equal(t, 0.0, s.Points[0].X)
}

func TestBoundsNormalizesNegativeSize(t *testing.T) {
	s := Shape{Type: KindRectangle, X: 50, Y: 40, Width: -40, Height: -30}
	b := s.Bounds()
	assert.Equal(t, Rect{X: 10, Y: 10, W: 40, H: 30}, b)
}

func TestRectContainsAndInset(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 20, H: 20}
	assert.True(t, r.Contains(Point{X: 10, Y: 10}))
	assert.True(t, r.Contains(Point{X: 30, Y: 30}))
	assert.False(t, r.Contains(Point{X: 31, Y: 30}))

	grown := r.Inset(-6)
	assert.True(t, grown.Contains(Point{X: 5, Y: 5}))
}

func TestOverlaps(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 10, H: 10}
	assert.True(t, r.Overlaps(Rect{X: 5, Y: 5, W: 10, H: 10}))
	assert.True(t, r.Overlaps(Rect{X: 10, Y: 10, W: 5, H: 5})) // edge touch
	assert.False(t, r.Overlaps(Rect{X: 11, Y: 0, W: 5, H: 5}))
	assert.False(t, r.Overlaps(Rect{X: 0, Y: 20, W: 5, H: 5}))
}

func TestIntersectsCircle(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 20, H: 20}
	assert.True(t, r.IntersectsCircle(20, 20, 1))  // center inside
	assert.True(t, r.IntersectsCircle(0, 20, 10))  // touches left edge
	assert.False(t, r.IntersectsCircle(0, 20, 9))  // just misses
	assert.False(t, r.IntersectsCircle(0, 0, 5))
}

func TestBoundsOf(t *testing.T) {
	assert.Equal(t, Rect{}, BoundsOf(nil))
	b := BoundsOf([]Point{{X: -5, Y: 2}, {X: 3, Y: -1}, {X: 0, Y: 0}})
	assert.Equal(t, Rect{X: -5, Y: -1, W: 8, H: 3}, b)
}

func TestNormalizeFillsDefaults(t *testing.T) {
	sc := Scene{}.Normalize()
	assert.NotNil(t, sc.Elements)
	assert.Equal(t, 1.0, sc.Zoom)
	assert.Equal(t, DefaultBackground, sc.BackgroundColor)

	sc = Scene{Zoom: 100}.Normalize()
	assert.Equal(t, MaxZoom, sc.Zoom)
}

func TestClampZoom(t *testing.T) {
	assert.Equal(t, MinZoom, ClampZoom(0.01))
	assert.Equal(t, MaxZoom, ClampZoom(9))
	assert.Equal(t, 1.5, ClampZoom(1.5))
}

func TestModelAppendAssignsMissingID(t *testing.T) {
	m := NewModel()
	m.Append(Shape{
		Type:     KindPencil,
		X:        1,
		Y:        2,
		Width:    10,
		Height:   12,
		Points:   []Point{{X: 0, Y: 0}, {X: 10, Y: 12}},
		Text:     "note",
		FontSize: 18,
	})
	els := m.Elements()
	require.Len(t, els, 1)
	got := els[0]
	assert.NotEmpty(t, got.ID)

	// Only the id is filled in; everything else passes through untouched.
	assert.Equal(t, 1.0, got.X)
	assert.Equal(t, 2.0, got.Y)
	assert.Equal(t, 10.0, got.Width)
	assert.Equal(t, 12.0, got.Height)
	assert.Equal(t, []Point{{X: 0, Y: 0}, {X: 10, Y: 12}}, got.Points)
	assert.Equal(t, "note", got.Text)
	assert.Equal(t, 18.0, got.FontSize)
}

func TestModelUnknownIDsAreNoOps(t *testing.T) {
	m := NewModel()
	m.Append(NewShape(KindRectangle, 0, 0, DefaultStyle()))

	fired := 0
	m.OnChange(func(bool) { fired++ })

	m.Remove("nope")
	m.Update("nope", func(s *Shape) { s.X = 99 })
	assert.Equal(t, 0, fired, "unknown ids must not notify")
	assert.Equal(t, 1, m.Len())
}

func TestModelUpdateKeepsID(t *testing.T) {
	m := NewModel()
	s := NewShape(KindRectangle, 0, 0, DefaultStyle())
	m.Append(s)
	m.Update(s.ID, func(sh *Shape) {
		sh.ID = "hijacked"
		sh.X = 7
	})
	got, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.Equal(t, 7.0, got.X)
}

func TestModelReplaceNormalizesAndFlagsOrigin(t *testing.T) {
	m := NewModel()
	var locals []bool
	m.OnChange(func(local bool) { locals = append(locals, local) })

	m.Replace(Scene{}, false)
	_, zoom, bg := m.View()
	assert.Equal(t, 1.0, zoom)
	assert.Equal(t, DefaultBackground, bg)
	require.Equal(t, []bool{false}, locals)

	m.Replace(Scene{}, true)
	assert.Equal(t, []bool{false, true}, locals)
}

func TestModelSetViewClampsZoom(t *testing.T) {
	m := NewModel()
	m.SetView(Point{X: 3, Y: 4}, 50, "#000000")
	off, zoom, bg := m.View()
	assert.Equal(t, Point{X: 3, Y: 4}, off)
	assert.Equal(t, MaxZoom, zoom)
	assert.Equal(t, "#000000", bg)

	m.ZoomBy(-100)
	_, zoom, _ = m.View()
	assert.Equal(t, MinZoom, zoom)
}

func TestModelPan(t *testing.T) {
	m := NewModel()
	m.Pan(30, -10)
	m.Pan(5, 5)
	off, _, _ := m.View()
	assert.Equal(t, Point{X: 35, Y: -5}, off)
}

func TestModelSnapshotIsDetached(t *testing.T) {
	m := NewModel()
	m.Append(NewShape(KindRectangle, 0, 0, DefaultStyle()))
	snap := m.Snapshot()
	snap.Elements[0].X = 123
	els := m.Elements()
	assert.Equal(t, 0.0, els[0].X)
}

package scene

import (
	"sync"

	"github.com/google/uuid"
)

// Model is the canonical, mutation-guarded document. All writes go through
// the atomic operations below; every successful mutation fires the change
// listeners with a flag saying whether the edit originated locally.
// Remote replacements pass local=false so the sync layer can avoid echoing
// a scene straight back to the relay.
//
// Mutations addressing an unknown id are silent no-ops: the interaction
// layer and the sync layer can race, and losing that race is not an error.
type Model struct {
	mu        sync.RWMutex
	scene     Scene
	listeners []func(local bool)
}

// NewModel creates a model holding an empty default scene.
func NewModel() *Model {
	return &Model{scene: New()}
}

// OnChange registers a change listener. Listeners are invoked after the
// mutation completes, outside the lock.
func (m *Model) OnChange(fn func(local bool)) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

func (m *Model) notify(local bool) {
	m.mu.RLock()
	ls := make([]func(bool), len(m.listeners))
	copy(ls, m.listeners)
	m.mu.RUnlock()
	for _, fn := range ls {
		fn(local)
	}
}

// Snapshot returns a deep copy of the whole scene.
func (m *Model) Snapshot() Scene {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scene.Clone()
}

// Elements returns a deep copy of the element sequence.
func (m *Model) Elements() []Shape {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return CloneShapes(m.scene.Elements)
}

// Get looks up a shape by id.
func (m *Model) Get(id string) (Shape, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.scene.Elements {
		if s.ID == id {
			return s.Clone(), true
		}
	}
	return Shape{}, false
}

// ForEach calls fn for every shape in paint order, under a read lock.
// fn must not mutate the model.
func (m *Model) ForEach(fn func(s Shape)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.scene.Elements {
		fn(s)
	}
}

// Len returns the number of elements.
func (m *Model) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.scene.Elements)
}

// View returns the current view state.
func (m *Model) View() (offset Point, zoom float64, background string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scene.ViewportOffset, m.scene.Zoom, m.scene.BackgroundColor
}

// Append adds a shape on top of the paint order. A missing id is assigned
// here so identifiers stay unique within the scene.
func (m *Model) Append(s Shape) {
	m.mu.Lock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	m.scene.Elements = append(m.scene.Elements, s.Clone())
	m.mu.Unlock()
	m.notify(true)
}

// Remove deletes the shape with the given id. Unknown ids are a no-op.
func (m *Model) Remove(id string) {
	m.mu.Lock()
	found := false
	els := m.scene.Elements
	for i, s := range els {
		if s.ID == id {
			m.scene.Elements = append(els[:i], els[i+1:]...)
			found = true
			break
		}
	}
	m.mu.Unlock()
	if found {
		m.notify(true)
	}
}

// Update applies fn to the shape with the given id. Unknown ids are a
// no-op. fn must not change the shape's id.
func (m *Model) Update(id string, fn func(*Shape)) {
	m.mu.Lock()
	found := false
	for i := range m.scene.Elements {
		if m.scene.Elements[i].ID == id {
			fn(&m.scene.Elements[i])
			m.scene.Elements[i].ID = id
			found = true
			break
		}
	}
	m.mu.Unlock()
	if found {
		m.notify(true)
	}
}

// RestoreElements swaps in a new element sequence wholesale, leaving the
// view state alone. Used by undo/redo, which never touches the view.
func (m *Model) RestoreElements(els []Shape) {
	m.mu.Lock()
	m.scene.Elements = CloneShapes(els)
	m.mu.Unlock()
	m.notify(true)
}

// Replace installs an externally-sourced scene wholesale after filling
// defensive defaults. local distinguishes an import (true) from a remote
// sync replacement (false).
func (m *Model) Replace(sc Scene, local bool) {
	m.mu.Lock()
	m.scene = sc.Normalize().Clone()
	m.mu.Unlock()
	m.notify(local)
}

// SetView updates pan offset, zoom and background. Zoom is clamped.
func (m *Model) SetView(offset Point, zoom float64, background string) {
	m.mu.Lock()
	m.scene.ViewportOffset = offset
	m.scene.Zoom = ClampZoom(zoom)
	if background != "" {
		m.scene.BackgroundColor = background
	}
	m.mu.Unlock()
	m.notify(true)
}

// Pan shifts the viewport offset by a raw screen-space delta.
func (m *Model) Pan(dx, dy float64) {
	m.mu.Lock()
	m.scene.ViewportOffset.X += dx
	m.scene.ViewportOffset.Y += dy
	m.mu.Unlock()
	m.notify(true)
}

// ZoomBy applies a zoom delta, clamped to the allowed range.
func (m *Model) ZoomBy(delta float64) {
	m.mu.Lock()
	m.scene.Zoom = ClampZoom(m.scene.Zoom + delta)
	m.mu.Unlock()
	m.notify(true)
}

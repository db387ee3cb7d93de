// Package history keeps bounded undo/redo snapshot stacks over the scene's
// element sequence. View state (pan/zoom/background) is deliberately never
// snapshotted; undo only ever affects shape content.
package history

import (
	"sync"

	"OpenSketch/internal/scene"
)

// Cap bounds both stacks; the oldest undo entry is evicted first.
const Cap = 50

// Stack owns the undo and redo snapshot stacks.
type Stack struct {
	mu   sync.Mutex
	undo [][]scene.Shape
	redo [][]scene.Shape
}

// New returns empty stacks.
func New() *Stack {
	return &Stack{}
}

// Snapshot pushes a deep copy of the current element sequence onto the
// undo stack and clears the redo stack. Called immediately before a
// mutating gesture begins.
func (h *Stack) Snapshot(current []scene.Shape) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo = append(h.undo, scene.CloneShapes(current))
	if len(h.undo) > Cap {
		h.undo = h.undo[1:]
	}
	h.redo = nil
}

// Undo pops the most recent snapshot, parks the current sequence on the
// redo stack, and returns the popped sequence. ok is false when there is
// nothing to undo.
func (h *Stack) Undo(current []scene.Shape) (restored []scene.Shape, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undo) == 0 {
		return nil, false
	}
	last := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, scene.CloneShapes(current))
	return last, true
}

// Redo is the mirror of Undo.
func (h *Stack) Redo(current []scene.Shape) (restored []scene.Shape, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.redo) == 0 {
		return nil, false
	}
	last := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, scene.CloneShapes(current))
	if len(h.undo) > Cap {
		h.undo = h.undo[1:]
	}
	return last, true
}

// CanUndo reports whether the undo stack is non-empty.
func (h *Stack) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo) > 0
}

// CanRedo reports whether the redo stack is non-empty.
func (h *Stack) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo) > 0
}

// UndoDepth returns the number of undo entries, for tests and status UI.
func (h *Stack) UndoDepth() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo)
}

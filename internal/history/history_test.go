package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"OpenSketch/internal/scene"
)

func shapes(ids ...string) []scene.Shape {
	out := make([]scene.Shape, len(ids))
	for i, id := range ids {
		out[i] = scene.Shape{ID: id, Type: scene.KindRectangle}
	}
	return out
}

func TestUndoRedoRoundTrip(t *testing.T) {
	h := New()
	before := shapes("a")
	after := shapes("a", "b")

	h.Snapshot(before)

	restored, ok := h.Undo(after)
	require.True(t, ok)
	assert.Equal(t, before, restored)
	assert.True(t, h.CanRedo())

	redone, ok := h.Redo(before)
	require.True(t, ok)
	assert.Equal(t, after, redone)
}

func TestUndoOnEmptyStack(t *testing.T) {
	h := New()
	_, ok := h.Undo(shapes("a"))
	assert.False(t, ok)
	_, ok = h.Redo(shapes("a"))
	assert.False(t, ok)
}

func TestSnapshotClearsRedo(t *testing.T) {
	h := New()
	h.Snapshot(shapes("a"))
	_, ok := h.Undo(shapes("a", "b"))
	require.True(t, ok)
	require.True(t, h.CanRedo())

	h.Snapshot(shapes("a"))
	assert.False(t, h.CanRedo())
}

func TestCapEvictsOldest(t *testing.T) {
	h := New()
	for i := 0; i < Cap+10; i++ {
		h.Snapshot(shapes(fmt.Sprintf("s%d", i)))
	}
	assert.Equal(t, Cap, h.UndoDepth())

	// Unwind fully; the deepest reachable state is the one pushed at
	// iteration 10, everything older was evicted.
	var last []scene.Shape
	for h.CanUndo() {
		last, _ = h.Undo(last)
	}
	require.Len(t, last, 1)
	assert.Equal(t, "s10", last[0].ID)
}

func TestSnapshotIsDetachedFromCaller(t *testing.T) {
	h := New()
	els := shapes("a")
	h.Snapshot(els)
	els[0].ID = "mutated"

	restored, ok := h.Undo(nil)
	require.True(t, ok)
	assert.Equal(t, "a", restored[0].ID)
}

package board

import "OpenSketch/internal/scene"

// Tool is the active tool the pointer gestures are interpreted against.
type Tool string

const (
	ToolSelect    Tool = "select"
	ToolHand      Tool = "hand"
	ToolRectangle Tool = "rectangle"
	ToolDiamond   Tool = "diamond"
	ToolEllipse   Tool = "ellipse"
	ToolLine      Tool = "line"
	ToolArrow     Tool = "arrow"
	ToolPencil    Tool = "pencil"
	ToolText      Tool = "text"
	ToolImage     Tool = "image"
	ToolEraser    Tool = "eraser"
)

// shapeKind maps a drawing tool to the shape variant it creates.
func shapeKind(t Tool) (scene.Kind, bool) {
	switch t {
	case ToolRectangle:
		return scene.KindRectangle, true
	case ToolDiamond:
		return scene.KindDiamond, true
	case ToolEllipse:
		return scene.KindEllipse, true
	case ToolLine:
		return scene.KindLine, true
	case ToolArrow:
		return scene.KindArrow, true
	case ToolPencil:
		return scene.KindPencil, true
	}
	return "", false
}

// Gesture is the state of the current pointer gesture. Exactly one gesture
// is in flight at a time; the enumeration makes combinations like
// "panning while erasing" unrepresentable.
type Gesture int

const (
	GestureIdle Gesture = iota
	GesturePanning
	GestureMoveCandidate
	GestureMoving
	GestureDrawing
	GestureMarquee
	GestureErasing
)

// Modifiers carries the keyboard/button state relevant to gesture
// branching.
type Modifiers struct {
	Shift  bool // add-to-selection
	Space  bool // temporary pan regardless of tool
	Middle bool // middle button press, also pans
}

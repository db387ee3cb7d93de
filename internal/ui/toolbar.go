package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"OpenSketch/internal/board"
	"OpenSketch/internal/scene"
)

// paletteColor pairs a palette name with its concrete value, mirroring the
// named/value split in the style record.
type paletteColor struct {
	name  string
	value string
}

var strokePalette = []paletteColor{
	{"black", "#1a1a1a"},
	{"red", "#e03131"},
	{"green", "#2f9e44"},
	{"blue", "#1971c2"},
	{"orange", "#f08c00"},
}

var fillPalette = []paletteColor{
	{"transparent", "transparent"},
	{"light-red", "#ffc9c9"},
	{"light-green", "#b2f2bb"},
	{"light-blue", "#a5d8ff"},
	{"light-yellow", "#ffec99"},
}

// colorSwatch is a small tappable color square.
type colorSwatch struct {
	widget.BaseWidget
	Color    paletteColor
	OnTapped func(paletteColor)
}

func newColorSwatch(c paletteColor, tapped func(paletteColor)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(parseHexColor(s.Color.value))
	rect.SetMinSize(fyne.NewSize(24, 24))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// NewToolbar builds the tool strip: tool buttons, stroke and fill
// palettes, and the stroke width selector.
func NewToolbar(ctrl *board.Controller, b *BoardWidget) fyne.CanvasObject {
	tools := []struct {
		label string
		tool  board.Tool
	}{
		{"Select", board.ToolSelect},
		{"Hand", board.ToolHand},
		{"Rect", board.ToolRectangle},
		{"Diamond", board.ToolDiamond},
		{"Ellipse", board.ToolEllipse},
		{"Line", board.ToolLine},
		{"Arrow", board.ToolArrow},
		{"Pencil", board.ToolPencil},
		{"Text", board.ToolText},
		{"Image", board.ToolImage},
		{"Eraser", board.ToolEraser},
	}

	toolBox := container.NewHBox()
	for _, t := range tools {
		tool := t.tool
		toolBox.Add(widget.NewButton(t.label, func() {
			b.FinishTextEdit()
			ctrl.SetTool(tool)
			b.Refresh()
		}))
	}

	onStroke := func(c paletteColor) {
		st := ctrl.Style()
		st.StrokeColor = c.name
		st.StrokeColorValue = c.value
		ctrl.SetStyle(st)
	}
	strokeBox := container.NewHBox()
	for _, c := range strokePalette {
		strokeBox.Add(newColorSwatch(c, onStroke))
	}

	onFill := func(c paletteColor) {
		st := ctrl.Style()
		st.FillColor = c.name
		st.FillColorValue = c.value
		ctrl.SetStyle(st)
	}
	fillBox := container.NewHBox()
	for _, c := range fillPalette {
		fillBox.Add(newColorSwatch(c, onFill))
	}

	widthSelect := widget.NewSelect(
		[]string{scene.StrokeThin, scene.StrokeMedium, scene.StrokeThick},
		func(w string) {
			st := ctrl.Style()
			st.StrokeWidth = w
			ctrl.SetStyle(st)
		},
	)
	widthSelect.SetSelected(scene.StrokeMedium)

	return container.NewHBox(
		toolBox,
		widget.NewSeparator(),
		widget.NewLabel("Stroke:"),
		strokeBox,
		widget.NewSeparator(),
		widget.NewLabel("Fill:"),
		fillBox,
		widget.NewSeparator(),
		widthSelect,
		layout.NewSpacer(),
	)
}

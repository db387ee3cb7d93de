// Package export renders a scene snapshot to external formats.
package export

import (
	"math"

	"github.com/jung-kurt/gofpdf"

	"OpenSketch/internal/scene"
)

// docToMM shrinks document units to millimetres so a typical board fits
// an A4 page.
const docToMM = 3.0

// ToPDF writes the scene's shapes to a single-page PDF at path. View
// state is ignored; shapes are drawn in paint order at their document
// coordinates.
func ToPDF(path string, sc scene.Scene) error {
	p := gofpdf.New("L", "mm", "A4", "")
	p.AddPage()
	p.SetDrawColor(26, 26, 26)

	for _, s := range sc.Elements {
		p.SetLineWidth(s.Style.StrokeWidthPx() / docToMM)
		b := s.Bounds()
		x, y := b.X/docToMM, b.Y/docToMM
		w, h := b.W/docToMM, b.H/docToMM

		switch s.Type {
		case scene.KindRectangle, scene.KindImage:
			p.Rect(x, y, w, h, "D")

		case scene.KindDiamond:
			pts := []gofpdf.PointType{
				{X: x + w/2, Y: y},
				{X: x + w, Y: y + h/2},
				{X: x + w/2, Y: y + h},
				{X: x, Y: y + h/2},
			}
			p.Polygon(pts, "D")

		case scene.KindEllipse:
			p.Ellipse(x+w/2, y+h/2, w/2, h/2, 0, "D")

		case scene.KindLine, scene.KindArrow:
			if len(s.Points) < 2 {
				continue
			}
			first, last := s.Points[0], s.Points[len(s.Points)-1]
			x1, y1 := (s.X+first.X)/docToMM, (s.Y+first.Y)/docToMM
			x2, y2 := (s.X+last.X)/docToMM, (s.Y+last.Y)/docToMM
			p.Line(x1, y1, x2, y2)
			if s.Type == scene.KindArrow {
				drawArrowhead(p, x1, y1, x2, y2)
			}

		case scene.KindPencil:
			for i := 1; i < len(s.Points); i++ {
				p.Line(
					(s.X+s.Points[i-1].X)/docToMM, (s.Y+s.Points[i-1].Y)/docToMM,
					(s.X+s.Points[i].X)/docToMM, (s.Y+s.Points[i].Y)/docToMM,
				)
			}

		case scene.KindText:
			size := s.FontSize
			if size == 0 {
				size = 20
			}
			p.SetFont("Helvetica", "", size)
			p.Text(x, y+size/docToMM, s.Text)
		}
	}

	return p.OutputFileAndClose(path)
}

func drawArrowhead(p *gofpdf.Fpdf, x1, y1, x2, y2 float64) {
	angle := math.Atan2(y2-y1, x2-x1)
	length := 12.0 / docToMM
	p.Line(x2, y2,
		x2-length*math.Cos(angle-math.Pi/6),
		y2-length*math.Sin(angle-math.Pi/6))
	p.Line(x2, y2,
		x2-length*math.Cos(angle+math.Pi/6),
		y2-length*math.Sin(angle+math.Pi/6))
}

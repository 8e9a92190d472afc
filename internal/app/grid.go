package app

import (
	"context"
	"fmt"
	"image/color"

	"github.com/waozixyz/iconview/render"
)

var (
	headerBg   = color.RGBA{R: 45, G: 45, B: 52, A: 255}
	labelBg    = color.RGBA{R: 38, G: 38, B: 44, A: 255}
	cellBg     = color.RGBA{R: 28, G: 28, B: 32, A: 255}
	textFg     = color.RGBA{R: 220, G: 220, B: 220, A: 255}
	gridBorder = color.RGBA{R: 70, G: 70, B: 80, A: 255}
)

// gridLayout holds the property grid metrics in screen pixels.
type gridLayout struct {
	LabelWidth   float32
	ColumnWidth  float32
	HeaderHeight float32
	TextHeight   float32
	Pad          float32
	PreviewSize  float32
}

func newGridLayout(uiScale, previewScale float32) gridLayout {
	return gridLayout{
		LabelWidth:   160 * uiScale,
		ColumnWidth:  180 * uiScale,
		HeaderHeight: 32 * uiScale,
		TextHeight:   26 * uiScale,
		Pad:          4 * uiScale,
		PreviewSize:  64 * previewScale,
	}
}

// frameStats counts what one grid pass drew.
type frameStats struct {
	Previews     int
	Placeholders int
}

// drawGrid draws one property grid pass. Rows are compare columns, fields are
// grid rows; a field carrying an icon preset gets an inline preview under its
// value.
func (s *session) drawGrid(ctx context.Context, r render.Renderer, l gridLayout, frame uint64, scrollY float32, showPreview bool) frameStats {
	var stats frameStats
	bridge := r.Bridge()

	r.DrawCell(render.Cell{X: 0, Y: 0, W: l.LabelWidth, H: l.HeaderHeight, Text: "Field", Bg: headerBg, Fg: textFg, Border: gridBorder, BorderWidth: 1})
	for col, row := range s.project.Rows {
		name := row.Name
		if name == "" {
			name = fmt.Sprint(row.ID)
		}
		x := l.LabelWidth + float32(col)*l.ColumnWidth
		r.DrawCell(render.Cell{X: x, Y: 0, W: l.ColumnWidth, H: l.HeaderHeight, Text: name, Bg: headerBg, Fg: textFg, Border: gridBorder, BorderWidth: 1})
	}

	y := l.HeaderHeight - scrollY
	for _, field := range s.project.Fields {
		withPreview := showPreview && field.Icon != nil
		h := l.TextHeight + 2*l.Pad
		if withPreview {
			h += l.PreviewSize + l.Pad
		}

		r.DrawCell(render.Cell{X: 0, Y: y, W: l.LabelWidth, H: h, Text: field.Name, Bg: labelBg, Fg: textFg, Border: gridBorder, BorderWidth: 1})
		for col, row := range s.rows {
			x := l.LabelWidth + float32(col)*l.ColumnWidth
			value, ok := row.Field(field.Name)
			text := "-"
			if ok {
				text = fmt.Sprint(value)
			}
			r.DrawCell(render.Cell{X: x, Y: y, W: l.ColumnWidth, H: h, Bg: cellBg, Border: gridBorder, BorderWidth: 1})
			r.DrawCell(render.Cell{X: x, Y: y + l.Pad, W: l.ColumnWidth, H: l.TextHeight, Text: text, Fg: textFg})

			if !withPreview || !ok {
				continue
			}
			px, py := x+l.Pad, y+l.Pad+l.TextHeight+l.Pad
			bridge.MoveTo(px, py)
			if s.guard.Show(ctx, row, field.Name, value, col, field.Icon, frame) {
				stats.Previews++
			} else {
				r.DrawPlaceholder(px, py, l.PreviewSize, l.PreviewSize)
				stats.Placeholders++
			}
		}
		y += h
	}
	return stats
}

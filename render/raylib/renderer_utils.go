// render/raylib/renderer_utils.go
package raylib

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func toRL(c color.RGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

func scaledI32(value uint8, scale float32) int32 {
	// Round to nearest integer for pixel values
	return int32(math.Round(float64(value) * float64(scale)))
}

func clampOpposingBorders(borderA, borderB, totalSize int) (int, int) {
	if totalSize <= 0 {
		return 0, 0
	}
	if borderA < 0 {
		borderA = 0
	}
	if borderB < 0 {
		borderB = 0
	}
	if borderA+borderB > totalSize {
		borderA = totalSize / 2
		borderB = totalSize - borderA
	}
	return borderA, borderB
}

func drawBorders(x, y, w, h, top, right, bottom, left int, color rl.Color) {
	if color.A == 0 {
		return
	}
	if top > 0 {
		rl.DrawRectangle(int32(x), int32(y), int32(w), int32(top), color)
	}
	if bottom > 0 {
		rl.DrawRectangle(int32(x), int32(y+h-bottom), int32(w), int32(bottom), color)
	}
	sideY := y + top
	sideH := h - top - bottom
	if sideH > 0 {
		if left > 0 {
			rl.DrawRectangle(int32(x), int32(sideY), int32(left), int32(sideH), color)
		}
		if right > 0 {
			rl.DrawRectangle(int32(x+w-right), int32(sideY), int32(right), int32(sideH), color)
		}
	}
}

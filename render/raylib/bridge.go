package raylib

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/waozixyz/iconview/render"
)

// Bridge draws preview crops at a cursor position.
type Bridge struct {
	x, y   float32
	scale  float32
	logger *zap.Logger
}

func NewBridge(scale float32, logger *zap.Logger) *Bridge {
	if scale <= 0 {
		scale = 1
	}
	return &Bridge{scale: scale, logger: logger}
}

// MoveTo places the top left corner of the next preview.
func (b *Bridge) MoveTo(x, y float32) {
	b.x, b.y = x, y
}

func (b *Bridge) Draw(req render.DrawRequest) {
	tex, ok := req.Handle.(*Texture)
	if !ok || !tex.Valid() {
		b.logger.Warn("Bridge Draw: handle is not a live raylib texture")
		return
	}
	src, dst, ok := drawRects(req, b.x, b.y, b.scale)
	if !ok {
		return
	}
	rl.DrawTexturePro(tex.tex, src, dst, rl.NewVector2(0, 0), 0.0, rl.White)
}

// drawRects converts a draw request into raylib source and destination
// rectangles. The source is rebuilt from the normalized UV so the crop is
// always expressed relative to the base texture size.
func drawRects(req render.DrawRequest, x, y, scale float32) (src, dst rl.Rectangle, ok bool) {
	u0, v0, u1, v1 := req.UV()
	w, h := float32(req.Width), float32(req.Height)
	src = rl.NewRectangle(u0*w, v0*h, (u1-u0)*w, (v1-v0)*h)
	dw, dh := req.Size(scale)
	dst = rl.NewRectangle(x, y, dw, dh)
	ok = src.Width > 0 && src.Height > 0 && dst.Width > 0 && dst.Height > 0
	return src, dst, ok
}

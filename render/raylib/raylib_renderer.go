// render/raylib/raylib_renderer.go
package raylib

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/waozixyz/iconview/render"
)

// baseFontSize defines the default size for cell text.
const baseFontSize = 18.0

// RaylibRenderer implements render.Renderer using the Raylib graphics library.
// It owns the window and hands its texture plumbing to the preview cache.
type RaylibRenderer struct {
	config      render.WindowConfig
	scaleFactor float32
	bridge      *Bridge
	uploader    *Uploader
	logger      *zap.Logger
}

type Option func(*RaylibRenderer)

func WithLogger(logger *zap.Logger) Option {
	return func(r *RaylibRenderer) {
		r.logger = logger
	}
}

// NewRaylibRenderer creates a renderer drawing previews at the given display
// scale.
func NewRaylibRenderer(previewScale float32, opts ...Option) *RaylibRenderer {
	r := &RaylibRenderer{
		scaleFactor: 1.0,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.bridge = NewBridge(previewScale, r.logger)
	r.uploader = NewUploader(r.logger)
	return r
}

// Init initializes the Raylib window according to the provided configuration.
func (r *RaylibRenderer) Init(config render.WindowConfig) error {
	r.config = config
	r.scaleFactor = float32(math.Max(1.0, float64(config.ScaleFactor)))

	r.logger.Info("RaylibRenderer Init: initializing window",
		zap.Int("width", config.Width),
		zap.Int("height", config.Height),
		zap.String("title", config.Title),
		zap.Float32("ui_scale", r.scaleFactor))

	rl.InitWindow(int32(config.Width), int32(config.Height), config.Title)

	if config.Resizable {
		rl.SetWindowState(rl.FlagWindowResizable)
	} else {
		rl.ClearWindowState(rl.FlagWindowResizable)
		rl.SetWindowSize(config.Width, config.Height)
	}

	rl.SetTargetFPS(60)

	if !rl.IsWindowReady() {
		return fmt.Errorf("RaylibRenderer Init: rl.InitWindow failed or window is not ready")
	}
	r.logger.Debug("RaylibRenderer Init: window is ready")
	return nil
}

// ShouldClose returns true if the Raylib window has been signaled to close.
func (r *RaylibRenderer) ShouldClose() bool {
	return rl.IsWindowReady() && rl.WindowShouldClose()
}

func (r *RaylibRenderer) BeginFrame() {
	rl.BeginDrawing()
	rl.ClearBackground(toRL(r.config.DefaultBg))
}

func (r *RaylibRenderer) EndFrame() {
	rl.EndDrawing()
}

// PollEvents reports the reload shortcut and wheel movement.
func (r *RaylibRenderer) PollEvents() render.Input {
	if !rl.IsWindowReady() {
		return render.Input{}
	}
	ctrl := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl)
	return render.Input{
		ReloadRequested: ctrl && rl.IsKeyPressed(rl.KeyR),
		ScrollY:         rl.GetMouseWheelMove(),
	}
}

// DrawCell draws the cell background, its border and vertically centered text.
func (r *RaylibRenderer) DrawCell(cell render.Cell) {
	x, y := int(cell.X), int(cell.Y)
	w, h := int(cell.W), int(cell.H)
	if w <= 0 || h <= 0 {
		return
	}

	if cell.Bg.A > 0 {
		rl.DrawRectangle(int32(x), int32(y), int32(w), int32(h), toRL(cell.Bg))
	}

	bw := int(scaledI32(cell.BorderWidth, r.scaleFactor))
	top, bottom := clampOpposingBorders(bw, bw, h)
	left, right := clampOpposingBorders(bw, bw, w)
	drawBorders(x, y, w, h, top, right, bottom, left, toRL(cell.Border))

	if cell.Text == "" {
		return
	}
	fontSize := int32(math.Max(1.0, math.Round(baseFontSize*float64(r.scaleFactor))))
	pad := int32(4 * r.scaleFactor)
	textY := int32(y + (h-int(fontSize))/2)
	rl.DrawText(cell.Text, int32(x+left)+pad, textY, fontSize, toRL(cell.Fg))
}

// DrawPlaceholder crosses out an empty preview cell.
func (r *RaylibRenderer) DrawPlaceholder(x, y, w, h float32) {
	c := rl.NewColor(120, 120, 120, 255)
	rl.DrawRectangleLinesEx(rl.NewRectangle(x, y, w, h), 1, c)
	rl.DrawLineV(rl.NewVector2(x, y), rl.NewVector2(x+w, y+h), c)
	rl.DrawLineV(rl.NewVector2(x+w, y), rl.NewVector2(x, y+h), c)
}

func (r *RaylibRenderer) Bridge() render.CursorBridge { return r.bridge }
func (r *RaylibRenderer) Uploader() render.Uploader   { return r.uploader }

// Cleanup closes the window. Textures belong to the preview cache, which must
// be cleared first.
func (r *RaylibRenderer) Cleanup() {
	if n := r.uploader.Live(); n > 0 {
		r.logger.Warn("RaylibRenderer Cleanup: textures still loaded", zap.Int("count", n))
	}
	if rl.IsWindowReady() {
		r.logger.Debug("RaylibRenderer Cleanup: closing window")
		rl.CloseWindow()
	} else {
		r.logger.Debug("RaylibRenderer Cleanup: window was already closed or not initialized")
	}
}

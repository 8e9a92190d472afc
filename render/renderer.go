package render

import "image/color"

// WindowConfig holds the window settings of a rendering backend.
type WindowConfig struct {
	Width       int
	Height      int
	Title       string
	Resizable   bool
	ScaleFactor float32
	DefaultBg   color.RGBA
}

// Input is the subset of user input the property grid reacts to.
type Input struct {
	ReloadRequested bool    // Ctrl+R
	ScrollY         float32 // wheel movement this frame
}

// Cell is one rectangular property-grid cell.
type Cell struct {
	X, Y, W, H  float32
	Text        string
	Bg          color.RGBA
	Fg          color.RGBA
	Border      color.RGBA
	BorderWidth uint8
}

// CursorBridge is a Bridge drawing at an explicit cursor, the way immediate
// mode UIs place inline images.
type CursorBridge interface {
	Bridge
	MoveTo(x, y float32)
}

// Renderer defines the interface a windowing backend implements for the
// property-grid tool.
type Renderer interface {
	// Init creates the window.
	Init(config WindowConfig) error

	// ShouldClose reports whether the user asked to close the window.
	ShouldClose() bool

	BeginFrame()
	EndFrame()

	// PollEvents handles input for the current frame.
	PollEvents() Input

	// DrawCell draws a cell background, border and left-aligned text.
	DrawCell(cell Cell)

	// DrawPlaceholder marks a cell whose preview could not be displayed.
	DrawPlaceholder(x, y, w, h float32)

	// Bridge and Uploader expose the backend's texture plumbing to the cache.
	Bridge() CursorBridge
	Uploader() Uploader

	// Cleanup closes the window. Textures are owned by the cache and must be
	// released before Cleanup is called.
	Cleanup()
}

// DefaultWindowConfig returns the window used when nothing is configured.
func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:       1024,
		Height:      720,
		Title:       "Icon Preview",
		Resizable:   true,
		ScaleFactor: 1.0,
		DefaultBg:   color.RGBA{R: 30, G: 30, B: 30, A: 255},
	}
}

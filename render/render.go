// render/render.go
package render

import (
	"fmt"
	"image"
)

// Handle is a GPU-resident texture. Only the owner that uploaded it may call
// Dispose; borrowers (bridges) use it for the current frame only.
type Handle interface {
	ID() uint32
	Dispose()
}

// BaseTexture identifies one texture inside a registered texture file.
type BaseTexture struct {
	File string // texture file registry name, as referenced by a preset
	Name string // internal texture name, equal to its atlas name
}

func (b BaseTexture) String() string {
	return fmt.Sprintf("%s/%s", b.File, b.Name)
}

// TextureData is a decoded base texture ready for upload. Exactly one of
// Image or Encoded is set.
type TextureData struct {
	Texture BaseTexture
	Width   int
	Height  int
	Image   image.Image // decoded pixels (loose image files)
	Encoded []byte      // container payload handed to the backend decoder
	Format  string      // extension of Encoded, e.g. ".dds"
}

// Uploader turns decoded texture data into a GPU handle.
type Uploader interface {
	Upload(data *TextureData) (Handle, error)
}

// Rect is a crop rectangle in source pixel space.
type Rect struct {
	X0, Y0, X1, Y1 float32
}

func (r Rect) Width() float32  { return r.X1 - r.X0 }
func (r Rect) Height() float32 { return r.Y1 - r.Y0 }

// DrawRequest is everything a bridge needs to draw one preview: the borrowed
// handle, the base texture's pixel dimensions and the crop within it.
type DrawRequest struct {
	Handle Handle
	Width  int
	Height int
	Crop   Rect
}

// UV maps the crop to normalized coordinates of the base texture.
func (d DrawRequest) UV() (u0, v0, u1, v1 float32) {
	if d.Width <= 0 || d.Height <= 0 {
		return 0, 0, 0, 0
	}
	w, h := float32(d.Width), float32(d.Height)
	return d.Crop.X0 / w, d.Crop.Y0 / h, d.Crop.X1 / w, d.Crop.Y1 / h
}

// Size is the on-screen size of the crop at the given display scale.
func (d DrawRequest) Size(scale float32) (float32, float32) {
	return d.Crop.Width() * scale, d.Crop.Height() * scale
}

// Bridge issues the actual draw of a resolved preview.
type Bridge interface {
	Draw(req DrawRequest)
}

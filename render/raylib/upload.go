package raylib

import (
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/waozixyz/iconview/render"
)

// Texture is a GPU texture handle. Dispose unloads it once.
type Texture struct {
	tex      rl.Texture2D
	disposed bool
	owner    *Uploader
}

func (t *Texture) ID() uint32 { return t.tex.ID }

func (t *Texture) Valid() bool {
	return !t.disposed && t.tex.ID > 0
}

func (t *Texture) Dispose() {
	if t.disposed {
		return
	}
	t.disposed = true
	if t.tex.ID > 0 {
		rl.UnloadTexture(t.tex)
	}
	if t.owner != nil {
		t.owner.live--
	}
}

// Uploader creates GPU textures from decoded texture data.
type Uploader struct {
	logger *zap.Logger
	live   int
}

func NewUploader(logger *zap.Logger) *Uploader {
	return &Uploader{logger: logger}
}

// Live is the number of uploaded textures not yet disposed.
func (u *Uploader) Live() int { return u.live }

func (u *Uploader) Upload(data *render.TextureData) (render.Handle, error) {
	if !rl.IsWindowReady() {
		return nil, errors.New("Uploader: window not ready for texture loading")
	}

	var img *rl.Image
	switch {
	case len(data.Encoded) > 0:
		img = rl.LoadImageFromMemory(data.Format, data.Encoded, int32(len(data.Encoded)))
	case data.Image != nil:
		img = rl.NewImageFromImage(data.Image)
	default:
		return nil, fmt.Errorf("Uploader: no pixel data for %s", data.Texture)
	}
	if img == nil || img.Data == nil || img.Width <= 0 || img.Height <= 0 {
		return nil, fmt.Errorf("Uploader: failed to load image data for %s", data.Texture)
	}
	defer rl.UnloadImage(img)

	tex := rl.LoadTextureFromImage(img)
	if tex.ID == 0 {
		return nil, fmt.Errorf("Uploader: failed to load texture from image for %s", data.Texture)
	}
	u.live++
	u.logger.Debug("Uploader: texture loaded",
		zap.Stringer("texture", data.Texture),
		zap.Uint32("id", tex.ID),
		zap.Int32("width", tex.Width),
		zap.Int32("height", tex.Height))
	return &Texture{tex: tex, owner: u}, nil
}

// Package loader reads base textures from texture packs or loose image files.
package loader

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"path"
	"strings"

	platformerrors "github.com/jmgilman/go/errors"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/waozixyz/iconview/render"
	"github.com/waozixyz/iconview/tpf"
)

// imageExts are tried in order when a texture file names a directory.
var imageExts = []string{".png", ".bmp", ".tif", ".tiff", ".webp", ".jpg"}

// Files loads base textures from an fs.FS. A texture's File is looked up in
// the registry first and otherwise used as a path.
//
// Three layouts are understood:
//   - a .tpf pack holding DDS textures by name
//   - a directory holding <name>.<ext> images
//   - a single image file, whatever the texture name
type Files struct {
	fsys     fs.FS
	registry map[string]string
	logger   *zap.Logger
	packs    map[string]*tpf.Pack
}

type Option func(*Files)

func WithLogger(logger *zap.Logger) Option {
	return func(f *Files) {
		f.logger = logger
	}
}

func NewFiles(fsys fs.FS, registry map[string]string, opts ...Option) *Files {
	f := &Files{
		fsys:     fsys,
		registry: registry,
		logger:   zap.NewNop(),
		packs:    make(map[string]*tpf.Pack),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Reset forgets parsed packs.
func (f *Files) Reset() {
	f.packs = make(map[string]*tpf.Pack)
}

// Path resolves a texture file name to a path inside the file system.
func (f *Files) Path(file string) string {
	if p, ok := f.registry[file]; ok {
		return p
	}
	return file
}

func (f *Files) LoadBaseTexture(ctx context.Context, tex render.BaseTexture) (*render.TextureData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := path.Clean(f.Path(tex.File))
	info, err := fs.Stat(f.fsys, p)
	if err != nil {
		return nil, platformerrors.WithContext(
			platformerrors.Wrap(err, platformerrors.CodeNotFound, "texture file not found"),
			"path", p)
	}

	switch {
	case info.IsDir():
		return f.loadFromDir(p, tex)
	case strings.EqualFold(path.Ext(p), ".tpf"):
		return f.loadFromPack(p, tex)
	default:
		return f.decodeImage(p, tex)
	}
}

func (f *Files) loadFromPack(p string, tex render.BaseTexture) (*render.TextureData, error) {
	pack, ok := f.packs[p]
	if !ok {
		raw, err := fs.ReadFile(f.fsys, p)
		if err != nil {
			return nil, fmt.Errorf("loader: read %s: %w", p, err)
		}
		pack, err = tpf.Read(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("loader: %s: %w", p, err)
		}
		f.packs[p] = pack
		f.logger.Debug("Texture pack opened", zap.String("path", p), zap.Int("textures", len(pack.Textures)))
	}

	entry, ok := pack.Find(tex.Name)
	if !ok {
		return nil, platformerrors.WithContextMap(
			platformerrors.New(platformerrors.CodeNotFound, "texture not in pack"),
			map[string]interface{}{"path": p, "texture": tex.Name})
	}
	w, h, err := tpf.DDSDimensions(entry.Data)
	if err != nil {
		return nil, fmt.Errorf("loader: %s/%s: %w", p, tex.Name, err)
	}
	return &render.TextureData{
		Texture: tex,
		Width:   w,
		Height:  h,
		Encoded: entry.Data,
		Format:  ".dds",
	}, nil
}

func (f *Files) loadFromDir(dir string, tex render.BaseTexture) (*render.TextureData, error) {
	for _, ext := range imageExts {
		p := path.Join(dir, tex.Name+ext)
		if _, err := fs.Stat(f.fsys, p); err == nil {
			return f.decodeImage(p, tex)
		}
	}
	return nil, platformerrors.WithContextMap(
		platformerrors.New(platformerrors.CodeNotFound, "no image for texture"),
		map[string]interface{}{"dir": dir, "texture": tex.Name})
}

func (f *Files) decodeImage(p string, tex render.BaseTexture) (*render.TextureData, error) {
	file, err := f.fsys.Open(p)
	if err != nil {
		return nil, fmt.Errorf("loader: open %s: %w", p, err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("loader: decode %s: %w", p, err)
	}
	b := img.Bounds()
	f.logger.Debug("Image decoded",
		zap.String("path", p),
		zap.String("format", format),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()))
	return &render.TextureData{
		Texture: tex,
		Width:   b.Dx(),
		Height:  b.Dy(),
		Image:   img,
		Format:  "." + format,
	}, nil
}

// Package atlas describes texture atlases: base textures split into named
// rectangular sub-images.
package atlas

import (
	"sort"
	"strings"

	"github.com/waozixyz/iconview/render"
)

// SubImage is a named crop of exactly one atlas. Coordinates are in source
// pixels and are parsed once when the layout is read.
type SubImage struct {
	Name   string
	X      float32
	Y      float32
	Width  float32
	Height float32
	Atlas  string // owner atlas (base texture) name
}

// Rect returns the crop as (x0, y0, x1, y1).
func (s SubImage) Rect() render.Rect {
	return render.Rect{X0: s.X, Y0: s.Y, X1: s.X + s.Width, Y1: s.Y + s.Height}
}

// BaseName is the sub-image name without its image file extension.
func (s SubImage) BaseName() string {
	return strings.TrimSuffix(s.Name, ".png")
}

// Index maps a base-texture name to its ordered sub-images.
type Index interface {
	Lookup(name string) ([]SubImage, bool)
}

// MemoryIndex is an Index built once per project load.
type MemoryIndex struct {
	atlases map[string][]SubImage
}

func NewIndex() *MemoryIndex {
	return &MemoryIndex{atlases: make(map[string][]SubImage)}
}

// Add appends sub-images to the named atlas, keeping listing order. The owner
// of every added sub-image is set to name.
func (x *MemoryIndex) Add(name string, subs []SubImage) {
	for _, s := range subs {
		s.Atlas = name
		x.atlases[name] = append(x.atlases[name], s)
	}
	if _, ok := x.atlases[name]; !ok {
		x.atlases[name] = nil
	}
}

func (x *MemoryIndex) Lookup(name string) ([]SubImage, bool) {
	subs, ok := x.atlases[name]
	return subs, ok
}

// Names lists the indexed atlases, sorted.
func (x *MemoryIndex) Names() []string {
	names := make([]string, 0, len(x.atlases))
	for name := range x.atlases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len is the number of indexed atlases.
func (x *MemoryIndex) Len() int {
	return len(x.atlases)
}

package atlas

import (
	"encoding/xml"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strconv"
	"strings"
)

type xmlLayout struct {
	XMLName   xml.Name        `xml:"TextureAtlas"`
	ImagePath string          `xml:"imagePath,attr"`
	Sub       []xmlSubTexture `xml:"SubTexture"`
}

type xmlSubTexture struct {
	Name   string `xml:"name,attr"`
	X      string `xml:"x,attr"`
	Y      string `xml:"y,attr"`
	Width  string `xml:"width,attr"`
	Height string `xml:"height,attr"`
}

// ParseLayout reads a Shoebox texture atlas layout. The atlas name is the
// layout's imagePath without directory and extension.
func ParseLayout(r io.Reader) (string, []SubImage, error) {
	var doc xmlLayout
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return "", nil, fmt.Errorf("atlas layout: failed to decode: %w", err)
	}
	if doc.ImagePath == "" {
		return "", nil, fmt.Errorf("atlas layout: missing imagePath")
	}
	name := path.Base(strings.ReplaceAll(doc.ImagePath, "\\", "/"))
	name = strings.TrimSuffix(name, path.Ext(name))

	subs := make([]SubImage, 0, len(doc.Sub))
	for i, st := range doc.Sub {
		var coords [4]float32
		for j, raw := range [4]string{st.X, st.Y, st.Width, st.Height} {
			v, err := strconv.ParseFloat(strings.TrimSpace(raw), 32)
			if err != nil {
				return "", nil, fmt.Errorf("atlas layout: sub-texture %d (%q) of %s: bad coordinate %q: %w",
					i, st.Name, name, raw, err)
			}
			coords[j] = float32(v)
		}
		subs = append(subs, SubImage{
			Name:   st.Name,
			X:      coords[0],
			Y:      coords[1],
			Width:  coords[2],
			Height: coords[3],
			Atlas:  name,
		})
	}
	return name, subs, nil
}

// LoadLayouts builds an index from every layout file matching the glob
// patterns, in pattern then lexical order.
func LoadLayouts(fsys fs.FS, patterns ...string) (*MemoryIndex, error) {
	index := NewIndex()
	for _, pattern := range patterns {
		matches, err := fs.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("atlas: bad layout pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			if err := loadLayoutFile(fsys, match, index); err != nil {
				return nil, err
			}
		}
	}
	return index, nil
}

func loadLayoutFile(fsys fs.FS, name string, index *MemoryIndex) error {
	f, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("atlas: cannot open layout %s: %w", name, err)
	}
	defer f.Close()

	atlasName, subs, err := ParseLayout(f)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	index.Add(atlasName, subs)
	return nil
}

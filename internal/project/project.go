// Package project reads the project file describing texture files, atlas
// layouts, icon presets and the rows shown in the property grid.
package project

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"

	"github.com/waozixyz/iconview/atlas"
	"github.com/waozixyz/iconview/iconconfig"
)

// TextureFile registers a texture pack or image directory under a name
// presets refer to.
type TextureFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Field is a grid field; Icon attaches a preview preset to it.
type Field struct {
	Name string                 `json:"name"`
	Icon *iconconfig.IconConfig `json:"icon,omitempty"`
}

// Row is one record shown as a grid column.
type Row struct {
	ID     int64          `json:"id"`
	Name   string         `json:"name"`
	Fields map[string]any `json:"fields"`
}

// Project is the parsed project file.
type Project struct {
	// Root is the base directory of every relative path. It defaults to the
	// directory of the project file.
	Root              string              `json:"root,omitempty"`
	Textures          []TextureFile       `json:"textures"`
	Layouts           []string            `json:"layouts"`
	ConfigurationFile string              `json:"configurationFile,omitempty"`
	Presets           []iconconfig.Preset `json:"configurations"`
	Fields            []Field             `json:"fields"`
	Rows              []Row               `json:"rows"`
}

func useNumber(d *json.Decoder) *json.Decoder {
	d.UseNumber()
	return d
}

// Parse reads a project document, YAML or JSON. Numeric row values are kept
// as json.Number so large ids survive untouched.
func Parse(data []byte) (*Project, error) {
	var p Project
	if err := yaml.Unmarshal(data, &p, useNumber); err != nil {
		return nil, fmt.Errorf("project: failed to parse: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads the project file at path.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("project: cannot read %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	switch {
	case p.Root == "":
		p.Root = dir
	case !filepath.IsAbs(p.Root):
		p.Root = filepath.Join(dir, p.Root)
	}
	return p, nil
}

func (p *Project) validate() error {
	textures := make(map[string]bool, len(p.Textures))
	for i, t := range p.Textures {
		if t.Name == "" || t.Path == "" {
			return fmt.Errorf("project: texture file %d needs a name and a path", i)
		}
		if textures[t.Name] {
			return fmt.Errorf("project: texture file %q registered twice", t.Name)
		}
		textures[t.Name] = true
	}
	for i, f := range p.Fields {
		if f.Name == "" {
			return fmt.Errorf("project: field %d has no name", i)
		}
	}
	rows := make(map[int64]bool, len(p.Rows))
	for _, r := range p.Rows {
		if rows[r.ID] {
			return fmt.Errorf("project: row id %d used twice", r.ID)
		}
		rows[r.ID] = true
	}
	return nil
}

// FS is the file system rooted at the project root.
func (p *Project) FS() fs.FS {
	root := p.Root
	if root == "" {
		root = "."
	}
	return os.DirFS(root)
}

// Registry maps texture file names to slash separated paths below Root.
func (p *Project) Registry() map[string]string {
	reg := make(map[string]string, len(p.Textures))
	for _, t := range p.Textures {
		reg[t.Name] = filepath.ToSlash(t.Path)
	}
	return reg
}

// Catalog builds the preset catalog from the inline presets followed by
// those of ConfigurationFile.
func (p *Project) Catalog() (*iconconfig.Catalog, error) {
	presets := append([]iconconfig.Preset(nil), p.Presets...)
	if p.ConfigurationFile != "" {
		path := p.ConfigurationFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(p.Root, path)
		}
		file, err := iconconfig.LoadCatalog(path)
		if err != nil {
			return nil, err
		}
		presets = append(presets, file.Presets...)
	}
	return iconconfig.NewCatalog(presets), nil
}

// Index loads every atlas layout matching the project's patterns from fsys.
func (p *Project) Index(fsys fs.FS) (*atlas.MemoryIndex, error) {
	return atlas.LoadLayouts(fsys, p.Layouts...)
}

// GridRows returns the rows in file order.
func (p *Project) GridRows() []iconconfig.Row {
	out := make([]iconconfig.Row, len(p.Rows))
	for i, r := range p.Rows {
		out[i] = iconconfig.MapRow{RowID: r.ID, Fields: r.Fields}
	}
	return out
}

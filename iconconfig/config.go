// Package iconconfig holds the project's icon-configuration presets and the
// rules deciding which atlas sub-image a field value shows.
package iconconfig

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// IconConfig is attached to a field and names the preset to preview it with.
// A nil *IconConfig means the field has no icon configuration.
type IconConfig struct {
	TargetPreset string `json:"targetConfiguration"`
}

// Preset sentinels selecting the game-specific prefix rules.
const (
	PrefixWeapon = "AC6-Weapon"
	PrefixArmor  = "AC6-Armor"
)

// Preset is one icon-configuration entry of the project.
type Preset struct {
	Name             string   `json:"name"`
	SourceFile       string   `json:"file"`
	InternalTextures []string `json:"internalFiles"`
	SubTexturePrefix string   `json:"subTexturePrefix"`
}

// Catalog is the read-only list of presets, loaded once per session.
type Catalog struct {
	Presets []Preset `json:"configurations"`

	byName map[string]int
}

// NewCatalog indexes presets by name. On duplicate names the first wins.
func NewCatalog(presets []Preset) *Catalog {
	c := &Catalog{Presets: presets}
	c.index()
	return c
}

func (c *Catalog) index() {
	c.byName = make(map[string]int, len(c.Presets))
	for i, p := range c.Presets {
		if _, dup := c.byName[p.Name]; !dup {
			c.byName[p.Name] = i
		}
	}
}

// Find returns the preset named by cfg. A nil catalog, a nil cfg and an
// unknown name all report CodeConfigurationAbsent.
func (c *Catalog) Find(cfg *IconConfig) (*Preset, error) {
	if cfg == nil {
		return nil, configurationAbsent("")
	}
	if c == nil {
		return nil, configurationAbsent(cfg.TargetPreset)
	}
	i, ok := c.byName[cfg.TargetPreset]
	if !ok {
		return nil, configurationAbsent(cfg.TargetPreset)
	}
	return &c.Presets[i], nil
}

// Len is the number of presets.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Presets)
}

// ParseCatalog reads an icon-configuration document, JSON or YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("icon configuration: failed to parse: %w", err)
	}
	for i, p := range c.Presets {
		if p.Name == "" {
			return nil, fmt.Errorf("icon configuration: preset %d has no name", i)
		}
	}
	c.index()
	return &c, nil
}

// LoadCatalog reads an icon-configuration file from disk.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("icon configuration: cannot read %s: %w", path, err)
	}
	return ParseCatalog(data)
}

package iconconfig

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	platformerrors "github.com/jmgilman/go/errors"
	"go.uber.org/zap"

	"github.com/waozixyz/iconview/atlas"
)

var (
	weaponPrefixes = []string{"WP_A_", "WP_R_", "WP_L_"}

	// Evaluated in order; every true flag overwrites the previous choice.
	armorFlags = []struct {
		field  string
		prefix string
	}{
		{field: "headEquip", prefix: "HD_M_"},
		{field: "bodyEquip", prefix: "BD_M_"},
		{field: "armEquip", prefix: "AM_M_"},
		{field: "legEquip", prefix: "LG_M_"},
	}
)

type idTableKey struct {
	atlas  string
	prefix string
}

// Resolver decides which sub-image a field value shows under a preset.
// Id tables are built once per (atlas, prefix) and kept until Reset.
type Resolver struct {
	index  atlas.Index
	ids    map[idTableKey]map[int64]atlas.SubImage
	logger *zap.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverLogger sets the logger used for debug output.
func WithResolverLogger(logger *zap.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func NewResolver(index atlas.Index, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		index:  index,
		ids:    make(map[idTableKey]map[int64]atlas.SubImage),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the sub-image for value. The preset's internal textures are
// tried in order; within each, every applicable prefix is tried in priority
// order and the first numeric match wins.
func (r *Resolver) Resolve(row Row, field string, value any, preset *Preset) (atlas.SubImage, error) {
	if preset == nil {
		return atlas.SubImage{}, configurationAbsent("")
	}
	if row == nil {
		return atlas.SubImage{}, noMatch("no row", map[string]interface{}{"field": field})
	}
	if _, ok := row.Field(field); !ok {
		return atlas.SubImage{}, noMatch("row has no such field", map[string]interface{}{
			"row":   fmt.Sprint(row.ID()),
			"field": field,
		})
	}

	id, err := strconv.ParseInt(fmt.Sprint(value), 10, 64)
	if err != nil {
		return atlas.SubImage{}, noMatch("field value is not a numeric id", map[string]interface{}{
			"field": field,
			"value": fmt.Sprint(value),
		})
	}

	prefixes, err := prefixesFor(row, preset)
	if err != nil {
		return atlas.SubImage{}, err
	}

	indexed := false
	for _, texture := range preset.InternalTextures {
		subs, ok := r.index.Lookup(texture)
		if !ok {
			continue
		}
		indexed = true
		for _, prefix := range prefixes {
			if sub, ok := r.table(texture, prefix, subs)[id]; ok {
				return sub, nil
			}
		}
	}

	if !indexed {
		return atlas.SubImage{}, platformerrors.WithContextMap(
			platformerrors.New(CodeAtlasMissing, "base texture not indexed"),
			map[string]interface{}{
				"preset":   preset.Name,
				"textures": strings.Join(preset.InternalTextures, ","),
			})
	}
	return atlas.SubImage{}, noMatch("no sub-image matches", map[string]interface{}{
		"preset":   preset.Name,
		"id":       id,
		"prefixes": strings.Join(prefixes, ","),
	})
}

// Reset drops the memoized id tables.
func (r *Resolver) Reset() {
	r.ids = make(map[idTableKey]map[int64]atlas.SubImage)
}

// table maps numeric ids to sub-images named <prefix><digits>. The first
// sub-image in listing order wins a duplicated id.
func (r *Resolver) table(texture, prefix string, subs []atlas.SubImage) map[int64]atlas.SubImage {
	key := idTableKey{atlas: texture, prefix: prefix}
	if t, ok := r.ids[key]; ok {
		return t
	}

	pattern := regexp.MustCompile(regexp.QuoteMeta(prefix) + `([0-9]+)`)
	t := make(map[int64]atlas.SubImage)
	for _, sub := range subs {
		m := pattern.FindStringSubmatch(sub.BaseName())
		if m == nil {
			continue
		}
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		if _, dup := t[id]; !dup {
			t[id] = sub
		}
	}
	r.ids[key] = t
	r.logger.Debug("built sub-image id table",
		zap.String("atlas", texture),
		zap.String("prefix", prefix),
		zap.Int("entries", len(t)),
	)
	return t
}

func prefixesFor(row Row, preset *Preset) ([]string, error) {
	switch preset.SubTexturePrefix {
	case PrefixWeapon:
		return weaponPrefixes, nil
	case PrefixArmor:
		prefix := ""
		for _, flag := range armorFlags {
			if v, ok := row.Field(flag.field); ok && flagSet(v) {
				prefix = flag.prefix
			}
		}
		if prefix == "" {
			return nil, noMatch("no equip slot flag set", map[string]interface{}{
				"preset": preset.Name,
				"row":    fmt.Sprint(row.ID()),
			})
		}
		return []string{prefix}, nil
	default:
		return []string{preset.SubTexturePrefix}, nil
	}
}

func flagSet(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "1" || strings.EqualFold(b, "true")
	default:
		return fmt.Sprint(v) == "1"
	}
}

// Package texcache keeps GPU textures for icon previews in three tiers: per
// slot, per identity value and per base texture load.
package texcache

import (
	"context"

	platformerrors "github.com/jmgilman/go/errors"
	"go.uber.org/zap"

	"github.com/waozixyz/iconview/atlas"
	"github.com/waozixyz/iconview/iconconfig"
	"github.com/waozixyz/iconview/render"
)

// Resolver maps a field value to a sub-image.
type Resolver interface {
	Resolve(row iconconfig.Row, field string, value any, preset *iconconfig.Preset) (atlas.SubImage, error)
}

// Loader reads and decodes a base texture.
type Loader interface {
	LoadBaseTexture(ctx context.Context, texture render.BaseTexture) (*render.TextureData, error)
}

type valueEntry struct {
	value  any
	preset string
	index  int
}

type decodeResult struct {
	data *render.TextureData
	err  error
}

// Cache is the texture resource cache. A resource is disposed exactly once,
// when no slot or identity references it any longer or on Clear.
//
// A Cache is confined to the render thread.
type Cache struct {
	resolver Resolver
	loader   Loader
	uploader render.Uploader
	logger   *zap.Logger

	resources arena
	slots     map[SlotKey]int
	values    map[IdentityKey]valueEntry
	decoded   map[render.BaseTexture]decodeResult
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the cache logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// New creates an empty cache.
func New(resolver Resolver, loader Loader, uploader render.Uploader, opts ...Option) *Cache {
	c := &Cache{
		resolver: resolver,
		loader:   loader,
		uploader: uploader,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.reset()
	return c
}

func (c *Cache) reset() {
	c.slots = make(map[SlotKey]int)
	c.values = make(map[IdentityKey]valueEntry)
	c.decoded = make(map[render.BaseTexture]decodeResult)
}

// Get returns the resource for req, loading it when no tier can serve it.
// Resolution always happens before any load.
func (c *Cache) Get(ctx context.Context, req Request) (*Resource, error) {
	if req.Preset == nil {
		lookupsTotal.WithLabelValues("miss").Inc()
		return nil, platformerrors.New(iconconfig.CodeConfigurationAbsent, "no preset for field")
	}
	if !req.Identity.Valid() {
		lookupsTotal.WithLabelValues("miss").Inc()
		return nil, platformerrors.WithContext(
			platformerrors.New(platformerrors.CodeInvalidInput, "row identity is not comparable"),
			"field", req.Identity.Field)
	}

	key := ValueKey{Identity: req.Identity, Value: req.Value}
	preset := req.Preset.Name

	if idx, ok := c.slots[req.Slot]; ok {
		if res := c.resources.get(idx); res != nil && res.source.matches(key, preset) {
			lookupsTotal.WithLabelValues("slot").Inc()
			return res, nil
		}
	}

	if entry, ok := c.values[req.Identity]; ok && entry.preset == preset && sameValue(entry.value, req.Value) {
		if res := c.resources.get(entry.index); res != nil {
			c.bindSlot(req.Slot, entry.index)
			lookupsTotal.WithLabelValues("value").Inc()
			return res, nil
		}
	}

	sub, err := c.resolver.Resolve(req.Row, req.Field, req.Value, req.Preset)
	if err != nil {
		lookupsTotal.WithLabelValues("miss").Inc()
		return nil, err
	}
	texture := render.BaseTexture{File: req.Preset.SourceFile, Name: sub.Atlas}

	if idx, ok := c.slots[req.Slot]; ok {
		res := c.resources.get(idx)
		if res != nil && res.texture == texture && res.exclusiveTo(req.Slot, req.Identity) {
			res.crop = sub
			res.source = source{value: key, preset: preset}
			c.bindValue(req.Identity, req.Value, preset, idx)
			lookupsTotal.WithLabelValues("swap").Inc()
			return res, nil
		}
	}

	data, err := c.decode(ctx, texture)
	if err != nil {
		lookupsTotal.WithLabelValues("miss").Inc()
		return nil, err
	}
	handle, err := c.uploader.Upload(data)
	if err != nil {
		lookupsTotal.WithLabelValues("miss").Inc()
		c.logger.Warn("Texture upload failed", zap.Stringer("texture", texture), zap.Error(err))
		return nil, loadFailure(err, texture, "upload")
	}

	res := &Resource{
		texture: texture,
		handle:  handle,
		width:   data.Width,
		height:  data.Height,
		crop:    sub,
		source:  source{value: key, preset: preset},
	}
	idx := c.resources.insert(res)
	liveResources.Inc()
	c.bindSlot(req.Slot, idx)
	c.bindValue(req.Identity, req.Value, preset, idx)
	lookupsTotal.WithLabelValues("cold").Inc()
	c.logger.Debug("Texture uploaded",
		zap.Stringer("texture", texture),
		zap.String("sub_image", sub.Name),
		zap.Uint32("handle", handle.ID()))
	return res, nil
}

// decode calls the loader at most once per base texture until Clear.
// Failures are remembered too.
func (c *Cache) decode(ctx context.Context, texture render.BaseTexture) (*render.TextureData, error) {
	if cached, ok := c.decoded[texture]; ok {
		return cached.data, cached.err
	}
	data, err := c.loader.LoadBaseTexture(ctx, texture)
	if err == nil && data == nil {
		err = platformerrors.New(CodeLoadFailure, "loader returned no data")
	}
	if err != nil {
		if platformerrors.GetCode(err) != CodeLoadFailure {
			err = loadFailure(err, texture, "load")
		}
		loadsTotal.WithLabelValues("error").Inc()
		c.logger.Warn("Base texture load failed", zap.Stringer("texture", texture), zap.Error(err))
		c.decoded[texture] = decodeResult{err: err}
		return nil, err
	}
	loadsTotal.WithLabelValues("ok").Inc()
	c.decoded[texture] = decodeResult{data: data}
	return data, nil
}

func (c *Cache) bindSlot(slot SlotKey, idx int) {
	ref := slotRef(slot)
	prev, had := c.slots[slot]
	if had && prev == idx {
		return
	}
	c.resources.retain(idx, ref)
	c.slots[slot] = idx
	if had {
		c.release(prev, ref)
	}
}

func (c *Cache) bindValue(identity IdentityKey, value any, preset string, idx int) {
	ref := valueRef(identity)
	prev, had := c.values[identity]
	c.values[identity] = valueEntry{value: value, preset: preset, index: idx}
	if had && prev.index == idx {
		return
	}
	c.resources.retain(idx, ref)
	if had {
		c.release(prev.index, ref)
	}
}

func (c *Cache) release(idx int, ref tierRef) {
	if res := c.resources.release(idx, ref); res != nil {
		c.dispose(res)
	}
}

func (c *Cache) dispose(res *Resource) {
	if res.disposed {
		return
	}
	res.disposed = true
	res.refs = nil
	if res.handle != nil {
		res.handle.Dispose()
	}
	disposalsTotal.Inc()
	liveResources.Dec()
	c.logger.Debug("Texture disposed", zap.Stringer("texture", res.texture))
}

// Peek returns the live resource last shown for identity, or failing that
// the one currently in slot. It never loads.
func (c *Cache) Peek(slot SlotKey, identity IdentityKey) (*Resource, bool) {
	if identity.Valid() {
		if entry, ok := c.values[identity]; ok {
			if res := c.resources.get(entry.index); res.Alive() {
				return res, true
			}
		}
	}
	if idx, ok := c.slots[slot]; ok {
		if res := c.resources.get(idx); res.Alive() {
			return res, true
		}
	}
	return nil, false
}

// Clear disposes every resource and forgets every tier, including remembered
// load failures. It returns the number of resources disposed.
func (c *Cache) Clear() int {
	drained := c.resources.drain()
	for _, res := range drained {
		c.dispose(res)
	}
	c.reset()
	c.logger.Info("Texture cache cleared", zap.Int("disposed", len(drained)))
	return len(drained)
}

// Len is the number of live resources.
func (c *Cache) Len() int {
	return c.resources.live
}

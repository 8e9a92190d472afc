// Package preview draws inline icon previews for property grid cells without
// flicker.
package preview

import (
	"context"
	"fmt"

	platformerrors "github.com/jmgilman/go/errors"
	"go.uber.org/zap"

	"github.com/waozixyz/iconview/iconconfig"
	"github.com/waozixyz/iconview/render"
	"github.com/waozixyz/iconview/texcache"
)

// Store is the texture cache the guard sits in front of.
type Store interface {
	Get(ctx context.Context, req texcache.Request) (*texcache.Resource, error)
	Peek(slot texcache.SlotKey, identity texcache.IdentityKey) (*texcache.Resource, bool)
	Clear() int
}

// Catalog finds the preset named by an icon configuration.
type Catalog interface {
	Find(cfg *iconconfig.IconConfig) (*iconconfig.Preset, error)
}

type frameResult struct {
	frame     uint64
	res       *texcache.Resource
	displayed bool
}

// Guard coalesces lookups per slot and frame and falls back to the last
// good resource when a lookup fails.
type Guard struct {
	store   Store
	catalog Catalog
	bridge  render.Bridge
	logger  *zap.Logger

	frame      uint64
	results    map[texcache.SlotKey]frameResult
	inProgress map[texcache.IdentityKey]struct{}
}

// Option configures a Guard.
type Option func(*Guard)

func WithLogger(logger *zap.Logger) Option {
	return func(g *Guard) {
		g.logger = logger
	}
}

func New(store Store, catalog Catalog, bridge render.Bridge, opts ...Option) *Guard {
	g := &Guard{
		store:      store,
		catalog:    catalog,
		bridge:     bridge,
		logger:     zap.NewNop(),
		results:    make(map[texcache.SlotKey]frameResult),
		inProgress: make(map[texcache.IdentityKey]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// BeginFrame advances the frame counter and returns the new frame.
func (g *Guard) BeginFrame() uint64 {
	g.frame++
	return g.frame
}

// Frame is the current frame counter.
func (g *Guard) Frame() uint64 {
	return g.frame
}

// Show draws the preview for one cell and reports whether anything was drawn.
// A false result means the caller should draw a placeholder.
func (g *Guard) Show(ctx context.Context, row iconconfig.Row, field string, value any, column int, cfg *iconconfig.IconConfig, frame uint64) bool {
	slot := texcache.SlotKey{Field: field, Column: column}
	identity := texcache.IdentityKey{Field: field}
	if row != nil {
		identity.Row = row.ID()
	}

	if prev, ok := g.results[slot]; ok && prev.frame == frame && (!prev.displayed || prev.res.Alive()) {
		showsTotal.WithLabelValues("replay").Inc()
		if prev.displayed {
			g.bridge.Draw(prev.res.DrawRequest())
		}
		return prev.displayed
	}

	res, displayed := g.lookup(ctx, slot, identity, row, value, cfg)
	g.results[slot] = frameResult{frame: frame, res: res, displayed: displayed}
	if displayed {
		g.bridge.Draw(res.DrawRequest())
	}
	return displayed
}

func (g *Guard) lookup(ctx context.Context, slot texcache.SlotKey, identity texcache.IdentityKey, row iconconfig.Row, value any, cfg *iconconfig.IconConfig) (*texcache.Resource, bool) {
	if !identity.Valid() {
		return g.fallback(slot, identity, platformerrors.New(platformerrors.CodeInvalidInput, "row identity is not comparable"))
	}
	if _, busy := g.inProgress[identity]; busy {
		reentrantTotal.Inc()
		return g.fallback(slot, identity, nil)
	}

	preset, err := g.catalog.Find(cfg)
	if err != nil {
		return g.fallback(slot, identity, err)
	}

	g.inProgress[identity] = struct{}{}
	res, err := g.store.Get(ctx, texcache.Request{
		Slot:     slot,
		Identity: identity,
		Value:    value,
		Preset:   preset,
		Row:      row,
		Field:    identity.Field,
	})
	delete(g.inProgress, identity)
	if err != nil {
		return g.fallback(slot, identity, err)
	}

	showsTotal.WithLabelValues("resolved").Inc()
	return res, true
}

// fallback serves the last good resource for identity, then slot. A nil err
// means the identity was already being resolved.
func (g *Guard) fallback(slot texcache.SlotKey, identity texcache.IdentityKey, err error) (*texcache.Resource, bool) {
	reason := "in_progress"
	if err != nil {
		reason = string(platformerrors.GetCode(err))
	}
	res, ok := g.store.Peek(slot, identity)
	if !ok {
		showsTotal.WithLabelValues("none").Inc()
		fallbacksTotal.WithLabelValues(reason, "false").Inc()
		g.logger.Debug("Preview unavailable",
			zap.String("field", slot.Field),
			zap.Int("column", slot.Column),
			zap.String("row", fmt.Sprint(identity.Row)),
			zap.String("reason", reason),
			zap.Error(err))
		return nil, false
	}
	showsTotal.WithLabelValues("fallback").Inc()
	fallbacksTotal.WithLabelValues(reason, "true").Inc()
	return res, true
}

// ClearAll disposes every cached resource and resets frame state. Call it on
// project switch and teardown.
func (g *Guard) ClearAll() {
	n := g.store.Clear()
	g.results = make(map[texcache.SlotKey]frameResult)
	g.inProgress = make(map[texcache.IdentityKey]struct{})
	g.frame = 0
	g.logger.Info("Preview state cleared", zap.Int("disposed", n))
}

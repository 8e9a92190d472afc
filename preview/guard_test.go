package preview

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/waozixyz/iconview/atlas"
	"github.com/waozixyz/iconview/iconconfig"
	"github.com/waozixyz/iconview/render"
	"github.com/waozixyz/iconview/texcache"
)

type mockBridge struct {
	mock.Mock
}

func (m *mockBridge) Draw(req render.DrawRequest) {
	m.Called(req)
}

func (m *mockBridge) drawn(i int) render.DrawRequest {
	return m.Calls[i].Arguments.Get(0).(render.DrawRequest)
}

type handle struct {
	id       uint32
	disposed int
}

func (h *handle) ID() uint32 { return h.id }
func (h *handle) Dispose()   { h.disposed++ }

type uploader struct {
	handles []*handle
}

func (u *uploader) Upload(*render.TextureData) (render.Handle, error) {
	h := &handle{id: uint32(len(u.handles) + 1)}
	u.handles = append(u.handles, h)
	return h, nil
}

type loader struct {
	calls  int
	err    error
	during func()
}

func (l *loader) LoadBaseTexture(_ context.Context, tex render.BaseTexture) (*render.TextureData, error) {
	l.calls++
	if l.during != nil {
		l.during()
	}
	if l.err != nil {
		return nil, l.err
	}
	return &render.TextureData{Texture: tex, Width: 256, Height: 256}, nil
}

// countingStore records how often the guard reaches the cache.
type countingStore struct {
	*texcache.Cache
	gets int
}

func (s *countingStore) Get(ctx context.Context, req texcache.Request) (*texcache.Resource, error) {
	s.gets++
	return s.Cache.Get(ctx, req)
}

type harness struct {
	guard    *Guard
	store    *countingStore
	loader   *loader
	uploader *uploader
	bridge   *mockBridge
	config   *iconconfig.IconConfig
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	index := atlas.NewIndex()
	index.Add("SB_Icon_01", []atlas.SubImage{
		{Name: "ICON_001.png", X: 10, Y: 20, Width: 32, Height: 32},
		{Name: "ICON_002.png", X: 42, Y: 20, Width: 32, Height: 32},
	})
	catalog := iconconfig.NewCatalog([]iconconfig.Preset{{
		Name:             "common",
		SourceFile:       "menu/01_common",
		InternalTextures: []string{"SB_Icon_01"},
		SubTexturePrefix: "ICON_",
	}})

	h := &harness{
		loader:   &loader{},
		uploader: &uploader{},
		bridge:   &mockBridge{},
		config:   &iconconfig.IconConfig{TargetPreset: "common"},
	}
	h.bridge.On("Draw", mock.Anything).Return()

	logger := zaptest.NewLogger(t)
	cache := texcache.New(iconconfig.NewResolver(index), h.loader, h.uploader, texcache.WithLogger(logger))
	h.store = &countingStore{Cache: cache}
	h.guard = New(h.store, catalog, h.bridge, WithLogger(logger))
	return h
}

func newRow(id int, icon any) iconconfig.Row {
	return iconconfig.MapRow{RowID: id, Fields: map[string]any{"iconId": icon}}
}

func (h *harness) show(r iconconfig.Row, column int, frame uint64) bool {
	v, _ := r.Field("iconId")
	return h.guard.Show(context.Background(), r, "iconId", v, column, h.config, frame)
}

func TestShowReplaysWithinFrame(t *testing.T) {
	h := newHarness(t)
	frame := h.guard.BeginFrame()

	require.True(t, h.show(newRow(1, 1), 0, frame))
	require.True(t, h.show(newRow(1, 1), 0, frame))

	assert.Equal(t, 1, h.store.gets)
	assert.Equal(t, 1, h.loader.calls)
	h.bridge.AssertNumberOfCalls(t, "Draw", 2)
	assert.Equal(t, h.bridge.drawn(0), h.bridge.drawn(1))

	u0, v0, u1, v1 := h.bridge.drawn(0).UV()
	assert.InDelta(t, 10.0/256, u0, 1e-6)
	assert.InDelta(t, 20.0/256, v0, 1e-6)
	assert.InDelta(t, 42.0/256, u1, 1e-6)
	assert.InDelta(t, 52.0/256, v1, 1e-6)
}

func TestShowRecomputesWhenReplayedResourceIsDisposed(t *testing.T) {
	h := newHarness(t)
	frame := h.guard.BeginFrame()

	require.True(t, h.show(newRow(1, 1), 0, frame))
	assert.Equal(t, 1, h.store.Clear())
	require.Len(t, h.uploader.handles, 1)
	assert.Equal(t, 1, h.uploader.handles[0].disposed)

	require.True(t, h.show(newRow(1, 1), 0, frame))
	assert.Equal(t, 2, h.store.gets)
	assert.Equal(t, 2, h.loader.calls)
	require.Len(t, h.uploader.handles, 2)
	assert.Equal(t, 0, h.uploader.handles[1].disposed)
	h.bridge.AssertNumberOfCalls(t, "Draw", 2)

	// the fresh result is replayed for the rest of the frame
	require.True(t, h.show(newRow(1, 1), 0, frame))
	assert.Equal(t, 2, h.store.gets)
}

func TestShowUnchangedValueSkipsLoader(t *testing.T) {
	h := newHarness(t)

	for i := 0; i < 5; i++ {
		require.True(t, h.show(newRow(1, 1), 0, h.guard.BeginFrame()))
	}
	// the same identity shown in another column
	require.True(t, h.show(newRow(1, 1), 1, h.guard.Frame()))

	assert.Equal(t, 1, h.loader.calls)
	assert.Len(t, h.uploader.handles, 1)
	assert.Equal(t, uint64(5), h.guard.Frame())
}

func TestShowFallsBackToLastGood(t *testing.T) {
	h := newHarness(t)

	require.True(t, h.show(newRow(1, 1), 0, h.guard.BeginFrame()))
	good := h.bridge.drawn(0)

	// no sub-image for id 999
	require.True(t, h.show(newRow(1, 999), 0, h.guard.BeginFrame()))
	assert.Equal(t, good, h.bridge.drawn(1))

	// configuration removed
	h.config = nil
	require.True(t, h.show(newRow(1, 1), 0, h.guard.BeginFrame()))

	// unknown preset
	h.config = &iconconfig.IconConfig{TargetPreset: "missing"}
	require.True(t, h.show(newRow(1, 1), 0, h.guard.BeginFrame()))

	h.bridge.AssertNumberOfCalls(t, "Draw", 4)
	assert.Equal(t, 1, h.loader.calls)
}

func TestShowWithoutHistoryReportsNotDisplayed(t *testing.T) {
	h := newHarness(t)
	frame := h.guard.BeginFrame()

	assert.False(t, h.show(newRow(1, 999), 0, frame))
	assert.False(t, h.show(newRow(1, 999), 0, frame))
	assert.Equal(t, 1, h.store.gets)

	h.config = nil
	assert.False(t, h.show(newRow(2, 1), 1, frame))
	h.bridge.AssertNotCalled(t, "Draw", mock.Anything)
}

func TestShowLoadFailureFallsBack(t *testing.T) {
	h := newHarness(t)
	h.loader.err = errors.New("archive unreadable")

	assert.False(t, h.show(newRow(1, 1), 0, h.guard.BeginFrame()))
	assert.False(t, h.show(newRow(1, 1), 0, h.guard.BeginFrame()))
	assert.Equal(t, 1, h.loader.calls)
}

func TestShowReentrantIdentityShortCircuits(t *testing.T) {
	h := newHarness(t)
	frame := h.guard.BeginFrame()

	var inner *bool
	h.loader.during = func() {
		// another widget probes the same identity from a different slot
		// while the first load is still running
		ok := h.show(newRow(1, 1), 7, frame)
		inner = &ok
	}

	require.True(t, h.show(newRow(1, 1), 0, frame))
	require.NotNil(t, inner)
	assert.False(t, *inner)
	assert.Equal(t, 1, h.loader.calls)
	assert.Equal(t, 1, h.store.gets)
}

func TestClearAll(t *testing.T) {
	h := newHarness(t)

	require.True(t, h.show(newRow(1, 1), 0, h.guard.BeginFrame()))
	require.True(t, h.show(newRow(1, 2), 1, h.guard.BeginFrame()))
	require.True(t, h.show(newRow(2, 2), 1, h.guard.Frame()+1))

	h.guard.ClearAll()
	assert.Equal(t, uint64(0), h.guard.Frame())
	for _, hd := range h.uploader.handles {
		assert.Equal(t, 1, hd.disposed)
	}

	// nothing to fall back on after a clear
	assert.False(t, h.show(newRow(1, 999), 0, h.guard.BeginFrame()))

	require.True(t, h.show(newRow(1, 1), 0, h.guard.BeginFrame()))
	assert.Equal(t, 2, h.loader.calls)
}

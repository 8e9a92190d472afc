package loader

import (
	"bytes"
	"context"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	platformerrors "github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/image/bmp"

	"github.com/waozixyz/iconview/render"
)

func dds(width, height uint32) []byte {
	b := make([]byte, 128)
	copy(b, "DDS ")
	binary.LittleEndian.PutUint32(b[12:], height)
	binary.LittleEndian.PutUint32(b[16:], width)
	return b
}

// pack builds a PC texture pack with UTF-16 names.
func pack(names []string, payloads [][]byte) []byte {
	var table, strs, data bytes.Buffer
	base := 16 + 20*len(names)
	nameOff := base
	for _, n := range names {
		nameOff += 2*len(n) + 2
	}
	dataOff := nameOff

	nameOff = base
	for i, n := range names {
		binary.Write(&table, binary.LittleEndian, uint32(dataOff))
		binary.Write(&table, binary.LittleEndian, int32(len(payloads[i])))
		table.Write([]byte{0, 0, 1, 0})
		binary.Write(&table, binary.LittleEndian, uint32(nameOff))
		binary.Write(&table, binary.LittleEndian, int32(0))
		for _, r := range n {
			binary.Write(&strs, binary.LittleEndian, uint16(r))
		}
		strs.Write([]byte{0, 0})
		nameOff += 2*len(n) + 2
		data.Write(payloads[i])
		dataOff += len(payloads[i])
	}

	var out bytes.Buffer
	out.WriteString("TPF\x00")
	binary.Write(&out, binary.LittleEndian, int32(data.Len()))
	binary.Write(&out, binary.LittleEndian, int32(len(names)))
	out.Write([]byte{0, 3, 1, 0})
	out.Write(table.Bytes())
	out.Write(strs.Bytes())
	out.Write(data.Bytes())
	return out.Bytes()
}

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(w, h)))
	return buf.Bytes()
}

func encodeBMP(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, solid(w, h)))
	return buf.Bytes()
}

func newFS(t *testing.T) fstest.MapFS {
	return fstest.MapFS{
		"menu/hi/01_common.tpf":  {Data: pack([]string{"SB_Icon_01", "SB_Icon_02"}, [][]byte{dds(256, 128), dds(64, 64)})},
		"loose/SB_Icon_03.png":   {Data: encodePNG(t, 16, 8)},
		"single/equip_icons.bmp": {Data: encodeBMP(t, 12, 10)},
	}
}

func TestLoadFromPack(t *testing.T) {
	fsys := newFS(t)
	f := NewFiles(fsys, map[string]string{"01_common": "menu/hi/01_common.tpf"}, WithLogger(zaptest.NewLogger(t)))
	ctx := context.Background()

	data, err := f.LoadBaseTexture(ctx, render.BaseTexture{File: "01_common", Name: "SB_Icon_01"})
	require.NoError(t, err)
	assert.Equal(t, 256, data.Width)
	assert.Equal(t, 128, data.Height)
	assert.Equal(t, ".dds", data.Format)
	assert.Len(t, data.Encoded, 128)
	assert.Nil(t, data.Image)

	// the pack is parsed once
	delete(fsys, "menu/hi/01_common.tpf")
	fsys["menu/hi/01_common.tpf"] = &fstest.MapFile{Data: []byte("garbage")}
	data, err = f.LoadBaseTexture(ctx, render.BaseTexture{File: "01_common", Name: "SB_Icon_02"})
	require.NoError(t, err)
	assert.Equal(t, 64, data.Width)

	f.Reset()
	_, err = f.LoadBaseTexture(ctx, render.BaseTexture{File: "01_common", Name: "SB_Icon_02"})
	assert.ErrorContains(t, err, "tpf read")
}

func TestLoadMissingTextureInPack(t *testing.T) {
	f := NewFiles(newFS(t), map[string]string{"01_common": "menu/hi/01_common.tpf"})

	_, err := f.LoadBaseTexture(context.Background(), render.BaseTexture{File: "01_common", Name: "SB_Icon_09"})
	require.Error(t, err)
	assert.Equal(t, platformerrors.CodeNotFound, platformerrors.GetCode(err))
}

func TestLoadLooseImages(t *testing.T) {
	f := NewFiles(newFS(t), map[string]string{"loose": "loose"})
	ctx := context.Background()

	data, err := f.LoadBaseTexture(ctx, render.BaseTexture{File: "loose", Name: "SB_Icon_03"})
	require.NoError(t, err)
	assert.Equal(t, ".png", data.Format)
	assert.Equal(t, 16, data.Width)
	assert.Equal(t, 8, data.Height)
	require.NotNil(t, data.Image)

	// unregistered names are used as paths
	data, err = f.LoadBaseTexture(ctx, render.BaseTexture{File: "single/equip_icons.bmp", Name: "anything"})
	require.NoError(t, err)
	assert.Equal(t, ".bmp", data.Format)
	assert.Equal(t, 12, data.Width)
	assert.Equal(t, 10, data.Height)

	_, err = f.LoadBaseTexture(ctx, render.BaseTexture{File: "loose", Name: "SB_Icon_04"})
	assert.Equal(t, platformerrors.CodeNotFound, platformerrors.GetCode(err))
}

func TestLoadErrors(t *testing.T) {
	f := NewFiles(newFS(t), nil)

	_, err := f.LoadBaseTexture(context.Background(), render.BaseTexture{File: "nowhere.tpf", Name: "x"})
	require.Error(t, err)
	assert.Equal(t, platformerrors.CodeNotFound, platformerrors.GetCode(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.LoadBaseTexture(ctx, render.BaseTexture{File: "loose", Name: "SB_Icon_03"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPath(t *testing.T) {
	f := NewFiles(fstest.MapFS{}, map[string]string{"01_common": "menu/hi/01_common.tpf"})
	assert.Equal(t, "menu/hi/01_common.tpf", f.Path("01_common"))
	assert.Equal(t, "other", f.Path("other"))
}

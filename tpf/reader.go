// tpf/reader.go

package tpf

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

type entry struct {
	offset         uint32
	size           int32
	format         uint8
	kind           uint8
	mipmaps        uint8
	flags1         uint8
	nameOffset     uint32
	hasFloatStruct bool
	floats         *FloatStruct
}

// Read parses a PC platform TPF container. The reader must also implement
// io.Seeker since names and payloads are addressed by absolute offset.
func Read(r io.ReadSeeker) (*Pack, error) {
	pack := &Pack{}

	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("tpf read: failed to determine size: %w", err)
	}

	// --- 1. Header ---
	headerBuf := make([]byte, HeaderSize)
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("tpf read: failed to seek to header: %w", err)
	}
	if _, err := io.ReadFull(r, headerBuf); err != nil {
		return nil, fmt.Errorf("tpf read: failed to read header: %w", err)
	}

	h := &pack.Header
	copy(h.Magic[:], headerBuf[0:4])
	if !bytes.Equal(h.Magic[:], Magic[:]) {
		return nil, fmt.Errorf("tpf read: invalid magic number %v", h.Magic)
	}
	h.DataSize = int32(readU32LE(headerBuf[4:8]))
	h.FileCount = int32(readU32LE(headerBuf[8:12]))
	h.Platform = Platform(headerBuf[12])
	h.Flag2 = headerBuf[13]
	h.Encoding = Encoding(headerBuf[14])

	if h.Platform != PlatformPC {
		return nil, fmt.Errorf("tpf read: unsupported platform %d", h.Platform)
	}
	if h.FileCount < 0 {
		return nil, fmt.Errorf("tpf read: negative file count %d", h.FileCount)
	}
	if int64(HeaderSize)+int64(h.FileCount)*EntrySize > size {
		return nil, fmt.Errorf("tpf read: file count %d exceeds pack size %d", h.FileCount, size)
	}
	dec, err := nameDecoder(h.Encoding)
	if err != nil {
		return nil, err
	}

	// --- 2. Entry table ---
	entries := make([]entry, h.FileCount)
	entryBuf := make([]byte, EntrySize)
	floatHeaderBuf := make([]byte, 8)
	for i := range entries {
		if _, err := io.ReadFull(r, entryBuf); err != nil {
			return nil, fmt.Errorf("tpf read: failed to read entry %d: %w", i, err)
		}
		e := &entries[i]
		e.offset = readU32LE(entryBuf[0:4])
		e.size = int32(readU32LE(entryBuf[4:8]))
		e.format = entryBuf[8]
		e.kind = entryBuf[9]
		e.mipmaps = entryBuf[10]
		e.flags1 = entryBuf[11]
		e.nameOffset = readU32LE(entryBuf[12:16])
		switch readU32LE(entryBuf[16:20]) {
		case 0:
		case 1:
			e.hasFloatStruct = true
		default:
			return nil, fmt.Errorf("tpf read: entry %d has invalid float struct flag", i)
		}
		if e.size < 0 {
			return nil, fmt.Errorf("tpf read: entry %d has negative size %d", i, e.size)
		}
		if int64(e.offset)+int64(e.size) > size {
			return nil, fmt.Errorf("tpf read: entry %d data [%d, +%d) exceeds pack size %d", i, e.offset, e.size, size)
		}
		if int64(e.nameOffset) >= size {
			return nil, fmt.Errorf("tpf read: entry %d name offset %d exceeds pack size %d", i, e.nameOffset, size)
		}

		if e.hasFloatStruct {
			if _, err := io.ReadFull(r, floatHeaderBuf); err != nil {
				return nil, fmt.Errorf("tpf read: failed to read float struct header for entry %d: %w", i, err)
			}
			fs := &FloatStruct{Unk0: int32(readU32LE(floatHeaderBuf[0:4]))}
			length := int32(readU32LE(floatHeaderBuf[4:8]))
			if length < 0 || length%4 != 0 {
				return nil, fmt.Errorf("tpf read: entry %d float struct has invalid length %d", i, length)
			}
			pos, err := r.Seek(0, io.SeekCurrent)
			if err != nil {
				return nil, fmt.Errorf("tpf read: failed to locate float struct for entry %d: %w", i, err)
			}
			if int64(length) > size-pos {
				return nil, fmt.Errorf("tpf read: entry %d float struct length %d exceeds pack size", i, length)
			}
			raw := make([]byte, length)
			if _, err := io.ReadFull(r, raw); err != nil {
				return nil, fmt.Errorf("tpf read: failed to read float struct for entry %d: %w", i, err)
			}
			fs.Values = make([]float32, length/4)
			for j := range fs.Values {
				fs.Values[j] = math.Float32frombits(readU32LE(raw[j*4:]))
			}
			e.floats = fs
		}
	}

	// --- 3. Names and payloads ---
	pack.Textures = make([]Texture, len(entries))
	for i, e := range entries {
		if e.flags1 == 2 || e.flags1 == 3 {
			return nil, fmt.Errorf("tpf read: entry %d is individually compressed", i)
		}

		name, err := readName(r, int64(e.nameOffset), h.Encoding, dec)
		if err != nil {
			return nil, fmt.Errorf("tpf read: entry %d name: %w", i, err)
		}

		data := make([]byte, e.size)
		if _, err := r.Seek(int64(e.offset), io.SeekStart); err != nil {
			return nil, fmt.Errorf("tpf read: failed to seek to data of %q at %d: %w", name, e.offset, err)
		}
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, fmt.Errorf("tpf read: failed to read data of %q (size %d): %w", name, e.size, err)
		}

		pack.Textures[i] = Texture{
			Name:        name,
			Format:      e.format,
			Type:        e.kind,
			Mipmaps:     e.mipmaps,
			Flags1:      e.flags1,
			Data:        data,
			FloatStruct: e.floats,
		}
	}

	return pack, nil
}

func nameDecoder(enc Encoding) (*encoding.Decoder, error) {
	switch enc {
	case EncodingUTF16:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder(), nil
	case EncodingShiftJIS, EncodingShiftJISAlt:
		return japanese.ShiftJIS.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("tpf read: unknown name encoding %d", enc)
	}
}

// readName reads a terminated string at off.
func readName(r io.ReadSeeker, off int64, enc Encoding, dec *encoding.Decoder) (string, error) {
	if _, err := r.Seek(off, io.SeekStart); err != nil {
		return "", err
	}
	width := 1
	if enc == EncodingUTF16 {
		width = 2
	}

	br := bufio.NewReader(r)
	var raw []byte
	unit := make([]byte, width)
	for {
		if _, err := io.ReadFull(br, unit); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return "", errors.New("unterminated name")
			}
			return "", err
		}
		if isZero(unit) {
			break
		}
		raw = append(raw, unit...)
	}

	out, err := dec.Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	return string(out), nil
}

func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

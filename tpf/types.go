// tpf/types.go

package tpf

// Magic is the TPF container signature.
var Magic = [4]byte{'T', 'P', 'F', 0}

const (
	HeaderSize = 16
	// EntrySize is the fixed part of a PC texture entry; a float struct may follow.
	EntrySize = 20
)

type Platform uint8

const (
	PlatformPC   Platform = 0
	PlatformXbox Platform = 1
	PlatformPS3  Platform = 2
	PlatformPS4  Platform = 4
	PlatformXB1  Platform = 5
)

// Encoding selects how texture names are stored.
type Encoding uint8

const (
	EncodingShiftJIS    Encoding = 0
	EncodingUTF16       Encoding = 1
	EncodingShiftJISAlt Encoding = 2
)

// Header is the fixed container header.
type Header struct {
	Magic     [4]byte
	DataSize  int32
	FileCount int32
	Platform  Platform
	Flag2     uint8
	Encoding  Encoding
}

// FloatStruct is optional per-texture float data.
type FloatStruct struct {
	Unk0   int32
	Values []float32
}

// Texture is one named entry. Data holds the raw DDS file.
type Texture struct {
	Name        string
	Format      uint8
	Type        uint8
	Mipmaps     uint8
	Flags1      uint8
	Data        []byte
	FloatStruct *FloatStruct
}

// Compressed reports whether the payload is individually DCX compressed.
func (t *Texture) Compressed() bool {
	return t.Flags1 == 2 || t.Flags1 == 3
}

// Pack is a parsed TPF container.
type Pack struct {
	Header   Header
	Textures []Texture
}

// Find returns the texture with the given name.
func (p *Pack) Find(name string) (*Texture, bool) {
	for i := range p.Textures {
		if p.Textures[i].Name == name {
			return &p.Textures[i], true
		}
	}
	return nil, false
}

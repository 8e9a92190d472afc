// tpf/utils.go
package tpf

import (
	"encoding/binary"
	"errors"
)

func readU32LE(data []byte) uint32 {
	if len(data) < 4 {
		return 0
	}
	return binary.LittleEndian.Uint32(data)
}

var ddsMagic = []byte("DDS ")

// DDSDimensions returns the pixel size stored in a DDS file header.
func DDSDimensions(data []byte) (width, height int, err error) {
	if len(data) < 20 || string(data[:4]) != string(ddsMagic) {
		return 0, 0, errors.New("tpf: not a DDS file")
	}
	height = int(readU32LE(data[12:16]))
	width = int(readU32LE(data[16:20]))
	return width, height, nil
}

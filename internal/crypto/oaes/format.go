// Package oaes implements the OpenAES stream format TWRP uses for
// encrypted backups.
//
// The stream is a sequence of independent records. Every record holds at
// most MaxChunkSize bytes of plaintext and looks like:
//
//	"OAES" | version | type | options (uint16 LE) | flags | 7 reserved bytes
//	IV (16 bytes)
//	AES ciphertext, padded to the block size when the PAD flag is set
package oaes

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
	"github.com/wal-g/tracelog"
)

const (
	Magic = "OAES"

	BlockSize        = 16
	HeaderSize       = 16
	RecordHeaderSize = HeaderSize + BlockSize

	// MaxRecordSize is the size of every record but the last one.
	MaxRecordSize = 4096
	MaxChunkSize  = MaxRecordSize - RecordHeaderSize

	Version  byte = 0x01
	TypeData byte = 0x02

	OptionECB     uint16 = 0x0001
	OptionCBC     uint16 = 0x0002
	OptionStepOn  uint16 = 0x0004
	OptionStepOff uint16 = 0x0008

	FlagPad byte = 0x01
)

// Error describes malformed ciphertext or an unusable key.
type Error struct {
	error
}

func newError(format string, args ...interface{}) Error {
	return Error{errors.Errorf(format, args...)}
}

func (err Error) Error() string {
	return fmt.Sprintf(tracelog.GetErrorFormatter(), err.error)
}

// HasMagic reports whether peek starts with the OAES marker. It never consumes anything.
func HasMagic(peek []byte) bool {
	return len(peek) >= len(Magic) && string(peek[:len(Magic)]) == Magic
}

type recordHeader struct {
	options uint16
	flags   byte
}

func parseRecordHeader(raw []byte) (recordHeader, error) {
	if len(raw) < HeaderSize {
		return recordHeader{}, newError("truncated record header: %d bytes", len(raw))
	}
	if !HasMagic(raw) {
		return recordHeader{}, newError("bad record magic: %q", raw[:len(Magic)])
	}
	if raw[4] != Version {
		return recordHeader{}, newError("unsupported OAES version %#x", raw[4])
	}
	if raw[5] != TypeData {
		return recordHeader{}, newError("unsupported OAES record type %#x", raw[5])
	}
	header := recordHeader{
		options: binary.LittleEndian.Uint16(raw[6:8]),
		flags:   raw[8],
	}
	if header.isECB() == header.isCBC() {
		return recordHeader{}, newError("record options %#04x must select exactly one of ECB and CBC", header.options)
	}
	return header, nil
}

func (header recordHeader) isECB() bool {
	return header.options&OptionECB != 0
}

func (header recordHeader) isCBC() bool {
	return header.options&OptionCBC != 0
}

func (header recordHeader) padded() bool {
	return header.flags&FlagPad != 0
}

func (header recordHeader) marshal(dst []byte) {
	copy(dst, Magic)
	dst[4] = Version
	dst[5] = TypeData
	binary.LittleEndian.PutUint16(dst[6:8], header.options)
	dst[8] = header.flags
	for i := 9; i < HeaderSize; i++ {
		dst[i] = 0
	}
}

// NormalizeKey zero-pads or truncates the user key to an AES key size
// the same way the TWRP openaes tool does.
func NormalizeKey(key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, newError("empty OAES key")
	}
	size := 32
	switch {
	case len(key) <= 16:
		size = 16
	case len(key) <= 24:
		size = 24
	}
	normalized := make([]byte, size)
	copy(normalized, key)
	return normalized, nil
}

// pad appends 1, 2, ... n so that the length becomes a multiple of BlockSize.
func pad(chunk []byte) []byte {
	padLen := BlockSize - len(chunk)%BlockSize
	if padLen == BlockSize {
		return chunk
	}
	for i := 1; i <= padLen; i++ {
		chunk = append(chunk, byte(i))
	}
	return chunk
}

func unpad(plain []byte) ([]byte, error) {
	if len(plain) == 0 {
		return nil, newError("padded record without data")
	}
	padLen := int(plain[len(plain)-1])
	if padLen == 0 || padLen > BlockSize || padLen > len(plain) {
		return nil, newError("invalid padding length %d", padLen)
	}
	start := len(plain) - padLen
	for i := 0; i < padLen; i++ {
		if plain[start+i] != byte(i+1) {
			return nil, newError("invalid padding, wrong key?")
		}
	}
	return plain[:start], nil
}

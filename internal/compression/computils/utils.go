package computils

import (
	"bytes"
	"strconv"
	"strings"
)

// MaxMagicLength is enough look-ahead to recognise every supported format.
const MaxMagicLength = 16

// TarBlockSize is the size of a tar header block.
const TarBlockSize = 512

var tarMagic = []byte("ustar")

// MatchesMagicBytes reports whether header starts with one of magics.
func MatchesMagicBytes(header []byte, magics [][]byte) bool {
	for _, magic := range magics {
		if bytes.HasPrefix(header, magic) {
			return true
		}
	}
	return false
}

// IsTarHeader reports whether block starts with a tar header, recognised by
// the ustar magic or, for v7 headers, by a matching checksum.
func IsTarHeader(block []byte) bool {
	if len(block) < TarBlockSize {
		return false
	}
	if bytes.HasPrefix(block[257:], tarMagic) {
		return true
	}
	stored, ok := parseOctal(block[148:156])
	if !ok {
		return false
	}
	var unsigned, signed int64
	for i, b := range block[:TarBlockSize] {
		if i >= 148 && i < 156 {
			b = ' '
		}
		unsigned += int64(b)
		signed += int64(int8(b))
	}
	return stored == unsigned || stored == signed
}

func parseOctal(field []byte) (int64, bool) {
	value := strings.Trim(string(field), " \x00")
	if value == "" {
		return 0, false
	}
	parsed, err := strconv.ParseInt(value, 8, 64)
	return parsed, err == nil
}

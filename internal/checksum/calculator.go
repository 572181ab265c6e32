package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
)

// Calculator accumulates the SHA-256 digest TWRP stores next to each backup file.
type Calculator struct {
	hash hash.Hash
}

func NewCalculator() *Calculator {
	return &Calculator{hash: sha256.New()}
}

func (calculator *Calculator) AddData(data []byte) {
	_, _ = calculator.hash.Write(data)
}

// Sum returns the lowercase hex digest of the data seen so far.
func (calculator *Calculator) Sum() string {
	return hex.EncodeToString(calculator.hash.Sum(nil))
}

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/ppiankov/warisan/internal/model"
)

// Key generates a cache key from the canonical form of an input.
// Estates that differ only in trailing zeros ("100" and "100.00") share a key.
func Key(in model.Input) string {
	canonical := fmt.Sprintf("%s|%t|%t|%t|%t|%d|%d",
		in.Estate.String(), in.Father, in.Mother, in.Husband, in.Wife, in.Sons, in.Daughters)
	hash := sha256.Sum256([]byte(canonical))
	return "warisan:v1:" + hex.EncodeToString(hash[:])
}

package tokens

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// Sha256Hex is how refresh tokens are stored: never the raw token itself.
func Sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func NewJTI() string { return uuid.NewString() }

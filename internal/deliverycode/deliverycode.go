// Package deliverycode generates and verifies the one-time secret that
// proves physical receipt of a restock shipment. The plaintext code is
// returned to the caller exactly once at order creation; only a bcrypt hash
// is ever persisted, so a lost code cannot be recovered.
package deliverycode

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// Codes are typed by a human off a delivery note, so the alphabet skips
// characters that are easy to misread (0/O, 1/I/L).
const (
	codeLength = 8
	alphabet   = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

	bcryptCost = 10
)

// Generate returns a new random delivery code and its bcrypt hash.
func Generate() (code string, hash string, err error) {
	buf := make([]byte, codeLength)
	max := big.NewInt(int64(len(alphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", "", fmt.Errorf("failed to generate delivery code: %w", err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	code = string(buf)

	hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcryptCost)
	if err != nil {
		return "", "", fmt.Errorf("failed to hash delivery code: %w", err)
	}

	return code, string(hashed), nil
}

// Verify compares a supplied code against the stored hash. bcrypt's
// comparison does not leak timing information about the stored hash.
func Verify(code, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}

package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt hashes passwords with bcrypt. The plaintext is first compressed to
// a fixed-length HMAC-SHA256 digest keyed with the pepper, a secret held
// only in configuration. bcrypt rejects input longer than 72 bytes; the
// digest keeps long and peppered passwords under that limit without
// truncating them.
type Bcrypt struct {
	cost   int
	pepper []byte
}

// NewBcrypt returns a bcrypt hasher with the given work factor. An empty
// pepper is allowed; the digest step still applies.
func NewBcrypt(cost int, pepper string) *Bcrypt {
	return &Bcrypt{cost: cost, pepper: []byte(pepper)}
}

// Hash bcrypt-hashes the peppered digest of plaintext.
func (h *Bcrypt) Hash(plaintext string) ([]byte, error) {
	return bcrypt.GenerateFromPassword(h.material(plaintext), h.cost)
}

// Verify reports whether plaintext matches the stored hash.
func (h *Bcrypt) Verify(hashed, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), h.material(plaintext)) == nil
}

// material derives the bcrypt input: a base64 HMAC-SHA256 digest, 43 bytes
// regardless of password or pepper length.
func (h *Bcrypt) material(plaintext string) []byte {
	mac := hmac.New(sha256.New, h.pepper)
	mac.Write([]byte(plaintext))
	sum := mac.Sum(nil)

	out := make([]byte, base64.RawStdEncoding.EncodedLen(len(sum)))
	base64.RawStdEncoding.Encode(out, sum)
	return out
}

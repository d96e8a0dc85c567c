// Package hash provides helpers for hashing and verifying secrets.
//
// Typical usage is for password hashing: store only the hash, then verify user
// input by comparing the plaintext against the stored hash. Implementations
// (like bcrypt) live in this package behind a small interface.
package hash

// Hash hashes plaintext values and verifies plaintext against stored hashes.
type Hash interface {
	// Hash returns the hash of the plaintext.
	Hash(plaintext string) ([]byte, error)
	// Verify reports whether plaintext matches the stored hash.
	Verify(hashed, plaintext string) bool
}

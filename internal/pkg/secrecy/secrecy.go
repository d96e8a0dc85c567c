// Package secrecy encrypts secret material at rest, binding each
// ciphertext to the record it belongs to.
package secrecy

// Encryptor defines the interface for encrypting/decrypting.
type Encryptor interface {
	// Encrypt returns ciphertext for the given plaintext and scope.
	Encrypt(plaintext []byte, scope Scope) (ciphertext []byte, err error)
	// Decrypt returns plaintext for the given ciphertext and scope.
	Decrypt(ciphertext []byte, scope Scope) (plaintext []byte, err error)
}

// KeyProvider provides raw AES keys.
// For AES-256-GCM, keys must be 32 bytes.
type KeyProvider interface {
	// Key returns the raw AES key to use for this scope.
	Key(scope Scope) ([]byte, error)
}

// Scope binds a ciphertext to the record that owns it.
// It is used as AAD (Additional Authenticated Data) in AES-GCM, so a secret
// encrypted for one phone number and purpose cannot be decrypted for another.
type Scope struct {
	// Number is the phone number the secret belongs to.
	Number string
	// Purpose is the verification purpose, e.g. "email" or "password_reset".
	Purpose string
}

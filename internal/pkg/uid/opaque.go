package uid

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"sync/atomic"
	"time"
)

// OpaqueToken generates 64-char hex tokens suitable for bearer-style
// credentials such as refresh tokens. Each token is 32 bytes: a millisecond
// timestamp and node/counter prefix for uniqueness across replicas, padded
// with random bytes for unguessability.
type OpaqueToken struct {
	nodeID  [6]byte
	counter uint32
}

// NewOpaqueToken creates a token generator. The node identity is derived
// from the hostname; the counter is seeded from crypto/rand.
func NewOpaqueToken() (*OpaqueToken, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, err
	}

	g := &OpaqueToken{}
	sum := sha256.Sum256([]byte(host))
	copy(g.nodeID[:], sum[:6])

	var seed [4]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return nil, err
	}
	g.counter = uint32(seed[0])<<24 | uint32(seed[1])<<16 | uint32(seed[2])<<8 | uint32(seed[3])

	return g, nil
}

// Generate returns a new 64-char hex token.
func (g *OpaqueToken) Generate() string {
	var raw [32]byte

	ts := uint64(time.Now().UnixMilli())
	raw[0] = byte(ts >> 40)
	raw[1] = byte(ts >> 32)
	raw[2] = byte(ts >> 24)
	raw[3] = byte(ts >> 16)
	raw[4] = byte(ts >> 8)
	raw[5] = byte(ts)

	copy(raw[6:12], g.nodeID[:])

	c := atomic.AddUint32(&g.counter, 1)
	raw[12] = byte(c >> 24)
	raw[13] = byte(c >> 16)
	raw[14] = byte(c >> 8)
	raw[15] = byte(c)

	// Random tail. On failure, hash the deterministic prefix instead.
	if _, err := rand.Read(raw[16:]); err != nil {
		sum := sha256.Sum256(raw[:16])
		copy(raw[16:], sum[:16])
	}

	var buf [64]byte
	hex.Encode(buf[:], raw[:])
	return string(buf[:])
}

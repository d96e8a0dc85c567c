package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidSigningMethod is returned when a token was signed with an
	// unsupported algorithm.
	ErrInvalidSigningMethod = errors.New("invalid JWT signing method")

	// ErrSigningKeyTooShort is returned when the HS512 key carries fewer
	// than 64 bytes.
	ErrSigningKeyTooShort = errors.New("HS512 signing key must be at least 64 bytes (512 bits)")

	// ErrTokenExpired is returned when a token's expiry has passed.
	ErrTokenExpired = errors.New("JWT token has expired")

	// ErrInvalidToken is returned when a token is malformed or fails any
	// other validation.
	ErrInvalidToken = errors.New("invalid token")
)

// JWT issues and validates access tokens.
type JWT interface {
	// Generate signs a token for the given user.
	Generate(uid int64, email string) (string, error)
	// Verify checks the token signature and registered claims and returns
	// the embedded claims.
	Verify(tokenStr string) (Claims, error)
}

// Claims carries the authenticated user on top of the registered claim set.
type Claims struct {
	jwt.RegisteredClaims
	// UserID is the authenticated user identifier.
	UserID int64 `json:"user_id,string"`
	// UserEmail is the authenticated user email.
	UserEmail string `json:"user_email"`
}

// Config holds everything a signer needs.
type Config struct {
	// Secret is the HMAC signing key.
	Secret []byte
	// Issuer is written to the iss claim and required on verification.
	Issuer string
	// Audiences are the accepted aud values.
	Audiences []string
	// TTLMinutes bounds the token lifetime.
	TTLMinutes time.Duration
	// Clock supplies the current time.
	Clock clocker
	// UUID generates the jti claim.
	UUID generator
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

type jwtContextKey struct{}

// SetAuth stores verified claims on the context.
func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, jwtContextKey{}, clm)
}

// GetAuth returns the claims stored by SetAuth, or nil when the request is
// anonymous.
func GetAuth(ctx context.Context) *Claims {
	clm, ok := ctx.Value(jwtContextKey{}).(Claims)
	if !ok {
		return nil
	}

	return &clm
}

package entity

import (
	"errors"
	"time"
)

// ErrOtpAlreadyAuthenticated reports that a verification record was already
// marked authenticated when a second verification attempted to claim it.
var ErrOtpAlreadyAuthenticated = errors.New("account: otp already authenticated")

// OtpRecord is one phone verification attempt. A record moves from pending
// (created by send) to authenticated (claimed by exactly one successful
// verify), and is finally consumed by the signup or password reset that
// redeems it.
type OtpRecord struct {
	ID             int64
	Number         string
	Purpose        OtpPurpose
	SecretKey      []byte // encrypted TOTP secret
	RegisteredCode string // code that authenticated this record
	Authenticated  bool
	Consumed       bool
	CreatedAt      time.Time
}

type NewOtpRecord struct {
	ID        int64
	Number    string
	Purpose   OtpPurpose
	SecretKey []byte
}
